package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"pairtrack/internal/board"
	"pairtrack/internal/config"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// SeedPairFolder creates the conventional asset folder for a pair under the
// configured assets directory and fills it with the named files.
func SeedPairFolder(t testing.TB, cfg *config.Config, pairNumber int, files ...string) string {
	t.Helper()

	folder := filepath.Join(cfg.Paths.AssetsDir, board.PairFolderName(pairNumber))
	if err := os.MkdirAll(folder, 0o755); err != nil {
		t.Fatalf("mkdir pair folder: %v", err)
	}
	for _, name := range files {
		WriteFile(t, filepath.Join(folder, name), 64)
	}
	return folder
}
