package delivery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"pairtrack/internal/board"
	"pairtrack/internal/fileutil"
	"pairtrack/internal/services"
)

var (
	// ErrFolderNotFound indicates the pair's asset folder is absent.
	ErrFolderNotFound = fmt.Errorf("%w: pair folder missing", services.ErrNotFound)
	// ErrNoFiles indicates the pair folder exists but holds no assets.
	ErrNoFiles = fmt.Errorf("%w: no files in pair folder", services.ErrNotFound)
)

// Result describes a completed delivery.
type Result struct {
	PairNumber  int
	FolderName  string
	Destination string
	Copied      []string
}

// Service performs the client-facing delivery workflow for a pair: copy the
// finished assets into the client location and mirror description edits into
// the asset store.
type Service interface {
	Deliver(ctx context.Context, pairNumber int) (*Result, error)
	SyncDescription(ctx context.Context, pairNumber int, text string) error
}

// descriptionFile is the side artifact written next to the pair's assets.
const descriptionFile = "description.txt"

// SimpleService copies pair folders between two local directory trees.
type SimpleService struct {
	AssetsDir string
	ClientDir string
}

// NewSimpleService constructs a filesystem-backed delivery service.
func NewSimpleService(assetsDir, clientDir string) *SimpleService {
	return &SimpleService{AssetsDir: assetsDir, ClientDir: clientDir}
}

func (s *SimpleService) Deliver(ctx context.Context, pairNumber int) (*Result, error) {
	if !board.ValidPairNumber(pairNumber) {
		return nil, services.Wrap(services.ErrValidation, "delivery", "deliver", fmt.Sprintf("invalid pair number %d (1-%d)", pairNumber, board.MaxPairNumber), nil)
	}

	folderName := board.PairFolderName(pairNumber)
	sourceDir := filepath.Join(s.AssetsDir, folderName)
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, folderName)
		}
		return nil, fmt.Errorf("read pair folder: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, folderName)
	}
	sort.Strings(names)

	destDir := filepath.Join(s.ClientDir, folderName)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, fmt.Errorf("create client folder: %w", err)
	}

	copied := make([]string, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := fileutil.CopyFileVerified(filepath.Join(sourceDir, name), filepath.Join(destDir, name)); err != nil {
			return nil, fmt.Errorf("copy %s: %w", name, err)
		}
		copied = append(copied, name)
	}

	return &Result{
		PairNumber:  pairNumber,
		FolderName:  folderName,
		Destination: destDir,
		Copied:      copied,
	}, nil
}

func (s *SimpleService) SyncDescription(ctx context.Context, pairNumber int, text string) error {
	if !board.ValidPairNumber(pairNumber) {
		return services.Wrap(services.ErrValidation, "delivery", "sync description", fmt.Sprintf("invalid pair number %d (1-%d)", pairNumber, board.MaxPairNumber), nil)
	}

	folderName := board.PairFolderName(pairNumber)
	sourceDir := filepath.Join(s.AssetsDir, folderName)
	info, err := os.Stat(sourceDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFolderNotFound, folderName)
		}
		return fmt.Errorf("stat pair folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("pair folder %q is not a directory", sourceDir)
	}

	target := filepath.Join(sourceDir, descriptionFile)
	if err := os.WriteFile(target, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write description: %w", err)
	}
	return nil
}
