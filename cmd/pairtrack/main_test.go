package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pairtrack/internal/config"
	"pairtrack/internal/daemon"
	"pairtrack/internal/ipc"
	"pairtrack/internal/logging"
	"pairtrack/internal/store"
	"pairtrack/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	store      *store.Store
	daemon     *daemon.Daemon
	server     *ipc.Server
	socketPath string
	configPath string
	cancel     context.CancelFunc
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	cfg.Paths.APIBind = ""

	configPath := filepath.Join(t.TempDir(), "config.toml")
	writeTestConfig(t, configPath, cfg)

	st := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()

	d, err := daemon.New(cfg, st, logger)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := d.Start(ctx); err != nil {
		cancel()
		t.Fatalf("daemon.Start: %v", err)
	}

	socketPath := filepath.Join(cfg.Paths.LogDir, "cli.sock")
	srv, err := ipc.NewServer(ctx, socketPath, d, logger)
	if err != nil {
		cancel()
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping CLI test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()

	env := &cliTestEnv{
		cfg:        cfg,
		store:      st,
		daemon:     d,
		server:     srv,
		socketPath: socketPath,
		configPath: configPath,
		cancel:     cancel,
	}

	t.Cleanup(func() {
		cancel()
		srv.Close()
		d.Close()
	})

	return env
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\nassets_dir = %q\nclient_dir = %q\napi_bind = %q\n",
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		cfg.Paths.AssetsDir,
		cfg.Paths.ClientDir,
		cfg.Paths.APIBind,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, socket, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--socket", socket}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLIBoardAndShowCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"board"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if !strings.Contains(out, "needs_assignment") || !strings.Contains(out, "Pair_01") {
		t.Fatalf("unexpected board output: %q", out)
	}

	out, _, err = runCLI(t, []string{"board", "--stage", "complete"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("board --stage: %v", err)
	}
	if !strings.Contains(out, "No pairs match") {
		t.Fatalf("expected empty complete stage, got %q", out)
	}

	out, _, err = runCLI(t, []string{"show", "5"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "Pair_05") || !strings.Contains(out, "Checklist:") {
		t.Fatalf("unexpected show output: %q", out)
	}

	if _, _, err := runCLI(t, []string{"show", "99"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected out-of-range pair to fail")
	}
}

func TestCLIMoveAssignEditFlow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"assign", "5", "nate p."}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if !strings.Contains(out, "assigned to Nate P.") {
		t.Fatalf("unexpected assign output: %q", out)
	}

	_, _, err = runCLI(t, []string{"assign", "5", "nobody"}, env.socketPath, env.configPath)
	if err == nil {
		t.Fatal("expected off-roster assign to fail")
	}

	out, _, err = runCLI(t, []string{"move", "5", "in_progress"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !strings.Contains(out, "moved to in_progress") {
		t.Fatalf("unexpected move output: %q", out)
	}

	if _, _, err := runCLI(t, []string{"move", "5", "nowhere"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected unknown stage to fail")
	}

	out, _, err = runCLI(t, []string{"edit", "notes", "5", "watch", "the", "framing"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("edit notes: %v", err)
	}
	if !strings.Contains(out, "notes updated") {
		t.Fatalf("unexpected edit output: %q", out)
	}

	if _, _, err := runCLI(t, []string{"edit", "upload", "5", "a"}, env.socketPath, env.configPath); err != nil {
		t.Fatalf("edit upload a: %v", err)
	}
	out, _, err = runCLI(t, []string{"edit", "upload", "5", "b"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("edit upload b: %v", err)
	}
	if !strings.Contains(out, "internal_review") {
		t.Fatalf("expected auto-advance message, got %q", out)
	}

	out, _, err = runCLI(t, []string{"history", "5"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "in_progress") || !strings.Contains(out, "internal_review") {
		t.Fatalf("unexpected history output: %q", out)
	}
}

func TestCLIApproveAndDeliver(t *testing.T) {
	env := setupCLITestEnv(t)

	testsupport.SeedPairFolder(t, env.cfg, 3, "take_a.mp4", "take_b.mp4")
	out, _, err := runCLI(t, []string{"approve", "3"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if !strings.Contains(out, "Pair 3 approved") || !strings.Contains(out, "Delivered to") {
		t.Fatalf("unexpected approve output: %q", out)
	}

	if _, _, err := runCLI(t, []string{"deliver", "4"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected delivery without assets to fail")
	}

	out, _, err = runCLI(t, []string{"reshoot", "6"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("reshoot: %v", err)
	}
	if !strings.Contains(out, "needs_revision") {
		t.Fatalf("unexpected reshoot output: %q", out)
	}
}

func TestCLIStatusAndHealth(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "Running:   yes") || !strings.Contains(out, "needs_assignment") {
		t.Fatalf("unexpected status output: %q", out)
	}

	out, _, err = runCLI(t, []string{"health"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if !strings.Contains(out, "board.db") || !strings.Contains(out, "Total pairs:") {
		t.Fatalf("unexpected health output: %q", out)
	}
}

func TestCLIConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "Wrote sample configuration") {
		t.Fatalf("unexpected config init output: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected sample config at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", ""); err == nil {
		t.Fatal("expected second init without --overwrite to fail")
	}

	out, _, err = runCLI(t, []string{"config", "path"}, "", target)
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("expected resolved path %s, got %q", target, out)
	}

	out, _, err = runCLI(t, []string{"config", "show"}, "", target)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "[paths]") || !strings.Contains(out, "roster") {
		t.Fatalf("unexpected config show output: %q", out)
	}
}
