package daemon

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/gofrs/flock"

	"pairtrack/internal/api"
	"pairtrack/internal/board"
	"pairtrack/internal/config"
	"pairtrack/internal/delivery"
	"pairtrack/internal/editor"
	"pairtrack/internal/logging"
	"pairtrack/internal/preflight"
	"pairtrack/internal/store"
	pairsync "pairtrack/internal/sync"
)

// Daemon coordinates the board store, outbound sync dispatcher, and API
// surfaces, and enforces single-instance execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	outbound *pairsync.Dispatcher
	delivery delivery.Service
	board    *api.BoardService
	logPath  string

	lockPath string
	lock     *flock.Flock

	apiSrv *apiServer

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	PID          int
	BoardDBPath  string
	LockFilePath string
	Board        api.BoardStatus
	Preflight    []preflight.Result
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || st == nil {
		return nil, errors.New("daemon requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	svc := delivery.NewConfiguredService(cfg)
	outbound := pairsync.New(logger, st, svc, cfg.Sync.QueueSize)
	sessionOpts := []editor.Option{
		editor.WithReshootNotes(cfg.Board.ReshootNotes),
	}
	if cfg.Sync.SyncedIndicatorSeconds > 0 {
		sessionOpts = append(sessionOpts, editor.WithIndicatorTTL(time.Duration(cfg.Sync.SyncedIndicatorSeconds)*time.Second))
	}
	boardSvc := api.NewBoardService(st, outbound, svc, board.Roster(cfg.Board.Roster), sessionOpts...)

	d := &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		outbound: outbound,
		delivery: svc,
		board:    boardSvc,
		logPath:  filepath.Join(cfg.Paths.LogDir, "pairtrack.log"),
		lockPath: filepath.Join(cfg.Paths.LogDir, "pairtrackd.lock"),
	}
	d.lock = flock.New(d.lockPath)

	srv, err := newAPIServer(cfg, d, logger)
	if err != nil {
		return nil, err
	}
	d.apiSrv = srv
	return d, nil
}

// Start acquires the daemon lock, runs preflight, and brings up the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another pairtrack daemon instance is already running")
	}

	for _, result := range preflight.RunAll(ctx, d.cfg) {
		if result.Passed {
			continue
		}
		d.logger.Warn("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail))
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if d.apiSrv != nil {
		if err := d.apiSrv.start(d.ctx); err != nil {
			_ = d.lock.Unlock()
			d.cancel()
			d.ctx = nil
			d.cancel = nil
			return err
		}
	}

	d.running.Store(true)
	d.logger.Info("pairtrack daemon started", logging.String("lock", d.lockPath))
	return nil
}

// Stop stops the API server, flushes pending outbound work, and releases
// the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.apiSrv.stop()
	d.outbound.Flush()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("pairtrack daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.outbound != nil {
		d.outbound.Close()
	}
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Board exposes the board service backing the IPC and HTTP surfaces.
func (d *Daemon) Board() *api.BoardService {
	return d.board
}

// DatabaseHealth returns detailed database diagnostics.
func (d *Daemon) DatabaseHealth(ctx context.Context) (store.DatabaseHealth, error) {
	if d.store == nil {
		return store.DatabaseHealth{}, errors.New("board store unavailable")
	}
	return d.store.CheckHealth(ctx)
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// APIAddr reports the bound HTTP API address, or empty when disabled.
func (d *Daemon) APIAddr() string {
	if d.apiSrv == nil {
		return ""
	}
	return d.apiSrv.addr()
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		PID:          os.Getpid(),
		BoardDBPath:  filepath.Join(d.cfg.Paths.DataDir, "board.db"),
		LockFilePath: d.lockPath,
		Preflight:    preflight.RunAll(ctx, d.cfg),
	}
	if summary, err := d.board.Status(ctx); err == nil {
		status.Board = *summary
	}
	return status
}
