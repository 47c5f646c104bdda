package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"pairtrack/internal/board"
	"pairtrack/internal/daemon"
	"pairtrack/internal/editor"
	"pairtrack/internal/logging"
	"pairtrack/internal/logs"
	"pairtrack/internal/services"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Pairtrack", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.log().Debug("daemon stop requested")
	s.daemon.Stop()
	resp.Stopped = true
	s.log().Info("daemon stopped via IPC")
	return nil
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	resp.LockPath = status.LockFilePath
	resp.BoardDBPath = status.BoardDBPath
	resp.Stages = status.Board.Stages
	resp.Pairs = status.Board.Pairs
	resp.Videos = status.Board.Videos
	resp.Complete = status.Board.Complete
	resp.Delivered = status.Board.Delivered
	resp.APIAddress = s.daemon.APIAddr()
	resp.Preflight = make([]Check, 0, len(status.Preflight))
	for _, result := range status.Preflight {
		resp.Preflight = append(resp.Preflight, Check{
			Name:   result.Name,
			Ready:  result.Passed,
			Detail: result.Detail,
		})
	}
	return nil
}

func (s *service) BoardList(req BoardListRequest, resp *BoardListResponse) error {
	filter := board.Filter{Assignee: req.Assignee, Search: req.Search}
	if req.Type != "" {
		pairType, ok := board.ParseType(req.Type)
		if !ok {
			return fmt.Errorf("unknown pair type %q", req.Type)
		}
		filter.Type = pairType
	}
	pairs, err := s.daemon.Board().List(s.ctx, req.Stage, filter)
	if err != nil {
		return err
	}
	resp.Pairs = pairs
	return nil
}

func (s *service) BoardDescribe(req BoardDescribeRequest, resp *BoardDescribeResponse) error {
	pair, err := s.daemon.Board().DescribeByNumber(s.ctx, req.PairNumber)
	if err != nil {
		return err
	}
	resp.Pair = *pair
	return nil
}

func (s *service) BoardMove(req BoardMoveRequest, resp *PairResponse) error {
	ctx := services.WithStage(s.ctx, req.Stage)
	logging.WithContext(ctx, s.log()).Debug("board move requested",
		logging.Int("pair_number", req.PairNumber))
	pair, err := s.daemon.Board().Move(ctx, req.PairNumber, req.Stage, req.ChangedBy)
	if err != nil {
		return err
	}
	resp.Pair = *pair
	return nil
}

func (s *service) BoardAssign(req BoardAssignRequest, resp *PairResponse) error {
	pair, err := s.daemon.Board().Assign(s.ctx, req.PairNumber, req.Name, req.ChangedBy)
	if err != nil {
		return err
	}
	resp.Pair = *pair
	return nil
}

func (s *service) BoardEdit(req BoardEditRequest, resp *PairResponse) error {
	svc := s.daemon.Board()
	var (
		pair *Pair
		err  error
	)
	switch {
	case req.Check != "":
		pair, err = svc.ToggleCheck(s.ctx, req.PairNumber, req.Check, req.ChangedBy)
	case req.Upload != "":
		if req.Upload != "a" && req.Upload != "b" {
			return fmt.Errorf("unknown upload slot %q", req.Upload)
		}
		pair, err = svc.ToggleUpload(s.ctx, req.PairNumber, req.Upload == "b", req.ChangedBy)
	case req.Field == "notes":
		pair, err = svc.SetNotes(s.ctx, req.PairNumber, req.Text, req.ChangedBy)
	case req.Field == "description":
		pair, err = svc.EditText(s.ctx, req.PairNumber, editor.FieldDescription, req.Text, req.ChangedBy)
	case req.Field == "instructions":
		pair, err = svc.EditText(s.ctx, req.PairNumber, editor.FieldInstructions, req.Text, req.ChangedBy)
	default:
		return fmt.Errorf("unknown edit field %q", req.Field)
	}
	if err != nil {
		return err
	}
	resp.Pair = *pair
	return nil
}

func (s *service) BoardPatch(req BoardPatchRequest, resp *PairResponse) error {
	if req.ID <= 0 {
		return fmt.Errorf("invalid pair id %d", req.ID)
	}
	pair, err := s.daemon.Board().Patch(s.ctx, req.ID, req.Fields, req.ChangedBy)
	if err != nil {
		return err
	}
	resp.Pair = *pair
	return nil
}

func (s *service) Approve(req ApproveRequest, resp *PairResponse) error {
	s.log().Debug("approve requested", logging.Int("pair_number", req.PairNumber))
	pair, err := s.daemon.Board().Approve(s.ctx, req.PairNumber, req.ChangedBy)
	if err != nil {
		return err
	}
	resp.Pair = *pair
	return nil
}

func (s *service) Reshoot(req ReshootRequest, resp *PairResponse) error {
	s.log().Debug("reshoot requested", logging.Int("pair_number", req.PairNumber))
	pair, err := s.daemon.Board().Reshoot(s.ctx, req.PairNumber, req.ChangedBy)
	if err != nil {
		return err
	}
	resp.Pair = *pair
	return nil
}

func (s *service) Deliver(req DeliverRequest, resp *DeliverResponse) error {
	ctx := services.WithRequestID(s.ctx, uuid.NewString())
	logger := logging.WithContext(ctx, s.log())
	logger.Debug("delivery requested", logging.Int("pair_number", req.PairNumber))
	result, err := s.daemon.Board().Deliver(ctx, req.PairNumber)
	if err != nil {
		return err
	}
	resp.Result = *result
	logger.Info("pair delivered",
		logging.Int("pair_number", req.PairNumber),
		logging.String("destination", result.Destination))
	return nil
}

func (s *service) SyncDescription(req SyncDescriptionRequest, resp *PairResponse) error {
	pair, err := s.daemon.Board().SyncDescription(s.ctx, req.PairNumber, req.Description)
	if err != nil {
		return err
	}
	resp.Pair = *pair
	return nil
}

func (s *service) History(req HistoryRequest, resp *HistoryResponse) error {
	entries, err := s.daemon.Board().History(s.ctx, req.PairNumber)
	if err != nil {
		return err
	}
	resp.Entries = entries
	return nil
}

func (s *service) LogTail(req LogTailRequest, resp *LogTailResponse) error {
	logPath := s.daemon.LogPath()
	if logPath == "" {
		resp.Offset = 0
		return nil
	}
	wait := time.Duration(req.WaitMillis) * time.Millisecond
	if wait <= 0 && req.Follow {
		wait = time.Second
	}
	options := logs.TailOptions{
		Offset: req.Offset,
		Limit:  req.Limit,
		Follow: req.Follow,
		Wait:   wait,
	}
	ctx := s.ctx
	if req.Follow && wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, wait+500*time.Millisecond)
		defer cancel()
	}
	result, err := logs.Tail(ctx, logPath, options)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			resp.Offset = result.Offset
			return nil
		}
		return err
	}
	resp.Lines = result.Lines
	resp.Offset = result.Offset
	return nil
}

func (s *service) DatabaseHealth(_ DatabaseHealthRequest, resp *DatabaseHealthResponse) error {
	health, err := s.daemon.DatabaseHealth(s.ctx)
	if err != nil && health.Error == "" {
		return err
	}
	resp.DBPath = health.DBPath
	resp.DatabaseExists = health.DatabaseExists
	resp.DatabaseReadable = health.DatabaseReadable
	resp.StoreVersion = health.StoreVersion
	resp.TableExists = health.TableExists
	resp.ColumnsPresent = append(resp.ColumnsPresent, health.ColumnsPresent...)
	resp.MissingColumns = append(resp.MissingColumns, health.MissingColumns...)
	resp.IntegrityCheck = health.IntegrityCheck
	resp.TotalPairs = health.TotalPairs
	resp.Error = health.Error
	if err != nil {
		return err
	}
	return nil
}
