package api_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"pairtrack/internal/api"
	"pairtrack/internal/board"
	"pairtrack/internal/delivery"
	"pairtrack/internal/editor"
	"pairtrack/internal/logging"
	"pairtrack/internal/services"
	pairsync "pairtrack/internal/sync"
	"pairtrack/internal/testsupport"
)

func newService(t *testing.T) (*api.BoardService, *pairsync.Dispatcher) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	svc := delivery.NewSimpleService(cfg.Paths.AssetsDir, cfg.Paths.ClientDir)
	dispatcher := pairsync.New(logging.NewNop(), st, svc, cfg.Sync.QueueSize)
	t.Cleanup(dispatcher.Close)
	service := api.NewBoardService(st, dispatcher, svc, board.Roster(cfg.Board.Roster))
	return service, dispatcher
}

func TestListAppliesFilters(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	if _, err := service.Assign(ctx, 2, "Nate P.", ""); err != nil {
		t.Fatalf("Assign failed: %v", err)
	}

	pairs, err := service.List(ctx, "", board.Filter{Assignee: "Nate P."})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(pairs) != 1 || pairs[0].PairNumber != 2 {
		t.Fatalf("unexpected pairs %+v", pairs)
	}

	if _, err := service.List(ctx, "limbo", board.Filter{}); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for unknown stage, got %v", err)
	}
}

func TestAssignValidatesRoster(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	pair, err := service.Assign(ctx, 5, "nate p.", "")
	if err != nil {
		t.Fatalf("Assign failed: %v", err)
	}
	if pair.AssignedVA == nil || *pair.AssignedVA != "Nate P." {
		t.Fatalf("assignee %v", pair.AssignedVA)
	}
	if pair.Stage != string(board.StageNeedsAssignment) {
		t.Fatalf("assignment changed stage to %q", pair.Stage)
	}

	if _, err := service.Assign(ctx, 5, "Sam K.", ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected roster rejection, got %v", err)
	}
}

func TestMoveRecordsHistory(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	pair, err := service.Move(ctx, 3, "in_progress", "Joy S.")
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if pair.Stage != string(board.StageInProgress) {
		t.Fatalf("stage %q", pair.Stage)
	}

	history, err := service.History(ctx, 3)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 || history[0].NewStage != "in_progress" || history[0].ChangedBy != "Joy S." {
		t.Fatalf("unexpected history %+v", history)
	}
}

func TestMoveToCompleteDeliversWhenAssetsExist(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	svc := delivery.NewSimpleService(cfg.Paths.AssetsDir, cfg.Paths.ClientDir)
	dispatcher := pairsync.New(logging.NewNop(), st, svc, 16)
	t.Cleanup(dispatcher.Close)
	service := api.NewBoardService(st, dispatcher, svc, board.Roster(cfg.Board.Roster))
	ctx := context.Background()

	testsupport.SeedPairFolder(t, cfg, 5, "video_a.mp4", "video_b.mp4")

	pair, err := service.Move(ctx, 5, "complete", "")
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if pair.Stage != string(board.StageComplete) {
		t.Fatalf("stage %q", pair.Stage)
	}
	dispatcher.Flush()

	got, err := service.DescribeByNumber(ctx, 5)
	if err != nil {
		t.Fatalf("DescribeByNumber failed: %v", err)
	}
	if !got.Delivered || got.ClientFolder == "" {
		t.Fatalf("delivery not recorded: %+v", got)
	}
	if _, err := os.Stat(filepath.Join(got.ClientFolder, "video_a.mp4")); err != nil {
		t.Fatalf("client copy missing: %v", err)
	}
}

func TestMoveToCompleteSilentOnDeliveryFailure(t *testing.T) {
	service, dispatcher := newService(t)
	ctx := context.Background()

	// No asset folder exists, so the background delivery fails.
	pair, err := service.Move(ctx, 6, "complete", "")
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if pair.Stage != string(board.StageComplete) {
		t.Fatalf("stage %q", pair.Stage)
	}
	dispatcher.Flush()

	got, err := service.DescribeByNumber(ctx, 6)
	if err != nil {
		t.Fatalf("DescribeByNumber failed: %v", err)
	}
	if got.Delivered {
		t.Fatal("failed delivery must leave the pair undelivered")
	}
}

func TestEditTextPersistsAndSyncs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	svc := delivery.NewSimpleService(cfg.Paths.AssetsDir, cfg.Paths.ClientDir)
	dispatcher := pairsync.New(logging.NewNop(), st, svc, 16)
	t.Cleanup(dispatcher.Close)
	service := api.NewBoardService(st, dispatcher, svc, board.Roster(cfg.Board.Roster))
	ctx := context.Background()

	folder := testsupport.SeedPairFolder(t, cfg, 12, "video_a.mp4")

	pair, err := service.EditText(ctx, 12, editor.FieldDescription, "ambient vs music, take two", "")
	if err != nil {
		t.Fatalf("EditText failed: %v", err)
	}
	if pair.Description != "ambient vs music, take two" {
		t.Fatalf("description %q", pair.Description)
	}
	data, err := os.ReadFile(filepath.Join(folder, "description.txt"))
	if err != nil {
		t.Fatalf("description artifact missing: %v", err)
	}
	if string(data) != "ambient vs music, take two" {
		t.Fatalf("artifact content %q", data)
	}
}

func TestToggleUploadAutoAdvances(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	if _, err := service.Move(ctx, 4, "in_progress", ""); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if _, err := service.ToggleUpload(ctx, 4, false, ""); err != nil {
		t.Fatalf("ToggleUpload failed: %v", err)
	}
	pair, err := service.ToggleUpload(ctx, 4, true, "")
	if err != nil {
		t.Fatalf("ToggleUpload failed: %v", err)
	}
	if pair.Stage != string(board.StageInternalReview) {
		t.Fatalf("stage %q", pair.Stage)
	}
	if !pair.VideoAUploaded || !pair.VideoBUploaded {
		t.Fatalf("upload flags lost: %+v", pair)
	}
}

func TestApproveSurfacesDeliveryFailure(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	_, err := service.Approve(ctx, 8, "")
	if !errors.Is(err, delivery.ErrFolderNotFound) {
		t.Fatalf("expected folder-not-found, got %v", err)
	}

	// The forced stage change still landed; only delivery failed.
	pair, derr := service.DescribeByNumber(ctx, 8)
	if derr != nil {
		t.Fatalf("DescribeByNumber failed: %v", derr)
	}
	if pair.Stage != string(board.StageComplete) || pair.Delivered {
		t.Fatalf("unexpected pair %+v", pair)
	}
}

func TestReshootDefaultsNotes(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	pair, err := service.Reshoot(ctx, 10, "Nate P.")
	if err != nil {
		t.Fatalf("Reshoot failed: %v", err)
	}
	if pair.Stage != string(board.StageNeedsRevision) {
		t.Fatalf("stage %q", pair.Stage)
	}
	if pair.Notes != board.DefaultReshootNotes {
		t.Fatalf("notes %q", pair.Notes)
	}
}

func TestReshootUsesConfiguredNotes(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	svc := delivery.NewSimpleService(cfg.Paths.AssetsDir, cfg.Paths.ClientDir)
	dispatcher := pairsync.New(logging.NewNop(), st, svc, 16)
	t.Cleanup(dispatcher.Close)
	service := api.NewBoardService(st, dispatcher, svc, board.Roster(cfg.Board.Roster),
		editor.WithReshootNotes("Check framing before the next take"))
	ctx := context.Background()

	pair, err := service.Reshoot(ctx, 10, "Nate P.")
	if err != nil {
		t.Fatalf("Reshoot failed: %v", err)
	}
	if pair.Notes != "Check framing before the next take" {
		t.Fatalf("notes %q", pair.Notes)
	}
}

func TestApproveRetriesDeliveryFromComplete(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	svc := delivery.NewSimpleService(cfg.Paths.AssetsDir, cfg.Paths.ClientDir)
	dispatcher := pairsync.New(logging.NewNop(), st, svc, 16)
	t.Cleanup(dispatcher.Close)
	service := api.NewBoardService(st, dispatcher, svc, board.Roster(cfg.Board.Roster))
	ctx := context.Background()

	// First approve fails delivery because the asset folder is missing,
	// leaving the pair parked in complete but undelivered.
	if _, err := service.Approve(ctx, 9, ""); !errors.Is(err, delivery.ErrFolderNotFound) {
		t.Fatalf("expected folder-not-found, got %v", err)
	}

	testsupport.SeedPairFolder(t, cfg, 9, "video_a.mp4", "video_b.mp4")

	pair, err := service.Approve(ctx, 9, "")
	if err != nil {
		t.Fatalf("second Approve failed: %v", err)
	}
	if !pair.Delivered || pair.ClientFolder == "" {
		t.Fatalf("delivery not recorded: %+v", pair)
	}
}

func TestDeliverUnknownPair(t *testing.T) {
	service, _ := newService(t)
	if _, err := service.Deliver(context.Background(), 79); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStatusCountsStages(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	if _, err := service.Move(ctx, 1, "in_progress", ""); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	status, err := service.Status(ctx)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if status.Pairs != 12 || status.Videos != 24 {
		t.Fatalf("unexpected totals %+v", status)
	}
	if status.Stages["in_progress"] != 1 || status.Stages["needs_assignment"] != 11 {
		t.Fatalf("unexpected stage counts %v", status.Stages)
	}
	if status.Stages["complete"] != 0 {
		t.Fatalf("expected zero-count stage present, got %v", status.Stages)
	}
}
