package editor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"pairtrack/internal/board"
	"pairtrack/internal/delivery"
	"pairtrack/internal/editor"
)

type recordingSink struct {
	effects []board.Effect
}

func (r *recordingSink) SubmitEffects(pairID int64, effects []board.Effect, changedBy string, onDeliver func(*delivery.Result, error)) {
	r.effects = append(r.effects, effects...)
}

type stubDelivery struct {
	err     error
	calls   int
	lastCtx context.Context
}

func (s *stubDelivery) Deliver(ctx context.Context, pairNumber int) (*delivery.Result, error) {
	s.calls++
	s.lastCtx = ctx
	if s.err != nil {
		return nil, s.err
	}
	return &delivery.Result{
		PairNumber:  pairNumber,
		FolderName:  board.PairFolderName(pairNumber),
		Destination: "/client/" + board.PairFolderName(pairNumber),
	}, nil
}

func (s *stubDelivery) SyncDescription(ctx context.Context, pairNumber int, text string) error {
	return nil
}

func reviewPair() board.Pair {
	return board.Pair{
		ID:         12,
		PairNumber: 12,
		Type:       board.TypeAudioChange,
		Stage:      board.StageInternalReview,
		Assignee:   "Joy S.",
	}
}

func countSyncs(effects []board.Effect) int {
	n := 0
	for _, eff := range effects {
		if _, ok := eff.(board.DescriptionSyncEffect); ok {
			n++
		}
	}
	return n
}

func TestCommitAppliesDraftAndArmsIndicator(t *testing.T) {
	now := time.Unix(1000, 0)
	clock := func() time.Time { return now }
	sink := &recordingSink{}
	s := editor.NewSession(reviewPair(), sink, &stubDelivery{}, editor.WithClock(clock))

	s.Begin(editor.FieldDescription)
	s.SetDraft(editor.FieldDescription, "new description")
	s.Commit(editor.FieldDescription)

	if s.Pair().Description != "new description" {
		t.Fatalf("description = %q", s.Pair().Description)
	}
	if countSyncs(sink.effects) != 1 {
		t.Fatalf("expected one description sync, got %v", sink.effects)
	}
	if !s.SyncedIndicator() {
		t.Fatal("indicator should be visible after commit")
	}
	now = now.Add(editor.DefaultIndicatorTTL + time.Millisecond)
	if s.SyncedIndicator() {
		t.Fatal("indicator should expire after the fixed delay")
	}
}

func TestCancelDiscardsDraft(t *testing.T) {
	sink := &recordingSink{}
	pair := reviewPair()
	pair.Description = "original"
	s := editor.NewSession(pair, sink, &stubDelivery{})

	s.Begin(editor.FieldDescription)
	s.SetDraft(editor.FieldDescription, "scratch")
	s.Cancel(editor.FieldDescription)

	if s.Pair().Description != "original" {
		t.Fatalf("description mutated to %q", s.Pair().Description)
	}
	if len(sink.effects) != 0 {
		t.Fatalf("cancel emitted effects: %v", sink.effects)
	}
	if _, active := s.Draft(editor.FieldDescription); active {
		t.Fatal("draft still active after cancel")
	}
}

func TestBeginSeedsDraftFromCurrentValue(t *testing.T) {
	pair := reviewPair()
	pair.Instructions = "existing instructions"
	s := editor.NewSession(pair, &recordingSink{}, &stubDelivery{})

	s.Begin(editor.FieldInstructions)
	draft, active := s.Draft(editor.FieldInstructions)
	if !active || draft != "existing instructions" {
		t.Fatalf("draft = %q active=%v", draft, active)
	}
}

func TestToggleUploadAutoAdvances(t *testing.T) {
	pair := reviewPair()
	pair.Stage = board.StageInProgress
	s := editor.NewSession(pair, &recordingSink{}, &stubDelivery{})

	s.ToggleUpload(false)
	s.ToggleUpload(true)
	if s.Pair().Stage != board.StageInternalReview {
		t.Fatalf("stage = %q", s.Pair().Stage)
	}
}

func TestApproveDeliversSynchronously(t *testing.T) {
	sink := &recordingSink{}
	svc := &stubDelivery{}
	s := editor.NewSession(reviewPair(), sink, svc, editor.WithEditor("Joy S."))

	if err := s.Approve(context.Background()); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	pair := s.Pair()
	if pair.Stage != board.StageComplete || !pair.Delivered {
		t.Fatalf("unexpected pair %+v", pair)
	}
	if pair.ClientFolder != "/client/Pair_12" {
		t.Fatalf("client folder %q", pair.ClientFolder)
	}
	if svc.calls != 1 {
		t.Fatalf("delivery calls = %d", svc.calls)
	}
	if !s.Closed() {
		t.Fatal("session should close on successful approve")
	}
}

func TestApproveSurfacesDeliveryErrorVerbatim(t *testing.T) {
	svc := &stubDelivery{err: errors.New("Folder Pair_12 not found in our Drive")}
	s := editor.NewSession(reviewPair(), &recordingSink{}, svc)

	err := s.Approve(context.Background())
	if err == nil || err.Error() != "Folder Pair_12 not found in our Drive" {
		t.Fatalf("expected verbatim delivery error, got %v", err)
	}
	if s.Closed() {
		t.Fatal("session must stay open on delivery failure")
	}
	if s.Pair().Delivered {
		t.Fatal("delivered must not be set on failure")
	}
}

func TestApproveSkipsDeliveryWhenAlreadyDelivered(t *testing.T) {
	pair := reviewPair()
	pair.Delivered = true
	pair.ClientFolder = "/client/Pair_12"
	svc := &stubDelivery{}
	s := editor.NewSession(pair, &recordingSink{}, svc)

	if err := s.Approve(context.Background()); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if svc.calls != 0 {
		t.Fatalf("delivery calls = %d", svc.calls)
	}
	if !s.Closed() {
		t.Fatal("session should close")
	}
}

func TestApproveDeliversPairAlreadyComplete(t *testing.T) {
	pair := reviewPair()
	pair.Stage = board.StageComplete
	svc := &stubDelivery{}
	s := editor.NewSession(pair, &recordingSink{}, svc)

	if err := s.Approve(context.Background()); err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if svc.calls != 1 {
		t.Fatalf("delivery calls = %d", svc.calls)
	}
	if !s.Pair().Delivered {
		t.Fatal("pair should be delivered")
	}
}

func TestRequestReshootDefaultsNotesAndCloses(t *testing.T) {
	s := editor.NewSession(reviewPair(), &recordingSink{}, &stubDelivery{})
	s.RequestReshoot()

	pair := s.Pair()
	if pair.Stage != board.StageNeedsRevision {
		t.Fatalf("stage = %q", pair.Stage)
	}
	if pair.Notes != board.DefaultReshootNotes {
		t.Fatalf("notes = %q", pair.Notes)
	}
	if !s.Closed() {
		t.Fatal("session should close after reshoot request")
	}
}

func TestRequestReshootUsesConfiguredNotes(t *testing.T) {
	s := editor.NewSession(reviewPair(), &recordingSink{}, &stubDelivery{},
		editor.WithReshootNotes("Bring the tripod this time"))
	s.RequestReshoot()

	if s.Pair().Notes != "Bring the tripod this time" {
		t.Fatalf("notes = %q", s.Pair().Notes)
	}
}

func TestSyncedIndicatorHonorsConfiguredTTL(t *testing.T) {
	now := time.Unix(1000, 0)
	clock := func() time.Time { return now }
	s := editor.NewSession(reviewPair(), &recordingSink{}, &stubDelivery{},
		editor.WithClock(clock), editor.WithIndicatorTTL(10*time.Second))

	s.Begin(editor.FieldDescription)
	s.SetDraft(editor.FieldDescription, "longer indicator")
	s.Commit(editor.FieldDescription)

	now = now.Add(5 * time.Second)
	if !s.SyncedIndicator() {
		t.Fatal("indicator should still be visible")
	}
	now = now.Add(5*time.Second + time.Millisecond)
	if s.SyncedIndicator() {
		t.Fatal("indicator should expire after the configured delay")
	}
}
