package editor

import (
	"context"
	"time"

	"pairtrack/internal/board"
	"pairtrack/internal/delivery"
)

// Field names the two long-text fields edited through drafts.
type Field string

const (
	FieldDescription  Field = "description"
	FieldInstructions Field = "instructions"
)

// DefaultIndicatorTTL is how long the positive-only "synced" indicator stays
// visible after a description commit.
const DefaultIndicatorTTL = 3 * time.Second

// EffectSink receives the outbound effects of editor mutations. The sync
// dispatcher satisfies it.
type EffectSink interface {
	SubmitEffects(pairID int64, effects []board.Effect, changedBy string, onDeliver func(*delivery.Result, error))
}

// Session is the detail editor for one pair. Long-text fields edit through
// an explicit draft/commit/cancel cycle; everything else applies
// immediately. All mutations flow through the board reducer so the derived
// transitions stay in force.
type Session struct {
	pair      board.Pair
	drafts    map[Field]string
	sink      EffectSink
	delivery  delivery.Service
	changedBy string

	now          func() time.Time
	indicatorTTL time.Duration
	syncedUntil  time.Time
	reshootNotes string

	closed bool
}

// Option customizes a session.
type Option func(*Session)

// WithClock overrides the session clock.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIndicatorTTL overrides the synced-indicator lifetime.
func WithIndicatorTTL(ttl time.Duration) Option {
	return func(s *Session) { s.indicatorTTL = ttl }
}

// WithEditor attributes stage changes made through the session.
func WithEditor(name string) Option {
	return func(s *Session) { s.changedBy = name }
}

// WithReshootNotes overrides the placeholder written into empty notes on a
// reshoot request.
func WithReshootNotes(text string) Option {
	return func(s *Session) { s.reshootNotes = text }
}

// NewSession opens a detail editor over a snapshot of the pair.
func NewSession(pair board.Pair, sink EffectSink, svc delivery.Service, opts ...Option) *Session {
	s := &Session{
		pair:         pair,
		drafts:       make(map[Field]string, 2),
		sink:         sink,
		delivery:     svc,
		now:          time.Now,
		indicatorTTL: DefaultIndicatorTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pair returns the session's current view of the pair.
func (s *Session) Pair() board.Pair {
	return s.pair
}

// Closed reports whether a terminal action ended the session.
func (s *Session) Closed() bool {
	return s.closed
}

// Begin enters edit mode for a field, seeding the draft from the current
// value. Re-entering an active draft keeps the in-progress text.
func (s *Session) Begin(field Field) {
	if _, active := s.drafts[field]; active {
		return
	}
	switch field {
	case FieldDescription:
		s.drafts[field] = s.pair.Description
	case FieldInstructions:
		s.drafts[field] = s.pair.Instructions
	}
}

// Draft returns the in-progress text for a field.
func (s *Session) Draft(field Field) (string, bool) {
	text, ok := s.drafts[field]
	return text, ok
}

// SetDraft replaces the in-progress text without committing it.
func (s *Session) SetDraft(field Field, text string) {
	if _, active := s.drafts[field]; active {
		s.drafts[field] = text
	}
}

// Commit applies the draft to the pair and exits edit mode. Committing the
// description also mirrors it to the asset store and arms the transient
// synced indicator; the indicator expires on schedule whether or not the
// mirror call succeeds.
func (s *Session) Commit(field Field) {
	text, active := s.drafts[field]
	if !active || s.closed {
		return
	}
	delete(s.drafts, field)

	switch field {
	case FieldDescription:
		s.apply(board.SetDescription{Description: text})
		s.syncedUntil = s.now().Add(s.indicatorTTL)
	case FieldInstructions:
		s.apply(board.SetInstructions{Instructions: text})
	}
}

// Cancel discards the draft and exits edit mode without mutating the pair.
func (s *Session) Cancel(field Field) {
	delete(s.drafts, field)
}

// SyncedIndicator reports whether the transient "synced" indicator is
// currently visible.
func (s *Session) SyncedIndicator() bool {
	return s.now().Before(s.syncedUntil)
}

// Assign immediately sets the assignee.
func (s *Session) Assign(name string) {
	s.apply(board.Assign{Name: name})
}

// SetNotes immediately replaces the notes.
func (s *Session) SetNotes(notes string) {
	s.apply(board.SetNotes{Notes: notes})
}

// ToggleUpload immediately flips an upload flag; the reducer's auto-advance
// rule applies.
func (s *Session) ToggleUpload(videoB bool) {
	s.apply(board.ToggleUpload{VideoB: videoB})
}

// ToggleCheck immediately flips a QA checklist entry.
func (s *Session) ToggleCheck(name string) {
	s.apply(board.ToggleCheck{Name: name})
}

// Approve forces the pair to complete and runs the delivery synchronously.
// A delivery failure is returned verbatim and leaves the session open; on
// success the delivery is recorded and the session closes.
func (s *Session) Approve(ctx context.Context) error {
	if s.closed {
		return nil
	}
	next, effects := board.Reduce(s.pair, board.Approve{})
	s.pair = next

	needDeliver := false
	var async []board.Effect
	for _, effect := range effects {
		if _, ok := effect.(board.DeliverEffect); ok {
			needDeliver = true
			continue
		}
		async = append(async, effect)
	}
	if s.sink != nil && len(async) > 0 {
		s.sink.SubmitEffects(s.pair.ID, async, s.changedBy, nil)
	}

	if needDeliver && s.delivery != nil {
		result, err := s.delivery.Deliver(ctx, s.pair.PairNumber)
		if err != nil {
			return err
		}
		s.apply(board.MarkDelivered{ClientFolder: result.Destination})
	}

	s.closed = true
	return nil
}

// RequestReshoot sends the pair back for another take and closes the
// session. Empty notes gain the standard placeholder.
func (s *Session) RequestReshoot() {
	if s.closed {
		return
	}
	s.apply(board.RequestReshoot{Notes: s.reshootNotes})
	s.closed = true
}

func (s *Session) apply(event board.Event) {
	next, effects := board.Reduce(s.pair, event)
	s.pair = next
	if s.sink != nil && len(effects) > 0 {
		s.sink.SubmitEffects(s.pair.ID, effects, s.changedBy, nil)
	}
}
