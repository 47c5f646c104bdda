package api

import (
	"context"
	"fmt"

	"pairtrack/internal/board"
	"pairtrack/internal/editor"
	"pairtrack/internal/services"
)

// EditText commits a new value for one of the draft-edited long-text fields.
func (s *BoardService) EditText(ctx context.Context, pairNumber int, field editor.Field, text, changedBy string) (*Pair, error) {
	if field != editor.FieldDescription && field != editor.FieldInstructions {
		return nil, services.Wrap(services.ErrValidation, "board", "edit", fmt.Sprintf("unknown field %q", field), nil)
	}
	session, err := s.session(ctx, pairNumber, changedBy)
	if err != nil {
		return nil, err
	}
	session.Begin(field)
	session.SetDraft(field, text)
	session.Commit(field)
	return s.settle(ctx, session)
}

// SetNotes replaces a pair's freeform notes.
func (s *BoardService) SetNotes(ctx context.Context, pairNumber int, notes, changedBy string) (*Pair, error) {
	session, err := s.session(ctx, pairNumber, changedBy)
	if err != nil {
		return nil, err
	}
	session.SetNotes(notes)
	return s.settle(ctx, session)
}

// ToggleCheck flips a QA checklist entry.
func (s *BoardService) ToggleCheck(ctx context.Context, pairNumber int, check, changedBy string) (*Pair, error) {
	if _, ok := (board.QAChecklist{}).Get(check); !ok {
		return nil, services.Wrap(services.ErrValidation, "board", "check", fmt.Sprintf("unknown check %q", check), nil)
	}
	session, err := s.session(ctx, pairNumber, changedBy)
	if err != nil {
		return nil, err
	}
	session.ToggleCheck(check)
	return s.settle(ctx, session)
}

// ToggleUpload flips an upload-completion flag; the auto-advance rule
// applies when both clips are in.
func (s *BoardService) ToggleUpload(ctx context.Context, pairNumber int, videoB bool, changedBy string) (*Pair, error) {
	session, err := s.session(ctx, pairNumber, changedBy)
	if err != nil {
		return nil, err
	}
	session.ToggleUpload(videoB)
	return s.settle(ctx, session)
}

// Approve forces a pair to complete with a synchronous delivery. Delivery
// failures surface verbatim.
func (s *BoardService) Approve(ctx context.Context, pairNumber int, changedBy string) (*Pair, error) {
	session, err := s.session(ctx, pairNumber, changedBy)
	if err != nil {
		return nil, err
	}
	if err := session.Approve(ctx); err != nil {
		s.outbound.Flush()
		return nil, err
	}
	return s.settle(ctx, session)
}

// Reshoot sends a pair back for another take.
func (s *BoardService) Reshoot(ctx context.Context, pairNumber int, changedBy string) (*Pair, error) {
	session, err := s.session(ctx, pairNumber, changedBy)
	if err != nil {
		return nil, err
	}
	session.RequestReshoot()
	return s.settle(ctx, session)
}

func (s *BoardService) session(ctx context.Context, pairNumber int, changedBy string) (*editor.Session, error) {
	pair, err := s.requireByNumber(ctx, pairNumber)
	if err != nil {
		return nil, err
	}
	opts := append([]editor.Option{editor.WithEditor(changedBy)}, s.sessionOpts...)
	return editor.NewSession(*pair, s.outbound, s.delivery, opts...), nil
}

// settle waits for the session's outbound calls to land and returns the
// persisted record.
func (s *BoardService) settle(ctx context.Context, session *editor.Session) (*Pair, error) {
	s.outbound.Flush()
	return s.Describe(ctx, session.Pair().ID)
}
