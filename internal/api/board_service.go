package api

import (
	"context"
	"fmt"

	"pairtrack/internal/board"
	"pairtrack/internal/delivery"
	"pairtrack/internal/editor"
	"pairtrack/internal/services"
	"pairtrack/internal/store"
)

// BoardStore abstracts the persistence operations the service needs.
type BoardStore interface {
	List(ctx context.Context, stages ...board.Stage) ([]*board.Pair, error)
	GetByID(ctx context.Context, id int64) (*board.Pair, error)
	GetByNumber(ctx context.Context, pairNumber int) (*board.Pair, error)
	Patch(ctx context.Context, id int64, fields map[string]any, changedBy string) (*board.Pair, error)
	History(ctx context.Context, pairID int64) ([]store.HistoryEntry, error)
	Stats(ctx context.Context) (map[board.Stage]int, error)
	Summary(ctx context.Context) (board.Summary, error)
}

// Outbound is the slice of the sync dispatcher the service drives.
type Outbound interface {
	editor.EffectSink
	SubmitDeliver(pairNumber int, done func(*delivery.Result, error)) bool
	Flush()
}

// BoardService mediates every board operation: it validates input, applies
// the transition reducer, persists through the store, and hands remote side
// effects to the sync dispatcher.
type BoardService struct {
	store       BoardStore
	outbound    Outbound
	delivery    delivery.Service
	roster      board.Roster
	sessionOpts []editor.Option
}

// NewBoardService constructs a BoardService. Session options are applied to
// every editing session the service opens.
func NewBoardService(st BoardStore, outbound Outbound, svc delivery.Service, roster board.Roster, sessionOpts ...editor.Option) *BoardService {
	return &BoardService{store: st, outbound: outbound, delivery: svc, roster: roster, sessionOpts: sessionOpts}
}

// Roster returns the configured assignee roster.
func (s *BoardService) Roster() board.Roster {
	return s.roster
}

// List returns pairs matching the filter, in board order.
func (s *BoardService) List(ctx context.Context, stageFilter string, filter board.Filter) ([]Pair, error) {
	var stages []board.Stage
	if stageFilter != "" {
		stage, ok := board.ParseStage(stageFilter)
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "board", "list", fmt.Sprintf("unknown stage %q", stageFilter), nil)
		}
		stages = append(stages, stage)
	}
	pairs, err := s.store.List(ctx, stages...)
	if err != nil {
		return nil, err
	}
	filtered := make([]*board.Pair, 0, len(pairs))
	for _, pair := range pairs {
		if filter.Match(*pair) {
			filtered = append(filtered, pair)
		}
	}
	return FromPairs(filtered), nil
}

// Describe fetches a single pair by row id.
func (s *BoardService) Describe(ctx context.Context, id int64) (*Pair, error) {
	pair, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, services.Wrap(services.ErrNotFound, "board", "describe", fmt.Sprintf("pair %d", id), nil)
	}
	dto := FromPair(pair)
	return &dto, nil
}

// DescribeByNumber fetches a single pair by board number.
func (s *BoardService) DescribeByNumber(ctx context.Context, pairNumber int) (*Pair, error) {
	pair, err := s.requireByNumber(ctx, pairNumber)
	if err != nil {
		return nil, err
	}
	dto := FromPair(pair)
	return &dto, nil
}

// Move transitions a pair to a new stage. Entering the terminal stage on an
// undelivered pair also triggers a best-effort delivery whose success is
// recorded through a follow-up patch.
func (s *BoardService) Move(ctx context.Context, pairNumber int, stageName, changedBy string) (*Pair, error) {
	stage, ok := board.ParseStage(stageName)
	if !ok {
		return nil, services.Wrap(services.ErrValidation, "board", "move", fmt.Sprintf("unknown stage %q", stageName), nil)
	}
	pair, err := s.requireByNumber(ctx, pairNumber)
	if err != nil {
		return nil, err
	}

	_, effects := board.Reduce(*pair, board.MoveStage{Stage: stage})
	updated := pair
	for _, effect := range effects {
		switch eff := effect.(type) {
		case board.PatchEffect:
			updated, err = s.store.Patch(ctx, pair.ID, eff.Fields, changedBy)
			if err != nil {
				return nil, err
			}
		case board.DeliverEffect:
			// Failures in the drag/move path stay silent; the pair simply
			// remains undelivered.
			id := pair.ID
			s.outbound.SubmitDeliver(eff.PairNumber, func(result *delivery.Result, err error) {
				if err != nil || result == nil {
					return
				}
				_, _ = s.store.Patch(context.Background(), id, map[string]any{
					"delivered":     true,
					"client_folder": result.Destination,
				}, changedBy)
			})
		}
	}

	s.outbound.Flush()
	return s.Describe(ctx, updated.ID)
}

// Assign sets a pair's assignee after roster validation. An empty name
// clears the assignment.
func (s *BoardService) Assign(ctx context.Context, pairNumber int, name, changedBy string) (*Pair, error) {
	resolved := ""
	if board.NormalizeName(name) != "" {
		var ok bool
		resolved, ok = s.roster.Resolve(name)
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "board", "assign", fmt.Sprintf("%q is not on the roster", name), nil)
		}
	}
	pair, err := s.requireByNumber(ctx, pairNumber)
	if err != nil {
		return nil, err
	}
	_, effects := board.Reduce(*pair, board.Assign{Name: resolved})
	updated := pair
	for _, effect := range effects {
		if eff, ok := effect.(board.PatchEffect); ok {
			updated, err = s.store.Patch(ctx, pair.ID, eff.Fields, changedBy)
			if err != nil {
				return nil, err
			}
		}
	}
	dto := FromPair(updated)
	return &dto, nil
}

// Patch applies a partial field update to a pair by row id.
func (s *BoardService) Patch(ctx context.Context, id int64, fields map[string]any, changedBy string) (*Pair, error) {
	updated, err := s.store.Patch(ctx, id, fields, changedBy)
	if err != nil {
		return nil, err
	}
	dto := FromPair(updated)
	return &dto, nil
}

// Deliver runs the delivery workflow synchronously and records the outcome.
func (s *BoardService) Deliver(ctx context.Context, pairNumber int) (*DeliveryResult, error) {
	pair, err := s.requireByNumber(ctx, pairNumber)
	if err != nil {
		return nil, err
	}
	result, err := s.delivery.Deliver(ctx, pairNumber)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Patch(ctx, pair.ID, map[string]any{
		"delivered":     true,
		"client_folder": result.Destination,
	}, ""); err != nil {
		return nil, err
	}
	dto := FromDeliveryResult(result)
	return &dto, nil
}

// SyncDescription updates a pair's description and mirrors it into the
// asset store.
func (s *BoardService) SyncDescription(ctx context.Context, pairNumber int, text string) (*Pair, error) {
	pair, err := s.requireByNumber(ctx, pairNumber)
	if err != nil {
		return nil, err
	}
	updated, err := s.store.Patch(ctx, pair.ID, map[string]any{"description": text}, "")
	if err != nil {
		return nil, err
	}
	if err := s.delivery.SyncDescription(ctx, pairNumber, text); err != nil {
		return nil, err
	}
	dto := FromPair(updated)
	return &dto, nil
}

// History returns the audited stage transitions for a pair.
func (s *BoardService) History(ctx context.Context, pairNumber int) ([]HistoryEntry, error) {
	pair, err := s.requireByNumber(ctx, pairNumber)
	if err != nil {
		return nil, err
	}
	entries, err := s.store.History(ctx, pair.ID)
	if err != nil {
		return nil, err
	}
	return FromHistory(entries), nil
}

// Status aggregates board counts.
func (s *BoardService) Status(ctx context.Context) (*BoardStatus, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, err
	}
	summary, err := s.store.Summary(ctx)
	if err != nil {
		return nil, err
	}
	return &BoardStatus{
		Stages:    MergeStageStats(stats),
		Pairs:     summary.Pairs,
		Videos:    summary.Videos,
		Complete:  summary.Complete,
		Delivered: summary.Delivered,
	}, nil
}

func (s *BoardService) requireByNumber(ctx context.Context, pairNumber int) (*board.Pair, error) {
	if !board.ValidPairNumber(pairNumber) {
		return nil, services.Wrap(services.ErrValidation, "board", "lookup", fmt.Sprintf("invalid pair number %d (1-%d)", pairNumber, board.MaxPairNumber), nil)
	}
	pair, err := s.store.GetByNumber(ctx, pairNumber)
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, services.Wrap(services.ErrNotFound, "board", "lookup", fmt.Sprintf("pair %d", pairNumber), nil)
	}
	return pair, nil
}
