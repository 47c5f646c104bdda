package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pairtrack/internal/board"
	"pairtrack/internal/services"
)

// patchColumns is the exact set of fields a partial patch may touch. Anything
// outside the whitelist is rejected as a validation error.
var patchColumns = map[string]struct{}{
	"stage":              {},
	"assignee":           {},
	"notes":              {},
	"description":        {},
	"instructions":       {},
	"drive_folder":       {},
	"client_folder":      {},
	"video_a_uploaded":   {},
	"video_b_uploaded":   {},
	"delivered":          {},
	"qa_camera_position": {},
	"qa_lighting":        {},
	"qa_one_change":      {},
	"qa_duration":        {},
	"qa_resolution":      {},
	"qa_naming":          {},
}

var boolPatchColumns = map[string]struct{}{
	"video_a_uploaded":   {},
	"video_b_uploaded":   {},
	"delivered":          {},
	"qa_camera_position": {},
	"qa_lighting":        {},
	"qa_one_change":      {},
	"qa_duration":        {},
	"qa_resolution":      {},
	"qa_naming":          {},
}

// Patch persists exactly the named fields for one pair and returns the
// updated record. Stage changes append a pair_history row attributed to
// changedBy. Delivered can only move false to true.
func (s *Store) Patch(ctx context.Context, id int64, fields map[string]any, changedBy string) (*board.Pair, error) {
	if len(fields) == 0 {
		return nil, services.Wrap(services.ErrValidation, "store", "patch", "no fields to update", nil)
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, services.Wrap(services.ErrNotFound, "store", "patch", fmt.Sprintf("pair %d", id), nil)
	}

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)
	var newStage board.Stage
	stageChanged := false

	for name, value := range fields {
		if _, ok := patchColumns[name]; !ok {
			return nil, services.Wrap(services.ErrValidation, "store", "patch", fmt.Sprintf("unknown field %q", name), nil)
		}
		arg, err := coercePatchValue(name, value)
		if err != nil {
			return nil, err
		}
		if name == "stage" {
			stage, ok := board.ParseStage(arg.(string))
			if !ok {
				return nil, services.Wrap(services.ErrValidation, "store", "patch", fmt.Sprintf("unknown stage %q", value), nil)
			}
			arg = string(stage)
			if stage != current.Stage {
				newStage = stage
				stageChanged = true
			}
		}
		if name == "delivered" {
			if arg.(int) == 0 && current.Delivered {
				return nil, services.Wrap(services.ErrValidation, "store", "patch", "delivered cannot be reset", nil)
			}
		}
		setClauses = append(setClauses, name+" = ?")
		args = append(args, arg)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, now, id)

	query := `UPDATE pairs SET ` + strings.Join(setClauses, ", ") + ` WHERE id = ?`
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("patch pair: %w", err)
	}

	if stageChanged {
		_, err := s.db.ExecContext(
			ctx,
			`INSERT INTO pair_history (pair_id, old_stage, new_stage, changed_by, changed_at)
             VALUES (?, ?, ?, ?, ?)`,
			id,
			string(current.Stage),
			string(newStage),
			nullableString(strings.TrimSpace(changedBy)),
			now,
		)
		if err != nil {
			return nil, fmt.Errorf("record stage history: %w", err)
		}
	}

	return s.GetByID(ctx, id)
}

func coercePatchValue(name string, value any) (any, error) {
	if _, isBool := boolPatchColumns[name]; isBool {
		b, ok := value.(bool)
		if !ok {
			return nil, services.Wrap(services.ErrValidation, "store", "patch", fmt.Sprintf("field %q expects a boolean", name), nil)
		}
		return boolToInt(b), nil
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case nil:
		return "", nil
	default:
		return nil, services.Wrap(services.ErrValidation, "store", "patch", fmt.Sprintf("field %q expects a string", name), nil)
	}
}
