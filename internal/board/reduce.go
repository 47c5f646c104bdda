package board

import "strings"

// Event is a board mutation applied through Reduce. Both explicit user
// actions and derived transitions flow through the same reducer so their
// composition stays testable.
type Event interface {
	isEvent()
}

// Assign sets or clears the pair's assignee. An empty name unassigns.
type Assign struct {
	Name string
}

// MoveStage moves the pair to the named stage.
type MoveStage struct {
	Stage Stage
}

// ToggleUpload flips one of the two upload-completion flags.
type ToggleUpload struct {
	VideoB bool // false toggles video A
}

// ToggleCheck flips one named QA checklist entry.
type ToggleCheck struct {
	Name string
}

// SetNotes replaces the freeform notes.
type SetNotes struct {
	Notes string
}

// SetDescription replaces the short description and requests a description
// sync to the asset store.
type SetDescription struct {
	Description string
}

// SetInstructions replaces the long-form filming instructions.
type SetInstructions struct {
	Instructions string
}

// Approve forces the pair to the complete stage. The resulting deliver
// effect is executed synchronously by the caller so failures surface.
type Approve struct{}

// RequestReshoot sends the pair back for another take. Notes, when set,
// overrides the placeholder written into empty notes.
type RequestReshoot struct {
	Notes string
}

// MarkDelivered records a successful delivery. Delivered never resets.
type MarkDelivered struct {
	ClientFolder string
}

func (Assign) isEvent()          {}
func (MoveStage) isEvent()       {}
func (ToggleUpload) isEvent()    {}
func (ToggleCheck) isEvent()     {}
func (SetNotes) isEvent()        {}
func (SetDescription) isEvent()  {}
func (SetInstructions) isEvent() {}
func (Approve) isEvent()         {}
func (RequestReshoot) isEvent()  {}
func (MarkDelivered) isEvent()   {}

// Effect is an outbound side effect requested by a reduction. The reducer
// never performs I/O itself; callers hand effects to the sync dispatcher
// (or run the deliver effect inline for Approve).
type Effect interface {
	isEffect()
}

// PatchEffect asks the store to persist exactly the named fields.
type PatchEffect struct {
	Fields map[string]any
}

// DeliverEffect asks the delivery service to copy the pair's assets to the
// client location.
type DeliverEffect struct {
	PairNumber int
}

// DescriptionSyncEffect mirrors the description into the asset store.
type DescriptionSyncEffect struct {
	PairNumber  int
	Description string
}

func (PatchEffect) isEffect()           {}
func (DeliverEffect) isEffect()         {}
func (DescriptionSyncEffect) isEffect() {}

// Reduce applies one event to a pair and returns the next pair state along
// with the outbound effects the transition requires. It is pure: no I/O, no
// clock, no mutation of the input.
func Reduce(pair Pair, event Event) (Pair, []Effect) {
	switch ev := event.(type) {
	case Assign:
		pair.Assignee = strings.TrimSpace(ev.Name)
		return pair, []Effect{PatchEffect{Fields: map[string]any{"assignee": pair.Assignee}}}

	case MoveStage:
		return moveStage(pair, ev.Stage)

	case ToggleUpload:
		if ev.VideoB {
			pair.VideoBUploaded = !pair.VideoBUploaded
		} else {
			pair.VideoAUploaded = !pair.VideoAUploaded
		}
		effects := []Effect{PatchEffect{Fields: map[string]any{
			"video_a_uploaded": pair.VideoAUploaded,
			"video_b_uploaded": pair.VideoBUploaded,
		}}}
		// Both clips in while filming means the pair is ready for review.
		if pair.UploadsComplete() && (pair.Stage == StageInProgress || pair.Stage == StageNeedsRevision) {
			var moved []Effect
			pair, moved = moveStage(pair, StageInternalReview)
			effects = append(effects, moved...)
		}
		return pair, effects

	case ToggleCheck:
		current, ok := pair.QAChecklist.Get(ev.Name)
		if !ok {
			return pair, nil
		}
		pair.QAChecklist.Set(ev.Name, !current)
		return pair, []Effect{PatchEffect{Fields: map[string]any{"qa_" + ev.Name: !current}}}

	case SetNotes:
		pair.Notes = ev.Notes
		return pair, []Effect{PatchEffect{Fields: map[string]any{"notes": pair.Notes}}}

	case SetDescription:
		pair.Description = ev.Description
		return pair, []Effect{
			PatchEffect{Fields: map[string]any{"description": pair.Description}},
			DescriptionSyncEffect{PairNumber: pair.PairNumber, Description: pair.Description},
		}

	case SetInstructions:
		pair.Instructions = ev.Instructions
		return pair, []Effect{PatchEffect{Fields: map[string]any{"instructions": pair.Instructions}}}

	case Approve:
		next, effects := moveStage(pair, StageComplete)
		// A pair already sitting in complete but never delivered still needs
		// the delivery attempted.
		if !next.Delivered && !hasDeliverEffect(effects) {
			effects = append(effects, DeliverEffect{PairNumber: next.PairNumber})
		}
		return next, effects

	case RequestReshoot:
		placeholder := strings.TrimSpace(ev.Notes)
		if placeholder == "" {
			placeholder = DefaultReshootNotes
		}
		notesChanged := false
		if strings.TrimSpace(pair.Notes) == "" {
			pair.Notes = placeholder
			notesChanged = true
		}
		next, effects := moveStage(pair, StageNeedsRevision)
		if notesChanged {
			patched := false
			for i, eff := range effects {
				if patch, ok := eff.(PatchEffect); ok {
					patch.Fields["notes"] = next.Notes
					effects[i] = patch
					patched = true
				}
			}
			// The stage move is a no-op when the pair already sits in
			// needs_revision, but the placeholder still has to land.
			if !patched {
				effects = append(effects, PatchEffect{Fields: map[string]any{"notes": next.Notes}})
			}
		}
		return next, effects

	case MarkDelivered:
		if pair.Delivered {
			return pair, nil
		}
		pair.Delivered = true
		pair.ClientFolder = ev.ClientFolder
		return pair, []Effect{PatchEffect{Fields: map[string]any{
			"delivered":     true,
			"client_folder": pair.ClientFolder,
		}}}

	default:
		return pair, nil
	}
}

func hasDeliverEffect(effects []Effect) bool {
	for _, eff := range effects {
		if _, ok := eff.(DeliverEffect); ok {
			return true
		}
	}
	return false
}

func moveStage(pair Pair, target Stage) (Pair, []Effect) {
	if _, ok := stageSet[target]; !ok {
		return pair, nil
	}
	if pair.Stage == target {
		return pair, nil
	}
	pair.Stage = target
	effects := []Effect{PatchEffect{Fields: map[string]any{"stage": string(target)}}}
	if target == StageComplete && !pair.Delivered {
		effects = append(effects, DeliverEffect{PairNumber: pair.PairNumber})
	}
	return pair, effects
}
