package board

// DragController maps pointer gestures onto stage moves. The stage mutation
// is committed eagerly on each hover over a new target rather than deferred
// to the drop: the visible column membership tracks the pointer, and a drag
// cancelled outside any target keeps the last hovered stage. This mirrors
// the board's intended interaction model; End never rolls anything back.
type DragController struct {
	activeID int64
	dragging bool
}

// DropTarget identifies what the pointer is currently over: either a stage
// column or another pair (whose stage becomes the candidate target).
type DropTarget struct {
	Stage    Stage
	OverPair *Pair
}

// Start begins a gesture for the pair with the given id.
func (c *DragController) Start(id int64) {
	c.activeID = id
	c.dragging = true
}

// Active returns the id captured by Start while a gesture is in flight.
func (c *DragController) Active() (int64, bool) {
	return c.activeID, c.dragging
}

// Hover resolves the candidate stage from the target and commits the move
// through the reducer. It returns the updated pair and the effects of the
// transition; a nil effect slice means the hover changed nothing (same
// stage, unknown target, or no gesture in flight).
func (c *DragController) Hover(pair Pair, target DropTarget) (Pair, []Effect) {
	if !c.dragging || pair.ID != c.activeID {
		return pair, nil
	}
	stage := target.Stage
	if stage == "" && target.OverPair != nil {
		stage = target.OverPair.Stage
	}
	if _, ok := stageSet[stage]; !ok {
		return pair, nil
	}
	return Reduce(pair, MoveStage{Stage: stage})
}

// End clears the active gesture. The commit already happened during Hover.
func (c *DragController) End() {
	c.activeID = 0
	c.dragging = false
}
