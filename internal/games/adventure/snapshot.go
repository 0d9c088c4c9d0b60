package adventure

import "github.com/stubro-ai/stubro/internal/core"

// Snapshot captures the externally visible game state for rendering, logging
// and determinism tests.
type Snapshot struct {
	Tick        uint64
	State       State
	Score       int
	Position    core.Vec
	Cell        core.Point
	Completed   int
	Total       int
	ActiveID    int // -1 when no checkpoint is being asked
	HasFeedback bool
	Correct     bool
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Tick:      g.tick,
		State:     g.state,
		Score:     g.score,
		Position:  g.pos,
		Completed: len(g.completed),
		ActiveID:  -1,
	}
	if g.level != nil {
		snap.Cell = g.Cell()
		snap.Total = len(g.level.Interactions)
	}
	if g.active != nil {
		snap.ActiveID = g.active.ID
	}
	if g.feedback != nil {
		snap.HasFeedback = true
		snap.Correct = g.feedback.Correct
	}
	return snap
}
