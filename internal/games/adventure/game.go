// Package adventure implements Chapter Conquest: a tile grid the player walks
// with the keyboard, stopping at question checkpoints on the way to the exit.
//
// The game is a plain state machine driven by named events (Load, Fail, Step,
// RequestInteract, SubmitAnswer, DismissFeedback). It knows nothing about the
// terminal; the platform feeds it one input frame per tick and paints it.
package adventure

import (
	"fmt"

	"github.com/stubro-ai/stubro/internal/config"
	"github.com/stubro-ai/stubro/internal/core"
)

// GameID identifies the adventure in score storage.
const GameID = "chapter_conquest"

// Feedback is the outcome of the last submitted answer.
type Feedback struct {
	Correct bool
	Message string
	Answer  string // What the player typed
}

// Game holds one adventure session.
type Game struct {
	cfg   config.AdventureConfig
	state State
	tick  uint64

	level     *Level
	pos       core.Vec // Top-left of the player's tile-sized footprint, pixels
	score     int
	completed map[int]bool
	active    *Interaction
	feedback  *Feedback
	err       error
}

// New creates a game waiting for its level.
func New(cfg config.AdventureConfig) *Game {
	return &Game{
		cfg:       cfg,
		state:     StateGenerating,
		completed: make(map[int]bool),
	}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name, including the level title when known.
func (g *Game) Title() string {
	if g.level != nil && g.level.Title != "" {
		return "Chapter Conquest: " + g.level.Title
	}
	return "Chapter Conquest"
}

// Load installs a generated level and starts play.
// An invalid level moves the game to the error state.
func (g *Game) Load(level *Level) error {
	if g.state != StateGenerating {
		return transitionError("load", g.state)
	}
	if level == nil {
		g.fail(fmt.Errorf("%w: generator returned no level", ErrMalformedLevel))
		return g.err
	}
	if err := level.Validate(); err != nil {
		g.fail(err)
		return err
	}

	g.level = level
	g.pos = core.Vec{X: float64(level.PlayerStart.X), Y: float64(level.PlayerStart.Y)}.Scale(g.cfg.TileSize)
	g.state = StatePlaying
	return nil
}

// Fail records a generation failure. The error state is terminal.
func (g *Game) Fail(err error) error {
	if g.state != StateGenerating {
		return transitionError("fail", g.state)
	}
	g.fail(err)
	return nil
}

func (g *Game) fail(err error) {
	g.err = err
	g.state = StateError
}

// Step advances the game by one tick. Only the playing state reacts:
// an interact press is handled first, then movement.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.state != StatePlaying {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionInteract) && g.RequestInteract() {
		return core.StepResult{State: g.State()}
	}

	moved := g.move(in)
	return core.StepResult{State: g.State(), Moved: moved}
}

// RequestInteract looks for an open checkpoint at or orthogonally next to
// the player and, if one is found, pauses movement to ask its question.
func (g *Game) RequestInteract() bool {
	if g.state != StatePlaying {
		return false
	}
	in, ok := g.findNearby()
	if !ok {
		return false
	}
	g.active = in
	g.state = StateInteraction
	return true
}

// SubmitAnswer grades the answer for the active checkpoint.
// A correct answer completes the checkpoint and scores it once.
func (g *Game) SubmitAnswer(answer string) (Feedback, error) {
	if g.state != StateInteraction || g.active == nil {
		return Feedback{}, transitionError("submit answer", g.state)
	}

	fb := Feedback{Answer: answer}
	if IsCorrect(answer, g.active.Answer) {
		fb.Correct = true
		fb.Message = g.active.SuccessMessage
		if !g.completed[g.active.ID] {
			g.completed[g.active.ID] = true
			g.score += g.cfg.Reward
		}
	} else {
		fb.Message = g.active.FailureMessage
	}

	g.feedback = &fb
	g.state = StateFeedback
	return fb, nil
}

// DismissFeedback closes the feedback and resumes play.
func (g *Game) DismissFeedback() error {
	if g.state != StateFeedback {
		return transitionError("dismiss feedback", g.state)
	}
	g.feedback = nil
	g.active = nil
	g.state = StatePlaying
	return nil
}

// Phase returns the current state machine state.
func (g *Game) Phase() State {
	return g.state
}

// State returns the platform-facing summary.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.state.Terminal(),
		Won:      g.state == StateCompleted,
	}
}

// Level returns the loaded level, or nil while generating or after a failure.
func (g *Game) Level() *Level {
	return g.level
}

// Position returns the player position in pixels.
func (g *Game) Position() core.Vec {
	return g.pos
}

// Score returns the current score.
func (g *Game) Score() int {
	return g.score
}

// Completed reports whether the checkpoint has been answered correctly.
func (g *Game) Completed(id int) bool {
	return g.completed[id]
}

// ActiveInteraction returns the checkpoint being asked, if any.
func (g *Game) ActiveInteraction() (*Interaction, bool) {
	return g.active, g.active != nil
}

// LastFeedback returns the outcome being shown, if any.
func (g *Game) LastFeedback() (Feedback, bool) {
	if g.feedback == nil {
		return Feedback{}, false
	}
	return *g.feedback, true
}

// Err returns the failure that moved the game to the error state.
func (g *Game) Err() error {
	return g.err
}

// ErrorMessage returns the user-facing text for the error state.
func (g *Game) ErrorMessage() string {
	if g.state != StateError {
		return ""
	}
	return FailureMessage(g.err)
}
