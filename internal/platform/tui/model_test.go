package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/stubro-ai/stubro/internal/config"
	"github.com/stubro-ai/stubro/internal/core"
	"github.com/stubro-ai/stubro/internal/games/adventure"
	"github.com/stubro-ai/stubro/internal/levelgen"
)

type fakeScores struct {
	keys   []string
	scores []int
}

func (f *fakeScores) SaveScore(sessionID, gameID string, score int) (int64, error) {
	f.keys = append(f.keys, sessionID)
	f.scores = append(f.scores, score)
	return int64(len(f.scores)), nil
}

// cellLevel is a 3x3 open room with one checkpoint next to the start and
// the exit beyond it.
func cellLevel(t *testing.T) *adventure.Level {
	t.Helper()
	grid, start, ok := adventure.ParseLayout([]string{
		"S.E",
		"...",
		"...",
	})
	if !ok {
		t.Fatal("layout has no start")
	}
	return &adventure.Level{
		Title:       "Cells",
		Grid:        grid,
		PlayerStart: start,
		Interactions: []adventure.Interaction{{
			ID:             1,
			Position:       core.Pt(1, 0),
			Question:       "What is the basic unit of life?",
			Answer:         "cell",
			SuccessMessage: "Well done!",
			FailureMessage: "Think smaller.",
		}},
	}
}

func testAdventureConfig() config.AdventureConfig {
	cfg := config.Default().Adventure
	cfg.HoldTicks = 5 // One press moves 10px, so the player stays beside the checkpoint
	return cfg
}

func newTestAdventure(t *testing.T, scores ScoreSaver) AdventureModel {
	t.Helper()
	level := cellLevel(t)
	gen := levelgen.GeneratorFunc(func(context.Context, string) (*adventure.Level, error) {
		return level, nil
	})
	return NewAdventureModel(
		Study{ScoreKey: "chapter:bio9_cell", Title: "The Fundamental Unit of Life", Text: "Cells are the unit of life."},
		AdventureOptions{
			Generator: gen,
			Scores:    scores,
			Config:    testAdventureConfig(),
			Runtime:   core.DefaultConfig(),
		},
	)
}

func updateAdventure(t *testing.T, m AdventureModel, msg tea.Msg) (AdventureModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	am, ok := next.(AdventureModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return am, cmd
}

func tick(t *testing.T, m AdventureModel) (AdventureModel, tea.Cmd) {
	t.Helper()
	return updateAdventure(t, m, TickMsg{Gen: m.run})
}

func loaded(t *testing.T, m AdventureModel) AdventureModel {
	t.Helper()
	m, _ = updateAdventure(t, m, levelMsg{gen: m.run, level: cellLevel(t)})
	if m.Game().Phase() != adventure.StatePlaying {
		t.Fatalf("phase = %v after loading, expected playing", m.Game().Phase())
	}
	return m
}

func typeText(t *testing.T, m AdventureModel, text string) AdventureModel {
	t.Helper()
	for _, r := range text {
		m, _ = updateAdventure(t, m, keyMsg(string(r)))
	}
	return m
}

func TestAdventureFullRun(t *testing.T) {
	scores := &fakeScores{}
	m := loaded(t, newTestAdventure(t, scores))
	if !strings.Contains(m.View(), "Checkpoints answered: 0/1   Score: 0") {
		t.Error("progress line missing before the first answer")
	}

	m, _ = updateAdventure(t, m, keyMsg("e"))
	m, _ = tick(t, m)
	if m.Game().Phase() != adventure.StateInteraction {
		t.Fatalf("phase = %v after interact, expected interaction", m.Game().Phase())
	}
	if !strings.Contains(m.View(), "What is the basic unit of life?") {
		t.Error("question is not shown")
	}

	// Movement keys are letters while answering.
	m = typeText(t, m, "cell")
	if m.input.Value() != "cell" {
		t.Fatalf("input = %q, expected %q", m.input.Value(), "cell")
	}

	m, _ = updateAdventure(t, m, keyMsg("enter"))
	fb, ok := m.Game().LastFeedback()
	if !ok || !fb.Correct {
		t.Fatalf("feedback = %+v, %v; expected a correct answer", fb, ok)
	}
	if m.Game().Score() != 10 {
		t.Errorf("score = %d, expected 10", m.Game().Score())
	}

	m, _ = updateAdventure(t, m, keyMsg("enter"))
	if m.Game().Phase() != adventure.StatePlaying {
		t.Fatalf("phase = %v after dismissing, expected playing", m.Game().Phase())
	}
	if m.input.Value() != "" {
		t.Error("answer buffer should be cleared after feedback")
	}
	if !strings.Contains(m.View(), "Checkpoints answered: 1/1   Score: 10") {
		t.Error("progress line should count the answered checkpoint")
	}

	for i := 0; i < 200 && m.Game().Phase() == adventure.StatePlaying; i++ {
		if i%5 == 0 {
			m, _ = updateAdventure(t, m, keyMsg("d"))
		}
		m, _ = tick(t, m)
	}
	if m.Game().Phase() != adventure.StateCompleted {
		t.Fatalf("phase = %v, expected completed", m.Game().Phase())
	}
	if !strings.Contains(m.View(), "Final score: 10") {
		t.Error("completed panel should show the final score")
	}

	var cmd tea.Cmd
	for i := 0; i < 3; i++ {
		m, cmd = tick(t, m)
	}
	if cmd != nil {
		t.Error("ticks should stop once the run is over")
	}
	if len(scores.scores) != 1 || scores.scores[0] != 10 || scores.keys[0] != "chapter:bio9_cell" {
		t.Errorf("saved scores = %v under %v, expected one score of 10", scores.scores, scores.keys)
	}
}

func TestAdventureEmptyAnswerIsIgnored(t *testing.T) {
	m := loaded(t, newTestAdventure(t, nil))
	m, _ = updateAdventure(t, m, keyMsg("e"))
	m, _ = tick(t, m)

	m = typeText(t, m, "  ")
	m, _ = updateAdventure(t, m, keyMsg("enter"))
	if m.Game().Phase() != adventure.StateInteraction {
		t.Errorf("phase = %v, a blank answer should not be submitted", m.Game().Phase())
	}
}

func TestAdventureWrongAnswer(t *testing.T) {
	m := loaded(t, newTestAdventure(t, nil))
	m, _ = updateAdventure(t, m, keyMsg("e"))
	m, _ = tick(t, m)

	m = typeText(t, m, "atom")
	m, _ = updateAdventure(t, m, keyMsg("enter"))

	fb, _ := m.Game().LastFeedback()
	if fb.Correct || fb.Message != "Think smaller." {
		t.Errorf("feedback = %+v, expected the failure message", fb)
	}
	if !strings.Contains(m.View(), "You answered: atom") {
		t.Error("feedback panel should echo the answer")
	}
	if m.Game().Score() != 0 {
		t.Errorf("score = %d after a wrong answer", m.Game().Score())
	}
}

func TestAdventureDropsStaleLevels(t *testing.T) {
	m := newTestAdventure(t, nil)

	m, _ = updateAdventure(t, m, levelMsg{gen: m.run - 1, level: cellLevel(t)})
	if m.Game().Phase() != adventure.StateGenerating {
		t.Errorf("phase = %v, a level from an older request should be ignored", m.Game().Phase())
	}

	m, _ = updateAdventure(t, m, levelMsg{gen: m.run, err: context.Canceled})
	if m.Game().Phase() != adventure.StateGenerating {
		t.Errorf("phase = %v, a cancelled request is not a failure", m.Game().Phase())
	}
}

func TestAdventureGenerationFailureAndRetry(t *testing.T) {
	m := newTestAdventure(t, nil)

	m, _ = updateAdventure(t, m, levelMsg{gen: m.run, err: adventure.ErrInsufficientCredits})
	if m.Game().Phase() != adventure.StateError {
		t.Fatalf("phase = %v, expected error", m.Game().Phase())
	}
	if !strings.Contains(m.View(), "out of credits") {
		t.Error("error screen should explain the credit problem")
	}

	// Movement is inert in the error state.
	m, _ = updateAdventure(t, m, keyMsg("d"))
	if m.keys.Held(core.ActionRight) {
		t.Error("movement should not be recorded outside playing")
	}

	oldRun := m.run
	m, cmd := updateAdventure(t, m, keyMsg("r"))
	if cmd == nil || m.run != oldRun+1 {
		t.Fatalf("restart should issue a new request (run %d -> %d)", oldRun, m.run)
	}
	if m.Game().Phase() != adventure.StateGenerating {
		t.Errorf("phase = %v after restart, expected generating", m.Game().Phase())
	}
}

func TestAdventureBackTearsDown(t *testing.T) {
	m := loaded(t, newTestAdventure(t, nil))
	ctx := m.ctx

	m, _ = updateAdventure(t, m, keyMsg("esc"))
	if !m.BackToMenu() || !m.Stopped() {
		t.Fatal("esc should stop the run and return to the menu")
	}
	if ctx.Err() == nil {
		t.Error("the generation context should be cancelled")
	}

	_, cmd := tick(t, m)
	if cmd != nil {
		t.Error("ticks should not be re-scheduled after teardown")
	}
}

func TestAdventureQuit(t *testing.T) {
	m := newTestAdventure(t, nil)
	m, cmd := updateAdventure(t, m, keyMsg("q"))
	if !m.IsQuitting() || cmd == nil {
		t.Error("q should quit the program")
	}
	if m.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestGenerateCmd(t *testing.T) {
	msg := generateCmd(context.Background(), nil, "text", 3)()
	lm, ok := msg.(levelMsg)
	if !ok || lm.err == nil || lm.gen != 3 {
		t.Errorf("nil generator msg = %#v", msg)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := levelgen.GeneratorFunc(func(ctx context.Context, text string) (*adventure.Level, error) {
		if text != "notes" {
			t.Errorf("generator got text %q", text)
		}
		return nil, ctx.Err()
	})
	lm = generateCmd(ctx, gen, "notes", 4)().(levelMsg)
	if !errors.Is(lm.err, context.Canceled) || lm.gen != 4 {
		t.Errorf("cancelled generation msg = %#v", lm)
	}
}

func TestAdventureViewFitsPanel(t *testing.T) {
	m := newTestAdventure(t, nil)
	m, _ = updateAdventure(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	if m.screen.Width() != 100 || m.screen.Height() != 30-panelHeight {
		t.Errorf("screen = %dx%d, expected 100x%d", m.screen.Width(), m.screen.Height(), 30-panelHeight)
	}
	if !strings.Contains(m.View(), "Reading The Fundamental Unit of Life") {
		t.Error("generating panel should name the study")
	}
}
