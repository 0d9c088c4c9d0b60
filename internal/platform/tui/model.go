package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/stubro-ai/stubro/internal/config"
	"github.com/stubro-ai/stubro/internal/core"
	"github.com/stubro-ai/stubro/internal/games/adventure"
	"github.com/stubro-ai/stubro/internal/levelgen"
	"github.com/stubro-ai/stubro/internal/logging"
)

const panelHeight = 5 // Border plus three content lines

// ScoreSaver records finished runs.
type ScoreSaver interface {
	SaveScore(sessionID, gameID string, score int) (int64, error)
}

// Study is the text a level is built from.
type Study struct {
	ScoreKey string // Session ID, or ChapterScoreKey for built-in chapters
	Title    string
	Text     string
}

// ChapterScoreKey returns the key scores of a built-in chapter are kept under.
func ChapterScoreKey(chapterID string) string {
	return "chapter:" + chapterID
}

// AdventureOptions carries what an adventure run needs from the outside.
type AdventureOptions struct {
	Generator  levelgen.Generator
	Scores     ScoreSaver
	Config     config.AdventureConfig
	Runtime    core.RuntimeConfig
	Logger     *log.Logger
	ExitOnBack bool // Standalone runs end the program instead of returning to a menu
}

// AdventureModel is the Bubble Tea model for one Chapter Conquest run.
type AdventureModel struct {
	study     Study
	opts      AdventureOptions
	game      *adventure.Game
	screen    *core.Screen
	keys      *core.KeyState
	keyMapper *KeyMapper
	bindings  AdventureKeyMap
	help      help.Model
	spinner   spinner.Model
	input     textinput.Model
	width     int
	height    int

	run        int // Incremented per level request; stale ticks and levels are dropped
	ctx        context.Context
	cancel     context.CancelFunc
	scoreSaved bool
	stopped    bool
	quitting   bool
	backToMenu bool
}

// NewAdventureModel creates a model that requests a level for study as soon
// as it is started.
func NewAdventureModel(study Study, opts AdventureOptions) AdventureModel {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Runtime.TickRate <= 0 {
		opts.Runtime.TickRate = 60
	}

	in := textinput.New()
	in.Placeholder = "Type your answer"
	in.Prompt = "> "
	in.CharLimit = 200

	m := AdventureModel{
		study:     study,
		opts:      opts,
		keys:      core.NewKeyState(opts.Config.HoldTicks),
		keyMapper: NewKeyMapper(),
		bindings:  DefaultAdventureKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(titleStyle)),
		input:     in,
		screen:    core.NewScreen(1, 1),
	}
	m.resize(opts.Runtime.ScreenW, opts.Runtime.ScreenH)
	m.begin()
	return m
}

// begin prepares a fresh game and generation context.
// Init or a restart issues the commands for it.
func (m *AdventureModel) begin() {
	if m.cancel != nil {
		m.cancel()
	}
	m.run++
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.game = adventure.New(m.opts.Config)
	m.keys.Reset()
	m.input.Reset()
	m.input.Blur()
	m.scoreSaved = false
	m.stopped = false
}

// startCmds requests the level and starts the tick loop and spinner.
func (m AdventureModel) startCmds() tea.Cmd {
	m.opts.Logger.Info("requesting level", "study", m.study.Title, "chars", len(m.study.Text))
	return tea.Batch(
		generateCmd(m.ctx, m.opts.Generator, m.study.Text, m.run),
		tickCmd(m.opts.Runtime.TickRate, m.run),
		m.spinner.Tick,
	)
}

// generateCmd runs the generator off the update loop.
func generateCmd(ctx context.Context, gen levelgen.Generator, text string, run int) tea.Cmd {
	return func() tea.Msg {
		if gen == nil {
			return levelMsg{gen: run, err: errors.New("no level generator configured")}
		}
		level, err := gen.Generate(ctx, text)
		return levelMsg{gen: run, level: level, err: err}
	}
}

// Init starts the first level request.
func (m AdventureModel) Init() tea.Cmd {
	return m.startCmds()
}

// Update handles messages and updates the model state.
func (m AdventureModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick(msg)

	case levelMsg:
		return m.handleLevel(msg)

	case spinner.TickMsg:
		if m.stopped || m.game.Phase() != adventure.StateGenerating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blink and other input internals.
	if m.game.Phase() == adventure.StateInteraction {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *AdventureModel) resize(width, height int) {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}
	m.width, m.height = width, height
	m.screen.Resize(width, max(1, height-panelHeight))
	m.input.Width = max(10, width-12)
	m.help.Width = width - 4
}

// handleLevel installs a generated level, or fails the run.
func (m AdventureModel) handleLevel(msg levelMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.run || m.stopped {
		return m, nil
	}

	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return m, nil
		}
		m.opts.Logger.Error("level generation failed", "study", m.study.Title, "error", msg.err)
		//nolint:errcheck // Only fails outside the generating state, which the run check rules out
		m.game.Fail(msg.err)
		return m, nil
	}

	if err := m.game.Load(msg.level); err != nil {
		m.opts.Logger.Warn("generated level rejected", "study", m.study.Title, "error", err)
		return m, nil
	}
	m.opts.Logger.Info("level ready",
		"title", msg.level.Title,
		"size", fmt.Sprintf("%dx%d", msg.level.Width(), msg.level.Height()),
		"checkpoints", len(msg.level.Interactions),
	)
	return m, nil
}

// handleTick advances the game by one frame.
func (m AdventureModel) handleTick(msg TickMsg) (tea.Model, tea.Cmd) {
	if msg.Gen != m.run || m.stopped {
		return m, nil
	}

	before := m.game.Phase()
	m.game.Step(m.keys.Frame())
	m.keys.Advance()
	after := m.game.Phase()

	var cmds []tea.Cmd
	if after == adventure.StateInteraction && before != after {
		// Held keys must not carry the player on after the question closes.
		m.keys.Reset()
		m.input.Reset()
		cmds = append(cmds, m.input.Focus())
	}

	if after == adventure.StateCompleted {
		m.saveScore()
	}

	if after.Terminal() {
		m.cancel()
		return m, tea.Batch(cmds...)
	}

	cmds = append(cmds, tickCmd(m.opts.Runtime.TickRate, m.run))
	return m, tea.Batch(cmds...)
}

// saveScore records the finished run once.
func (m *AdventureModel) saveScore() {
	if m.scoreSaved {
		return
	}
	m.scoreSaved = true

	score := m.game.Score()
	m.opts.Logger.Info("chapter conquered", "study", m.study.Title, "score", score)
	if m.opts.Scores == nil || m.study.ScoreKey == "" {
		return
	}
	if _, err := m.opts.Scores.SaveScore(m.study.ScoreKey, adventure.GameID, score); err != nil {
		m.opts.Logger.Warn("could not save score", "study", m.study.Title, "error", err)
	}
}

// handleKey processes keyboard input for the current phase.
func (m AdventureModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}

	switch m.game.Phase() {
	case adventure.StateInteraction:
		return m.handleAnswerKey(msg)

	case adventure.StateFeedback:
		switch {
		case key.Matches(msg, m.bindings.Continue):
			//nolint:errcheck // Phase checked above
			m.game.DismissFeedback()
			m.input.Reset()
		case key.Matches(msg, m.bindings.Back):
			return m.back()
		case key.Matches(msg, m.bindings.Quit):
			return m.quit()
		}
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		return m.quit()
	}

	playing := m.game.Phase() == adventure.StatePlaying
	switch {
	case action.IsMovement():
		if playing {
			PressMovement(m.keys, action)
		}
	case action == core.ActionInteract:
		if playing {
			m.keys.Press(core.ActionInteract)
		}
	case action == core.ActionBack:
		return m.back()
	case action == core.ActionRestart:
		if m.game.Phase().Terminal() {
			m.begin()
			return m, m.startCmds()
		}
	}

	return m, nil
}

// handleAnswerKey routes keys to the answer input while a question is open.
func (m AdventureModel) handleAnswerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		answer := m.input.Value()
		if strings.TrimSpace(answer) == "" {
			return m, nil
		}
		fb, err := m.game.SubmitAnswer(answer)
		if err != nil {
			m.opts.Logger.Warn("answer not accepted", "error", err)
			return m, nil
		}
		m.input.Blur()
		m.opts.Logger.Debug("answer submitted", "correct", fb.Correct, "score", m.game.Score())
		return m, nil

	case tea.KeyEsc:
		return m.back()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// stop tears the run down: the pending request is cancelled and ticks stop
// being re-scheduled. Safe to call more than once.
func (m *AdventureModel) stop() {
	if m.stopped {
		return
	}
	m.stopped = true
	if m.cancel != nil {
		m.cancel()
	}
}

func (m AdventureModel) back() (tea.Model, tea.Cmd) {
	m.stop()
	m.backToMenu = true
	if m.opts.ExitOnBack {
		return m, tea.Quit
	}
	return m, nil
}

func (m AdventureModel) quit() (tea.Model, tea.Cmd) {
	m.stop()
	m.quitting = true
	return m, tea.Quit
}

// View renders the grid and the panel below it.
func (m AdventureModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + m.renderPanel()
}

// renderPanel shows status, the open question or the last feedback.
func (m AdventureModel) renderPanel() string {
	var first, second string
	var keys phaseHelp
	b := m.bindings
	snap := m.game.Snapshot()

	switch snap.State {
	case adventure.StateGenerating:
		first = m.spinner.View() + " Reading " + m.study.Title
		second = mutedStyle.Render("Checkpoints are being written from your study notes.")
		keys = phaseHelp{b.Back, b.Quit}

	case adventure.StatePlaying:
		first = progress(snap)
		second = mutedStyle.Render("Walk up to a ? and press E to answer it. Reach the exit to finish.")
		keys = phaseHelp{b.Move, b.Interact, b.Back, b.Quit}

	case adventure.StateInteraction:
		if in, ok := m.game.ActiveInteraction(); ok {
			first = titleStyle.Render("Question: ") + in.Question
		}
		second = m.input.View()
		keys = phaseHelp{b.Submit, b.Leave}

	case adventure.StateFeedback:
		fb, _ := m.game.LastFeedback()
		if snap.Correct {
			first = correctStyle.Render("Correct!") + " " + fb.Message
		} else {
			first = wrongStyle.Render("Not quite.") + " " + fb.Message
		}
		second = mutedStyle.Render("You answered: " + fb.Answer)
		keys = phaseHelp{b.Continue, b.Back, b.Quit}

	case adventure.StateCompleted:
		first = correctStyle.Render(fmt.Sprintf("Chapter conquered! Final score: %d", snap.Score))
		second = progress(snap)
		keys = phaseHelp{b.Again, b.Back, b.Quit}

	case adventure.StateError:
		first = errorStyle.Render(m.game.ErrorMessage())
		keys = phaseHelp{b.Again, b.Back, b.Quit}
	}

	content := strings.Join([]string{first, second, m.help.View(keys)}, "\n")
	return panelStyle.Width(max(0, m.width-2)).Render(content)
}

func progress(snap adventure.Snapshot) string {
	return fmt.Sprintf("Checkpoints answered: %d/%d   Score: %d", snap.Completed, snap.Total, snap.Score)
}

// Game returns the running game.
func (m AdventureModel) Game() *adventure.Game {
	return m.game
}

// IsQuitting returns true if user requested to quit entirely.
func (m AdventureModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m AdventureModel) BackToMenu() bool {
	return m.backToMenu
}

// Stopped reports whether the run has been torn down.
func (m AdventureModel) Stopped() bool {
	return m.stopped
}

// RunAdventure plays one study in its own program and returns the final score.
func RunAdventure(study Study, opts AdventureOptions) (int, error) {
	opts.ExitOnBack = true
	model := NewAdventureModel(study, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	if err != nil {
		return 0, err
	}

	m, ok := finalModel.(AdventureModel)
	if !ok {
		return 0, nil
	}
	return m.game.Score(), nil
}
