package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/stubro-ai/stubro/internal/config"
	"github.com/stubro-ai/stubro/internal/content"
	"github.com/stubro-ai/stubro/internal/core"
	"github.com/stubro-ai/stubro/internal/games/adventure"
	"github.com/stubro-ai/stubro/internal/levelgen"
	"github.com/stubro-ai/stubro/internal/logging"
	"github.com/stubro-ai/stubro/internal/storage"
)

// GeneratorFactory builds the level generator for a user, so credits can be
// charged to the right wallet.
type GeneratorFactory func(user string) (levelgen.Generator, error)

// AppOptions configures the menu -> adventure -> menu flow.
type AppOptions struct {
	Store        *storage.Store // May be nil; scores and sessions are then unavailable
	NewGenerator GeneratorFactory
	User         string
	Adventure    config.AdventureConfig
	Runtime      core.RuntimeConfig
	ShowCredits  bool
	Logger       *log.Logger
}

type appScreen int

const (
	screenMenu appScreen = iota
	screenAdventure
	screenScoreboard
)

// AppModel manages the full StuBro flow: menu -> adventure or scoreboard -> menu.
// It is the top-level model for both `stubro menu` and SSH sessions.
type AppModel struct {
	opts       AppOptions
	screen     appScreen
	menu       MenuModel
	adventure  AdventureModel
	scoreboard ScoreboardModel
	quitting   bool
}

// NewAppModel creates the flow, starting at the menu.
func NewAppModel(opts AppOptions) AppModel {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.User == "" {
		opts.User = "guest"
	}
	m := AppModel{opts: opts}
	m.menu = m.newMenu()
	return m
}

func (m AppModel) newMenu() MenuModel {
	header := "Signed in as " + m.opts.User
	if m.opts.ShowCredits && m.opts.Store != nil {
		if balance, err := m.opts.Store.Balance(m.opts.User); err != nil {
			m.opts.Logger.Warn("could not read balance", "user", m.opts.User, "error", err)
		} else {
			header = fmt.Sprintf("%s  |  %d credits", header, balance)
		}
	}
	return NewMenuModel(m.opts.Store, m.opts.Runtime, m.opts.Logger).WithHeader(header)
}

// Init initializes the flow.
func (m AppModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the current screen.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Runtime.ScreenW = wsm.Width
		m.opts.Runtime.ScreenH = wsm.Height
	}

	switch m.screen {
	case screenAdventure:
		return m.updateAdventure(msg)
	case screenScoreboard:
		return m.updateScoreboard(msg)
	}
	return m.updateMenu(msg)
}

// updateMenu handles updates when in menu mode.
func (m AppModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		m.scoreboard = NewScoreboardModel(m.opts.Store, m.opts.Runtime.ScreenW, m.opts.Runtime.ScreenH, m.opts.Logger)
		m.screen = screenScoreboard
		return m, m.scoreboard.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		m.adventure = m.newAdventure(*selected)
		m.screen = screenAdventure
		return m, m.adventure.Init()
	}

	return m, cmd
}

// newAdventure builds the run for a menu selection. Lookup and generator
// failures surface on the adventure's error screen.
func (m AppModel) newAdventure(item MenuItem) AdventureModel {
	logger := m.opts.Logger.With("user", m.opts.User)

	study, err := m.studyFor(item)
	var gen levelgen.Generator
	if err == nil && m.opts.NewGenerator != nil {
		gen, err = m.opts.NewGenerator(m.opts.User)
	}
	if err != nil {
		failure := err
		gen = levelgen.GeneratorFunc(func(context.Context, string) (*adventure.Level, error) {
			return nil, failure
		})
	}

	var scores ScoreSaver
	if m.opts.Store != nil {
		scores = m.opts.Store
	}

	return NewAdventureModel(study, AdventureOptions{
		Generator: gen,
		Scores:    scores,
		Config:    m.opts.Adventure,
		Runtime:   m.opts.Runtime,
		Logger:    logger,
	})
}

// studyFor loads the text behind a menu item.
func (m AppModel) studyFor(item MenuItem) (Study, error) {
	study := Study{ScoreKey: item.ScoreKey(), Title: item.Title}

	if item.Kind == ItemChapter {
		c, ok := content.ByID(item.ID)
		if !ok {
			return study, fmt.Errorf("chapter %q not found", item.ID)
		}
		study.Text = c.Content
		return study, nil
	}

	if m.opts.Store == nil {
		return study, fmt.Errorf("session storage is unavailable")
	}
	s, err := m.opts.Store.GetSession(item.ID)
	if err != nil {
		return study, err
	}
	study.Text = s.Content
	return study, nil
}

// updateAdventure handles updates when a run is on screen.
func (m AppModel) updateAdventure(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.adventure.Update(msg)
	if adventureModel, ok := newModel.(AdventureModel); ok {
		m.adventure = adventureModel
	}

	if m.adventure.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.adventure.BackToMenu() {
		m.screen = screenMenu
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateScoreboard handles updates when the scoreboard is on screen.
func (m AppModel) updateScoreboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.scoreboard.Update(msg)
	if sb, ok := newModel.(ScoreboardModel); ok {
		m.scoreboard = sb
	}

	if m.scoreboard.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.scoreboard.IsGoingBack() {
		m.screen = screenMenu
		m.menu = m.newMenu()
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the current screen.
func (m AppModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.screen {
	case screenAdventure:
		return m.adventure.View()
	case screenScoreboard:
		return m.scoreboard.View()
	}
	return m.menu.View()
}

// RunApp runs the flow in the local terminal.
func RunApp(opts AppOptions) error {
	p := tea.NewProgram(
		NewAppModel(opts),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
