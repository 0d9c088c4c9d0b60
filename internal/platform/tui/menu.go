package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/stubro-ai/stubro/internal/content"
	"github.com/stubro-ai/stubro/internal/core"
	"github.com/stubro-ai/stubro/internal/logging"
	"github.com/stubro-ai/stubro/internal/storage"
)

const maxMenuSessions = 20

// ItemKind tells chapters from saved sessions.
type ItemKind int

const (
	ItemChapter ItemKind = iota
	ItemSession
)

// MenuItem represents a selectable study in the menu.
type MenuItem struct {
	Kind     ItemKind
	ID       string // Chapter ID or session ID
	Title    string
	Subtitle string
}

// ScoreKey returns the key the item's runs are scored under.
func (i MenuItem) ScoreKey() string {
	if i.Kind == ItemChapter {
		return ChapterScoreKey(i.ID)
	}
	return i.ID
}

// MenuItems lists the built-in chapters followed by saved sessions,
// newest first. A nil store lists chapters only.
func MenuItems(store *storage.Store, logger *log.Logger) []MenuItem {
	chapters := content.Chapters()
	items := make([]MenuItem, 0, len(chapters))
	for _, c := range chapters {
		items = append(items, MenuItem{
			Kind:     ItemChapter,
			ID:       c.ID,
			Title:    c.Title,
			Subtitle: c.Subject + " · " + c.ClassLevel,
		})
	}

	if store == nil {
		return items
	}
	sessions, err := store.ListSessions(maxMenuSessions)
	if err != nil {
		logger.Warn("could not list sessions", "error", err)
		return items
	}
	for _, s := range sessions {
		items = append(items, MenuItem{
			Kind:     ItemSession,
			ID:       s.ID,
			Title:    s.Title,
			Subtitle: "Saved " + s.CreatedAt.Format("Jan 02 15:04"),
		})
	}
	return items
}

// MenuModel is the Bubble Tea model for the study picker.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	width          int
	height         int
	store          *storage.Store
	config         core.RuntimeConfig
	keyMapper      *KeyMapper
	logger         *log.Logger
	header         string // Optional line under the title, e.g. the user's credits
	status         string
	quitting       bool
	selected       *MenuItem // Set when user selects a study
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, logger *log.Logger) MenuModel {
	if logger == nil {
		logger = logging.Discard()
	}
	return MenuModel{
		items:     MenuItems(store, logger),
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		store:     store,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		logger:    logger,
	}
}

// WithHeader returns the menu with an extra line under the title.
func (m MenuModel) WithHeader(header string) MenuModel {
	m.header = header
	return m
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)
	m.status = ""

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case MenuActionScoreboard:
		m.openScoreboard = true

	case MenuActionDelete:
		m.deleteCurrent()
	}

	return m, nil
}

// deleteCurrent removes the saved session under the cursor.
// Built-in chapters cannot be deleted.
func (m *MenuModel) deleteCurrent() {
	if len(m.items) == 0 || m.store == nil {
		return
	}
	item := m.items[m.cursor]
	if item.Kind != ItemSession {
		m.status = "Built-in chapters cannot be deleted."
		return
	}
	if err := m.store.DeleteSession(item.ID); err != nil {
		m.logger.Warn("could not delete session", "session", item.ID, "error", err)
		m.status = "Could not delete session."
		return
	}
	m.logger.Info("session deleted", "session", item.ID, "title", item.Title)
	m.status = fmt.Sprintf("Deleted %q.", item.Title)
	m.items = MenuItems(m.store, m.logger)
	m.cursor = core.Clamp(m.cursor, 0, max(0, len(m.items)-1))
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  S T U B R O  "), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(mutedStyle.Render("Chapter Conquest"), m.width))
	b.WriteString("\n\n")
	if m.header != "" {
		b.WriteString(centerText(m.header, m.width))
		b.WriteString("\n\n")
	}

	b.WriteString(centerText("Pick something to study", m.width))
	b.WriteString("\n\n")

	lastKind := ItemChapter
	for i, item := range m.items {
		if item.Kind != lastKind {
			b.WriteString("\n")
			b.WriteString(centerText(mutedStyle.Render("Your sessions"), m.width))
			b.WriteString("\n")
			lastKind = item.Kind
		}

		cursor := "  "
		title := item.Title
		if i == m.cursor {
			cursor = "> "
			title = titleStyle.Render(title)
		}
		line := fmt.Sprintf("%s%s  %s", cursor, title, mutedStyle.Render(item.Subtitle))
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(centerText(m.status, m.width))
		b.WriteString("\n")
	}
	controls := "Up/Down: Navigate  |  Enter: Play  |  Tab: Scores  |  X: Delete session  |  Q: Quit"
	b.WriteString(centerText(mutedStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Items returns the listed studies.
func (m MenuModel) Items() []MenuItem {
	return m.items
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}
