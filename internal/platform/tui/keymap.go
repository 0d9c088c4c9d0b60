package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/stubro-ai/stubro/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an adventure action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case "w", "up":
		return core.ActionUp, false
	case "s", "down":
		return core.ActionDown, false
	case "a", "left":
		return core.ActionLeft, false
	case "d", "right":
		return core.ActionRight, false
	case "e":
		return core.ActionInteract, false
	case "enter", " ":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "r":
		return core.ActionRestart, false
	}

	return core.ActionNone, false
}

// opposite returns the direction that cancels a, or ActionNone.
func opposite(a core.Action) core.Action {
	switch a {
	case core.ActionUp:
		return core.ActionDown
	case core.ActionDown:
		return core.ActionUp
	case core.ActionLeft:
		return core.ActionRight
	case core.ActionRight:
		return core.ActionLeft
	}
	return core.ActionNone
}

// PressMovement records a direction press in ks. Pressing a direction
// releases its opposite so a quick reversal does not cancel out while the
// old press is still inside its hold window.
func PressMovement(ks *core.KeyState, a core.Action) {
	if o := opposite(a); o != core.ActionNone {
		ks.Release(o)
	}
	ks.Press(a)
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
	MenuActionDelete
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	case "x", "delete":
		return MenuActionDelete
	}

	return MenuActionNone
}

// AdventureKeyMap holds the bindings shown in the adventure help bar.
type AdventureKeyMap struct {
	Move     key.Binding
	Interact key.Binding
	Submit   key.Binding
	Leave    key.Binding
	Continue key.Binding
	Again    key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// DefaultAdventureKeyMap returns the adventure bindings.
func DefaultAdventureKeyMap() AdventureKeyMap {
	return AdventureKeyMap{
		Move: key.NewBinding(
			key.WithKeys("w", "a", "s", "d", "up", "down", "left", "right"),
			key.WithHelp("wasd/arrows", "move"),
		),
		Interact: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "interact"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit answer"),
		),
		// While typing an answer only esc leaves; b is a letter.
		Leave: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Continue: key.NewBinding(
			key.WithKeys("enter", " ", "e"),
			key.WithHelp("enter", "continue"),
		),
		Again: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "new level"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// phaseHelp lists the bindings that apply in one adventure phase.
// It satisfies help.KeyMap.
type phaseHelp []key.Binding

// ShortHelp returns the bindings for the short help view.
func (p phaseHelp) ShortHelp() []key.Binding { return p }

// FullHelp returns the bindings as a single column.
func (p phaseHelp) FullHelp() [][]key.Binding { return [][]key.Binding{p} }
