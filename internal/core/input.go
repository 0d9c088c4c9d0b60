package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows the adventure to work with intents rather than raw input.
type Action int

const (
	ActionNone     Action = iota
	ActionUp              // W, Up arrow
	ActionDown            // S, Down arrow
	ActionLeft            // A, Left arrow
	ActionRight           // D, Right arrow
	ActionInteract        // E - look for a checkpoint next to the player
	ActionConfirm         // Enter - submit answer, dismiss feedback
	ActionBack            // Esc, B - back to menu
	ActionRestart         // R - play again after the run ends
	ActionQuit            // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionInteract:
		return "Interact"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// IsMovement reports whether a is one of the four direction actions.
func (a Action) IsMovement() bool {
	return a == ActionUp || a == ActionDown || a == ActionLeft || a == ActionRight
}

// InputFrame represents the input state during one simulation tick.
type InputFrame struct {
	// Actions maps action types to whether they are active this frame.
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as active for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action is active this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// KeyState is the single mutable record of which keys are down.
// Input handlers only press and release; the tick loop is the only reader.
//
// Terminals report presses (with auto-repeat) but not releases, so a press
// can be given a hold window: it stays held for holdTicks ticks unless it is
// pressed again or released. A holdTicks of 0 keeps keys held until Release.
type KeyState struct {
	holdTicks int
	held      map[Action]int // remaining ticks; -1 = until released
	interact  bool
}

// NewKeyState creates an empty key record with the given hold window.
func NewKeyState(holdTicks int) *KeyState {
	if holdTicks < 0 {
		holdTicks = 0
	}
	return &KeyState{
		holdTicks: holdTicks,
		held:      make(map[Action]int),
	}
}

// Press records a key-down for the action.
// The interact action is edge-triggered and is consumed by the next Frame.
func (k *KeyState) Press(a Action) {
	if a == ActionInteract {
		k.interact = true
		return
	}
	if !a.IsMovement() {
		return
	}
	if k.holdTicks == 0 {
		k.held[a] = -1
		return
	}
	k.held[a] = k.holdTicks
}

// Release records a key-up for the action.
func (k *KeyState) Release(a Action) {
	if a == ActionInteract {
		k.interact = false
		return
	}
	delete(k.held, a)
}

// Held reports whether the movement action is currently down.
func (k *KeyState) Held(a Action) bool {
	_, ok := k.held[a]
	return ok
}

// Frame builds the input for the current tick. A pending interact press is
// included once and then cleared so holding the key does not retrigger it.
func (k *KeyState) Frame() InputFrame {
	f := NewInputFrame()
	for a := range k.held {
		f.Set(a)
	}
	if k.interact {
		f.Set(ActionInteract)
		k.interact = false
	}
	return f
}

// Advance ages timed presses by one tick, dropping expired ones.
func (k *KeyState) Advance() {
	for a, left := range k.held {
		if left < 0 {
			continue
		}
		left--
		if left <= 0 {
			delete(k.held, a)
			continue
		}
		k.held[a] = left
	}
}

// Reset releases every key.
func (k *KeyState) Reset() {
	clear(k.held)
	k.interact = false
}
