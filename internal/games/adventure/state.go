package adventure

import (
	"errors"
	"fmt"
)

// State is the adventure's position in its state machine.
//
//	generating -> playing <-> interaction -> feedback -> playing
//	playing -> completed
//	generating -> error
type State int

const (
	StateGenerating State = iota
	StatePlaying
	StateInteraction
	StateFeedback
	StateCompleted
	StateError
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateGenerating:
		return "generating"
	case StatePlaying:
		return "playing"
	case StateInteraction:
		return "interaction"
	case StateFeedback:
		return "feedback"
	case StateCompleted:
		return "completed"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateError
}

var (
	// ErrNoContent means there was no study text to build a level from.
	ErrNoContent = errors.New("no study content")

	// ErrInsufficientCredits means the user cannot afford another level.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrMalformedLevel means the generator returned an unplayable level.
	ErrMalformedLevel = errors.New("malformed level")

	// ErrInvalidTransition is returned when an event does not apply to the
	// current state. The state is left unchanged.
	ErrInvalidTransition = errors.New("invalid transition")
)

// transitionError reports an event fired in the wrong state.
func transitionError(event string, s State) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, event, s)
}

// FailureMessage turns a generation failure into the text shown to the player.
func FailureMessage(err error) string {
	switch {
	case err == nil:
		return "An unknown error occurred while building your game."
	case errors.Is(err, ErrNoContent):
		return "No study content found. Start a session or pick a chapter, then try again."
	case errors.Is(err, ErrInsufficientCredits):
		return "You're out of credits! Upgrade to Premium or top up with 'stubro credits --add'."
	case errors.Is(err, ErrMalformedLevel):
		return "The level designer built a level that can't be played. " + err.Error()
	default:
		return err.Error()
	}
}
