package config

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// LevelShape is what a difficulty asks the level generator for.
type LevelShape struct {
	Width       int // Grid columns, including the outer wall
	Height      int // Grid rows, including the outer wall
	Checkpoints int // Number of question checkpoints
}

// Valid reports whether p is a known preset.
func (p DifficultyPreset) Valid() bool {
	switch p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return true
	}
	return false
}

// ShapeForPreset returns the level dimensions for a difficulty preset.
// Unknown presets fall back to normal.
func ShapeForPreset(preset DifficultyPreset) LevelShape {
	switch preset {
	case DifficultyEasy:
		return LevelShape{Width: 11, Height: 7, Checkpoints: 3}
	case DifficultyHard:
		return LevelShape{Width: 19, Height: 11, Checkpoints: 7}
	default:
		return LevelShape{Width: 15, Height: 9, Checkpoints: 5}
	}
}

// ParsePreset converts a flag value to a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, bool) {
	if s == "" {
		return DifficultyNormal, true
	}
	p := DifficultyPreset(s)
	return p, p.Valid()
}
