package adventure

import (
	"strings"

	"github.com/stubro-ai/stubro/internal/core"
)

// findNearby searches the player's cell and its four orthogonal neighbours,
// row by row from the top, for a checkpoint not yet completed.
func (g *Game) findNearby() (*Interaction, bool) {
	center := g.Cell()

	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			cell := center.Add(core.Pt(dx, dy))
			if center.Manhattan(cell) > 1 {
				continue
			}
			in, ok := g.level.InteractionAt(cell)
			if ok && !g.completed[in.ID] {
				return in, true
			}
		}
	}
	return nil, false
}

// NormalizeAnswer trims surrounding whitespace and lowercases.
func NormalizeAnswer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsCorrect reports whether the submitted answer matches the expected one,
// ignoring case and surrounding whitespace.
func IsCorrect(submitted, expected string) bool {
	return NormalizeAnswer(submitted) == NormalizeAnswer(expected)
}
