package adventure

import (
	"fmt"
	"strings"

	"github.com/stubro-ai/stubro/internal/core"
)

// TileType is the kind of a grid cell.
type TileType string

const (
	TileFloor TileType = "floor"
	TileWall  TileType = "wall"
	TileExit  TileType = "exit"
)

// Tile is one cell of the level grid.
type Tile struct {
	Type TileType `json:"type" yaml:"type"`
}

// Interaction is a question checkpoint at a fixed grid position.
type Interaction struct {
	ID             int        `json:"id" yaml:"id"`
	Position       core.Point `json:"position" yaml:"position"`
	Question       string     `json:"question" yaml:"question"`
	Answer         string     `json:"correct_answer" yaml:"correct_answer"`
	SuccessMessage string     `json:"success_message" yaml:"success_message"`
	FailureMessage string     `json:"failure_message" yaml:"failure_message"`
}

// Level is the generated description of one adventure. It is not modified
// once a game has loaded it.
type Level struct {
	Title        string        `json:"title,omitempty" yaml:"title,omitempty"`
	Grid         [][]Tile      `json:"grid" yaml:"grid"`
	PlayerStart  core.Point    `json:"player_start" yaml:"player_start"`
	Interactions []Interaction `json:"interactions" yaml:"interactions"`
}

// Width returns the number of columns (length of the first row).
func (l *Level) Width() int {
	if len(l.Grid) == 0 {
		return 0
	}
	return len(l.Grid[0])
}

// Height returns the number of rows.
func (l *Level) Height() int {
	return len(l.Grid)
}

// TileAt returns the tile at p. ok is false for cells outside the grid.
func (l *Level) TileAt(p core.Point) (Tile, bool) {
	if p.Y < 0 || p.Y >= len(l.Grid) {
		return Tile{}, false
	}
	row := l.Grid[p.Y]
	if p.X < 0 || p.X >= len(row) {
		return Tile{}, false
	}
	return row[p.X], true
}

// InteractionAt returns the checkpoint placed at p, if any.
func (l *Level) InteractionAt(p core.Point) (*Interaction, bool) {
	for i := range l.Interactions {
		if l.Interactions[i].Position == p {
			return &l.Interactions[i], true
		}
	}
	return nil, false
}

// Exits returns the positions of all exit tiles in row-major order.
func (l *Level) Exits() []core.Point {
	var exits []core.Point
	for y, row := range l.Grid {
		for x, t := range row {
			if t.Type == TileExit {
				exits = append(exits, core.Pt(x, y))
			}
		}
	}
	return exits
}

// ValidationError lists every problem found in a level.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "malformed level: " + strings.Join(e.Problems, "; ")
}

// Unwrap lets errors.Is match ErrMalformedLevel.
func (e *ValidationError) Unwrap() error {
	return ErrMalformedLevel
}

// Validate checks that the level is internally consistent and playable.
func (l *Level) Validate() error {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if l.Height() == 0 || l.Width() == 0 {
		return &ValidationError{Problems: []string{"grid is empty"}}
	}

	width := l.Width()
	for y, row := range l.Grid {
		if len(row) != width {
			addf("row %d has %d tiles, expected %d", y, len(row), width)
		}
		for x, t := range row {
			switch t.Type {
			case TileFloor, TileWall, TileExit:
			default:
				addf("tile (%d,%d) has unknown type %q", x, y, t.Type)
			}
		}
	}

	if t, ok := l.TileAt(l.PlayerStart); !ok {
		addf("player start (%d,%d) is outside the grid", l.PlayerStart.X, l.PlayerStart.Y)
	} else if t.Type == TileWall {
		addf("player start (%d,%d) is a wall", l.PlayerStart.X, l.PlayerStart.Y)
	}

	seen := make(map[int]bool, len(l.Interactions))
	occupied := make(map[core.Point]int, len(l.Interactions))
	for _, in := range l.Interactions {
		if seen[in.ID] {
			addf("interaction id %d is used more than once", in.ID)
		}
		seen[in.ID] = true
		if other, dup := occupied[in.Position]; dup {
			addf("interactions %d and %d share position (%d,%d)", other, in.ID, in.Position.X, in.Position.Y)
		}
		occupied[in.Position] = in.ID

		t, ok := l.TileAt(in.Position)
		switch {
		case !ok:
			addf("interaction %d at (%d,%d) is outside the grid", in.ID, in.Position.X, in.Position.Y)
		case t.Type == TileWall:
			addf("interaction %d at (%d,%d) is inside a wall", in.ID, in.Position.X, in.Position.Y)
		}
		if strings.TrimSpace(in.Question) == "" {
			addf("interaction %d has no question", in.ID)
		}
		if strings.TrimSpace(in.Answer) == "" {
			addf("interaction %d has no answer", in.ID)
		}
	}

	if len(l.Exits()) == 0 {
		addf("level has no exit")
	} else if len(problems) == 0 && !l.exitReachable() {
		addf("exit is not reachable from the player start")
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// exitReachable runs a 4-connected flood fill over non-wall tiles.
func (l *Level) exitReachable() bool {
	steps := []core.Point{{X: 0, Y: -1}, {X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}}
	visited := map[core.Point]bool{l.PlayerStart: true}
	queue := []core.Point{l.PlayerStart}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		if t, _ := l.TileAt(p); t.Type == TileExit {
			return true
		}
		for _, s := range steps {
			n := p.Add(s)
			if visited[n] {
				continue
			}
			t, ok := l.TileAt(n)
			if !ok || t.Type == TileWall {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return false
}

// ParseLayout builds a grid from text rows: '#' wall, 'E' exit, anything
// else floor. 'S' marks the player start, which is returned when present.
func ParseLayout(rows []string) ([][]Tile, core.Point, bool) {
	grid := make([][]Tile, len(rows))
	var start core.Point
	found := false

	for y, row := range rows {
		runes := []rune(row)
		grid[y] = make([]Tile, len(runes))
		for x, ch := range runes {
			switch ch {
			case '#':
				grid[y][x] = Tile{Type: TileWall}
			case 'E':
				grid[y][x] = Tile{Type: TileExit}
			case 'S':
				grid[y][x] = Tile{Type: TileFloor}
				start = core.Pt(x, y)
				found = true
			default:
				grid[y][x] = Tile{Type: TileFloor}
			}
		}
	}
	return grid, start, found
}
