package levelgen

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/stubro-ai/stubro/internal/config"
	"github.com/stubro-ai/stubro/internal/core"
	"github.com/stubro-ai/stubro/internal/games/adventure"
)

// BackendOffline is the name of the procedural backend.
const BackendOffline = "offline"

func init() {
	Register(BackendOffline, "Procedural level with fill-in-the-blank questions, no network", NewOffline)
}

const (
	roomWidth      = 4   // Wall columns appear every roomWidth tiles
	maxSentenceLen = 220 // Longer sentences make unreadable questions
	minKeywordLen  = 5
)

// Offline builds levels locally: rooms separated by wall columns with one
// door each, and fill-in-the-blank questions cut from the text.
type Offline struct {
	shape    config.LevelShape
	seed     int64
	maxChars int
	logger   *log.Logger
}

// NewOffline creates the procedural backend.
func NewOffline(opts Options) (Generator, error) {
	shape := opts.Shape
	if shape.Width == 0 {
		shape = config.ShapeForPreset(config.DifficultyNormal)
	}
	if shape.Width < 5 || shape.Height < 3 {
		return nil, fmt.Errorf("levelgen: level shape %dx%d is too small", shape.Width, shape.Height)
	}
	return &Offline{
		shape:    shape,
		seed:     opts.Seed,
		maxChars: opts.Generator.MaxContentChars,
		logger:   opts.logger().WithPrefix("levelgen"),
	}, nil
}

// Generate builds a level. The same text and seed always give the same level;
// a zero seed derives one from the text.
func (o *Offline) Generate(ctx context.Context, studyText string) (*adventure.Level, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, err := PrepareText(studyText, o.maxChars)
	if err != nil {
		return nil, err
	}

	cloze := buildQuestions(text)
	if len(cloze) == 0 {
		return nil, fmt.Errorf("%w: no fill-in-the-blank questions could be cut from the study text", ErrMalformedLevel)
	}

	seed := o.seed
	if seed == 0 {
		h := fnv.New64a()
		h.Write([]byte(text))
		seed = int64(h.Sum64())
	}
	rng := rand.New(rand.NewSource(seed))

	level := o.layout(rng)
	o.placeCheckpoints(level, rng, cloze)

	if err := level.Validate(); err != nil {
		// The layout is connected by construction; reaching this is a bug.
		return nil, err
	}

	o.logger.Debug("offline level built",
		"width", level.Width(),
		"height", level.Height(),
		"checkpoints", len(level.Interactions),
	)
	return level, nil
}

// layout carves the rooms: an outer wall ring, inner wall columns every
// roomWidth tiles with a single door, start in the first room and the exit
// on the last column.
func (o *Offline) layout(rng *rand.Rand) *adventure.Level {
	w, h := o.shape.Width, o.shape.Height
	grid := make([][]adventure.Tile, h)
	for y := range grid {
		grid[y] = make([]adventure.Tile, w)
		for x := range grid[y] {
			wall := x == 0 || y == 0 || x == w-1 || y == h-1
			if wall || isDividerColumn(x, w) {
				grid[y][x].Type = adventure.TileWall
			} else {
				grid[y][x].Type = adventure.TileFloor
			}
		}
	}

	innerRow := func() int { return 1 + rng.Intn(h-2) }
	for x := 1; x < w-1; x++ {
		if isDividerColumn(x, w) {
			grid[innerRow()][x].Type = adventure.TileFloor
		}
	}

	start := core.Pt(1, innerRow())
	grid[innerRow()][w-2].Type = adventure.TileExit

	return &adventure.Level{Grid: grid, PlayerStart: start}
}

func isDividerColumn(x, width int) bool {
	return x > 0 && x%roomWidth == 0 && x < width-2
}

// placeCheckpoints spreads questions across rooms in reading order.
func (o *Offline) placeCheckpoints(level *adventure.Level, rng *rand.Rand, cloze []clozeQuestion) {
	// Collect free floor cells per room, left to right.
	var rooms [][]core.Point
	room := -1
	for x := 1; x < level.Width()-1; x++ {
		if isDividerColumn(x, level.Width()) {
			continue
		}
		if x == 1 || isDividerColumn(x-1, level.Width()) {
			rooms = append(rooms, nil)
			room++
		}
		for y := 1; y < level.Height()-1; y++ {
			p := core.Pt(x, y)
			t, _ := level.TileAt(p)
			if t.Type != adventure.TileFloor || p == level.PlayerStart {
				continue
			}
			rooms[room] = append(rooms[room], p)
		}
	}
	for _, cells := range rooms {
		rng.Shuffle(len(cells), func(i, j int) { cells[i], cells[j] = cells[j], cells[i] })
	}

	n := min(o.shape.Checkpoints, len(cloze))
	picked := pickQuestions(rng, cloze, n)

	used := make([]int, len(rooms))
	for i, q := range picked {
		r := i * len(rooms) / max(n, 1)
		// Fall forward to the next room with space.
		for k := 0; k < len(rooms) && used[r] >= len(rooms[r]); k++ {
			r = (r + 1) % len(rooms)
		}
		if used[r] >= len(rooms[r]) {
			break
		}
		pos := rooms[r][used[r]]
		used[r]++

		level.Interactions = append(level.Interactions, adventure.Interaction{
			ID:             i + 1,
			Position:       pos,
			Question:       q.question,
			Answer:         q.answer,
			SuccessMessage: fmt.Sprintf("Correct! %q is right.", q.answer),
			FailureMessage: "Not quite. Re-read that part of the chapter and try again.",
		})
	}
}

type clozeQuestion struct {
	order    int
	question string
	answer   string
}

var sentenceEnd = regexp.MustCompile(`[.!?]+\s+|\n{2,}|:\s*\n`)

// buildQuestions cuts the text into sentences and blanks out one keyword in
// each. Sentences without a good keyword are skipped.
func buildQuestions(text string) []clozeQuestion {
	var out []clozeQuestion
	for _, raw := range sentenceEnd.Split(text, -1) {
		s := strings.Join(strings.Fields(raw), " ")
		s = strings.TrimLeft(s, "-•*0123456789. ")
		if len([]rune(s)) < 20 || len([]rune(s)) > maxSentenceLen {
			continue
		}
		word, ok := pickKeyword(s)
		if !ok {
			continue
		}
		at := indexWord(s, word)
		if at < 0 {
			continue
		}
		blanked := s[:at] + "_____" + s[at+len(word):]
		out = append(out, clozeQuestion{
			order:    len(out),
			question: "Fill in the blank: " + blanked,
			answer:   word,
		})
	}
	return out
}

// pickKeyword returns the longest plain word that is not a stop word.
// Ties go to the earliest word.
func pickKeyword(sentence string) (string, bool) {
	best := ""
	for _, w := range strings.Fields(sentence) {
		w = strings.TrimFunc(w, func(r rune) bool { return !unicode.IsLetter(r) })
		if len([]rune(w)) < minKeywordLen || stopWords[strings.ToLower(w)] {
			continue
		}
		if !isPlainWord(w) {
			continue
		}
		if len([]rune(w)) > len([]rune(best)) {
			best = w
		}
	}
	return best, best != ""
}

func isPlainWord(w string) bool {
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// indexWord returns the byte offset of the first whole-word occurrence of
// word in s, or -1. Word boundaries are Unicode aware.
func indexWord(s, word string) int {
	for from := 0; from <= len(s)-len(word); {
		i := strings.Index(s[from:], word)
		if i < 0 {
			return -1
		}
		at := from + i
		before, _ := utf8.DecodeLastRuneInString(s[:at])
		after, _ := utf8.DecodeRuneInString(s[at+len(word):])
		if !isWordRune(before) && !isWordRune(after) {
			return at
		}
		_, size := utf8.DecodeRuneInString(s[at:])
		from = at + size
	}
	return -1
}

func isWordRune(r rune) bool {
	return r != utf8.RuneError && (unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_')
}

// pickQuestions chooses n questions at random and returns them in text order.
func pickQuestions(rng *rand.Rand, all []clozeQuestion, n int) []clozeQuestion {
	idx := rng.Perm(len(all))[:n]
	sort.Ints(idx)
	out := make([]clozeQuestion, n)
	for i, j := range idx {
		out[i] = all[j]
	}
	return out
}

var stopWords = map[string]bool{
	"about": true, "above": true, "after": true, "again": true, "along": true,
	"among": true, "because": true, "before": true, "being": true, "below": true,
	"between": true, "both": true, "called": true, "could": true, "during": true,
	"every": true, "from": true, "given": true, "having": true, "their": true,
	"there": true, "these": true, "thing": true, "things": true, "those": true,
	"through": true, "under": true, "until": true, "where": true, "which": true,
	"while": true, "whose": true, "within": true, "without": true, "would": true,
	"other": true, "another": true, "should": true, "always": true, "however": true,
}
