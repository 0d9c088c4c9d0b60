package levelgen

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/stubro-ai/stubro/internal/config"
	"github.com/stubro-ai/stubro/internal/games/adventure"
)

const cellChapter = `All living organisms are made up of fundamental units called cells.
The cell is the basic structural and functional unit of life.

Mitochondria are the powerhouses of the cell, generating energy as ATP.
Lysosomes clean the cell by digesting waste and foreign material.
Chloroplasts perform photosynthesis in plant cells.
Plant cells have a rigid cell wall outside the plasma membrane.
Vacuoles are storage sacs that are large in plant cells.`

func newOffline(t *testing.T, preset config.DifficultyPreset, seed int64) Generator {
	t.Helper()
	opts := quietOptions()
	opts.Shape = config.ShapeForPreset(preset)
	opts.Seed = seed
	g, err := Create(BackendOffline, opts)
	if err != nil {
		t.Fatalf("Create(offline) failed: %v", err)
	}
	return g
}

func TestOfflineBuildsPlayableLevels(t *testing.T) {
	for _, preset := range []config.DifficultyPreset{config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard} {
		for seed := int64(1); seed <= 20; seed++ {
			level, err := newOffline(t, preset, seed).Generate(context.Background(), cellChapter)
			if err != nil {
				t.Fatalf("%s/seed %d: Generate() failed: %v", preset, seed, err)
			}
			if err := level.Validate(); err != nil {
				t.Fatalf("%s/seed %d: level invalid: %v", preset, seed, err)
			}

			shape := config.ShapeForPreset(preset)
			if level.Width() != shape.Width || level.Height() != shape.Height {
				t.Errorf("%s: size %dx%d, expected %dx%d", preset, level.Width(), level.Height(), shape.Width, shape.Height)
			}
			if len(level.Interactions) == 0 || len(level.Interactions) > shape.Checkpoints {
				t.Errorf("%s: %d checkpoints, expected 1..%d", preset, len(level.Interactions), shape.Checkpoints)
			}
		}
	}
}

func TestOfflineQuestionsComeFromText(t *testing.T) {
	level, err := newOffline(t, config.DifficultyNormal, 3).Generate(context.Background(), cellChapter)
	if err != nil {
		t.Fatal(err)
	}

	for _, in := range level.Interactions {
		if !strings.Contains(in.Question, "_____") {
			t.Errorf("question %q has no blank", in.Question)
		}
		if !strings.Contains(cellChapter, in.Answer) {
			t.Errorf("answer %q is not in the text", in.Answer)
		}
		filled := strings.Replace(strings.TrimPrefix(in.Question, "Fill in the blank: "), "_____", in.Answer, 1)
		if !strings.Contains(strings.Join(strings.Fields(cellChapter), " "), filled) {
			t.Errorf("filled question %q does not match the text", filled)
		}
		if in.SuccessMessage == "" || in.FailureMessage == "" {
			t.Errorf("interaction %d is missing feedback messages", in.ID)
		}
	}
}

func TestOfflineIsDeterministic(t *testing.T) {
	a, err := newOffline(t, config.DifficultyNormal, 42).Generate(context.Background(), cellChapter)
	if err != nil {
		t.Fatal(err)
	}
	b, err := newOffline(t, config.DifficultyNormal, 42).Generate(context.Background(), cellChapter)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed and text should give the same level")
	}

	// Zero seed derives from the text, so it is stable too.
	c, _ := newOffline(t, config.DifficultyNormal, 0).Generate(context.Background(), cellChapter)
	d, _ := newOffline(t, config.DifficultyNormal, 0).Generate(context.Background(), cellChapter)
	if !reflect.DeepEqual(c, d) {
		t.Error("text-derived seed should be stable")
	}
}

func TestOfflineLevelLoadsIntoGame(t *testing.T) {
	level, err := newOffline(t, config.DifficultyEasy, 5).Generate(context.Background(), cellChapter)
	if err != nil {
		t.Fatal(err)
	}

	g := adventure.New(config.Default().Adventure)
	if err := g.Load(level); err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if g.Phase() != adventure.StatePlaying {
		t.Errorf("state = %v, expected playing", g.Phase())
	}
}

func TestOfflineRejectsEmptyText(t *testing.T) {
	g := newOffline(t, config.DifficultyNormal, 1)

	for _, text := range []string{"", "   "} {
		_, err := g.Generate(context.Background(), text)
		if !errors.Is(err, ErrEmptyContent) {
			t.Errorf("Generate(%q) err = %v, expected ErrEmptyContent", text, err)
		}
	}
}

func TestOfflineTextWithoutQuestionsIsNotEmpty(t *testing.T) {
	_, err := newOffline(t, config.DifficultyNormal, 1).Generate(context.Background(), "a b c. d e.")
	if !errors.Is(err, ErrMalformedLevel) {
		t.Errorf("err = %v, expected ErrMalformedLevel", err)
	}
	if errors.Is(err, ErrEmptyContent) {
		t.Error("text that yields no questions should not report missing content")
	}
}

func TestOfflineNonLatinText(t *testing.T) {
	texts := []string{
		"Мітохондрія є енергетичною станцією клітини. Рибосоми синтезують білки у цитоплазмі клітини.",
		"Η μιτοχονδριακή αναπνοή παράγει ενέργεια για το κύτταρο. Τα ριβοσώματα συνθέτουν πρωτεΐνες.",
		"Le peuple de Paris prit la Bastille en juillet. Les députés rédigèrent la Déclaration des droits.",
	}
	for _, preset := range []config.DifficultyPreset{config.DifficultyEasy, config.DifficultyNormal, config.DifficultyHard} {
		for _, text := range texts {
			level, err := newOffline(t, preset, 7).Generate(context.Background(), text)
			if err != nil {
				t.Fatalf("%s: Generate(%q) failed: %v", preset, text, err)
			}
			for _, in := range level.Interactions {
				filled := strings.Replace(strings.TrimPrefix(in.Question, "Fill in the blank: "), "_____", in.Answer, 1)
				if !strings.Contains(text, filled) {
					t.Errorf("filled question %q does not match the text", filled)
				}
			}
		}
	}
}

func TestOfflineHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newOffline(t, config.DifficultyNormal, 1).Generate(ctx, cellChapter)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, expected context.Canceled", err)
	}
}

func TestIndexWord(t *testing.T) {
	tests := []struct {
		s, word  string
		expected int
	}{
		{"the cell wall", "cell", 4},
		{"cells and a cell", "cell", 12},
		{"Мітохондрія є станцією клітини", "клітини", len("Мітохондрія є станцією ")},
		{"клітинами та клітини", "клітини", len("клітинами та ")},
		{"un café noir", "café", 3},
		{"cafés", "café", -1},
		{"L'État moderne", "État", 2},
		{"nothing here", "cell", -1},
	}

	for _, tc := range tests {
		if got := indexWord(tc.s, tc.word); got != tc.expected {
			t.Errorf("indexWord(%q, %q) = %d, expected %d", tc.s, tc.word, got, tc.expected)
		}
	}
}

func TestPickKeyword(t *testing.T) {
	tests := []struct {
		sentence string
		expected string
		ok       bool
	}{
		{"Mitochondria are the powerhouses of the cell", "Mitochondria", true},
		{"The Third Estate bore the burden of taxes", "Estate", true},
		{"It is a cat on a mat", "", false},
		{"Because of this, there would be those", "", false},
		{"Рибосоми синтезують білки у цитоплазмі", "синтезують", true},
		{"La Déclaration fut adoptée", "Déclaration", true},
	}

	for _, tc := range tests {
		got, ok := pickKeyword(tc.sentence)
		if got != tc.expected || ok != tc.ok {
			t.Errorf("pickKeyword(%q) = %q, %v, expected %q, %v", tc.sentence, got, ok, tc.expected, tc.ok)
		}
	}
}
