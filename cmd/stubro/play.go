package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/stubro-ai/stubro/internal/content"
	"github.com/stubro-ai/stubro/internal/levelgen"
	"github.com/stubro-ai/stubro/internal/platform/tui"
	"github.com/stubro-ai/stubro/internal/storage"
)

var (
	flagPlayFile       string
	flagPlayText       string
	flagPlayChapter    string
	flagPlaySession    string
	flagPlayLevel      string
	flagPlayBackend    string
	flagPlayDifficulty string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Chapter Conquest",
	Long: `Build a level from study material and play it.

Pick exactly one source:
  --chapter <id>   a built-in chapter (see 'stubro chapters')
  --session <id>   a saved session (an ID prefix is enough)
  --file <path>    a .txt or .md file; it is saved as a new session
  --text <notes>   notes on the command line, or - to read stdin
  --level <path>   a hand-made level file (.yaml or .json), no generation

Controls:
  WASD/Arrows  - Move
  E            - Interact with a nearby ? checkpoint
  Enter        - Submit answer / continue
  R            - New level (after finishing or an error)
  Esc/B        - Leave
  Q/Ctrl+C     - Quit

Examples:
  stubro play --chapter phy10_light
  stubro play --file ./biology.md --difficulty hard
  cat notes.txt | stubro play --text -
  stubro play --level ./levels/tutorial.yaml
  stubro play --chapter bio9_cell --backend openai`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayFile, "file", "", "Study notes file (.txt, .md)")
	playCmd.Flags().StringVar(&flagPlayText, "text", "", "Study notes text, or - for stdin")
	playCmd.Flags().StringVar(&flagPlayChapter, "chapter", "", "Built-in chapter ID")
	playCmd.Flags().StringVar(&flagPlaySession, "session", "", "Saved session ID or prefix")
	playCmd.Flags().StringVar(&flagPlayLevel, "level", "", "Level file to play without generation")
	playCmd.Flags().StringVar(&flagPlayBackend, "backend", "", "Level generator backend (default from config)")
	playCmd.Flags().StringVar(&flagPlayDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.MarkFlagsMutuallyExclusive("file", "text", "chapter", "session", "level")
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	backend := flagPlayBackend
	if flagPlayLevel != "" {
		backend = levelgen.BackendFile
	}
	backend, preset, err := resolveBackend(cfg, backend, flagPlayDifficulty)
	if err != nil {
		return err
	}

	logger, closer := newTUILogger()
	defer closer.Close()

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		// Continue without storage - the game still works
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	study, err := resolveStudy(store, logger)
	if err != nil {
		return err
	}

	setup := generatorSetup{
		cfg:       cfg,
		backend:   backend,
		levelPath: flagPlayLevel,
		preset:    preset,
		store:     store,
		logger:    logger,
	}
	gen, err := setup.factory()(flagUser)
	if err != nil {
		return err
	}

	var scores tui.ScoreSaver
	if store != nil {
		scores = store
	}

	score, err := tui.RunAdventure(study, tui.AdventureOptions{
		Generator: gen,
		Scores:    scores,
		Config:    cfg.Adventure,
		Runtime:   runtimeConfig(),
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	if score > 0 {
		fmt.Printf("Final score: %d\n", score)
	}
	if store != nil && study.ScoreKey != "" {
		if best, err := store.HighScore(study.ScoreKey); err == nil && best > 0 {
			fmt.Printf("Best for %s: %d\n", study.Title, best)
		}
	}
	return nil
}

// resolveStudy loads the text selected by the play flags. New text from a
// file or the command line is saved as a session so it shows up in the menu.
func resolveStudy(store *storage.Store, logger *log.Logger) (tui.Study, error) {
	switch {
	case flagPlayLevel != "":
		base := filepath.Base(flagPlayLevel)
		return tui.Study{Title: strings.TrimSuffix(base, filepath.Ext(base))}, nil

	case flagPlayChapter != "":
		c, ok := content.ByID(flagPlayChapter)
		if !ok {
			return tui.Study{}, fmt.Errorf("unknown chapter %q. Run 'stubro chapters' to see them", flagPlayChapter)
		}
		return tui.Study{ScoreKey: tui.ChapterScoreKey(c.ID), Title: c.Title, Text: c.Content}, nil

	case flagPlaySession != "":
		if store == nil {
			return tui.Study{}, fmt.Errorf("sessions need the database")
		}
		s, err := store.GetSession(flagPlaySession)
		if err != nil {
			return tui.Study{}, fmt.Errorf("session %q: %w", flagPlaySession, err)
		}
		return tui.Study{ScoreKey: s.ID, Title: s.Title, Text: s.Content}, nil

	case flagPlayFile != "" || flagPlayText != "":
		c, err := readNotes(flagPlayFile, flagPlayText, "")
		if err != nil {
			return tui.Study{}, err
		}
		study := tui.Study{Title: c.Title, Text: c.Content}
		if store == nil {
			return study, nil
		}
		s, err := store.CreateSession(c.Title, c.ID, c.Content)
		if err != nil {
			logger.Warn("could not save session", "title", c.Title, "error", err)
			return study, nil
		}
		logger.Info("session saved", "session", s.ID, "title", s.Title)
		study.ScoreKey = s.ID
		return study, nil
	}

	return tui.Study{}, fmt.Errorf("nothing to study: pass --chapter, --session, --file, --text or --level")
}

// readNotes loads study text from a file, an argument, or stdin for "-".
func readNotes(file, text, title string) (content.Chapter, error) {
	var (
		c   content.Chapter
		err error
	)
	switch {
	case file != "":
		c, err = content.FromFile(file)
	case text == "-":
		c, err = content.FromReader(os.Stdin, title)
	default:
		c, err = content.FromReader(strings.NewReader(text), title)
	}
	if err != nil {
		return c, err
	}
	if title != "" {
		c.Title = title
	}
	return c, nil
}
