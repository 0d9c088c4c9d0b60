package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stubro-ai/stubro/internal/content"
	"github.com/stubro-ai/stubro/internal/platform/tui"
	"github.com/stubro-ai/stubro/internal/storage"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores [session|chapter]",
	Short: "Show high scores",
	Long: `Display the top scores for a saved session or built-in chapter, or
across everything when no argument is given.

Examples:
  stubro scores
  stubro scores bio9_cell
  stubro scores 1f3a`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of scores to show")
}

func runScores(_ *cobra.Command, args []string) error {
	_, store, err := openConfiguredStore()
	if err != nil {
		return err
	}
	defer store.Close()

	key, title := "", "All studies"
	if len(args) == 1 {
		key, title, err = scoreTarget(store, args[0])
		if err != nil {
			return err
		}
	}

	scores, err := store.TopScores(key, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Conquer a chapter to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %-12s  %s\n", "Rank", "Score", "Study", "Date")
	fmt.Printf("  %-4s  %-10s  %-12s  %s\n", "----", "-----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %-12s  %s\n", i+1, entry.Score, clip(shortKey(entry.SessionID), 12),
			entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	if key == "" {
		return nil
	}
	stats, err := store.GetStats(key)
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Printf("Best: %d  Runs: %d  Average: %.1f\n", stats.HighScore, stats.GamesCount, stats.AvgScore)
	return nil
}

// scoreTarget resolves a chapter ID or session ID prefix to its score key.
func scoreTarget(store *storage.Store, arg string) (key, title string, err error) {
	if c, ok := content.ByID(strings.TrimPrefix(arg, "chapter:")); ok {
		return tui.ChapterScoreKey(c.ID), c.Title, nil
	}
	s, err := store.GetSession(arg)
	if errors.Is(err, storage.ErrNotFound) {
		return "", "", fmt.Errorf("no chapter or session matches %q", arg)
	}
	if err != nil {
		return "", "", err
	}
	return s.ID, s.Title, nil
}

// shortKey trims session UUIDs for display.
func shortKey(key string) string {
	if strings.HasPrefix(key, "chapter:") || len(key) < 8 {
		return strings.TrimPrefix(key, "chapter:")
	}
	return key[:8]
}
