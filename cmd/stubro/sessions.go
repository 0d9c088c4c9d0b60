package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stubro-ai/stubro/internal/storage"
)

var (
	flagSessionFile  string
	flagSessionText  string
	flagSessionTitle string
	flagSessionLimit int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage saved study sessions",
	Long: `A session is a saved piece of study text. Every session can be played
again from the menu or with 'stubro play --session <id>'.

Examples:
  stubro sessions new --file ./chapter3.md
  stubro sessions new --text - --title "Lecture 4" < notes.txt
  stubro sessions list
  stubro sessions show 1f3a
  stubro sessions delete 1f3a`,
}

var sessionsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Save study text as a new session",
	Args:  cobra.NoArgs,
	RunE:  runSessionsNew,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved sessions, newest first",
	Args:  cobra.NoArgs,
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a session's study text",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a session and its scores",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	sessionsNewCmd.Flags().StringVar(&flagSessionFile, "file", "", "Study notes file (.txt, .md)")
	sessionsNewCmd.Flags().StringVar(&flagSessionText, "text", "", "Study notes text, or - for stdin")
	sessionsNewCmd.Flags().StringVar(&flagSessionTitle, "title", "", "Session title (default from the notes)")
	sessionsNewCmd.MarkFlagsMutuallyExclusive("file", "text")
	sessionsNewCmd.MarkFlagsOneRequired("file", "text")

	sessionsListCmd.Flags().IntVar(&flagSessionLimit, "limit", 20, "Maximum sessions to list")

	sessionsCmd.AddCommand(sessionsNewCmd, sessionsListCmd, sessionsShowCmd, sessionsDeleteCmd)
}

func runSessionsNew(_ *cobra.Command, _ []string) error {
	c, err := readNotes(flagSessionFile, flagSessionText, flagSessionTitle)
	if err != nil {
		return err
	}

	_, store, err := openConfiguredStore()
	if err != nil {
		return err
	}
	defer store.Close()

	s, err := store.CreateSession(c.Title, c.ID, c.Content)
	if err != nil {
		return err
	}
	newLogger().Debug("session saved", "session", s.ID, "chars", len(s.Content))

	fmt.Printf("Saved session %s (%s)\n", s.ID[:8], s.Title)
	fmt.Printf("Play it with 'stubro play --session %s'\n", s.ID[:8])
	return nil
}

func runSessionsList(_ *cobra.Command, _ []string) error {
	_, store, err := openConfiguredStore()
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := store.ListSessions(flagSessionLimit)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("No saved sessions.")
		fmt.Println()
		fmt.Println("Save one with 'stubro sessions new --file <notes>'.")
		return nil
	}

	// Stats are decoration here; a failed lookup still lists sessions.
	stats, _ := store.GetAllStats()

	fmt.Printf("  %-8s  %-30s  %-5s  %-4s  %s\n", "ID", "Title", "Runs", "Best", "Created")
	fmt.Printf("  %-8s  %-30s  %-5s  %-4s  %s\n", "--", "-----", "----", "----", "-------")
	for _, s := range sessions {
		runs, best := 0, 0
		if st, ok := stats[s.ID]; ok {
			runs, best = st.GamesCount, st.HighScore
		}
		fmt.Printf("  %-8s  %-30s  %-5d  %-4d  %s\n",
			s.ID[:8], clip(s.Title, 30), runs, best, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runSessionsShow(_ *cobra.Command, args []string) error {
	_, store, err := openConfiguredStore()
	if err != nil {
		return err
	}
	defer store.Close()

	s, err := findSession(store, args[0])
	if err != nil {
		return err
	}
	stats, err := store.GetStats(s.ID)
	if err != nil {
		return err
	}

	fmt.Printf("%s\n", s.Title)
	fmt.Printf("ID: %s  Source: %s  Created: %s\n\n", s.ID, s.Source, s.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Println(s.Content)
	if stats.GamesCount > 0 {
		fmt.Println()
		fmt.Printf("Best: %d  Runs: %d  Last played: %s\n",
			stats.HighScore, stats.GamesCount, stats.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}

func runSessionsDelete(_ *cobra.Command, args []string) error {
	_, store, err := openConfiguredStore()
	if err != nil {
		return err
	}
	defer store.Close()

	s, err := findSession(store, args[0])
	if err != nil {
		return err
	}
	if err := store.DeleteSession(s.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted session %s (%s)\n", s.ID[:8], s.Title)
	return nil
}

// findSession looks up a session by ID or prefix.
func findSession(store *storage.Store, id string) (*storage.Session, error) {
	s, err := store.GetSession(id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("no session matches %q: %w", id, err)
	}
	return s, err
}

// clip shortens s to n runes for table output.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
