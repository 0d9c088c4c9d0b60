// stubro turns study notes into a terminal adventure: walk a generated maze,
// answer question checkpoints about the chapter, and reach the exit.
//
// Usage:
//
//	stubro play --chapter <id>     - Play a built-in chapter
//	stubro play --file notes.md    - Play your own notes
//	stubro menu                    - Pick chapters and saved sessions interactively
//	stubro serve                   - Start SSH server for remote play
//	stubro sessions list           - Manage saved study sessions
//	stubro chapters [query]        - List built-in chapters
//	stubro backends                - List level generator backends
//	stubro scores [session]        - Show high scores
//	stubro credits [--add n]       - Show or top up level credits
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible levels
//	--db <path>         - Set database path (default: ~/.stubro/stubro.db)
//	--config <path>     - Use a custom config file
//	--user <name>       - Wallet and score owner (default: $USER)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stubro-ai/stubro/internal/logging"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagUser     string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stubro",
	Short: "StuBro - Conquer your chapters in the terminal",
	Long: `StuBro turns a chapter of study notes into Chapter Conquest, a small
maze adventure. Question checkpoints are written from the text; answer them
on your way to the exit to score points.

Available commands:
  play      - Play one chapter, session, file or level directly
  menu      - Interactive chapter picker
  serve     - Start SSH server for remote play
  sessions  - Save, list, show and delete study sessions
  chapters  - List the built-in chapters
  backends  - List level generator backends
  scores    - View high scores
  credits   - View or top up level credits

Examples:
  stubro play --chapter bio9_cell
  stubro play --file ./notes/photosynthesis.md --difficulty easy
  stubro menu
  stubro serve --ssh :2222
  stubro scores`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		_, err := logging.ParseLevel(flagLogLevel)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed for level generation (0 = derived from the text)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.stubro/stubro.db", "Path to the sessions and scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", defaultUser(), "User whose credits and scores are used")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(chaptersCmd)
	rootCmd.AddCommand(backendsCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(creditsCmd)
}

func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}
