package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stubro-ai/stubro/internal/platform/tui"
)

var (
	flagMenuBackend    string
	flagMenuDifficulty string
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start StuBro with a chapter picker menu",
	Long: `Start StuBro in interactive menu mode.

The menu lists the built-in chapters and your saved sessions.
After a run ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Play the selected study
  Tab          - Scoreboard
  X            - Delete the selected session
  Q            - Quit

Examples:
  stubro menu
  stubro menu --fps 30
  stubro menu --backend openai --db ./stubro.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagMenuBackend, "backend", "", "Level generator backend (default from config)")
	menuCmd.Flags().StringVar(&flagMenuDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
}

func runMenu(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	backend, preset, err := resolveBackend(cfg, flagMenuBackend, flagMenuDifficulty)
	if err != nil {
		return err
	}

	logger, closer := newTUILogger()
	defer closer.Close()

	store, err := openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	setup := generatorSetup{cfg: cfg, backend: backend, preset: preset, store: store, logger: logger}
	return tui.RunApp(tui.AppOptions{
		Store:        store,
		NewGenerator: setup.factory(),
		User:         flagUser,
		Adventure:    cfg.Adventure,
		Runtime:      runtimeConfig(),
		ShowCredits:  cfg.Credits.Enabled && store != nil,
		Logger:       logger,
	})
}
