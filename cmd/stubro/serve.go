package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stubro-ai/stubro/internal/platform/tui"
)

var (
	flagSSHAddr         string
	flagHostKey         string
	flagIdleTimeout     int
	flagServeBackend    string
	flagServeDifficulty string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the StuBro SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own menu. The SSH username is the player:
levels are charged to that user's credits.
Scores and sessions are stored per-server (all users share the same database).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.stubro/host_key

Examples:
  stubro serve                           # Listen on :23234 with auto-generated key
  stubro serve --ssh :2222               # Listen on port 2222
  stubro serve --host-key ./my_host_key  # Use specific host key
  stubro serve --backend openai          # Generate levels with the OpenAI backend

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagServeBackend, "backend", "", "Level generator backend (default from config)")
	serveCmd.Flags().StringVar(&flagServeDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	backend, preset, err := resolveBackend(cfg, flagServeBackend, flagServeDifficulty)
	if err != nil {
		return err
	}
	logger := newLogger().WithPrefix("stubro-ssh")

	store, err := openStore(cfg)
	if err != nil {
		logger.Warn("could not open database", "error", err)
		// Continue without storage
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	setup := generatorSetup{cfg: cfg, backend: backend, preset: preset, store: store, logger: logger}
	serverCfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		Logger:      logger,
		App: tui.AppOptions{
			Store:        store,
			NewGenerator: setup.factory(),
			Adventure:    cfg.Adventure,
			Runtime:      runtimeConfig(),
			ShowCredits:  cfg.Credits.Enabled && store != nil,
		},
	}

	server, err := tui.NewSSHServer(serverCfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	fmt.Printf("Starting StuBro SSH server on %s (backend %s)\n", serverCfg.Address, backend)
	fmt.Println("Connect with: ssh localhost -p 23234")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
