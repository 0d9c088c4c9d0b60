package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/stubro-ai/stubro/internal/config"
	"github.com/stubro-ai/stubro/internal/core"
	"github.com/stubro-ai/stubro/internal/levelgen"
	"github.com/stubro-ai/stubro/internal/logging"
	"github.com/stubro-ai/stubro/internal/platform/tui"
	"github.com/stubro-ai/stubro/internal/storage"
)

// loadConfig reads the config file chosen by --config or the search path.
func loadConfig() (config.Config, error) {
	return config.Load(flagConfig)
}

// logLevel returns the --log-level value. It is checked once in the root
// command's PersistentPreRunE.
func logLevel() log.Level {
	level, _ := logging.ParseLevel(flagLogLevel)
	return level
}

// newLogger returns a stderr logger for plain commands.
func newLogger() *log.Logger {
	return logging.New("stubro", logLevel())
}

// newTUILogger logs to ~/.stubro/stubro.log so records do not draw over the
// alternate screen. The returned closer must be called on exit.
func newTUILogger() (*log.Logger, io.Closer) {
	level := logLevel()
	path := config.UserPath("stubro.log")
	if path == "" {
		return logging.Discard(), io.NopCloser(nil)
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		return logging.Discard(), io.NopCloser(nil)
	}
	return logging.NewWriter(f, "stubro", level), f
}

// openStore opens the database, seeding new wallets from the config.
func openStore(cfg config.Config) (*storage.Store, error) {
	return storage.Open(flagDBPath, storage.WithInitialCredits(cfg.Credits.Initial))
}

// openConfiguredStore loads the config and opens the database with it.
func openConfiguredStore() (config.Config, *storage.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, nil, err
	}
	store, err := openStore(cfg)
	if err != nil {
		return cfg, nil, fmt.Errorf("opening database: %w", err)
	}
	return cfg, store, nil
}

// runtimeConfig sizes the screen from the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// generatorSetup is everything needed to build a user's generator.
type generatorSetup struct {
	cfg       config.Config
	backend   string
	levelPath string
	preset    config.DifficultyPreset
	store     *storage.Store
	logger    *log.Logger
}

// factory returns a per-user generator builder. Paid backends are wrapped
// so each level is charged to the user's wallet.
func (s generatorSetup) factory() tui.GeneratorFactory {
	return func(user string) (levelgen.Generator, error) {
		gen, err := levelgen.Create(s.backend, levelgen.Options{
			Generator: s.cfg.Generator,
			Shape:     config.ShapeForPreset(s.preset),
			Seed:      flagSeed,
			LevelPath: s.levelPath,
			Logger:    s.logger,
		})
		if err != nil {
			return nil, err
		}
		if !s.cfg.Credits.Enabled || s.store == nil || s.backend != levelgen.BackendOpenAI {
			return gen, nil
		}
		return levelgen.NewMetered(gen, s.store, user, s.cfg.Credits.LevelCost, s.logger), nil
	}
}

// resolveBackend applies the --backend and --difficulty overrides.
func resolveBackend(cfg config.Config, backend, difficulty string) (string, config.DifficultyPreset, error) {
	if backend == "" {
		backend = cfg.Generator.Backend
	}
	if !levelgen.Exists(backend) {
		return "", "", fmt.Errorf("unknown backend %q. Run 'stubro backends' to see available backends", backend)
	}

	if difficulty == "" {
		difficulty = string(cfg.Difficulty.Preset)
	}
	preset, ok := config.ParsePreset(difficulty)
	if !ok {
		return "", "", fmt.Errorf("unknown difficulty %q (use easy, normal or hard)", difficulty)
	}
	return backend, preset, nil
}
