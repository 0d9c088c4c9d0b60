// Package config provides YAML-based configuration loading and difficulty
// presets for StuBro.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// Config is the root of the StuBro configuration file.
type Config struct {
	Adventure  AdventureConfig  `yaml:"adventure"`
	Generator  GeneratorConfig  `yaml:"generator"`
	Credits    CreditsConfig    `yaml:"credits"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// AdventureConfig holds the tile adventure movement and scoring constants.
type AdventureConfig struct {
	TileSize        float64 `yaml:"tile_size"`         // Pixels per tile
	PlayerSizeRatio float64 `yaml:"player_size_ratio"` // Player box relative to a tile, in (0, 1)
	Speed           float64 `yaml:"speed"`             // Pixels per tick on each held axis
	Reward          int     `yaml:"reward"`            // Points per newly completed checkpoint
	HoldTicks       int     `yaml:"hold_ticks"`        // Ticks a key press stays held; 0 = until release
}

// GeneratorConfig selects and configures the level generator backend.
type GeneratorConfig struct {
	Backend         string  `yaml:"backend"`
	Model           string  `yaml:"model"`
	BaseURL         string  `yaml:"base_url"`
	APIKeyEnv       string  `yaml:"api_key_env"`
	TimeoutSeconds  int     `yaml:"timeout_seconds"`
	MaxContentChars int     `yaml:"max_content_chars"`
	Temperature     float32 `yaml:"temperature"`
}

// CreditsConfig controls the per-user generation credit balance.
type CreditsConfig struct {
	Enabled   bool `yaml:"enabled"`
	Initial   int  `yaml:"initial"`
	LevelCost int  `yaml:"level_cost"`
}

// DifficultyConfig names the preset used when asking for a level.
type DifficultyConfig struct {
	Preset DifficultyPreset `yaml:"preset"`
}

// Timeout returns the generator timeout as a duration.
func (g GeneratorConfig) Timeout() time.Duration {
	if g.TimeoutSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// APIKey reads the API key from the configured environment variable.
func (g GeneratorConfig) APIKey() string {
	if g.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(g.APIKeyEnv)
}

// Validate checks the values the adventure relies on.
func (c Config) Validate() error {
	var errs []error

	a := c.Adventure
	if a.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("adventure.tile_size must be positive, got %v", a.TileSize))
	}
	if a.PlayerSizeRatio <= 0 || a.PlayerSizeRatio >= 1 {
		errs = append(errs, fmt.Errorf("adventure.player_size_ratio must be in (0, 1), got %v", a.PlayerSizeRatio))
	}
	if a.Speed <= 0 {
		errs = append(errs, fmt.Errorf("adventure.speed must be positive, got %v", a.Speed))
	}
	if a.TileSize > 0 && a.Speed >= a.TileSize {
		errs = append(errs, fmt.Errorf("adventure.speed must be smaller than tile_size"))
	}
	if a.Reward < 0 {
		errs = append(errs, fmt.Errorf("adventure.reward must not be negative"))
	}
	if a.HoldTicks < 0 {
		errs = append(errs, fmt.Errorf("adventure.hold_ticks must not be negative"))
	}
	if c.Credits.Enabled && c.Credits.LevelCost < 0 {
		errs = append(errs, fmt.Errorf("credits.level_cost must not be negative"))
	}
	if c.Difficulty.Preset != "" && !c.Difficulty.Preset.Valid() {
		errs = append(errs, fmt.Errorf("difficulty.preset %q is not one of easy, normal, hard", c.Difficulty.Preset))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
