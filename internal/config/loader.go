package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/stubro.yaml
var defaultYAML []byte

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Adventure: AdventureConfig{
			TileSize:        40,
			PlayerSizeRatio: 0.8,
			Speed:           2,
			Reward:          10,
			HoldTicks:       30,
		},
		Generator: GeneratorConfig{
			Backend:         "offline",
			Model:           "gpt-4o-mini",
			APIKeyEnv:       "STUBRO_API_KEY",
			TimeoutSeconds:  60,
			MaxContentChars: 12000,
			Temperature:     0.7,
		},
		Credits: CreditsConfig{
			Enabled:   true,
			Initial:   100,
			LevelCost: 5,
		},
		Difficulty: DifficultyConfig{
			Preset: DifficultyNormal,
		},
	}
}

// Load loads the StuBro configuration.
// Search order: customPath -> ~/.stubro/config.yaml -> ./configs/stubro.yaml -> embedded default.
// Files are layered over the defaults, so a file may set only the keys it changes.
func Load(customPath string) (Config, error) {
	cfg := Default()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	for _, path := range []string{UserPath("config.yaml"), filepath.Join("configs", "stubro.yaml")} {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		fileCfg := Default()
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		return fileCfg, fileCfg.Validate()
	}

	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, cfg.Validate()
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

// UserPath returns a path under ~/.stubro, or empty if home is unavailable.
func UserPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".stubro", name)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}
