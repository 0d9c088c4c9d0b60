package levelgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stubro-ai/stubro/internal/config"
	"github.com/stubro-ai/stubro/internal/core"
	"github.com/stubro-ai/stubro/internal/games/adventure"
)

// BackendFile is the name of the hand-authored level backend.
const BackendFile = "file"

func init() {
	Register(BackendFile, "Load a hand-written level from a YAML or JSON file", NewFile)
}

// File serves a level stored on disk. The study text is ignored.
type File struct {
	path string
}

// NewFile creates the file backend for opts.LevelPath.
func NewFile(opts Options) (Generator, error) {
	if opts.LevelPath == "" {
		return nil, fmt.Errorf("levelgen: the file backend needs a level path (--level)")
	}
	path, err := config.ExpandHome(opts.LevelPath)
	if err != nil {
		return nil, fmt.Errorf("levelgen: %w", err)
	}
	return &File{path: path}, nil
}

// Generate reads and validates the level file.
func (f *File) Generate(ctx context.Context, _ string) (*adventure.Level, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("levelgen: read level file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(f.path)) {
	case ".json":
		return ParseLevelJSON(string(data))
	case ".yaml", ".yml":
		return ParseLevelYAML(data)
	default:
		return nil, fmt.Errorf("levelgen: unsupported level file %q (want .yaml, .yml or .json)", f.path)
	}
}

// levelFile is the YAML authoring format. Either grid or layout describes the
// tiles; layout rows use '#' for walls, 'E' for the exit and 'S' for the start.
type levelFile struct {
	Title        string                  `yaml:"title"`
	Layout       []string                `yaml:"layout"`
	Grid         [][]adventure.Tile      `yaml:"grid"`
	PlayerStart  *core.Point             `yaml:"player_start"`
	Interactions []adventure.Interaction `yaml:"interactions"`
}

// ParseLevelYAML decodes and validates a YAML level.
func ParseLevelYAML(data []byte) (*adventure.Level, error) {
	var lf levelFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("%w: invalid YAML: %v", ErrMalformedLevel, err)
	}

	level := &adventure.Level{
		Title:        lf.Title,
		Grid:         lf.Grid,
		Interactions: lf.Interactions,
	}

	if len(lf.Layout) > 0 {
		if len(lf.Grid) > 0 {
			return nil, fmt.Errorf("%w: level file sets both layout and grid", ErrMalformedLevel)
		}
		grid, start, found := adventure.ParseLayout(lf.Layout)
		level.Grid = grid
		if found {
			level.PlayerStart = start
		}
	}
	if lf.PlayerStart != nil {
		level.PlayerStart = *lf.PlayerStart
	}

	if err := level.Validate(); err != nil {
		return nil, err
	}
	return level, nil
}
