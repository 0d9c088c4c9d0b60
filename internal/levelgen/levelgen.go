// Package levelgen turns study text into playable adventure levels.
// Backends register themselves in init() functions, allowing the CLI and the
// SSH server to pick one by name without hardcoded dependencies.
package levelgen

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/stubro-ai/stubro/internal/config"
	"github.com/stubro-ai/stubro/internal/games/adventure"
)

// Generator builds a level from study text. Implementations make a single
// attempt; callers decide whether to try again.
type Generator interface {
	Generate(ctx context.Context, studyText string) (*adventure.Level, error)
}

// GeneratorFunc adapts a plain function to Generator.
type GeneratorFunc func(ctx context.Context, studyText string) (*adventure.Level, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, studyText string) (*adventure.Level, error) {
	return f(ctx, studyText)
}

// Errors surfaced by generators. They are the adventure's sentinels so the
// game can pick the right message with errors.Is.
var (
	ErrInsufficientCredits = adventure.ErrInsufficientCredits
	ErrEmptyContent        = adventure.ErrNoContent
	ErrMalformedLevel      = adventure.ErrMalformedLevel
)

// Options configure a backend when it is created.
type Options struct {
	Generator config.GeneratorConfig
	Shape     config.LevelShape
	Seed      int64
	LevelPath string // Level file for the file backend
	Logger    *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.Default()
}

// BackendInfo describes a registered backend.
type BackendInfo struct {
	Name        string
	Description string
}

// Factory creates a generator from options.
type Factory func(opts Options) (Generator, error)

type backend struct {
	factory     Factory
	description string
}

var (
	backends = make(map[string]backend)
	mu       sync.RWMutex
)

// Register adds a backend factory. Panics if the name is already taken.
func Register(name, description string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := backends[name]; exists {
		panic(fmt.Sprintf("levelgen: backend %q already registered", name))
	}
	backends[name] = backend{factory: f, description: description}
}

// List returns all registered backends sorted by name.
func List() []BackendInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]BackendInfo, 0, len(backends))
	for name, b := range backends {
		result = append(result, BackendInfo{Name: name, Description: b.description})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Create instantiates the named backend.
func Create(name string, opts Options) (Generator, error) {
	mu.RLock()
	b, ok := backends[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("levelgen: unknown backend %q (available: %s)", name, strings.Join(names(), ", "))
	}
	return b.factory(opts)
}

// Exists reports whether a backend with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := backends[name]
	return ok
}

func names() []string {
	infos := List()
	out := make([]string, len(infos))
	for i, b := range infos {
		out[i] = b.Name
	}
	return out
}

// PrepareText trims the study text and cuts it to at most maxChars runes.
// Empty text yields ErrEmptyContent.
func PrepareText(text string, maxChars int) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyContent
	}
	if maxChars > 0 {
		runes := []rune(text)
		if len(runes) > maxChars {
			text = string(runes[:maxChars])
		}
	}
	return text, nil
}
