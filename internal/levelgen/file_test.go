package levelgen

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stubro-ai/stubro/internal/core"
)

const layoutYAML = `title: Light
layout:
  - "#######"
  - "#S..#E#"
  - "#.#...#"
  - "#######"
interactions:
  - id: 1
    position: {x: 2, y: 1}
    question: "What is the SI unit of the power of a lens?"
    correct_answer: dioptre
    success_message: "Exactly."
    failure_message: "Check the last paragraph."
`

func writeLevel(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func fileGenerator(t *testing.T, path string) Generator {
	t.Helper()
	opts := quietOptions()
	opts.LevelPath = path
	g, err := Create(BackendFile, opts)
	if err != nil {
		t.Fatalf("Create(file) failed: %v", err)
	}
	return g
}

func TestFileYAMLLayout(t *testing.T) {
	g := fileGenerator(t, writeLevel(t, "light.yaml", layoutYAML))

	level, err := g.Generate(context.Background(), "")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if level.Title != "Light" {
		t.Errorf("title = %q", level.Title)
	}
	if level.PlayerStart != core.Pt(1, 1) {
		t.Errorf("start = %v, expected (1,1)", level.PlayerStart)
	}
	if level.Width() != 7 || level.Height() != 4 {
		t.Errorf("size = %dx%d", level.Width(), level.Height())
	}
	if len(level.Interactions) != 1 || level.Interactions[0].Answer != "dioptre" {
		t.Errorf("interactions = %+v", level.Interactions)
	}
}

func TestFileJSON(t *testing.T) {
	g := fileGenerator(t, writeLevel(t, "cells.json", sampleLevelJSON))

	level, err := g.Generate(context.Background(), "ignored")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if level.Title != "Cells" {
		t.Errorf("title = %q", level.Title)
	}
}

func TestFileErrors(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		content   string
		malformed bool
		contains  string
	}{
		{"unknown extension", "level.txt", "S.E", false, "unsupported"},
		{"bad yaml", "bad.yaml", "layout: [", true, "invalid YAML"},
		{"layout and grid", "both.yml", "layout: [\"SE\"]\ngrid: [[{type: floor}]]\n", true, "both layout and grid"},
		{"no exit", "noexit.yaml", "layout: [\"S..\"]\n", true, "no exit"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fileGenerator(t, writeLevel(t, tc.file, tc.content)).Generate(context.Background(), "")
			if err == nil {
				t.Fatal("expected an error")
			}
			if errors.Is(err, ErrMalformedLevel) != tc.malformed {
				t.Errorf("errors.Is(err, ErrMalformedLevel) = %v, expected %v (%v)", !tc.malformed, tc.malformed, err)
			}
			if !strings.Contains(err.Error(), tc.contains) {
				t.Errorf("err = %q, expected to contain %q", err, tc.contains)
			}
		})
	}
}

func TestFileMissing(t *testing.T) {
	g := fileGenerator(t, filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := g.Generate(context.Background(), ""); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, expected not exist", err)
	}
}

func TestFileNeedsPath(t *testing.T) {
	if _, err := Create(BackendFile, quietOptions()); err == nil {
		t.Error("file backend without a path should fail")
	}
}

func TestExplicitStartOverridesLayout(t *testing.T) {
	level, err := ParseLevelYAML([]byte("layout: [\"S..E\"]\nplayer_start: {x: 2, y: 0}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if level.PlayerStart != core.Pt(2, 0) {
		t.Errorf("start = %v, expected (2,0)", level.PlayerStart)
	}
}
