package content

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestChapters(t *testing.T) {
	list := Chapters()
	if len(list) != 4 {
		t.Fatalf("expected 4 demo chapters, got %d", len(list))
	}

	seen := make(map[string]bool)
	for _, c := range list {
		if c.ID == "" || c.Title == "" || c.Subject == "" || c.ClassLevel == "" {
			t.Errorf("chapter %+v has empty metadata", c.ID)
		}
		if len(c.Content) < 200 {
			t.Errorf("chapter %s content looks truncated (%d bytes)", c.ID, len(c.Content))
		}
		if seen[c.ID] {
			t.Errorf("duplicate chapter id %s", c.ID)
		}
		seen[c.ID] = true
	}

	// Callers get a copy.
	list[0].Title = "changed"
	if Chapters()[0].Title == "changed" {
		t.Error("Chapters() exposes the shared slice")
	}
}

func TestByID(t *testing.T) {
	c, ok := ByID("bio9_cell")
	if !ok {
		t.Fatal("bio9_cell not found")
	}
	if !strings.Contains(c.Content, "Mitochondria") {
		t.Error("cell chapter should mention mitochondria")
	}
	if _, ok := ByID("nope"); ok {
		t.Error("unknown id should not be found")
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		query string
		ids   []string
	}{
		{"", []string{"phy10_light", "bio9_cell", "sst9_french_revolution", "eng9_road_not_taken"}},
		{"PHYSICS", []string{"phy10_light"}},
		{"class 9", []string{"bio9_cell", "sst9_french_revolution", "eng9_road_not_taken"}},
		{"revolution", []string{"sst9_french_revolution"}},
		{"  road ", []string{"eng9_road_not_taken"}},
		{"astronomy", nil},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			got := Search(tc.query)
			var ids []string
			for _, c := range got {
				ids = append(ids, c.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tc.ids, ",") {
				t.Errorf("Search(%q) = %v, expected %v", tc.query, ids, tc.ids)
			}
		})
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photosynthesis.md")
	text := "# Photosynthesis\r\n\r\n\r\nPlants make food   \r\nusing sunlight.\r\n"
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile() failed: %v", err)
	}
	if c.Title != "Photosynthesis" {
		t.Errorf("title = %q", c.Title)
	}
	if c.Content != "# Photosynthesis\n\nPlants make food\nusing sunlight." {
		t.Errorf("content = %q", c.Content)
	}
}

func TestFromFileErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
		err  error
	}{
		{"empty", write("empty.txt", " \n\n\t\n"), ErrEmpty},
		{"pdf", write("book.pdf", "%PDF"), ErrUnsupported},
		{"binary", write("blob.txt", "\xff\xfe\x00"), ErrUnsupported},
		{"too large", write("big.txt", strings.Repeat("a", MaxFileBytes+1)), ErrTooLarge},
		{"missing", filepath.Join(dir, "missing.txt"), os.ErrNotExist},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromFile(tc.path); !errors.Is(err, tc.err) {
				t.Errorf("FromFile() err = %v, expected %v", err, tc.err)
			}
		})
	}
}

func TestFromReader(t *testing.T) {
	c, err := FromReader(strings.NewReader("Napoleon became Emperor in 1804."), "")
	if err != nil {
		t.Fatal(err)
	}
	if c.Title != "Pasted notes" || c.ID != "stdin" {
		t.Errorf("chapter = %+v", c)
	}
	if _, err := FromReader(strings.NewReader(""), "x"); !errors.Is(err, ErrEmpty) {
		t.Errorf("empty reader err = %v", err)
	}
}
