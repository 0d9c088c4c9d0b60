package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/stubro-ai/stubro/internal/content"
	"github.com/stubro-ai/stubro/internal/core"
	"github.com/stubro-ai/stubro/internal/games/adventure"
	"github.com/stubro-ai/stubro/internal/storage"
)

func updateMenu(t *testing.T, m MenuModel, name string) MenuModel {
	t.Helper()
	next, _ := m.Update(keyMsg(name))
	mm, ok := next.(MenuModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return mm
}

func TestMenuItemsWithoutStore(t *testing.T) {
	items := MenuItems(nil, nil)
	if len(items) != len(content.Chapters()) {
		t.Fatalf("got %d items, expected one per chapter", len(items))
	}
	for _, it := range items {
		if it.Kind != ItemChapter || !strings.HasPrefix(it.ScoreKey(), "chapter:") {
			t.Errorf("item %+v should be a chapter", it)
		}
	}
}

func TestMenuNavigationAndSelect(t *testing.T) {
	m := NewMenuModel(nil, core.DefaultConfig(), nil)

	m = updateMenu(t, m, "up") // Already at the top
	m = updateMenu(t, m, "down")
	m = updateMenu(t, m, "j")
	m = updateMenu(t, m, "k")
	m = updateMenu(t, m, "enter")

	sel := m.Selected()
	if sel == nil || sel.ID != content.Chapters()[1].ID {
		t.Fatalf("selected = %+v, expected the second chapter", sel)
	}
}

func TestMenuDeleteSession(t *testing.T) {
	store := openStore(t)
	sess, err := store.CreateSession("Scratch", "stdin", "Some notes.")
	if err != nil {
		t.Fatal(err)
	}

	m := NewMenuModel(store, core.DefaultConfig(), nil)
	before := len(m.Items())

	// Chapters are protected.
	m = updateMenu(t, m, "x")
	if len(m.Items()) != before || !strings.Contains(m.View(), "cannot be deleted") {
		t.Error("deleting a chapter should be refused")
	}

	for i := 0; i < before; i++ {
		m = updateMenu(t, m, "down")
	}
	m = updateMenu(t, m, "x")
	if len(m.Items()) != before-1 {
		t.Fatalf("items = %d after delete, expected %d", len(m.Items()), before-1)
	}
	if _, err := store.GetSession(sess.ID); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("session still stored: %v", err)
	}
	if m.cursor != len(m.Items())-1 {
		t.Errorf("cursor = %d, expected it clamped to the last item", m.cursor)
	}
}

func TestScoreboardTracks(t *testing.T) {
	store := openStore(t)
	light := ChapterScoreKey(content.Chapters()[0].ID)
	for _, s := range []int{20, 40} {
		if _, err := store.SaveScore(light, adventure.GameID, s); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := store.SaveScore("gone-session", adventure.GameID, 30); err != nil {
		t.Fatal(err)
	}

	sb := NewScoreboardModel(store, 100, 30, nil)
	if sb.current().Title != "All studies" || len(sb.scores) != 3 {
		t.Fatalf("first page = %q with %d scores, expected every run", sb.current().Title, len(sb.scores))
	}
	if !strings.Contains(sb.View(), "(deleted)") {
		t.Error("runs of removed sessions should still be listed")
	}

	next, _ := sb.Update(keyMsg("tab"))
	sb = next.(ScoreboardModel)
	if sb.current().Key != light || len(sb.scores) != 2 || sb.scores[0].Score != 40 {
		t.Errorf("chapter page = %+v with scores %+v", sb.current(), sb.scores)
	}
	if sb.stats == nil || sb.stats.GamesCount != 2 || sb.stats.HighScore != 40 {
		t.Errorf("stats = %+v", sb.stats)
	}

	prev, _ := sb.Update(keyMsg("shift+tab"))
	sb = prev.(ScoreboardModel)
	if sb.cursor != 0 {
		t.Errorf("cursor = %d after going back, expected 0", sb.cursor)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"Light", 10, "Light"},
		{"Light - Reflection", 8, "Light -."},
		{"Ünïcödé", 4, "Ünï."},
	}
	for _, tc := range tests {
		if got := truncate(tc.in, tc.n); got != tc.want {
			t.Errorf("truncate(%q, %d) = %q, expected %q", tc.in, tc.n, got, tc.want)
		}
	}
}
