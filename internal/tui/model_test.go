package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/standup/internal/habits"
	"github.com/julianstephens/standup/internal/storage/sqlite"
	"github.com/julianstephens/standup/internal/streak"
)

func setupTestModel(t *testing.T) Model {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "standup.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	now := time.Date(2024, 6, 3, 9, 0, 0, 0, loc)
	engine := streak.New(store, streak.Options{
		Location: loc,
		Clock:    func() time.Time { return now },
	})

	svc := habits.NewService(store)
	for _, title := range []string{"Walk", "Read"} {
		if _, err := svc.Add(context.Background(), "alice", title); err != nil {
			t.Fatalf("Add(%q) failed: %v", title, err)
		}
	}

	m := NewModel(engine, svc, "alice", 5*time.Second)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return updated.(Model)
}

// step feeds msg to the model and runs any command it returns once.
func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Msg) {
	t.Helper()
	updated, cmd := m.Update(msg)
	var next tea.Msg
	if cmd != nil {
		next = cmd()
	}
	return updated.(Model), next
}

func TestModelLoadsHabits(t *testing.T) {
	m := setupTestModel(t)
	m, _ = step(t, m, m.Init()())

	got := m.list.Items()
	if len(got) != 2 {
		t.Fatalf("got %d items, want 2", len(got))
	}
	first := got[0].(Item)
	if first.Habit.Title != "Read" || first.Done {
		t.Errorf("first item = %+v, want Read not done", first)
	}
	if !strings.Contains(m.View(), "Monday 2024-06-03") {
		t.Errorf("view missing day header:\n%s", m.View())
	}
}

func TestModelRecordsSelectedHabit(t *testing.T) {
	m := setupTestModel(t)
	m, _ = step(t, m, m.Init()())

	m, msg := step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	recorded, ok := msg.(recordedMsg)
	if !ok {
		t.Fatalf("enter produced %T, want recordedMsg", msg)
	}
	if recorded.err != nil {
		t.Fatalf("record failed: %v", recorded.err)
	}
	if recorded.entry.EntryDay != "2024-06-03" {
		t.Errorf("EntryDay = %q, want 2024-06-03", recorded.entry.EntryDay)
	}

	m, reload := step(t, m, recorded)
	if !strings.Contains(m.status, "Recorded Read") {
		t.Errorf("status = %q", m.status)
	}
	m, _ = step(t, m, reload)

	item := m.list.Items()[0].(Item)
	if !item.Done || item.Habit.Streak != 1 || item.Momentum != 14 {
		t.Errorf("item after record = %+v, want done with streak 1 and 14%% momentum", item)
	}
}

func TestModelQuit(t *testing.T) {
	m := setupTestModel(t)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("quit key returned no command")
	}
	if !updated.(Model).quitting {
		t.Error("model not marked as quitting")
	}
	if updated.(Model).View() != "" {
		t.Error("view should be empty after quit")
	}
}
