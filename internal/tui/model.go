// Package tui is an interactive habit board: the owner's habits with today's
// status, streak and momentum, recorded with a single key press.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/summary"
)

// Engine is the part of the streak engine the board drives.
type Engine interface {
	summary.Engine
	RecordCompletion(ctx context.Context, ownerID, habitID string, quantity *int) (models.HabitEntry, error)
	Now() time.Time
}

type Item struct {
	Habit    models.Habit
	Done     bool
	Momentum int
}

func (i Item) Title() string {
	if i.Done {
		return "✓ " + i.Habit.Title
	}
	return "○ " + i.Habit.Title
}

func (i Item) Description() string {
	return fmt.Sprintf("streak %d · total %d · %d%% momentum", i.Habit.Streak, i.Habit.OverallCounter, i.Momentum)
}

func (i Item) FilterValue() string { return i.Habit.Title }

type loadedMsg struct {
	summary summary.Summary
	err     error
}

type recordedMsg struct {
	title string
	entry models.HabitEntry
	err   error
}

type Model struct {
	engine   Engine
	habits   summary.HabitLister
	owner    string
	timeout  time.Duration
	keys     KeyMap
	help     help.Model
	list     list.Model
	day      time.Time
	status   string
	err      error
	quitting bool
	width    int
	height   int
}

func NewModel(engine Engine, habits summary.HabitLister, owner string, timeout time.Duration) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	return Model{
		engine:  engine,
		habits:  habits,
		owner:   owner,
		timeout: timeout,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		list:    l,
	}
}

func (m Model) ShortHelp() []key.Binding { return m.keys.ShortHelp() }

func (m Model) FullHelp() [][]key.Binding { return m.keys.FullHelp() }

func (m Model) Init() tea.Cmd {
	return m.load()
}

func (m Model) load() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		s, err := summary.Build(ctx, m.engine, m.habits, m.owner, m.engine.Now())
		return loadedMsg{summary: s, err: err}
	}
}

func (m Model) record(h models.Habit) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		entry, err := m.engine.RecordCompletion(ctx, m.owner, h.ID, nil)
		return recordedMsg{title: h.Title, entry: entry, err: err}
	}
}

// items turns a summary into list rows, in the order habits are listed.
func items(s summary.Summary) []list.Item {
	done := make(map[string]bool, len(s.Today))
	for _, c := range s.Today {
		done[c.HabitID] = true
	}
	out := make([]list.Item, len(s.Habits))
	for i, h := range s.Habits {
		out[i] = Item{Habit: h, Done: done[h.ID], Momentum: s.Momentum[h.ID]}
	}
	return out
}
