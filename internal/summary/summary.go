// Package summary builds the daily update: what an owner completed today and
// yesterday, plus the momentum of every habit they track.
package summary

import (
	"context"
	"time"

	"github.com/julianstephens/standup/internal/models"
)

type Engine interface {
	CompletedOn(ctx context.Context, ownerID string, day time.Time) ([]models.CompletedHabit, error)
	Momentum(ctx context.Context, ownerID, habitID string, asOf time.Time) (int, error)
	Location() *time.Location
}

type HabitLister interface {
	List(ctx context.Context, ownerID string) ([]models.Habit, error)
}

type Summary struct {
	OwnerID   string
	Day       time.Time
	Today     []models.CompletedHabit
	Yesterday []models.CompletedHabit
	Habits    []models.Habit
	// Momentum is keyed by habit id, as of Day
	Momentum map[string]int
}

func Build(ctx context.Context, engine Engine, habits HabitLister, ownerID string, now time.Time) (Summary, error) {
	loc := engine.Location()
	now = now.In(loc)
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 12, 0, 0, 0, loc)

	s := Summary{
		OwnerID:  ownerID,
		Day:      now,
		Momentum: make(map[string]int),
	}

	var err error
	if s.Today, err = engine.CompletedOn(ctx, ownerID, now); err != nil {
		return Summary{}, err
	}
	if s.Yesterday, err = engine.CompletedOn(ctx, ownerID, yesterday); err != nil {
		return Summary{}, err
	}
	if s.Habits, err = habits.List(ctx, ownerID); err != nil {
		return Summary{}, err
	}

	for _, h := range s.Habits {
		m, err := engine.Momentum(ctx, ownerID, h.ID, now)
		if err != nil {
			return Summary{}, err
		}
		s.Momentum[h.ID] = m
	}
	return s, nil
}

// Pending returns the tracked habits not yet completed today.
func (s Summary) Pending() []models.Habit {
	done := make(map[string]bool, len(s.Today))
	for _, c := range s.Today {
		done[c.HabitID] = true
	}
	var pending []models.Habit
	for _, h := range s.Habits {
		if !done[h.ID] {
			pending = append(pending, h)
		}
	}
	return pending
}
