// Package habits manages an owner's habit list. Counters are never written
// here; only the streak engine mutates them.
package habits

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/standup/internal/errors"
	"github.com/julianstephens/standup/internal/logger"
	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/storage"
)

// MaxTitleLength limits habit titles to what fits in a chat button label.
const MaxTitleLength = 80

type Service struct {
	store storage.Provider
	clock func() time.Time
}

func NewService(store storage.Provider) *Service {
	return &Service{store: store, clock: time.Now}
}

// NormalizeTitle trims the title and rejects empty or oversized values.
func NormalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperrors.InvalidArgument("habit title", "title cannot be empty")
	}
	if len([]rune(title)) > MaxTitleLength {
		return "", apperrors.InvalidArgument("habit title", "title longer than %d characters", MaxTitleLength)
	}
	return title, nil
}

func requireOwner(op, ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return apperrors.InvalidArgument(op, "owner is required")
	}
	return nil
}

func (s *Service) Add(ctx context.Context, ownerID, title string) (models.Habit, error) {
	const op = "add habit"
	if err := requireOwner(op, ownerID); err != nil {
		return models.Habit{}, err
	}
	title, err := NormalizeTitle(title)
	if err != nil {
		return models.Habit{}, err
	}

	habit := models.Habit{
		ID:        uuid.NewString(),
		Title:     title,
		OwnerID:   ownerID,
		CreatedAt: s.clock().UTC(),
	}
	if err := s.store.AddHabit(ctx, habit); err != nil {
		return models.Habit{}, err
	}

	logger.Info("Habit created", "owner", ownerID, "habit_id", habit.ID, "title", title)
	return habit, nil
}

// Get looks a habit up by title within the owner's list.
func (s *Service) Get(ctx context.Context, ownerID, title string) (models.Habit, error) {
	const op = "get habit"
	if err := requireOwner(op, ownerID); err != nil {
		return models.Habit{}, err
	}
	title, err := NormalizeTitle(title)
	if err != nil {
		return models.Habit{}, err
	}
	return s.store.GetHabitByTitle(ctx, ownerID, title)
}

// GetByID returns the habit only if ownerID owns it.
func (s *Service) GetByID(ctx context.Context, ownerID, habitID string) (models.Habit, error) {
	h, err := s.store.GetHabit(ctx, habitID)
	if err != nil {
		return models.Habit{}, err
	}
	if h.OwnerID != ownerID {
		return models.Habit{}, apperrors.NotFound("get habit", "habit %q not found", habitID)
	}
	return h, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]models.Habit, error) {
	if err := requireOwner("list habits", ownerID); err != nil {
		return nil, err
	}
	return s.store.GetHabits(ctx, ownerID)
}

// Delete removes the habit and its whole history.
func (s *Service) Delete(ctx context.Context, ownerID, title string) (models.Habit, error) {
	habit, err := s.Get(ctx, ownerID, title)
	if err != nil {
		return models.Habit{}, err
	}
	if err := s.store.DeleteHabit(ctx, ownerID, habit.ID); err != nil {
		return models.Habit{}, err
	}

	logger.Info("Habit deleted", "owner", ownerID, "habit_id", habit.ID, "title", habit.Title,
		"entries", habit.OverallCounter)
	return habit, nil
}
