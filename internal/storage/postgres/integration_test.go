package postgres

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/standup/internal/errors"
	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/storage"
)

// TestStore_Integration tests the PostgreSQL store with a real database
// Set POSTGRES_TEST_URL environment variable to run this test
// Example: POSTGRES_TEST_URL="postgres://standup_user@localhost:5432/standup_test?sslmode=disable"
func TestStore_Integration(t *testing.T) {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	store := New(connStr)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Failed to initialize store: %v", err)
	}
	defer store.Close()

	// unique owner keeps reruns against the same database independent
	owner := "it-" + uuid.NewString()
	habit := models.Habit{
		ID:        uuid.NewString(),
		Title:     "Integration",
		OwnerID:   owner,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	t.Run("Habits", func(t *testing.T) {
		if err := store.AddHabit(ctx, habit); err != nil {
			t.Fatalf("AddHabit() failed: %v", err)
		}
		dup := habit
		dup.ID = uuid.NewString()
		if err := store.AddHabit(ctx, dup); !errors.Is(err, apperrors.ErrConflict) {
			t.Errorf("duplicate AddHabit() = %v, want conflict", err)
		}

		got, err := store.GetHabitByTitle(ctx, owner, habit.Title)
		if err != nil {
			t.Fatalf("GetHabitByTitle() failed: %v", err)
		}
		if got.ID != habit.ID {
			t.Errorf("GetHabitByTitle() id = %q, want %q", got.ID, habit.ID)
		}
	})

	t.Run("Entries", func(t *testing.T) {
		at := time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)
		for i, day := range []string{"2024-03-01", "2024-03-02", "2024-03-02"} {
			entry := models.HabitEntry{
				ID: uuid.NewString(), HabitID: habit.ID, OwnerID: owner,
				EntryDate: at.Add(time.Duration(i) * time.Hour), EntryDay: day, Quantity: 1,
			}
			err := store.WithHabitTx(ctx, habit.ID, func(tx storage.Tx) error {
				h, err := tx.FetchHabit(ctx, habit.ID)
				if err != nil {
					return err
				}
				if _, err := tx.FetchLastEntry(ctx, owner, habit.ID); err != nil {
					return err
				}
				if err := tx.UpdateHabitCounters(ctx, habit.ID, 1, h.OverallCounter+1); err != nil {
					return err
				}
				return tx.InsertEntry(ctx, entry)
			})
			if err != nil {
				t.Fatalf("WithHabitTx() failed: %v", err)
			}
		}

		n, err := store.CountDistinctDaysInRange(ctx, owner, habit.ID, "2024-02-25", "2024-03-02")
		if err != nil {
			t.Fatalf("CountDistinctDaysInRange() failed: %v", err)
		}
		if n != 2 {
			t.Errorf("CountDistinctDaysInRange() = %d, want 2", n)
		}

		completed, err := store.ListEntriesForOwnerOnDate(ctx, owner, "2024-03-02")
		if err != nil {
			t.Fatalf("ListEntriesForOwnerOnDate() failed: %v", err)
		}
		if len(completed) != 1 || completed[0].OverallCounter != 3 {
			t.Errorf("ListEntriesForOwnerOnDate() = %+v, want one habit with counter 3", completed)
		}

		entries, err := store.GetEntriesForHabit(ctx, owner, habit.ID)
		if err != nil {
			t.Fatalf("GetEntriesForHabit() failed: %v", err)
		}
		if len(entries) != 3 || entries[0].EntryDay != "2024-03-01" {
			t.Errorf("GetEntriesForHabit() = %+v", entries)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.DeleteHabit(ctx, owner, habit.ID); err != nil {
			t.Fatalf("DeleteHabit() failed: %v", err)
		}
		entries, err := store.GetEntriesForHabit(ctx, owner, habit.ID)
		if err != nil {
			t.Fatalf("GetEntriesForHabit() failed: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("%d entries left after delete", len(entries))
		}
	})
}
