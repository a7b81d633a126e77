package storage

import (
	"context"

	"github.com/julianstephens/standup/internal/models"
)

// Driver identifies the database backing a Provider
type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Tx is the transactional view used by the streak engine. Every method runs
// inside the transaction opened by Provider.WithHabitTx.
type Tx interface {
	// FetchHabit returns a NotFound error if the habit does not exist
	FetchHabit(ctx context.Context, habitID string) (models.Habit, error)
	// FetchLastEntry returns nil when the habit has never been completed
	FetchLastEntry(ctx context.Context, ownerID, habitID string) (*models.HabitEntry, error)
	UpdateHabitCounters(ctx context.Context, habitID string, streak, overallCounter int) error
	InsertEntry(ctx context.Context, entry models.HabitEntry) error
}

type Provider interface {
	// Lifecycle
	Init(ctx context.Context) error
	Load(ctx context.Context) error
	Close() error

	// WithHabitTx runs fn in a single transaction that is serialized against
	// every other WithHabitTx call for the same habit. Nothing fn wrote is
	// visible if fn or the commit fails.
	WithHabitTx(ctx context.Context, habitID string, fn func(Tx) error) error

	// Habits
	AddHabit(ctx context.Context, habit models.Habit) error
	GetHabit(ctx context.Context, habitID string) (models.Habit, error)
	GetHabitByTitle(ctx context.Context, ownerID, title string) (models.Habit, error)
	GetHabits(ctx context.Context, ownerID string) ([]models.Habit, error)
	GetAllHabits(ctx context.Context) ([]models.Habit, error)
	// DeleteHabit removes the habit and all of its entries atomically
	DeleteHabit(ctx context.Context, ownerID, habitID string) error

	// Habit Entries
	// GetEntriesForHabit returns the habit's entries ordered by entry_date ascending
	GetEntriesForHabit(ctx context.Context, ownerID, habitID string) ([]models.HabitEntry, error)
	// CountDistinctDaysInRange counts calendar days in [startDay, endDay] (YYYY-MM-DD)
	// with at least one entry
	CountDistinctDaysInRange(ctx context.Context, ownerID, habitID, startDay, endDay string) (int, error)
	// ListEntriesForOwnerOnDate returns each habit completed on day once,
	// with the habit's current counters
	ListEntriesForOwnerOnDate(ctx context.Context, ownerID, day string) ([]models.CompletedHabit, error)

	// Utils
	Driver() Driver
	GetConfigPath() string
	SchemaVersion(ctx context.Context) (current, latest int, err error)
}
