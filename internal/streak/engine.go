package streak

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/standup/internal/constants"
	apperrors "github.com/julianstephens/standup/internal/errors"
	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/storage"
	"github.com/julianstephens/standup/internal/utils"
)

// Options configures an Engine. Unset fields fall back to UTC, the keep
// policy, the default storage timeout and time.Now.
type Options struct {
	// Location is the civil calendar used for every date comparison
	Location *time.Location
	SameDay  SameDayPolicy
	// Timeout bounds each engine operation, retries included
	Timeout time.Duration
	// MaxRetries is how many times a retryable storage failure is rerun
	MaxRetries int
	Clock      func() time.Time
}

// Engine records completions and derives streak and momentum figures.
type Engine struct {
	store storage.Provider
	opts  Options
}

// retryBackoff is the base delay between attempts; attempt n waits n times this.
const retryBackoff = 20 * time.Millisecond

// New returns an Engine over store with defaults applied to opts.
func New(store storage.Provider, opts Options) *Engine {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.SameDay == "" {
		opts.SameDay = SameDayKeep
	}
	if opts.Timeout <= 0 {
		opts.Timeout = constants.DefaultStorageTimeout
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Engine{store: store, opts: opts}
}

func (e *Engine) Location() *time.Location {
	return e.opts.Location
}

func (e *Engine) Policy() SameDayPolicy {
	return e.opts.SameDay
}

// Now returns the injected clock's current instant in the configured location.
func (e *Engine) Now() time.Time {
	return e.opts.Clock().In(e.opts.Location)
}

// RecordCompletion logs one completion of habitID by ownerID and updates the
// habit's streak and overall counter in the same transaction.
func (e *Engine) RecordCompletion(ctx context.Context, ownerID, habitID string, quantity *int) (models.HabitEntry, error) {
	const op = "record completion"

	qty := constants.DefaultQuantity
	if quantity != nil {
		if *quantity <= 0 {
			return models.HabitEntry{}, apperrors.InvalidArgument(op, "quantity must be positive, got %d", *quantity)
		}
		qty = *quantity
	}

	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	var entry models.HabitEntry
	err := e.retry(ctx, op, func() error {
		return e.store.WithHabitTx(ctx, habitID, func(tx storage.Tx) error {
			habit, err := tx.FetchHabit(ctx, habitID)
			if err != nil {
				return err
			}
			// someone else's habit is indistinguishable from a missing one
			if habit.OwnerID != ownerID {
				return apperrors.NotFound(op, "habit %q not found", habitID)
			}

			last, err := tx.FetchLastEntry(ctx, ownerID, habitID)
			if err != nil {
				return err
			}

			now := e.Now()
			var lastAt *time.Time
			if last != nil {
				lastAt = &last.EntryDate
			}
			next := NextStreak(lastAt, now, habit.Streak, e.opts.Location, e.opts.SameDay)

			if err := tx.UpdateHabitCounters(ctx, habitID, next, habit.OverallCounter+1); err != nil {
				return err
			}

			entry = models.HabitEntry{
				ID:        uuid.NewString(),
				HabitID:   habitID,
				OwnerID:   ownerID,
				EntryDate: now,
				EntryDay:  utils.DayString(now, e.opts.Location),
				Quantity:  qty,
			}
			return tx.InsertEntry(ctx, entry)
		})
	})
	if err != nil {
		return models.HabitEntry{}, err
	}
	return entry, nil
}

// Momentum returns the share of the 7 days ending on asOf (inclusive) with at
// least one completion, as a rounded percentage.
func (e *Engine) Momentum(ctx context.Context, ownerID, habitID string, asOf time.Time) (int, error) {
	const op = "momentum"

	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	start, end := Window(asOf, e.opts.Location)

	var days int
	err := e.retry(ctx, op, func() error {
		var err error
		days, err = e.store.CountDistinctDaysInRange(ctx, ownerID, habitID, start, end)
		return err
	})
	if err != nil {
		return 0, err
	}
	return MomentumPercent(days), nil
}

// CompletedOn lists the owner's habits with at least one completion on day's
// calendar date, each once, with their current counters.
func (e *Engine) CompletedOn(ctx context.Context, ownerID string, day time.Time) ([]models.CompletedHabit, error) {
	const op = "completed on"

	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	dayStr := utils.DayString(day, e.opts.Location)

	var completed []models.CompletedHabit
	err := e.retry(ctx, op, func() error {
		var err error
		completed, err = e.store.ListEntriesForOwnerOnDate(ctx, ownerID, dayStr)
		return err
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// retry reruns fn while it fails with a retryable storage error. Terminal
// kinds return immediately.
func (e *Engine) retry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 0; attempt <= e.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return apperrors.Storage(op, ctx.Err())
			case <-time.After(time.Duration(attempt) * retryBackoff):
			}
		}

		err = fn()
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return apperrors.Storage(op, ctxErr)
		}
		if !apperrors.IsRetryable(err) {
			return apperrors.Storage(op, err)
		}
	}
	return apperrors.Storage(op, err)
}
