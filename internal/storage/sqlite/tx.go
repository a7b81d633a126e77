package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/standup/internal/constants"
	apperrors "github.com/julianstephens/standup/internal/errors"
	"github.com/julianstephens/standup/internal/logger"
	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/storage"
)

type txStore struct {
	tx *sql.Tx
}

var _ storage.Tx = (*txStore)(nil)

// WithHabitTx runs fn inside a BEGIN IMMEDIATE transaction. SQLite has a
// single writer, so holding the write lock for the duration of fn serializes
// every completion of habitID (and of every other habit) without a row lock.
func (s *Store) WithHabitTx(ctx context.Context, habitID string, fn func(storage.Tx) error) (err error) {
	const op = "habit transaction"

	if s.db == nil {
		return apperrors.Storage(op, fmt.Errorf("database not loaded"))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrapErr(op, err)
	}

	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			logger.Warn("Failed to roll back habit transaction", "habit_id", habitID, "error", rbErr)
		}
	}()

	if err = fn(&txStore{tx: tx}); err != nil {
		return wrapErr(op, err)
	}

	if err = tx.Commit(); err != nil {
		return wrapErr(op, err)
	}
	return nil
}

func (t *txStore) FetchHabit(ctx context.Context, habitID string) (models.Habit, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT id, title, owner_id, streak, overall_counter, created_at
		FROM habits WHERE id = ?`, habitID)

	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperrors.NotFound("fetch habit", "habit %q not found", habitID)
	}
	if err != nil {
		return models.Habit{}, wrapErr("fetch habit", err)
	}
	return h, nil
}

func (t *txStore) FetchLastEntry(ctx context.Context, ownerID, habitID string) (*models.HabitEntry, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT id, habit_id, owner_id, entry_date, entry_day, quantity
		FROM habit_entries
		WHERE owner_id = ? AND habit_id = ?
		ORDER BY entry_date DESC
		LIMIT 1`, ownerID, habitID)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapErr("fetch last entry", err)
	}
	return &e, nil
}

func (t *txStore) UpdateHabitCounters(ctx context.Context, habitID string, streak, overallCounter int) error {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE habits SET streak = ?, overall_counter = ? WHERE id = ?`,
		streak, overallCounter, habitID)
	if err != nil {
		return wrapErr("update habit counters", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("update habit counters", err)
	}
	if n == 0 {
		return apperrors.NotFound("update habit counters", "habit %q not found", habitID)
	}
	return nil
}

func (t *txStore) InsertEntry(ctx context.Context, entry models.HabitEntry) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO habit_entries (id, habit_id, owner_id, entry_date, entry_day, quantity)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.HabitID, entry.OwnerID,
		formatTimestamp(entry.EntryDate), entry.EntryDay, entry.Quantity)
	return wrapErr("insert entry", err)
}

// Timestamps are stored as fixed-width UTC text so lexical order matches
// chronological order.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(constants.TimestampFormat, s)
	if err != nil {
		// rows written by hand may use plain RFC3339
		return time.Parse(time.RFC3339Nano, s)
	}
	return t, nil
}
