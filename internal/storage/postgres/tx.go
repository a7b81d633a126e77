package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/standup/internal/errors"
	"github.com/julianstephens/standup/internal/logger"
	"github.com/julianstephens/standup/internal/models"
	"github.com/julianstephens/standup/internal/storage"
)

type txStore struct {
	tx *sql.Tx
	// locked is the habit whose row lock this transaction holds
	locked string
}

var _ storage.Tx = (*txStore)(nil)

// WithHabitTx runs fn in a READ COMMITTED transaction. FetchHabit takes a
// FOR UPDATE lock on the habit row, so writers of the same habit queue behind
// each other while other habits proceed.
func (s *Store) WithHabitTx(ctx context.Context, habitID string, fn func(storage.Tx) error) (err error) {
	const op = "habit transaction"

	if s.db == nil {
		return apperrors.Storage(op, fmt.Errorf("database not loaded"))
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
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
		FROM habits WHERE id = $1
		FOR UPDATE`, habitID)

	var h models.Habit
	err := row.Scan(&h.ID, &h.Title, &h.OwnerID, &h.Streak, &h.OverallCounter, &h.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperrors.NotFound("fetch habit", "habit %q not found", habitID)
	}
	if err != nil {
		return models.Habit{}, wrapErr("fetch habit", err)
	}
	t.locked = habitID
	return h, nil
}

func (t *txStore) FetchLastEntry(ctx context.Context, ownerID, habitID string) (*models.HabitEntry, error) {
	if t.locked != habitID {
		return nil, apperrors.Storage("fetch last entry", fmt.Errorf("habit %s must be locked before reading its entries", habitID))
	}

	row := t.tx.QueryRowContext(ctx, `
		SELECT id, habit_id, owner_id, entry_date, to_char(entry_day, 'YYYY-MM-DD'), quantity
		FROM habit_entries
		WHERE owner_id = $1 AND habit_id = $2
		ORDER BY entry_date DESC
		LIMIT 1`, ownerID, habitID)

	var e models.HabitEntry
	err := row.Scan(&e.ID, &e.HabitID, &e.OwnerID, &e.EntryDate, &e.EntryDay, &e.Quantity)
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
		UPDATE habits SET streak = $1, overall_counter = $2 WHERE id = $3`,
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
		VALUES ($1, $2, $3, $4, $5::date, $6)`,
		entry.ID, entry.HabitID, entry.OwnerID, entry.EntryDate.UTC(), entry.EntryDay, entry.Quantity)
	return wrapErr("insert entry", err)
}
