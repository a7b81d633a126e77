package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/julianstephens/standup/internal/errors"
	"github.com/julianstephens/standup/internal/models"
)

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var createdAt string
	if err := row.Scan(&h.ID, &h.Title, &h.OwnerID, &h.Streak, &h.OverallCounter, &createdAt); err != nil {
		return models.Habit{}, err
	}
	t, err := parseTimestamp(createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("invalid created_at for habit %s: %w", h.ID, err)
	}
	h.CreatedAt = t
	return h, nil
}

func scanEntry(row scanner) (models.HabitEntry, error) {
	var e models.HabitEntry
	var entryDate string
	if err := row.Scan(&e.ID, &e.HabitID, &e.OwnerID, &entryDate, &e.EntryDay, &e.Quantity); err != nil {
		return models.HabitEntry{}, err
	}
	t, err := parseTimestamp(entryDate)
	if err != nil {
		return models.HabitEntry{}, fmt.Errorf("invalid entry_date for entry %s: %w", e.ID, err)
	}
	e.EntryDate = t
	return e, nil
}

func (s *Store) AddHabit(ctx context.Context, habit models.Habit) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (id, title, owner_id, streak, overall_counter, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		habit.ID, habit.Title, habit.OwnerID, habit.Streak, habit.OverallCounter,
		formatTimestamp(habit.CreatedAt))
	if isConstraint(err) {
		return apperrors.Conflict("add habit", "habit %q already exists", habit.Title)
	}
	return wrapErr("add habit", err)
}

func (s *Store) GetHabit(ctx context.Context, habitID string) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, owner_id, streak, overall_counter, created_at
		FROM habits WHERE id = ?`, habitID)

	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperrors.NotFound("get habit", "habit %q not found", habitID)
	}
	if err != nil {
		return models.Habit{}, wrapErr("get habit", err)
	}
	return h, nil
}

func (s *Store) GetHabitByTitle(ctx context.Context, ownerID, title string) (models.Habit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, owner_id, streak, overall_counter, created_at
		FROM habits WHERE owner_id = ? AND title = ?`, ownerID, title)

	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperrors.NotFound("get habit", "habit %q not found", title)
	}
	if err != nil {
		return models.Habit{}, wrapErr("get habit", err)
	}
	return h, nil
}

func (s *Store) GetHabits(ctx context.Context, ownerID string) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, owner_id, streak, overall_counter, created_at
		FROM habits WHERE owner_id = ?
		ORDER BY title`, ownerID)
	if err != nil {
		return nil, wrapErr("list habits", err)
	}
	return collectHabits(rows)
}

func (s *Store) GetAllHabits(ctx context.Context) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, owner_id, streak, overall_counter, created_at
		FROM habits
		ORDER BY owner_id, title`)
	if err != nil {
		return nil, wrapErr("list all habits", err)
	}
	return collectHabits(rows)
}

func collectHabits(rows *sql.Rows) ([]models.Habit, error) {
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, wrapErr("list habits", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list habits", err)
	}
	return habits, nil
}

// DeleteHabit removes the habit. Entries go with it through ON DELETE CASCADE,
// which runs inside the same statement.
func (s *Store) DeleteHabit(ctx context.Context, ownerID, habitID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM habits WHERE id = ? AND owner_id = ?`, habitID, ownerID)
	if err != nil {
		return wrapErr("delete habit", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapErr("delete habit", err)
	}
	if n == 0 {
		return apperrors.NotFound("delete habit", "habit %q not found", habitID)
	}
	return nil
}

func (s *Store) GetEntriesForHabit(ctx context.Context, ownerID, habitID string) ([]models.HabitEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, habit_id, owner_id, entry_date, entry_day, quantity
		FROM habit_entries
		WHERE owner_id = ? AND habit_id = ?
		ORDER BY entry_date ASC`, ownerID, habitID)
	if err != nil {
		return nil, wrapErr("list entries", err)
	}
	defer rows.Close()

	var entries []models.HabitEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, wrapErr("list entries", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list entries", err)
	}
	return entries, nil
}

func (s *Store) CountDistinctDaysInRange(ctx context.Context, ownerID, habitID, startDay, endDay string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT entry_day)
		FROM habit_entries
		WHERE owner_id = ? AND habit_id = ? AND entry_day BETWEEN ? AND ?`,
		ownerID, habitID, startDay, endDay).Scan(&n)
	if err != nil {
		return 0, wrapErr("count distinct days", err)
	}
	return n, nil
}

func (s *Store) ListEntriesForOwnerOnDate(ctx context.Context, ownerID, day string) ([]models.CompletedHabit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT h.id, h.title, h.streak, h.overall_counter
		FROM habits h
		WHERE h.owner_id = ?
		  AND EXISTS (
			SELECT 1 FROM habit_entries e
			WHERE e.habit_id = h.id AND e.owner_id = ? AND e.entry_day = ?
		  )
		ORDER BY h.title`, ownerID, ownerID, day)
	if err != nil {
		return nil, wrapErr("list completed habits", err)
	}
	defer rows.Close()

	var completed []models.CompletedHabit
	for rows.Next() {
		var c models.CompletedHabit
		if err := rows.Scan(&c.HabitID, &c.Title, &c.Streak, &c.OverallCounter); err != nil {
			return nil, wrapErr("list completed habits", err)
		}
		completed = append(completed, c)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list completed habits", err)
	}
	return completed, nil
}
