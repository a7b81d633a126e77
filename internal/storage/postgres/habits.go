package postgres

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/julianstephens/standup/internal/errors"
	"github.com/julianstephens/standup/internal/models"
)

const habitColumns = `id, title, owner_id, streak, overall_counter, created_at`

func (s *Store) AddHabit(ctx context.Context, habit models.Habit) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO habits (id, title, owner_id, streak, overall_counter, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		habit.ID, habit.Title, habit.OwnerID, habit.Streak, habit.OverallCounter, habit.CreatedAt.UTC())
	if isUniqueViolation(err) {
		return apperrors.Conflict("add habit", "habit %q already exists", habit.Title)
	}
	return wrapErr("add habit", err)
}

func (s *Store) getHabit(ctx context.Context, ref string, query string, args ...any) (models.Habit, error) {
	var h models.Habit
	err := s.db.QueryRowContext(ctx, query, args...).
		Scan(&h.ID, &h.Title, &h.OwnerID, &h.Streak, &h.OverallCounter, &h.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, apperrors.NotFound("get habit", "habit %q not found", ref)
	}
	if err != nil {
		return models.Habit{}, wrapErr("get habit", err)
	}
	return h, nil
}

func (s *Store) GetHabit(ctx context.Context, habitID string) (models.Habit, error) {
	return s.getHabit(ctx, habitID,
		`SELECT `+habitColumns+` FROM habits WHERE id = $1`, habitID)
}

func (s *Store) GetHabitByTitle(ctx context.Context, ownerID, title string) (models.Habit, error) {
	return s.getHabit(ctx, title,
		`SELECT `+habitColumns+` FROM habits WHERE owner_id = $1 AND title = $2`, ownerID, title)
}

func (s *Store) GetHabits(ctx context.Context, ownerID string) ([]models.Habit, error) {
	return s.listHabits(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE owner_id = $1 ORDER BY title`, ownerID)
}

func (s *Store) GetAllHabits(ctx context.Context) ([]models.Habit, error) {
	return s.listHabits(ctx,
		`SELECT `+habitColumns+` FROM habits ORDER BY owner_id, title`)
}

func (s *Store) listHabits(ctx context.Context, query string, args ...any) ([]models.Habit, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapErr("list habits", err)
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		var h models.Habit
		if err := rows.Scan(&h.ID, &h.Title, &h.OwnerID, &h.Streak, &h.OverallCounter, &h.CreatedAt); err != nil {
			return nil, wrapErr("list habits", err)
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list habits", err)
	}
	return habits, nil
}

func (s *Store) DeleteHabit(ctx context.Context, ownerID, habitID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM habits WHERE id = $1 AND owner_id = $2`, habitID, ownerID)
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
		SELECT id, habit_id, owner_id, entry_date, to_char(entry_day, 'YYYY-MM-DD'), quantity
		FROM habit_entries
		WHERE owner_id = $1 AND habit_id = $2
		ORDER BY entry_date ASC`, ownerID, habitID)
	if err != nil {
		return nil, wrapErr("list entries", err)
	}
	defer rows.Close()

	var entries []models.HabitEntry
	for rows.Next() {
		var e models.HabitEntry
		if err := rows.Scan(&e.ID, &e.HabitID, &e.OwnerID, &e.EntryDate, &e.EntryDay, &e.Quantity); err != nil {
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
		WHERE owner_id = $1 AND habit_id = $2 AND entry_day BETWEEN $3::date AND $4::date`,
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
		WHERE h.owner_id = $1
		  AND EXISTS (
			SELECT 1 FROM habit_entries e
			WHERE e.habit_id = h.id AND e.owner_id = $1 AND e.entry_day = $2::date
		  )
		ORDER BY h.title`, ownerID, day)
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
