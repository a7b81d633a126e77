package models

import "time"

// Habit represents a recurring action an owner tracks completions for
type Habit struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	OwnerID        string    `json:"owner_id"`
	Streak         int       `json:"streak"`
	OverallCounter int       `json:"overall_counter"`
	CreatedAt      time.Time `json:"created_at"`
}

// HabitEntry represents one recorded completion of a habit
type HabitEntry struct {
	ID        string    `json:"id"`
	HabitID   string    `json:"habit_id"`
	OwnerID   string    `json:"owner_id"`
	EntryDate time.Time `json:"entry_date"`
	EntryDay  string    `json:"entry_day"` // YYYY-MM-DD in the configured timezone
	Quantity  int       `json:"quantity"`
}

// CompletedHabit is a habit completed on a given day, joined with its current counters
type CompletedHabit struct {
	HabitID        string `json:"habit_id"`
	Title          string `json:"title"`
	Streak         int    `json:"streak"`
	OverallCounter int    `json:"overall_counter"`
}
