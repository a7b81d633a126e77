package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := LoadLocation(name)
	if err != nil {
		t.Fatalf("LoadLocation(%q) failed: %v", name, err)
	}
	return loc
}

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
		wantLoc  *time.Location
	}{
		{name: "empty", timezone: "", wantErr: true},
		{name: "Local keyword", timezone: "Local", wantErr: true},
		{name: "UTC", timezone: "UTC", wantLoc: time.UTC},
		{name: "IANA name", timezone: "America/Chicago"},
		{name: "invalid", timezone: "Mars/Olympus_Mons", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadLocation(%q) error = %v, wantErr %v", tt.timezone, err, tt.wantErr)
			}
			if tt.wantLoc != nil && loc != tt.wantLoc {
				t.Errorf("LoadLocation(%q) = %v, want %v", tt.timezone, loc, tt.wantLoc)
			}
		})
	}
}

func TestDayUsesConfiguredLocation(t *testing.T) {
	chicago := mustLoad(t, "America/Chicago")

	// 03:30 UTC on the 15th is still the evening of the 14th in Chicago
	instant := time.Date(2024, 3, 15, 3, 30, 0, 0, time.UTC)

	if got := DayString(instant, chicago); got != "2024-03-14" {
		t.Errorf("DayString() = %s, want 2024-03-14", got)
	}
	if got := DayString(instant, time.UTC); got != "2024-03-15" {
		t.Errorf("DayString() in UTC = %s, want 2024-03-15", got)
	}

	day := Day(instant, chicago)
	if day.Hour() != 0 || day.Minute() != 0 || day.Day() != 14 {
		t.Errorf("Day() = %v, want midnight of the 14th", day)
	}
	if day.Location() != chicago {
		t.Errorf("Day() location = %v, want %v", day.Location(), chicago)
	}
}

func TestDaysBetween(t *testing.T) {
	chicago := mustLoad(t, "America/Chicago")

	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{
			name: "same day",
			a:    time.Date(2024, 5, 1, 8, 0, 0, 0, chicago),
			b:    time.Date(2024, 5, 1, 23, 59, 0, 0, chicago),
			want: 0,
		},
		{
			name: "late night to early morning",
			a:    time.Date(2024, 5, 1, 23, 59, 0, 0, chicago),
			b:    time.Date(2024, 5, 2, 0, 1, 0, 0, chicago),
			want: 1,
		},
		{
			name: "spring forward",
			a:    time.Date(2024, 3, 9, 12, 0, 0, 0, chicago),
			b:    time.Date(2024, 3, 10, 12, 0, 0, 0, chicago),
			want: 1,
		},
		{
			name: "fall back",
			a:    time.Date(2024, 11, 2, 23, 30, 0, 0, chicago),
			b:    time.Date(2024, 11, 3, 23, 30, 0, 0, chicago),
			want: 1,
		},
		{
			name: "three day gap",
			a:    time.Date(2024, 5, 1, 9, 0, 0, 0, chicago),
			b:    time.Date(2024, 5, 4, 9, 0, 0, 0, chicago),
			want: 3,
		},
		{
			name: "backwards",
			a:    time.Date(2024, 5, 4, 9, 0, 0, 0, chicago),
			b:    time.Date(2024, 5, 1, 9, 0, 0, 0, chicago),
			want: -3,
		},
		{
			name: "instants in different zones",
			a:    time.Date(2024, 5, 2, 4, 0, 0, 0, time.UTC), // 23:00 on the 1st in Chicago
			b:    time.Date(2024, 5, 2, 6, 0, 0, 0, time.UTC), // 01:00 on the 2nd in Chicago
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(tt.a, tt.b, chicago); got != tt.want {
				t.Errorf("DaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	chicago := mustLoad(t, "America/Chicago")
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, chicago)

	got := AddDays(day, -6, chicago)
	if got.Format("2006-01-02") != "2024-03-04" || got.Hour() != 0 {
		t.Errorf("AddDays(-6) = %v, want midnight 2024-03-04", got)
	}

	got = AddDays(time.Date(2024, 12, 31, 18, 0, 0, 0, chicago), 1, chicago)
	if got.Format("2006-01-02") != "2025-01-01" {
		t.Errorf("AddDays(+1) across year = %v", got)
	}
}

func TestParseDateInLocation(t *testing.T) {
	chicago := mustLoad(t, "America/Chicago")

	got, err := ParseDateInLocation("2024-07-04", chicago)
	if err != nil {
		t.Fatalf("ParseDateInLocation failed: %v", err)
	}
	want := time.Date(2024, 7, 4, 0, 0, 0, 0, chicago)
	if !got.Equal(want) {
		t.Errorf("ParseDateInLocation() = %v, want %v", got, want)
	}

	if _, err := ParseDateInLocation("07/04/2024", chicago); err == nil {
		t.Error("expected error for invalid date format")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}

	got, err := ExpandPath("~/.config/standup/standup.db")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if want := filepath.Join(home, ".config/standup/standup.db"); got != want {
		t.Errorf("ExpandPath() = %q, want %q", got, want)
	}

	if got, _ := ExpandPath("/tmp/standup.db"); got != "/tmp/standup.db" {
		t.Errorf("ExpandPath() changed an absolute path: %q", got)
	}
}
