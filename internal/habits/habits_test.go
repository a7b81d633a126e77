package habits

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/julianstephens/standup/internal/errors"
	"github.com/julianstephens/standup/internal/storage/sqlite"
)

func setupService(t *testing.T) (*Service, *sqlite.Store) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "standup.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewService(store), store
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain", "Meditate", "Meditate", false},
		{"trimmed", "  Read 20 pages \n", "Read 20 pages", false},
		{"empty", "", "", true},
		{"whitespace", "   ", "", true},
		{"too long", strings.Repeat("x", MaxTitleLength+1), "", true},
		{"max length", strings.Repeat("é", MaxTitleLength), strings.Repeat("é", MaxTitleLength), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTitle(tt.in)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrInvalidArgument) {
					t.Fatalf("NormalizeTitle(%q) error = %v, want invalid argument", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeTitle(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeTitle(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAddAndGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	h, err := svc.Add(ctx, "alice", "  Meditate ")
	if err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if h.ID == "" || h.Title != "Meditate" || h.Streak != 0 || h.OverallCounter != 0 {
		t.Errorf("Add() = %+v", h)
	}

	got, err := svc.Get(ctx, "alice", "Meditate")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got.ID != h.ID {
		t.Errorf("Get() id = %q, want %q", got.ID, h.ID)
	}

	if _, err := svc.GetByID(ctx, "alice", h.ID); err != nil {
		t.Errorf("GetByID() failed: %v", err)
	}
	if _, err := svc.GetByID(ctx, "bob", h.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetByID() for another owner = %v, want not found", err)
	}
}

func TestAddDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	if _, err := svc.Add(ctx, "alice", "Read"); err != nil {
		t.Fatalf("Add() failed: %v", err)
	}
	if _, err := svc.Add(ctx, "alice", " Read "); !errors.Is(err, apperrors.ErrConflict) {
		t.Errorf("duplicate Add() = %v, want conflict", err)
	}
	// titles are unique per owner only
	if _, err := svc.Add(ctx, "bob", "Read"); err != nil {
		t.Errorf("Add() for another owner failed: %v", err)
	}
}

func TestRequiresOwner(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	if _, err := svc.Add(ctx, " ", "Read"); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("Add() without owner = %v, want invalid argument", err)
	}
	if _, err := svc.List(ctx, ""); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Errorf("List() without owner = %v, want invalid argument", err)
	}
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	svc, store := setupService(t)

	for _, title := range []string{"Walk", "Exercise", "Read"} {
		if _, err := svc.Add(ctx, "alice", title); err != nil {
			t.Fatalf("Add(%s) failed: %v", title, err)
		}
	}

	list, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(list) != 3 || list[0].Title != "Exercise" {
		t.Errorf("List() = %+v, want 3 habits in title order", list)
	}

	deleted, err := svc.Delete(ctx, "alice", "Read")
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := store.GetHabit(ctx, deleted.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("GetHabit() after delete = %v, want not found", err)
	}

	if _, err := svc.Delete(ctx, "alice", "Read"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("second Delete() = %v, want not found", err)
	}
	if _, err := svc.Delete(ctx, "bob", "Walk"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Delete() by another owner = %v, want not found", err)
	}
}
