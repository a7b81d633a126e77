package habits

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/standup/internal/cli"
	"github.com/julianstephens/standup/internal/config"
	apperrors "github.com/julianstephens/standup/internal/errors"
	"github.com/julianstephens/standup/internal/storage/sqlite"
	"github.com/julianstephens/standup/internal/streak"
)

type testCLI struct {
	ctx *cli.Context
	out *bytes.Buffer
	now time.Time
}

func setupTestCLI(t *testing.T) *testCLI {
	t.Helper()
	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "standup.db"))
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	ctx, err := cli.NewContext(store, config.Default(), filepath.Join(dir, "config.yaml"), "alice")
	if err != nil {
		t.Fatalf("NewContext() failed: %v", err)
	}

	tc := &testCLI{ctx: ctx, out: &bytes.Buffer{}}
	tc.now = time.Date(2024, 6, 3, 10, 0, 0, 0, ctx.Location())
	opts, _ := ctx.Config.EngineOptions()
	opts.Clock = func() time.Time { return tc.now }
	ctx.Engine = streak.New(store, opts)
	ctx.Out = tc.out
	return tc
}

func (tc *testCLI) run(t *testing.T, cmd interface{ Run(*cli.Context) error }) string {
	t.Helper()
	tc.out.Reset()
	if err := cmd.Run(tc.ctx); err != nil {
		t.Fatalf("%T.Run() failed: %v", cmd, err)
	}
	return tc.out.String()
}

func TestHabitAddAndList(t *testing.T) {
	tc := setupTestCLI(t)

	out := tc.run(t, &HabitAddCmd{Title: "Meditate"})
	if !strings.Contains(out, "Added habit: Meditate") {
		t.Errorf("add output = %q", out)
	}

	if err := (&HabitAddCmd{Title: "Meditate"}).Run(tc.ctx); err == nil {
		t.Error("adding a duplicate habit should fail")
	}

	out = tc.run(t, &HabitListCmd{})
	if !strings.Contains(out, "Meditate") || !strings.Contains(out, "7-day") {
		t.Errorf("list output = %q", out)
	}
}

func TestHabitListEmpty(t *testing.T) {
	tc := setupTestCLI(t)
	if out := tc.run(t, &HabitListCmd{}); !strings.Contains(out, "No habits found") {
		t.Errorf("list output = %q", out)
	}
}

func TestRequiresOwner(t *testing.T) {
	tc := setupTestCLI(t)
	tc.ctx.Owner = ""
	if err := (&HabitListCmd{}).Run(tc.ctx); err == nil || !strings.Contains(err.Error(), "--owner") {
		t.Errorf("Run() without owner = %v, want hint about --owner", err)
	}
}

func TestHabitRecord(t *testing.T) {
	tc := setupTestCLI(t)
	tc.run(t, &HabitAddCmd{Title: "Run"})

	out := tc.run(t, &HabitRecordCmd{Title: "Run"})
	if !strings.Contains(out, "Streak: 1 day(s), total completions: 1") {
		t.Errorf("record output = %q", out)
	}

	tc.now = tc.now.AddDate(0, 0, 1)
	out = tc.run(t, &HabitRecordCmd{Title: "Run", Quantity: "3"})
	if !strings.Contains(out, "(x3)") || !strings.Contains(out, "Streak: 2 day(s), total completions: 2") {
		t.Errorf("record output = %q", out)
	}

	if err := (&HabitRecordCmd{Title: "Run", Quantity: "0"}).Run(tc.ctx); err == nil {
		t.Error("quantity 0 should be rejected")
	}
	if err := (&HabitRecordCmd{Title: "Swim"}).Run(tc.ctx); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("recording an unknown habit = %v, want not found", err)
	}
}

func TestHabitMomentumAndDone(t *testing.T) {
	tc := setupTestCLI(t)
	tc.run(t, &HabitAddCmd{Title: "Read"})
	tc.run(t, &HabitAddCmd{Title: "Walk"})

	for i := 0; i < 3; i++ {
		tc.run(t, &HabitRecordCmd{Title: "Read"})
		tc.now = tc.now.AddDate(0, 0, 1)
	}
	// last recorded day is 2024-06-05
	out := tc.run(t, &HabitMomentumCmd{Title: "Read", Date: "2024-06-05"})
	if !strings.Contains(out, "43% momentum (2024-05-30 to 2024-06-05)") {
		t.Errorf("momentum output = %q", out)
	}

	out = tc.run(t, &HabitDoneCmd{Date: "2024-06-04"})
	if !strings.Contains(out, "Read") || strings.Contains(out, "Walk") {
		t.Errorf("done output = %q", out)
	}

	out = tc.run(t, &HabitDoneCmd{Date: "2024-01-01"})
	if !strings.Contains(out, "No habits completed") {
		t.Errorf("done output = %q", out)
	}

	if err := (&HabitDoneCmd{Date: "06/04/2024"}).Run(tc.ctx); err == nil {
		t.Error("a malformed date should be rejected")
	}
}

func TestHabitSummary(t *testing.T) {
	tc := setupTestCLI(t)
	tc.run(t, &HabitAddCmd{Title: "Read"})
	tc.run(t, &HabitAddCmd{Title: "Walk"})

	tc.run(t, &HabitRecordCmd{Title: "Walk"})
	tc.now = tc.now.AddDate(0, 0, 1)
	tc.run(t, &HabitRecordCmd{Title: "Read"})

	out := tc.run(t, &HabitSummaryCmd{})
	if !strings.Contains(out, "Still to do") || !strings.Contains(out, "Walk (14% momentum)") {
		t.Errorf("summary output = %q", out)
	}
}

func TestHabitDelete(t *testing.T) {
	tc := setupTestCLI(t)
	tc.run(t, &HabitAddCmd{Title: "Floss"})
	tc.run(t, &HabitRecordCmd{Title: "Floss"})

	out := tc.run(t, &HabitDeleteCmd{Title: "Floss"})
	if !strings.Contains(out, `Deleted habit "Floss" and 1 completion(s)`) {
		t.Errorf("delete output = %q", out)
	}
	if err := (&HabitDeleteCmd{Title: "Floss"}).Run(tc.ctx); err == nil {
		t.Error("deleting a missing habit should fail")
	}

	backups, err := filepath.Glob(filepath.Join(filepath.Dir(tc.ctx.Store.GetConfigPath()), "backups", "*.db"))
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Errorf("found %d automatic backups, want 1", len(backups))
	}
}

func TestLookupError(t *testing.T) {
	notFound := apperrors.NotFound("get habit", "no such habit")
	storageErr := apperrors.Storage("get habit", errors.New("disk full"))

	tests := []struct {
		name  string
		title string
		err   error
		want  string
	}{
		{"typed title", "Read", notFound, `habit "Read" not found`},
		{"picked habit", "", notFound, notFound.Error()},
		{"other error", "Read", storageErr, storageErr.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lookupError(tt.title, tt.err)
			if got.Error() != tt.want {
				t.Errorf("lookupError(%q) = %q, want %q", tt.title, got.Error(), tt.want)
			}
			if strings.Contains(got.Error(), `habit ""`) {
				t.Errorf("error names an empty habit: %q", got.Error())
			}
		})
	}
}
