package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/standup/internal/backup"
	"github.com/julianstephens/standup/internal/config"
	"github.com/julianstephens/standup/internal/habits"
	"github.com/julianstephens/standup/internal/logger"
	"github.com/julianstephens/standup/internal/storage"
	"github.com/julianstephens/standup/internal/streak"
	"github.com/julianstephens/standup/internal/utils"
)

// Migrator is implemented by stores that can apply pending schema migrations.
type Migrator interface {
	Migrate(ctx context.Context, logFn func(string)) (int, error)
}

type Context struct {
	Store  storage.Provider
	Engine *streak.Engine
	Habits *habits.Service
	Config *config.Config
	// ConfigPath is where the config file lives, whether or not it exists yet
	ConfigPath string
	// Owner identifies whose habits the command operates on
	Owner string
	// Profile selects the keyring entry holding the connection string
	Profile string
	Out     io.Writer
}

// NewContext wires the engine and habit service around store.
func NewContext(store storage.Provider, cfg *config.Config, configPath, owner string) (*Context, error) {
	opts, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	return &Context{
		Store:      store,
		Engine:     streak.New(store, opts),
		Habits:     habits.NewService(store),
		Config:     cfg,
		ConfigPath: configPath,
		Owner:      strings.TrimSpace(owner),
		Out:        os.Stdout,
	}, nil
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// RequireOwner returns the owner or an error telling the user how to set one.
func (c *Context) RequireOwner() (string, error) {
	if c.Owner == "" {
		return "", fmt.Errorf("no owner set: pass --owner or set STANDUP_OWNER")
	}
	return c.Owner, nil
}

func (c *Context) Location() *time.Location {
	return c.Engine.Location()
}

// ParseDay resolves an optional YYYY-MM-DD flag to a time on that day in the
// configured calendar. An empty value means now.
func (c *Context) ParseDay(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return c.Engine.Now(), nil
	}
	day, err := utils.ParseDateInLocation(strings.TrimSpace(s), c.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	// noon keeps the instant on the same date whatever DST does
	return day.Add(12 * time.Hour), nil
}

// PerformAutomaticBackup snapshots a SQLite database and only logs failures.
func (c *Context) PerformAutomaticBackup(ctx context.Context) {
	if c.Store.Driver() != storage.DriverSQLite {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.Create(ctx); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}
