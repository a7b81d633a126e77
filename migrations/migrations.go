// Package migrations embeds the versioned schema for each supported database.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS

// SQLite returns the SQLite migrations rooted at their directory
func SQLite() (fs.FS, error) {
	return fs.Sub(FS, "sqlite")
}

// Postgres returns the PostgreSQL migrations rooted at their directory
func Postgres() (fs.FS, error) {
	return fs.Sub(FS, "postgres")
}
