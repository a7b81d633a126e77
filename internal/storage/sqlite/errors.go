package sqlite

import (
	"database/sql"
	"errors"

	moderncsqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	apperrors "github.com/julianstephens/standup/internal/errors"
	"github.com/julianstephens/standup/internal/logger"
)

// primaryCode strips the extended result code bits.
func primaryCode(err error) int {
	var sqliteErr *moderncsqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() & 0xff
	}
	return 0
}

func isBusy(err error) bool {
	switch primaryCode(err) {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}

func isConstraint(err error) bool {
	return primaryCode(err) == sqlite3.SQLITE_CONSTRAINT
}

// wrapErr maps a driver error onto the application error kinds.
func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var typed *apperrors.Error
	if errors.As(err, &typed) {
		return err
	}
	switch {
	case isBusy(err):
		logger.Debug("SQLite database busy", "op", op, "error", err)
		return apperrors.RetryableStorage(op, err)
	case isConstraint(err):
		return &apperrors.Error{Kind: apperrors.KindConflict, Op: op, Msg: "constraint violated", Err: err}
	case errors.Is(err, sql.ErrNoRows):
		return apperrors.NotFound(op, "no rows")
	}
	return apperrors.Storage(op, err)
}
