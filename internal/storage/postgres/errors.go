package postgres

import (
	"database/sql"
	"errors"

	pq "github.com/lib/pq"

	apperrors "github.com/julianstephens/standup/internal/errors"
	"github.com/julianstephens/standup/internal/logger"
)

// SQLSTATE codes that mean the transaction lost a race and can be rerun.
var retryableCodes = map[pq.ErrorCode]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
}

const uniqueViolation pq.ErrorCode = "23505"

func wrapErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var typed *apperrors.Error
	if errors.As(err, &typed) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return apperrors.NotFound(op, "no rows")
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		if retryableCodes[pqErr.Code] {
			logger.Debug("PostgreSQL transaction conflict", "op", op, "code", pqErr.Code, "error", pqErr.Message)
			return apperrors.RetryableStorage(op, err)
		}
		if pqErr.Code == uniqueViolation {
			return &apperrors.Error{Kind: apperrors.KindConflict, Op: op, Msg: "unique constraint violated", Err: err}
		}
	}
	return apperrors.Storage(op, err)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
