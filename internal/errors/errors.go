package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/standup/internal/logger"
)

// Kind classifies an error for callers that decide on retries and user-facing text.
type Kind int

const (
	KindUnknown Kind = iota
	// KindNotFound means the referenced habit does not exist or belongs to someone else
	KindNotFound
	// KindInvalidArgument means the caller supplied a bad value (quantity, title, date)
	KindInvalidArgument
	// KindConflict means the write would violate a uniqueness rule
	KindConflict
	// KindStorage means a query or transaction failed, including timeouts
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalidArgument:
		return "invalid argument"
	case KindConflict:
		return "conflict"
	case KindStorage:
		return "storage error"
	default:
		return "unknown error"
	}
}

var (
	ErrNotFound        = stderrors.New(KindNotFound.String())
	ErrInvalidArgument = stderrors.New(KindInvalidArgument.String())
	ErrConflict        = stderrors.New(KindConflict.String())
	ErrStorage         = stderrors.New(KindStorage.String())
)

// Error is the typed error returned by the engine, the habit service and the stores.
type Error struct {
	Kind Kind
	// Op names the operation that failed, e.g. "record completion"
	Op  string
	Msg string
	Err error
	// Retryable is set on storage errors that are safe to rerun from the top
	Retryable bool
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the package sentinels by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrInvalidArgument:
		return e.Kind == KindInvalidArgument
	case ErrConflict:
		return e.Kind == KindConflict
	case ErrStorage:
		return e.Kind == KindStorage
	}
	return false
}

func NotFound(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func InvalidArgument(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidArgument, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(op, format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Storage wraps a driver error. Errors that already carry a kind pass through
// unchanged, and context deadlines are reported as timeouts.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stderrors.As(err, &typed) {
		return err
	}
	msg := ""
	if stderrors.Is(err, context.DeadlineExceeded) {
		msg = "storage timed out"
	}
	return &Error{Kind: KindStorage, Op: op, Msg: msg, Err: err}
}

// RetryableStorage wraps a driver error that is safe to retry, such as a busy
// database or a serialization failure.
func RetryableStorage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: KindStorage, Op: op, Msg: "transaction conflict", Err: err, Retryable: true}
}

// KindOf returns the kind of the first typed error in the chain.
func KindOf(err error) Kind {
	var typed *Error
	if stderrors.As(err, &typed) {
		return typed.Kind
	}
	return KindUnknown
}

func IsRetryable(err error) bool {
	var typed *Error
	if stderrors.As(err, &typed) {
		return typed.Kind == KindStorage && typed.Retryable
	}
	return false
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err, "kind", KindOf(err))
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
