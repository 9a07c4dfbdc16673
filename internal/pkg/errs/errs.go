package errs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

func New(msg string) error {
	return cr.New(msg)
}

func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

// Error is the coded failure carried through every pipeline.
// Error() only exposes code and message, the cause stays reachable through Unwrap.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error carrying the same code, so the sentinels in codes.go work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func E(code Code, msg string) error {
	return cr.WithStackDepth(&Error{Code: code, Message: msg}, 1)
}

func Ef(code Code, format string, args ...any) error {
	return cr.WithStackDepth(&Error{Code: code, Message: fmt.Sprintf(format, args...)}, 1)
}

// WithCode attaches code to cause. An error that already carries a code is returned unchanged.
func WithCode(cause error, code Code, msg string) error {
	if cause == nil {
		return nil
	}
	var coded *Error
	if errors.As(cause, &coded) {
		return cause
	}
	return cr.WithStackDepth(&Error{Code: code, Message: msg, cause: cause}, 1)
}

// Recode replaces whatever code cause carries. The original error stays in the chain.
func Recode(cause error, code Code, msg string) error {
	if cause == nil {
		return nil
	}
	return cr.WithStackDepth(&Error{Code: code, Message: msg, cause: cause}, 1)
}

func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return CodeCanceled
	}
	return CodeUnknown
}

func MessageOf(err error) string {
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Message
	}
	return "internal error"
}

// Retryable reports whether the caller may retry the same request after a backoff.
func Retryable(err error) bool {
	return CodeOf(err) == CodeConflictBusy
}

func FromContext(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}
	return cr.WithStackDepth(&Error{Code: CodeCanceled, Message: "operation canceled", cause: ctx.Err()}, 1)
}

func ExtractStackLines(err error, maxLines int) []string {
	if err == nil {
		return nil
	}
	s := fmt.Sprintf("%+v", err)
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}
