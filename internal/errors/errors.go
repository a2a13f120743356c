// Package errors is the single import for error handling across the portal.
//
// Sentinel checks go through the stdlib tree walk, while anything created or
// annotated here carries a pkg/errors stack trace so the error middleware can
// log where a failure started.
package errors

import (
	"context"
	stderrors "errors"
	"net"

	pkgerrors "github.com/pkg/errors"
)

// Inspection.

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// IsAny reports whether err matches one of targets.
func IsAny(err error, targets ...error) bool {
	for _, target := range targets {
		if stderrors.Is(err, target) {
			return true
		}
	}

	return false
}

// IsTimeout reports whether err is a deadline expiry, either from a context
// or from the network layer.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return stderrors.As(err, &netErr) && netErr.Timeout()
}

// Construction. Sentinels use New; everything raised at runtime uses Errorf
// so it carries a stack.

func New(text string) error {
	return stderrors.New(text)
}

func Errorf(format string, args ...any) error {
	return pkgerrors.Errorf(format, args...)
}

func Join(errs ...error) error {
	return stderrors.Join(errs...)
}

// Annotation. All of these return nil for a nil err.

func Wrap(err error, message string) error {
	return pkgerrors.Wrap(err, message)
}

func Wrapf(err error, format string, args ...any) error {
	return pkgerrors.Wrapf(err, format, args...)
}

func WithStack(err error) error {
	return pkgerrors.WithStack(err)
}
