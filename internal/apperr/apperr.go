// Package apperr defines the error kinds shared by the ledger's packages.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies an error by how the caller should react to it.
type Kind int

const (
	// KindInternal is anything not classified below.
	KindInternal Kind = iota
	// KindValidation is malformed input. The initiating action is blocked.
	KindValidation
	// KindNotFound is a referenced bill, item or participant that is absent.
	KindNotFound
	// KindPermission is a write by a guest or a non-owner. Reads never fail with it.
	KindPermission
	// KindTimeout is a fetch that exceeded its bound. The caller may retry.
	KindTimeout
	// KindResolutionGap is a dangling reference met during aggregation.
	// It is absorbed by skipping the record and is never returned to callers.
	KindResolutionGap
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindPermission:
		return "permission"
	case KindTimeout:
		return "timeout"
	case KindResolutionGap:
		return "resolution_gap"
	default:
		return "internal"
	}
}

// Error is a classified error with a human-readable message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a KindValidation error.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns a KindNotFound error.
func NotFound(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Permission returns a KindPermission error.
func Permission(format string, args ...any) error {
	return &Error{Kind: KindPermission, Message: fmt.Sprintf(format, args...)}
}

// Timeout wraps err as a KindTimeout error.
func Timeout(op string, err error) error {
	return &Error{Kind: KindTimeout, Message: op + " timed out, retry later", Err: err}
}

// ResolutionGap describes a record skipped during aggregation.
func ResolutionGap(format string, args ...any) error {
	return &Error{Kind: KindResolutionGap, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err. Context deadline errors are reported as
// KindTimeout even when they were not wrapped.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindInternal
}

// IsKind reports whether err is classified as k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
