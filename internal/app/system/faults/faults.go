// internal/app/system/faults/faults.go

// Package faults classifies errors into the small set of kinds the rest
// of the application routes on: authentication failures become redirects,
// conflicts become user-facing notices, transient failures are retryable
// by the caller, permission failures are always surfaced.
package faults

import (
	"context"
	"errors"
	"fmt"

	"github.com/linkuphq/linkup/internal/app/store/records"
)

// Kind is the coarse classification of a failure.
type Kind int

const (
	// Unknown is the zero Kind: an unclassified internal failure.
	Unknown Kind = iota
	// Auth covers session and profile-resolution failures; callers treat
	// the user as unauthenticated.
	Auth
	// NotFound covers missing rows: an absent profile means "needs
	// onboarding", an absent resource means it was deleted.
	NotFound
	// Permission covers ownership and role mismatches. Never silently
	// ignored.
	Permission
	// Conflict covers expected, user-facing rejections such as duplicate
	// joins and full events.
	Conflict
	// Transient covers network failures, timeouts, and cancellations.
	// Retryable by the caller; nothing here retries automatically.
	Transient
)

func (k Kind) String() string {
	switch k {
	case Auth:
		return "auth"
	case NotFound:
		return "not_found"
	case Permission:
		return "permission"
	case Conflict:
		return "conflict"
	case Transient:
		return "transient"
	}
	return "unknown"
}

// Fault is an error with a Kind and a user-presentable message.
type Fault struct {
	Kind Kind
	Msg  string
	Err  error // optional cause
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Kind, f.Msg, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Kind, f.Msg)
}

func (f *Fault) Unwrap() error { return f.Err }

// New creates a Fault with no underlying cause.
func New(kind Kind, msg string) error {
	return &Fault{Kind: kind, Msg: msg}
}

// Wrap attaches a kind and message to an existing error. A nil err
// returns nil.
func Wrap(kind Kind, msg string, err error) error {
	if err == nil {
		return nil
	}
	return &Fault{Kind: kind, Msg: msg, Err: err}
}

// KindOf classifies err. Explicit Fault kinds win; store and context
// sentinels are mapped so lower layers don't need to wrap every return.
func KindOf(err error) Kind {
	if err == nil {
		return Unknown
	}
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	switch {
	case errors.Is(err, records.ErrNoRows):
		return NotFound
	case errors.Is(err, records.ErrDuplicate):
		return Conflict
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return Transient
	}
	return Unknown
}

// IsKind reports whether err classifies as kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
