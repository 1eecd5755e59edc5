package faults_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/linkuphq/linkup/internal/app/store/records"
	"github.com/linkuphq/linkup/internal/app/system/faults"
)

func TestKindOf_ExplicitFault(t *testing.T) {
	err := faults.New(faults.Permission, "you do not own this event")
	if got := faults.KindOf(err); got != faults.Permission {
		t.Errorf("got %v, want Permission", got)
	}
}

func TestKindOf_WrappedFaultSurvivesFmtWrap(t *testing.T) {
	inner := faults.New(faults.Conflict, "already registered")
	outer := fmt.Errorf("handling request: %w", inner)
	if got := faults.KindOf(outer); got != faults.Conflict {
		t.Errorf("got %v, want Conflict", got)
	}
}

func TestKindOf_StoreSentinels(t *testing.T) {
	if got := faults.KindOf(fmt.Errorf("x: %w", records.ErrNoRows)); got != faults.NotFound {
		t.Errorf("ErrNoRows: got %v, want NotFound", got)
	}
	if got := faults.KindOf(fmt.Errorf("x: %w", records.ErrDuplicate)); got != faults.Conflict {
		t.Errorf("ErrDuplicate: got %v, want Conflict", got)
	}
}

func TestKindOf_ContextErrors(t *testing.T) {
	if got := faults.KindOf(context.DeadlineExceeded); got != faults.Transient {
		t.Errorf("DeadlineExceeded: got %v, want Transient", got)
	}
	if got := faults.KindOf(context.Canceled); got != faults.Transient {
		t.Errorf("Canceled: got %v, want Transient", got)
	}
}

func TestKindOf_UnclassifiedAndNil(t *testing.T) {
	if got := faults.KindOf(errors.New("mystery")); got != faults.Unknown {
		t.Errorf("plain error: got %v, want Unknown", got)
	}
	if got := faults.KindOf(nil); got != faults.Unknown {
		t.Errorf("nil: got %v, want Unknown", got)
	}
}

func TestWrap_NilPassthrough(t *testing.T) {
	if err := faults.Wrap(faults.Transient, "load", nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := faults.Wrap(faults.Transient, "could not load events", cause)
	if !errors.Is(err, cause) {
		t.Error("expected wrapped error to match its cause")
	}
	if !faults.IsKind(err, faults.Transient) {
		t.Errorf("got %v, want Transient", faults.KindOf(err))
	}
}

// Wrapping a Fault in another Fault reclassifies it: errors.As stops at
// the outermost Fault in the chain.
func TestKindOf_OuterFaultWins(t *testing.T) {
	inner := faults.New(faults.NotFound, "event not found")
	outer := faults.Wrap(faults.Transient, "lookup failed", inner)
	if got := faults.KindOf(outer); got != faults.Transient {
		t.Errorf("got %v, want Transient (outermost kind)", got)
	}
}
