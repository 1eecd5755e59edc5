// internal/app/store/records/records.go

// Package records defines the generic record-store collaborator the core
// is written against: tables of rows addressed by string IDs, filtered by
// field equality, ordered by a single field, optionally limited.
//
// Two implementations are provided. Mongo is the production backend;
// Memory backs tests and local development. Both enforce the same unique
// index semantics, so the store-side duplicate rejection the relationship
// layer depends on behaves identically everywhere.
//
// Rows are encoded and decoded through the bson codec, so any bson-tagged
// struct (or bson.M) works as a document on either backend.
package records

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Filter matches rows whose fields equal the given values. Only equality
// is supported; the core never needs more.
type Filter map[string]any

// Options controls ordering and result size for Query.
type Options struct {
	OrderBy string // field name; empty means store order
	Desc    bool
	Limit   int64 // 0 means no limit
}

// Sentinel errors. Implementations wrap them in *Error; match with
// errors.Is.
var (
	// ErrNoRows reports that QueryOne, Update, or Delete matched nothing.
	ErrNoRows = errors.New("no matching row")
	// ErrDuplicate reports a unique-index violation on Insert or Update.
	ErrDuplicate = errors.New("duplicate row")
)

// Error carries the failing operation and table alongside the cause.
type Error struct {
	Op    string
	Table string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("records: %s %s: %v", e.Op, e.Table, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func wrap(op, table string, err error) error {
	return &Error{Op: op, Table: table, Err: err}
}

// newID allocates a row ID. Both backends assign IDs store-side; callers
// never pick their own.
func newID() string { return uuid.NewString() }

// Store is the record-store contract.
//
// out parameters are decoded through bson: pass a pointer to a slice for
// Query and a pointer to a struct (or bson.M) elsewhere. A nil out skips
// decoding.
type Store interface {
	// Query decodes all rows matching f into out, honoring opts.
	Query(ctx context.Context, table string, f Filter, opts Options, out any) error

	// QueryOne decodes a single matching row into out, or ErrNoRows.
	QueryOne(ctx context.Context, table string, f Filter, out any) error

	// Insert stores doc, assigning a new ID when the document carries
	// none, and decodes the stored row (ID included) into out.
	Insert(ctx context.Context, table string, doc any, out any) error

	// Update applies patch to the row with the given ID and decodes the
	// confirmed post-update row into out. ErrNoRows when absent.
	Update(ctx context.Context, table string, id string, patch Filter, out any) error

	// Delete removes the row with the given ID. ErrNoRows when absent.
	Delete(ctx context.Context, table string, id string) error

	// Count returns the number of rows matching f.
	Count(ctx context.Context, table string, f Filter) (int64, error)
}
