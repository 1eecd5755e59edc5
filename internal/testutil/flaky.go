package testutil

import (
	"context"
	"errors"

	"github.com/linkuphq/linkup/internal/app/store/records"
)

// ErrInjected is the failure FailingStore injects.
var ErrInjected = errors.New("injected store failure")

// FailingStore wraps a records.Store and fails Update calls against one
// table. Used to exercise the counter-out-of-sync path where a relation
// row lands but the resource counter write fails.
type FailingStore struct {
	records.Store
	FailUpdateTable string
}

func (f *FailingStore) Update(ctx context.Context, table string, id string, patch records.Filter, out any) error {
	if table == f.FailUpdateTable {
		return ErrInjected
	}
	return f.Store.Update(ctx, table, id, patch, out)
}
