// internal/app/collection/collection.go

// Package collection implements the contributor/learner listing layer:
// one generic Collection per resource table, holding a local cache of
// rows, a loading flag, and the last fetch error. Mutations perform the
// ownership and role checks, write through the record store, and merge
// the store's confirmed row back into the cache.
package collection

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/linkuphq/linkup/internal/app/store/records"
	"github.com/linkuphq/linkup/internal/app/system/faults"
	"github.com/linkuphq/linkup/internal/app/system/htmlsanitize"
	"github.com/linkuphq/linkup/internal/app/system/notify"
	"github.com/linkuphq/linkup/internal/domain/models"
)

// ErrClosed is returned by operations on a closed Collection.
var ErrClosed = errors.New("collection closed")

// Scope selects which rows Fetch loads.
type Scope int

const (
	// Mine loads rows owned by the collection's identity.
	Mine Scope = iota
	// Public loads active rows from every contributor.
	Public
)

// Hooks are the per-type closures a Collection needs to work with its
// element type without reflection.
type Hooks[T any] struct {
	// ID returns the row identifier.
	ID func(T) string
	// Owner returns the owning contributor's user id.
	Owner func(T) string
	// CreatedAt returns the row's creation time.
	CreatedAt func(T) time.Time
	// Stamp prepares a caller-supplied value for insert: it sets the
	// owner, folds search fields, sanitizes rich text, zeroes any
	// denormalized counter, and sets both timestamps.
	Stamp func(item T, ownerID string, now time.Time) T
	// Less orders the cache the same way the store query does.
	Less func(a, b T) bool
}

// Config assembles a Collection. The per-type constructors in
// resources.go fill everything except store, identity, log, and
// notifier.
type Config[T any] struct {
	Store    records.Store
	Identity models.Profile
	Log      *zap.Logger
	Notifier notify.Notifier

	Table string
	Noun  string // "event", "club", ... used in notices
	Order records.Options
	Hooks Hooks[T]

	// NameField/FoldedField name the display field and its folded
	// companion; a patch that changes NameField gets FoldedField
	// recomputed.
	NameField   string
	FoldedField string
	// Protected fields are stripped from update patches. The owner,
	// the row id, creation time, and any counter are never
	// client-writable.
	Protected []string
}

// Collection caches one table's rows for one identity and writes
// through the record store.
type Collection[T any] struct {
	store    records.Store
	identity models.Profile
	log      *zap.Logger
	notifier notify.Notifier

	table       string
	noun        string
	order       records.Options
	hooks       Hooks[T]
	nameField   string
	foldedField string
	protected   map[string]bool

	mu      sync.Mutex
	items   []T
	loading bool
	lastErr error
	closed  bool
}

// New builds a Collection from cfg. A nil notifier is replaced with a
// log-backed one.
func New[T any](cfg Config[T]) *Collection[T] {
	n := cfg.Notifier
	if n == nil {
		n = notify.NewLogger(cfg.Log)
	}
	prot := make(map[string]bool, len(cfg.Protected))
	for _, f := range cfg.Protected {
		prot[f] = true
	}
	return &Collection[T]{
		store:       cfg.Store,
		identity:    cfg.Identity,
		log:         cfg.Log,
		notifier:    n,
		table:       cfg.Table,
		noun:        cfg.Noun,
		order:       cfg.Order,
		hooks:       cfg.Hooks,
		nameField:   cfg.NameField,
		foldedField: cfg.FoldedField,
		protected:   prot,
	}
}

// Fetch loads rows for the given scope and replaces the cache. On
// failure the previous cache is kept so callers can keep rendering
// stale data, and the error is retained for Err.
func (c *Collection[T]) Fetch(ctx context.Context, scope Scope) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.loading = true
	c.mu.Unlock()

	filter := records.Filter{}
	switch scope {
	case Mine:
		filter["contributor_id"] = c.identity.ID
	case Public:
		filter["is_active"] = true
	}

	var rows []T
	err := c.store.Query(ctx, c.table, filter, c.order, &rows)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	c.loading = false
	if err != nil {
		c.lastErr = faults.Wrap(faults.Transient, "could not load "+c.noun+"s", err)
		c.log.Warn("fetch failed",
			zap.String("table", c.table),
			zap.Error(err),
		)
		return c.lastErr
	}
	c.items = rows
	c.lastErr = nil
	return nil
}

// Create inserts a new row owned by the collection's identity. Only
// contributors may create; the caller-supplied owner, counter, and
// timestamps are overwritten by the Stamp hook before insert.
func (c *Collection[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	if err := c.guard(); err != nil {
		return zero, err
	}
	if c.identity.Role != models.RoleContributor {
		msg := "only contributors can create a " + c.noun
		c.notifier.Notify(notify.Error, msg)
		return zero, faults.New(faults.Permission, msg)
	}

	stamped := c.hooks.Stamp(item, c.identity.ID, time.Now().UTC())

	var confirmed T
	if err := c.store.Insert(ctx, c.table, stamped, &confirmed); err != nil {
		wrapped := c.classify("could not create "+c.noun, err)
		c.notifier.Notify(notify.Error, "Could not create "+c.noun+".")
		return zero, wrapped
	}

	c.merge(confirmed)
	c.notifier.Notify(notify.Success, capitalize(c.noun)+" created.")
	return confirmed, nil
}

// Update applies patch to an owned row. The row must exist and belong
// to the collection's identity; protected fields in the patch are
// dropped, and renaming the display field recomputes its folded
// companion.
func (c *Collection[T]) Update(ctx context.Context, id string, patch records.Filter) (T, error) {
	var zero T
	if err := c.guard(); err != nil {
		return zero, err
	}
	if _, err := c.owned(ctx, id); err != nil {
		return zero, err
	}

	clean := records.Filter{}
	for k, v := range patch {
		if c.protected[k] {
			continue
		}
		clean[k] = v
	}
	if c.nameField != "" {
		if name, ok := clean[c.nameField].(string); ok {
			clean[c.foldedField] = text.Fold(name)
		}
	}
	if desc, ok := clean["description"].(string); ok {
		clean["description"] = htmlsanitize.Sanitize(desc)
	}
	clean["updated_at"] = time.Now().UTC()

	var confirmed T
	if err := c.store.Update(ctx, c.table, id, clean, &confirmed); err != nil {
		wrapped := c.classify("could not update "+c.noun, err)
		c.notifier.Notify(notify.Error, "Could not update "+c.noun+".")
		return zero, wrapped
	}

	c.merge(confirmed)
	c.notifier.Notify(notify.Success, capitalize(c.noun)+" updated.")
	return confirmed, nil
}

// Delete removes an owned row.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := c.guard(); err != nil {
		return err
	}
	if _, err := c.owned(ctx, id); err != nil {
		return err
	}
	if err := c.store.Delete(ctx, c.table, id); err != nil {
		wrapped := c.classify("could not delete "+c.noun, err)
		c.notifier.Notify(notify.Error, "Could not delete "+c.noun+".")
		return wrapped
	}

	c.mu.Lock()
	kept := c.items[:0]
	for _, it := range c.items {
		if c.hooks.ID(it) != id {
			kept = append(kept, it)
		}
	}
	c.items = kept
	c.mu.Unlock()

	c.notifier.Notify(notify.Success, capitalize(c.noun)+" deleted.")
	return nil
}

// Items returns a copy of the cached rows in query order.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Loading reports whether a Fetch is in flight.
func (c *Collection[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the error from the most recent failed Fetch, or nil.
func (c *Collection[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Close detaches the collection. Later calls return ErrClosed and an
// in-flight Fetch discards its result instead of touching the cache.
func (c *Collection[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.items = nil
}

// Stats summarizes the cached rows for the contributor dashboard.
type Stats struct {
	Total      int
	RecentWeek int // created within the last 7 days
}

// Stats computes dashboard counts from the cache. Call after a
// Fetch(Mine).
func (c *Collection[T]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	cutoff := time.Now().UTC().AddDate(0, 0, -7)
	s := Stats{Total: len(c.items)}
	for _, it := range c.items {
		if c.hooks.CreatedAt(it).After(cutoff) {
			s.RecentWeek++
		}
	}
	return s
}

func (c *Collection[T]) guard() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	return nil
}

// owned loads the row and verifies the collection's identity owns it.
func (c *Collection[T]) owned(ctx context.Context, id string) (T, error) {
	var row T
	err := c.store.QueryOne(ctx, c.table, records.Filter{"_id": id}, &row)
	if err != nil {
		if errors.Is(err, records.ErrNoRows) {
			return row, faults.Wrap(faults.NotFound, c.noun+" not found", err)
		}
		return row, faults.Wrap(faults.Transient, "could not load "+c.noun, err)
	}
	if c.hooks.Owner(row) != c.identity.ID {
		return row, faults.New(faults.Permission, "you do not own this "+c.noun)
	}
	return row, nil
}

// merge replaces the cached row with the same id, or inserts the new
// one, and restores query order.
func (c *Collection[T]) merge(row T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	id := c.hooks.ID(row)
	replaced := false
	for i, it := range c.items {
		if c.hooks.ID(it) == id {
			c.items[i] = row
			replaced = true
			break
		}
	}
	if !replaced {
		c.items = append(c.items, row)
	}
	if c.hooks.Less != nil {
		sort.SliceStable(c.items, func(i, j int) bool {
			return c.hooks.Less(c.items[i], c.items[j])
		})
	}
}

func (c *Collection[T]) classify(msg string, err error) error {
	if errors.Is(err, records.ErrDuplicate) {
		return faults.Wrap(faults.Conflict, msg, err)
	}
	if errors.Is(err, records.ErrNoRows) {
		return faults.Wrap(faults.NotFound, msg, err)
	}
	return faults.Wrap(faults.Transient, msg, err)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-('a'-'A')) + s[1:]
}
