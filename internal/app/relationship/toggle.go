// internal/app/relationship/toggle.go

// Package relationship manages the learner↔resource join tables:
// event registrations, club memberships, and internship applications.
// Each resource document carries a denormalized counter that mirrors
// the row count of its join table; this package is the only writer of
// those counters, and it recomputes them from a true count after every
// write rather than adjusting them blindly.
package relationship

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/linkuphq/linkup/internal/app/store/records"
	"github.com/linkuphq/linkup/internal/app/system/faults"
	"github.com/linkuphq/linkup/internal/app/system/notify"
)

var (
	// ErrAlreadyRelated means the (resource, user) pair already has a row.
	ErrAlreadyRelated = errors.New("already joined")
	// ErrAtCapacity means the resource has a capacity limit and it is full.
	ErrAtCapacity = errors.New("at capacity")
	// ErrInactive means the resource is no longer accepting joins.
	ErrInactive = errors.New("no longer available")
)

// CounterSyncError reports that the relation row was written but the
// resource's denormalized counter could not be updated afterwards. The
// relation stands; Resync repairs the counter.
type CounterSyncError struct {
	ResourceID string
	Err        error
}

func (e *CounterSyncError) Error() string {
	return fmt.Sprintf("counter out of sync for %s: %v", e.ResourceID, e.Err)
}

func (e *CounterSyncError) Unwrap() error { return e.Err }

// Toggle is a join/leave relationship between learners and one resource
// table. Registrations and memberships are Toggles; internship
// applications carry status and live in Applications instead.
type Toggle struct {
	store    records.Store
	log      *zap.Logger
	notifier notify.Notifier

	resourceTable string
	relationTable string
	resourceKey   string // relation field referencing the resource
	counterField  string // denormalized counter on the resource
	capacityField string // optional capacity limit on the resource
	whenField     string // relation timestamp field
	noun          string
	joinedMsg     string
	leftMsg       string
}

// NewRegistrations builds the event registration toggle. Events enforce
// max_attendees at join time.
func NewRegistrations(store records.Store, log *zap.Logger, n notify.Notifier) *Toggle {
	return &Toggle{
		store:         store,
		log:           log,
		notifier:      notifierOr(n, log),
		resourceTable: "events",
		relationTable: "event_registrations",
		resourceKey:   "event_id",
		counterField:  "attendees",
		capacityField: "max_attendees",
		whenField:     "registration_date",
		noun:          "event",
		joinedMsg:     "Registered for event.",
		leftMsg:       "Registration cancelled.",
	}
}

// NewMemberships builds the club membership toggle. Clubs have no
// capacity limit.
func NewMemberships(store records.Store, log *zap.Logger, n notify.Notifier) *Toggle {
	return &Toggle{
		store:         store,
		log:           log,
		notifier:      notifierOr(n, log),
		resourceTable: "clubs",
		relationTable: "club_members",
		resourceKey:   "club_id",
		counterField:  "members",
		whenField:     "joined_at",
		noun:          "club",
		joinedMsg:     "Joined club.",
		leftMsg:       "Left club.",
	}
}

// Join creates the relation row for (resourceID, userID) and brings the
// resource counter up to date. Joining twice, joining a full resource,
// and joining an inactive resource are Conflict faults. A relation that
// lands but whose counter write fails returns *CounterSyncError; the
// join stands.
func (t *Toggle) Join(ctx context.Context, resourceID, userID string) error {
	var resource bson.M
	err := t.store.QueryOne(ctx, t.resourceTable, records.Filter{"_id": resourceID}, &resource)
	if err != nil {
		if errors.Is(err, records.ErrNoRows) {
			return faults.Wrap(faults.NotFound, t.noun+" not found", err)
		}
		return faults.Wrap(faults.Transient, "could not load "+t.noun, err)
	}
	if active, ok := resource["is_active"].(bool); ok && !active {
		t.notifier.Notify(notify.Error, "This "+t.noun+" is no longer available.")
		return faults.Wrap(faults.Conflict, t.noun+" is not active", ErrInactive)
	}

	existing, err := t.store.Count(ctx, t.relationTable, records.Filter{
		t.resourceKey: resourceID,
		"user_id":     userID,
	})
	if err != nil {
		return faults.Wrap(faults.Transient, "could not check existing join", err)
	}
	if existing > 0 {
		t.notifier.Notify(notify.Info, "You have already joined this "+t.noun+".")
		return faults.Wrap(faults.Conflict, "already joined", ErrAlreadyRelated)
	}

	if t.capacityField != "" {
		if max := asInt(resource[t.capacityField]); max > 0 {
			count, err := t.store.Count(ctx, t.relationTable, records.Filter{t.resourceKey: resourceID})
			if err != nil {
				return faults.Wrap(faults.Transient, "could not check capacity", err)
			}
			if count >= int64(max) {
				t.notifier.Notify(notify.Error, "This "+t.noun+" is full.")
				return faults.Wrap(faults.Conflict, t.noun+" is full", ErrAtCapacity)
			}
		}
	}

	row := records.Filter{
		t.resourceKey: resourceID,
		"user_id":     userID,
		t.whenField:   time.Now().UTC(),
	}
	var inserted bson.M
	if err := t.store.Insert(ctx, t.relationTable, row, &inserted); err != nil {
		// The unique index is the arbiter under concurrent joins.
		if errors.Is(err, records.ErrDuplicate) {
			t.notifier.Notify(notify.Info, "You have already joined this "+t.noun+".")
			return faults.Wrap(faults.Conflict, "already joined", ErrAlreadyRelated)
		}
		t.notifier.Notify(notify.Error, "Could not join "+t.noun+".")
		return faults.Wrap(faults.Transient, "could not join "+t.noun, err)
	}

	if err := t.Resync(ctx, resourceID); err != nil {
		t.log.Warn("counter resync failed after join",
			zap.String("table", t.resourceTable),
			zap.String("resource_id", resourceID),
			zap.Error(err),
		)
		t.notifier.Notify(notify.Success, t.joinedMsg)
		return &CounterSyncError{ResourceID: resourceID, Err: err}
	}

	t.notifier.Notify(notify.Success, t.joinedMsg)
	return nil
}

// Leave removes the relation row for (resourceID, userID) and brings
// the counter back down. Leaving without a prior join is a no-op
// success.
func (t *Toggle) Leave(ctx context.Context, resourceID, userID string) error {
	var relation bson.M
	err := t.store.QueryOne(ctx, t.relationTable, records.Filter{
		t.resourceKey: resourceID,
		"user_id":     userID,
	}, &relation)
	if err != nil {
		if errors.Is(err, records.ErrNoRows) {
			return nil
		}
		return faults.Wrap(faults.Transient, "could not look up join", err)
	}

	id, _ := relation["_id"].(string)
	if err := t.store.Delete(ctx, t.relationTable, id); err != nil && !errors.Is(err, records.ErrNoRows) {
		t.notifier.Notify(notify.Error, "Could not leave "+t.noun+".")
		return faults.Wrap(faults.Transient, "could not leave "+t.noun, err)
	}

	if err := t.Resync(ctx, resourceID); err != nil {
		t.log.Warn("counter resync failed after leave",
			zap.String("table", t.resourceTable),
			zap.String("resource_id", resourceID),
			zap.Error(err),
		)
		t.notifier.Notify(notify.Success, t.leftMsg)
		return &CounterSyncError{ResourceID: resourceID, Err: err}
	}

	t.notifier.Notify(notify.Success, t.leftMsg)
	return nil
}

// IsRelated reports whether the user has a relation row for the
// resource.
func (t *Toggle) IsRelated(ctx context.Context, resourceID, userID string) (bool, error) {
	n, err := t.store.Count(ctx, t.relationTable, records.Filter{
		t.resourceKey: resourceID,
		"user_id":     userID,
	})
	if err != nil {
		return false, faults.Wrap(faults.Transient, "could not check join", err)
	}
	return n > 0, nil
}

// Related returns the ids of every resource the user has joined, for
// marking listings on the learner dashboard.
func (t *Toggle) Related(ctx context.Context, userID string) ([]string, error) {
	var rows []bson.M
	err := t.store.Query(ctx, t.relationTable, records.Filter{"user_id": userID}, records.Options{}, &rows)
	if err != nil {
		return nil, faults.Wrap(faults.Transient, "could not load joins", err)
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		if id, ok := r[t.resourceKey].(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Resync recomputes the resource's counter from the true relation count
// and writes it. Safe to call at any time.
func (t *Toggle) Resync(ctx context.Context, resourceID string) error {
	count, err := t.store.Count(ctx, t.relationTable, records.Filter{t.resourceKey: resourceID})
	if err != nil {
		return err
	}
	var updated bson.M
	return t.store.Update(ctx, t.resourceTable, resourceID, records.Filter{t.counterField: count}, &updated)
}

func notifierOr(n notify.Notifier, log *zap.Logger) notify.Notifier {
	if n != nil {
		return n
	}
	return notify.NewLogger(log)
}

// asInt copes with the integer widths bson decoding produces.
func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
