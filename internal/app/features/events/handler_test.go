package events_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/linkuphq/linkup/internal/app/features/events"
	"github.com/linkuphq/linkup/internal/app/relationship"
	"github.com/linkuphq/linkup/internal/app/store/records"
	"github.com/linkuphq/linkup/internal/app/system/auth"
	"github.com/linkuphq/linkup/internal/app/system/notify"
	"github.com/linkuphq/linkup/internal/domain/models"
	"github.com/linkuphq/linkup/internal/testutil"
)

func newRouter(store records.Store) chi.Router {
	h := events.NewHandler(store, zap.NewNop(), notify.Discard{})
	r := chi.NewRouter()
	events.MountRoutes(r, h)
	return r
}

func fetchEvent(t *testing.T, store records.Store, id string) models.Event {
	t.Helper()
	var e models.Event
	if err := store.QueryOne(testutil.TestContext(t), "events", records.Filter{"_id": id}, &e); err != nil {
		t.Fatalf("failed to load event %s: %v", id, err)
	}
	return e
}

func TestServeLearnerList_ActiveOnlyWithRegistrations(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)

	contributor := fx.CreateContributor(ctx, "Eve Host", "eve@test.com", models.PurposePostEvents)
	open := fx.CreateEvent(ctx, contributor.ID, "Open House", 50, time.Now().Add(48*time.Hour))
	closed := fx.CreateEvent(ctx, contributor.ID, "Closed Session", 50, time.Now().Add(72*time.Hour))
	if err := store.Update(ctx, "events", closed.ID, records.Filter{"is_active": false}, nil); err != nil {
		t.Fatalf("failed to deactivate event: %v", err)
	}

	learner := fx.CreateLearner(ctx, "Lea Brown", "lea@test.com")
	reg := relationship.NewRegistrations(store, zap.NewNop(), notify.Discard{})
	if err := reg.Join(ctx, open.ID, learner.ID); err != nil {
		t.Fatalf("failed to register learner: %v", err)
	}

	router := newRouter(store)
	rec := testutil.NewRecorder()
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/learner/dashboard/events", learner)
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var body struct {
		Events     []models.Event `json:"events"`
		Registered []string       `json:"registered_ids"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Events) != 1 {
		t.Fatalf("expected 1 active event, got %d", len(body.Events))
	}
	if body.Events[0].ID != open.ID {
		t.Errorf("listed event: got %s, want %s", body.Events[0].ID, open.ID)
	}
	if len(body.Registered) != 1 || body.Registered[0] != open.ID {
		t.Errorf("registered ids: got %v, want [%s]", body.Registered, open.ID)
	}
}

func TestHandleRegister_RegistersAndCounts(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)

	contributor := fx.CreateContributor(ctx, "Eve Host", "eve@test.com", models.PurposePostEvents)
	event := fx.CreateEvent(ctx, contributor.ID, "Career Night", 100, time.Now().Add(24*time.Hour))
	learner := fx.CreateLearner(ctx, "Lea Brown", "lea@test.com")

	router := newRouter(store)
	rec := testutil.NewRecorder()
	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/learner/dashboard/events/"+event.ID+"/register", learner)
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if got := fetchEvent(t, store, event.ID).Attendees; got != 1 {
		t.Errorf("attendees after register: got %d, want 1", got)
	}
}

func TestHandleRegister_DuplicateConflicts(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)

	contributor := fx.CreateContributor(ctx, "Eve Host", "eve@test.com", models.PurposePostEvents)
	event := fx.CreateEvent(ctx, contributor.ID, "Career Night", 100, time.Now().Add(24*time.Hour))
	learner := fx.CreateLearner(ctx, "Lea Brown", "lea@test.com")

	router := newRouter(store)
	for i, want := range []int{http.StatusOK, http.StatusConflict} {
		rec := testutil.NewRecorder()
		req := testutil.NewAuthenticatedRequest(http.MethodPost, "/learner/dashboard/events/"+event.ID+"/register", learner)
		router.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("register attempt %d: got status %d, want %d", i+1, rec.Code, want)
		}
	}
	if got := fetchEvent(t, store, event.ID).Attendees; got != 1 {
		t.Errorf("attendees after duplicate register: got %d, want 1", got)
	}
}

func TestHandleRegister_StaleCounterIsStillSuccess(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)

	contributor := fx.CreateContributor(ctx, "Eve Host", "eve@test.com", models.PurposePostEvents)
	event := fx.CreateEvent(ctx, contributor.ID, "Career Night", 100, time.Now().Add(24*time.Hour))
	learner := fx.CreateLearner(ctx, "Lea Brown", "lea@test.com")

	// Counter updates fail, relation inserts still land.
	flaky := &testutil.FailingStore{Store: store, FailUpdateTable: "events"}
	router := newRouter(flaky)
	rec := testutil.NewRecorder()
	req := testutil.NewAuthenticatedRequest(http.MethodPost, "/learner/dashboard/events/"+event.ID+"/register", learner)
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)

	reg := relationship.NewRegistrations(store, zap.NewNop(), notify.Discard{})
	related, err := reg.IsRelated(ctx, event.ID, learner.ID)
	if err != nil {
		t.Fatalf("failed to check registration: %v", err)
	}
	if !related {
		t.Error("expected registration row despite stale counter")
	}
}

func TestHandleCreate_ContributorCreatesEvent(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)

	contributor := fx.CreateContributor(ctx, "Eve Host", "eve@test.com", models.PurposePostEvents)

	body := `{"title":"Hack Night","description":"<p>Bring a laptop</p>","location":"Lab 2","date":"2026-10-01T18:00:00Z","max_attendees":30}`
	req := httptest.NewRequest(http.MethodPost, "/contributor/dashboard/events", strings.NewReader(body))
	req = auth.WithTestProfile(req, contributor)

	router := newRouter(store)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusCreated)
	var created models.Event
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected created event to carry an id")
	}
	if created.ContributorID != contributor.ID {
		t.Errorf("contributor id: got %s, want %s", created.ContributorID, contributor.ID)
	}
	if !created.IsActive {
		t.Error("expected new event to start active")
	}
}

func TestHandleCreate_TitleRequired(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)

	contributor := fx.CreateContributor(ctx, "Eve Host", "eve@test.com", models.PurposePostEvents)

	req := httptest.NewRequest(http.MethodPost, "/contributor/dashboard/events", strings.NewReader(`{"title":""}`))
	req = auth.WithTestProfile(req, contributor)

	router := newRouter(store)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusConflict)
}

func TestHandleUpdate_NonOwnerForbidden(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)

	owner := fx.CreateContributor(ctx, "Eve Host", "eve@test.com", models.PurposePostEvents)
	other := fx.CreateContributor(ctx, "Nat Field", "nat@test.com", models.PurposePostEvents)
	event := fx.CreateEvent(ctx, owner.ID, "Career Night", 100, time.Now().Add(24*time.Hour))

	req := httptest.NewRequest(http.MethodPut, "/contributor/dashboard/events/"+event.ID, strings.NewReader(`{"title":"Hijacked"}`))
	req = auth.WithTestProfile(req, other)

	router := newRouter(store)
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusForbidden)
	if got := fetchEvent(t, store, event.ID).Title; got != "Career Night" {
		t.Errorf("title after rejected update: got %q, want %q", got, "Career Night")
	}
}

func TestHandleDelete_RemovesOwnedEvent(t *testing.T) {
	ctx := testutil.TestContext(t)
	store := testutil.NewStore(t)
	fx := testutil.NewFixtures(t, store)

	owner := fx.CreateContributor(ctx, "Eve Host", "eve@test.com", models.PurposePostEvents)
	event := fx.CreateEvent(ctx, owner.ID, "Career Night", 100, time.Now().Add(24*time.Hour))

	router := newRouter(store)
	rec := testutil.NewRecorder()
	req := testutil.NewAuthenticatedRequest(http.MethodDelete, "/contributor/dashboard/events/"+event.ID, owner)
	router.ServeHTTP(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	var gone models.Event
	err := store.QueryOne(ctx, "events", records.Filter{"_id": event.ID}, &gone)
	if !errors.Is(err, records.ErrNoRows) {
		t.Errorf("expected event row to be gone, got err %v", err)
	}
}
