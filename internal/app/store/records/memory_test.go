package records_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/linkuphq/linkup/internal/app/store/records"
)

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

type note struct {
	ID    string `bson:"_id,omitempty"`
	Title string `bson:"title"`
	Owner string `bson:"owner"`
	Rank  int    `bson:"rank"`
}

func TestInsert_AssignsID(t *testing.T) {
	ctx := testCtx(t)
	store := records.NewMemory()

	var created note
	if err := store.Insert(ctx, "notes", note{Title: "first", Owner: "a"}, &created); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected an assigned ID")
	}
	if created.Title != "first" {
		t.Errorf("title: got %q, want %q", created.Title, "first")
	}
}

func TestQueryOne_NoRows(t *testing.T) {
	ctx := testCtx(t)
	store := records.NewMemory()

	var out note
	err := store.QueryOne(ctx, "notes", records.Filter{"_id": "missing"}, &out)
	if !errors.Is(err, records.ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}

func TestQuery_FilterAndOrder(t *testing.T) {
	ctx := testCtx(t)
	store := records.NewMemory()

	for _, n := range []note{
		{Title: "c", Owner: "a", Rank: 3},
		{Title: "a", Owner: "a", Rank: 1},
		{Title: "x", Owner: "b", Rank: 0},
		{Title: "b", Owner: "a", Rank: 2},
	} {
		if err := store.Insert(ctx, "notes", n, nil); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	var rows []note
	err := store.Query(ctx, "notes", records.Filter{"owner": "a"}, records.Options{OrderBy: "rank"}, &rows)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	for i, want := range []string{"a", "b", "c"} {
		if rows[i].Title != want {
			t.Errorf("position %d: got %q, want %q", i, rows[i].Title, want)
		}
	}

	// Descending with a limit.
	rows = nil
	err = store.Query(ctx, "notes", records.Filter{"owner": "a"}, records.Options{OrderBy: "rank", Desc: true, Limit: 2}, &rows)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Title != "c" || rows[1].Title != "b" {
		t.Errorf("descending order: got %q, %q, want %q, %q", rows[0].Title, rows[1].Title, "c", "b")
	}
}

func TestUpdate_AppliesPatchAndConfirms(t *testing.T) {
	ctx := testCtx(t)
	store := records.NewMemory()

	var created note
	if err := store.Insert(ctx, "notes", note{Title: "before", Owner: "a"}, &created); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	var updated note
	if err := store.Update(ctx, "notes", created.ID, records.Filter{"title": "after"}, &updated); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Title != "after" {
		t.Errorf("title: got %q, want %q", updated.Title, "after")
	}
	if updated.Owner != "a" {
		t.Errorf("owner: got %q, want %q (untouched fields must survive)", updated.Owner, "a")
	}

	if err := store.Update(ctx, "notes", "missing", records.Filter{"title": "x"}, nil); !errors.Is(err, records.ErrNoRows) {
		t.Fatalf("expected ErrNoRows for missing row, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := testCtx(t)
	store := records.NewMemory()

	var created note
	if err := store.Insert(ctx, "notes", note{Title: "gone"}, &created); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := store.Delete(ctx, "notes", created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "notes", created.ID); !errors.Is(err, records.ErrNoRows) {
		t.Fatalf("expected ErrNoRows on second delete, got %v", err)
	}
}

func TestCount(t *testing.T) {
	ctx := testCtx(t)
	store := records.NewMemory()

	for i := 0; i < 3; i++ {
		if err := store.Insert(ctx, "notes", note{Title: "n", Owner: "a"}, nil); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	if err := store.Insert(ctx, "notes", note{Title: "n", Owner: "b"}, nil); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.Count(ctx, "notes", records.Filter{"owner": "a"})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if got != 3 {
		t.Errorf("count: got %d, want 3", got)
	}
}

func TestUniqueIndex_RejectsDuplicateInsert(t *testing.T) {
	ctx := testCtx(t)
	store := records.NewMemory(records.WithUniqueIndex("regs", "event_id", "user_id"))

	first := bson.M{"event_id": "e1", "user_id": "u1"}
	if err := store.Insert(ctx, "regs", first, nil); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	err := store.Insert(ctx, "regs", bson.M{"event_id": "e1", "user_id": "u1"}, nil)
	if !errors.Is(err, records.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// Different user under the same event is fine.
	if err := store.Insert(ctx, "regs", bson.M{"event_id": "e1", "user_id": "u2"}, nil); err != nil {
		t.Fatalf("Insert for different user failed: %v", err)
	}
}

func TestUniqueIndex_RejectsDuplicateUpdate(t *testing.T) {
	ctx := testCtx(t)
	store := records.NewMemory(records.WithUniqueIndex("users", "email"))

	if err := store.Insert(ctx, "users", bson.M{"email": "taken@test.com"}, nil); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	var second bson.M
	if err := store.Insert(ctx, "users", bson.M{"email": "free@test.com"}, &second); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	id, _ := second["_id"].(string)
	err := store.Update(ctx, "users", id, records.Filter{"email": "taken@test.com"}, nil)
	if !errors.Is(err, records.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestError_CarriesOpAndTable(t *testing.T) {
	ctx := testCtx(t)
	store := records.NewMemory()

	var out note
	err := store.QueryOne(ctx, "notes", records.Filter{"_id": "missing"}, &out)

	var re *records.Error
	if !errors.As(err, &re) {
		t.Fatalf("expected *records.Error, got %T", err)
	}
	if re.Table != "notes" {
		t.Errorf("table: got %q, want %q", re.Table, "notes")
	}
}
