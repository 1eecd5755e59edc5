// internal/app/store/records/memory.go
package records

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-memory Store. It backs tests and local development and
// mirrors the Mongo backend's semantics, including unique-index rejection,
// so duplicate-arbiter behavior can be exercised without a database.
//
// Safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	tables  map[string]map[string]bson.M
	indexes map[string][][]string
}

// MemoryOption configures a Memory store at construction.
type MemoryOption func(*Memory)

// WithUniqueIndex declares a unique index over the given fields of a
// table. Inserts and updates violating the index fail with ErrDuplicate.
func WithUniqueIndex(table string, fields ...string) MemoryOption {
	return func(m *Memory) {
		m.indexes[table] = append(m.indexes[table], fields)
	}
}

// NewMemory creates an empty in-memory store.
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		tables:  make(map[string]map[string]bson.M),
		indexes: make(map[string][][]string),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Query(ctx context.Context, table string, f Filter, opts Options, out any) error {
	if err := ctx.Err(); err != nil {
		return wrap("query", table, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var rows []bson.M
	for _, row := range m.tables[table] {
		if matches(row, f) {
			rows = append(rows, row)
		}
	}
	if opts.OrderBy != "" {
		field := opts.OrderBy
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := normalize(rows[i][field]), normalize(rows[j][field])
			if opts.Desc {
				return lessValue(b, a)
			}
			return lessValue(a, b)
		})
	}
	if opts.Limit > 0 && int64(len(rows)) > opts.Limit {
		rows = rows[:opts.Limit]
	}
	if out == nil {
		return nil
	}
	if rows == nil {
		rows = []bson.M{}
	}
	if err := decodeInto(rows, out); err != nil {
		return wrap("query", table, err)
	}
	return nil
}

func (m *Memory) QueryOne(ctx context.Context, table string, f Filter, out any) error {
	if err := ctx.Err(); err != nil {
		return wrap("query_one", table, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, row := range m.tables[table] {
		if matches(row, f) {
			if out == nil {
				return nil
			}
			if err := decodeInto(row, out); err != nil {
				return wrap("query_one", table, err)
			}
			return nil
		}
	}
	return wrap("query_one", table, ErrNoRows)
}

func (m *Memory) Insert(ctx context.Context, table string, doc any, out any) error {
	if err := ctx.Err(); err != nil {
		return wrap("insert", table, err)
	}
	row, err := toDoc(doc)
	if err != nil {
		return wrap("insert", table, err)
	}
	id, _ := row["_id"].(string)
	if id == "" {
		id = newID()
		row["_id"] = id
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.violatesUnique(table, row, id) {
		return wrap("insert", table, ErrDuplicate)
	}
	if m.tables[table] == nil {
		m.tables[table] = make(map[string]bson.M)
	}
	m.tables[table][id] = row

	if out == nil {
		return nil
	}
	if err := decodeInto(row, out); err != nil {
		return wrap("insert", table, err)
	}
	return nil
}

func (m *Memory) Update(ctx context.Context, table string, id string, patch Filter, out any) error {
	if err := ctx.Err(); err != nil {
		return wrap("update", table, err)
	}
	patchDoc, err := toDoc(bson.M(patch))
	if err != nil {
		return wrap("update", table, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.tables[table][id]
	if !ok {
		return wrap("update", table, ErrNoRows)
	}
	merged := make(bson.M, len(row)+len(patchDoc))
	for k, v := range row {
		merged[k] = v
	}
	for k, v := range patchDoc {
		if k == "_id" {
			continue
		}
		merged[k] = v
	}
	if m.violatesUnique(table, merged, id) {
		return wrap("update", table, ErrDuplicate)
	}
	m.tables[table][id] = merged

	if out == nil {
		return nil
	}
	if err := decodeInto(merged, out); err != nil {
		return wrap("update", table, err)
	}
	return nil
}

func (m *Memory) Delete(ctx context.Context, table string, id string) error {
	if err := ctx.Err(); err != nil {
		return wrap("delete", table, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tables[table][id]; !ok {
		return wrap("delete", table, ErrNoRows)
	}
	delete(m.tables[table], id)
	return nil
}

func (m *Memory) Count(ctx context.Context, table string, f Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, wrap("count", table, err)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for _, row := range m.tables[table] {
		if matches(row, f) {
			n++
		}
	}
	return n, nil
}

// violatesUnique reports whether row would collide with another row of
// the table on any declared unique index. Caller holds the lock.
func (m *Memory) violatesUnique(table string, row bson.M, selfID string) bool {
	for _, fields := range m.indexes[table] {
		f := make(Filter, len(fields))
		for _, field := range fields {
			f[field] = row[field]
		}
		for otherID, other := range m.tables[table] {
			if otherID != selfID && matches(other, f) {
				return true
			}
		}
	}
	return false
}

// toDoc round-trips a document through bson so stored rows have a uniform
// representation regardless of the caller's Go types.
func toDoc(doc any) (bson.M, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var row bson.M
	if err := bson.Unmarshal(data, &row); err != nil {
		return nil, err
	}
	return row, nil
}

func decodeInto(src, out any) error {
	t, data, err := bson.MarshalValue(src)
	if err != nil {
		return err
	}
	return bson.UnmarshalValue(t, data, out)
}

func matches(row bson.M, f Filter) bool {
	for k, want := range f {
		if !equalValue(normalize(row[k]), normalize(want)) {
			return false
		}
	}
	return true
}

// normalize collapses bson and Go scalar representations so filter values
// written with domain types (models.Role, time.Time, int) compare equal
// to their stored bson forms.
func normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case primitive.DateTime:
		return t.Time().UTC()
	case time.Time:
		return t.UTC().Truncate(time.Millisecond)
	case primitive.ObjectID:
		return t.Hex()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Bool:
		return rv.Bool()
	}
	return v
}

func equalValue(a, b any) bool {
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	return a == b
}

func lessValue(a, b any) bool {
	switch x := a.(type) {
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Before(y)
	case int64:
		y, ok := b.(int64)
		return ok && x < y
	case float64:
		y, ok := b.(float64)
		return ok && x < y
	case string:
		y, ok := b.(string)
		return ok && x < y
	case bool:
		y, ok := b.(bool)
		return ok && !x && y
	}
	return false
}
