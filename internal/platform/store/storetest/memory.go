// Package storetest provides an in-memory store.Repository for handler and
// router tests.
package storetest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/medrec/api/internal/platform/store"
)

// Memory keeps records as JSON objects keyed by id. Values round-trip
// through T, so fields T does not declare are dropped on write. Includes
// are accepted and ignored.
type Memory[T any] struct {
	mu      sync.Mutex
	records map[int64]map[string]any
	nextID  int64

	// Err, when set, is returned by every operation.
	Err error
}

func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{records: make(map[int64]map[string]any)}
}

// Seed stores data as-is and returns the assigned id.
func (m *Memory[T]) Seed(data map[string]any) int64 {
	item, err := m.Create(context.Background(), data)
	if err != nil {
		panic(err)
	}
	rec, _ := toRecord(item)
	id, _ := rec["id"].(float64)
	return int64(id)
}

func (m *Memory[T]) FindMany(_ context.Context, where store.Filter, skip, take int, _ ...string) ([]*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	matched := m.match(where)
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		skip = len(matched)
	}
	matched = matched[skip:]
	if take > 0 && take < len(matched) {
		matched = matched[:take]
	}

	items := make([]*T, 0, len(matched))
	for _, rec := range matched {
		item, err := fromRecord[T](rec)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (m *Memory[T]) FindUnique(ctx context.Context, where store.Filter, include ...string) (*T, error) {
	items, err := m.FindMany(ctx, where, 0, 1, include...)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, store.ErrNotFound
	}
	return items[0], nil
}

func (m *Memory[T]) Create(_ context.Context, data map[string]any) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	m.nextID++
	now := time.Now().UTC()
	rec := make(map[string]any, len(data)+3)
	for k, v := range data {
		rec[k] = v
	}
	rec["id"] = m.nextID
	rec["createdAt"] = now
	rec["updatedAt"] = now

	item, err := fromRecord[T](rec)
	if err != nil {
		m.nextID--
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidInput, err)
	}
	normalized, err := toRecord(item)
	if err != nil {
		return nil, err
	}
	m.records[m.nextID] = normalized
	return item, nil
}

func (m *Memory[T]) Update(_ context.Context, where store.Filter, data map[string]any) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}

	matched := m.match(where)
	if len(matched) == 0 {
		return nil, store.ErrNotFound
	}
	current := matched[0]

	next := make(map[string]any, len(current)+len(data))
	for k, v := range current {
		next[k] = v
	}
	for k, v := range data {
		if k == "id" || k == "createdAt" {
			continue
		}
		next[k] = v
	}
	next["updatedAt"] = time.Now().UTC()

	item, err := fromRecord[T](next)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidInput, err)
	}
	normalized, err := toRecord(item)
	if err != nil {
		return nil, err
	}
	id := int64(current["id"].(float64))
	m.records[id] = normalized
	return item, nil
}

func (m *Memory[T]) Delete(_ context.Context, where store.Filter) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}

	matched := m.match(where)
	if len(matched) == 0 {
		return store.ErrNotFound
	}
	for _, rec := range matched {
		delete(m.records, int64(rec["id"].(float64)))
	}
	return nil
}

func (m *Memory[T]) Count(_ context.Context, where store.Filter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.match(where)), nil
}

// match returns the records satisfying where, ordered by id. Caller holds mu.
func (m *Memory[T]) match(where store.Filter) []map[string]any {
	ids := make([]int64, 0, len(m.records))
	for id := range m.records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []map[string]any
	for _, id := range ids {
		rec := m.records[id]
		if matches(rec, where) {
			out = append(out, rec)
		}
	}
	return out
}

// matches compares values by their JSON encoding so that an int64 filter
// value equals the float64 a decoded record holds.
func matches(rec map[string]any, where store.Filter) bool {
	for field, want := range where {
		a, _ := json.Marshal(rec[field])
		b, _ := json.Marshal(want)
		if !bytes.Equal(a, b) {
			return false
		}
	}
	return true
}

func fromRecord[T any](rec map[string]any) (*T, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	item := new(T)
	if err := json.Unmarshal(raw, item); err != nil {
		return nil, err
	}
	return item, nil
}

func toRecord[T any](item *T) (map[string]any, error) {
	raw, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	rec := make(map[string]any)
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}
