package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/medrec/api/internal/platform/store"
)

type note struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author int64  `json:"author"`
}

func TestMemory_CRUD(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[note]()

	created, err := m.Create(ctx, map[string]any{"title": "a", "author": float64(1), "ignored": true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 1 || created.Title != "a" {
		t.Fatalf("unexpected created note %+v", created)
	}

	got, err := m.FindUnique(ctx, store.ByID(1))
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if *got != *created {
		t.Errorf("expected %+v, got %+v", created, got)
	}

	updated, err := m.Update(ctx, store.ByID(1), map[string]any{"title": "b", "id": float64(50)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ID != 1 || updated.Title != "b" {
		t.Errorf("unexpected update result %+v", updated)
	}

	if err := m.Delete(ctx, store.ByID(1)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.FindUnique(ctx, store.ByID(1)); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := m.Delete(ctx, store.ByID(1)); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestMemory_FilterAndPage(t *testing.T) {
	ctx := context.Background()
	m := NewMemory[note]()
	for i := 0; i < 5; i++ {
		m.Seed(map[string]any{"title": "x", "author": float64(i % 2)})
	}

	n, err := m.Count(ctx, store.Filter{"author": int64(0)})
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("expected 3 notes by author 0, got %d", n)
	}

	page, err := m.FindMany(ctx, nil, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || page[0].ID != 3 || page[1].ID != 4 {
		t.Errorf("unexpected page %+v", page)
	}

	past, err := m.FindMany(ctx, nil, 10, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(past) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(past))
	}
}

func TestMemory_Err(t *testing.T) {
	m := NewMemory[note]()
	m.Err = errors.New("connection refused")
	if _, err := m.Count(context.Background(), nil); err == nil {
		t.Fatal("expected injected error")
	}
}
