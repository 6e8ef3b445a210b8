package store

import (
	"context"
	"encoding/json"
	"sync"

	"inventory-console/internal/apiclient"
	"inventory-console/internal/models"
	"inventory-console/internal/util"

	"go.uber.org/zap"
)

// ListStore holds the in-memory ordered collection backing one screen. It is
// a cache with no authority of its own: Load replaces it wholesale from the
// backend, and mutations touch it only after a confirmed server response.
// Element order is the server response order; nothing here re-sorts.
//
// Concurrent operations are not serialized beyond the mutex: if two network
// calls race, the last response to land wins.
type ListStore[T models.Entity] struct {
	mu     sync.Mutex
	name   string
	path   string
	client *apiclient.Client
	items  []T
	closed bool
	logger *zap.Logger
}

// NewListStore creates an empty open store for the collection at path.
func NewListStore[T models.Entity](client *apiclient.Client, name, path string) *ListStore[T] {
	return &ListStore[T]{
		name:   name,
		path:   path,
		client: client,
		items:  []T{},
		logger: util.GetLogger(),
	}
}

// Load fetches the full collection and replaces local state. A payload that
// is not list-shaped degrades to an empty collection rather than an error so
// the screen stays renderable. A response landing after Close is discarded.
func (s *ListStore[T]) Load(ctx context.Context) error {
	raw, err := s.client.GetRaw(ctx, s.path)
	if err != nil {
		util.ListLoadsTotal.WithLabelValues(s.name, "error").Inc()
		return err
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err != nil || items == nil {
		s.logger.Warn("Collection payload was not list-shaped, using empty list",
			zap.String("entity", s.name))
		items = []T{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		util.ListLoadsTotal.WithLabelValues(s.name, "discarded").Inc()
		return nil
	}
	s.items = items
	util.ListLoadsTotal.WithLabelValues(s.name, "success").Inc()
	return nil
}

// Close marks the store unmounted: late load results are dropped and the
// collection is emptied. The cache never outlives its screen.
func (s *ListStore[T]) Close() {
	s.mu.Lock()
	s.closed = true
	s.items = []T{}
	s.mu.Unlock()
}

// Items returns a copy of the current collection in display order.
func (s *ListStore[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the current collection size.
func (s *ListStore[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Find returns the element with the given id.
func (s *ListStore[T]) Find(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range s.items {
		if item.EntityID() == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Append adds a confirmed entity at the end of the collection.
func (s *ListStore[T]) Append(item T) {
	s.mu.Lock()
	s.items = append(s.items, item)
	s.mu.Unlock()
}

// Prepend adds a confirmed entity at the front of the collection.
func (s *ListStore[T]) Prepend(item T) {
	s.mu.Lock()
	s.items = append([]T{item}, s.items...)
	s.mu.Unlock()
}

// Replace swaps the element matching id for item, preserving its position.
// Elements that do not match are left untouched.
func (s *ListStore[T]) Replace(id string, item T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].EntityID() == id {
			s.items[i] = item
			return true
		}
	}
	return false
}

// Remove deletes the element matching id and returns it.
func (s *ListStore[T]) Remove(id string) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].EntityID() == id {
			removed := s.items[i]
			s.items = append(s.items[:i], s.items[i+1:]...)
			return removed, true
		}
	}
	var zero T
	return zero, false
}

// Adjust applies fn to the element matching id in place. Used for derived
// updates propagated from sibling collections; a missing id is a silent
// no-op.
func (s *ListStore[T]) Adjust(id string, fn func(*T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].EntityID() == id {
			fn(&s.items[i])
			return true
		}
	}
	return false
}
