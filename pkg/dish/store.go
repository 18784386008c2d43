// store.go — Dish store contract, in-memory store and name selection.
package dish

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Store persists dish records keyed by lowercased English name.
type Store interface {
	// List returns all dishes in insertion order.
	List(ctx context.Context) ([]Record, error)
	// Upsert inserts or replaces a dish. The record must already be normalized.
	Upsert(ctx context.Context, r Record) error
	// Delete removes a dish by English name. Unknown names are not an error.
	Delete(ctx context.Context, nameEN string) error
}

// MemoryStore is a Store kept in process memory. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	order []string
	byKey map[string]Record
}

// NewMemoryStore creates a store seeded with records.
func NewMemoryStore(records ...Record) *MemoryStore {
	s := &MemoryStore{byKey: make(map[string]Record)}
	for _, r := range records {
		s.put(r)
	}
	return s
}

func (s *MemoryStore) put(r Record) {
	k := r.Key()
	if _, ok := s.byKey[k]; !ok {
		s.order = append(s.order, k)
	}
	s.byKey[k] = r
}

func (s *MemoryStore) List(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Record, 0, len(s.order))
	for _, k := range s.order {
		out = append(out, s.byKey[k])
	}
	return out, nil
}

func (s *MemoryStore) Upsert(ctx context.Context, r Record) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(r)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, nameEN string) error {
	k := Key(nameEN)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byKey[k]; !ok {
		return nil
	}
	delete(s.byKey, k)
	for i, o := range s.order {
		if o == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// UnknownDishError lists selected names that are not in the database.
type UnknownDishError struct {
	Names []string
}

func (e *UnknownDishError) Error() string {
	return fmt.Sprintf("unknown dish(es): %s", strings.Join(e.Names, ", "))
}

// Select picks records by English name, case-insensitively, in the order the
// names are given. Duplicate names select the dish again. An empty name list
// selects everything, sorted by English name.
func Select(records []Record, names []string) ([]Record, error) {
	if len(names) == 0 {
		out := append([]Record(nil), records...)
		sort.SliceStable(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
		return out, nil
	}
	byKey := make(map[string]Record, len(records))
	for _, r := range records {
		byKey[r.Key()] = r
	}
	var (
		out     []Record
		missing []string
	)
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			continue
		}
		r, ok := byKey[Key(n)]
		if !ok {
			missing = append(missing, strings.TrimSpace(n))
			continue
		}
		out = append(out, r)
	}
	if len(missing) > 0 {
		return nil, &UnknownDishError{Names: missing}
	}
	return out, nil
}

// SplitNames splits a comma separated list of dish names.
func SplitNames(list string) []string {
	var names []string
	for _, n := range strings.Split(list, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
