package journal

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/dvenki/dvenki/internal/calendar"
)

// Store persists entries. Range and All return entries ordered by date,
// then creation time.
type Store interface {
	Add(ctx context.Context, e Entry) error
	Get(ctx context.Context, id string) (Entry, error)
	Delete(ctx context.Context, id string) error
	Range(ctx context.Context, from, to calendar.Date) ([]Entry, error)
	All(ctx context.Context) ([]Entry, error)
}

// MemoryStore is an in-process Store. Adding an existing id replaces it.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(seed ...Entry) *MemoryStore {
	s := &MemoryStore{entries: make(map[string]Entry, len(seed))}
	for _, e := range seed {
		s.entries[e.ID] = e
	}
	return s
}

func (s *MemoryStore) Add(ctx context.Context, e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.ID] = e
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *MemoryStore) Range(ctx context.Context, from, to calendar.Date) ([]Entry, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return calendar.EntriesForPeriod(from, to, all), nil
}

func (s *MemoryStore) All(ctx context.Context) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	s.mu.RUnlock()

	SortEntries(out)
	return out, nil
}

// SortEntries orders entries by date, then creation time, then id.
func SortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
