package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Store is an in-process TTL cache. Concurrent loads of the same key are
// collapsed into one loader call. A load that overlaps an invalidation of its
// key still answers its callers but is not stored.
type Store struct {
	mu       sync.RWMutex
	entries  map[string]entry
	ttl      time.Duration
	flight   singleflight.Group
	now      func() time.Time
	gen      uint64
	inflight map[string]uint64
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries:  make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
		inflight: make(map[string]uint64),
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	now := s.now()
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && !e.expiresAt.After(now) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	return e.value, true
}

// DeletePrefix drops every entry under prefix and detaches loads already
// running for those keys, so their results are neither stored nor shared with
// later callers.
func (s *Store) DeletePrefix(_ context.Context, prefix string) {
	if prefix == "" {
		return
	}

	s.mu.Lock()
	s.gen++
	for key := range s.entries {
		if strings.HasPrefix(key, prefix) {
			delete(s.entries, key)
		}
	}
	var detached []string
	for key := range s.inflight {
		if strings.HasPrefix(key, prefix) {
			detached = append(detached, key)
			delete(s.inflight, key)
		}
	}
	s.mu.Unlock()

	for _, key := range detached {
		s.flight.Forget(key)
	}
}

// Len returns the number of stored entries, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	if value, ok := s.Get(ctx, key); ok {
		return value, nil
	}

	value, err, _ := s.flight.Do(key, func() (any, error) {
		if cached, ok := s.Get(ctx, key); ok {
			return cached, nil
		}

		gen := s.startLoad(key)
		defer s.finishLoad(key, gen)

		loaded, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		s.setIfCurrent(key, loaded, gen)
		return loaded, nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

func (s *Store) startLoad(key string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inflight[key] = s.gen
	return s.gen
}

func (s *Store) finishLoad(key string, gen uint64) {
	s.mu.Lock()
	if started, ok := s.inflight[key]; ok && started == gen {
		delete(s.inflight, key)
	}
	s.mu.Unlock()
}

// setIfCurrent stores value unless an invalidation ran since gen was taken.
// Keys are never empty here.
func (s *Store) setIfCurrent(key string, value any, gen uint64) {
	expiresAt := time.Time{}
	if s.ttl > 0 {
		expiresAt = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	if s.gen == gen {
		s.entries[key] = entry{value: value, expiresAt: expiresAt}
	}
	s.mu.Unlock()
}
