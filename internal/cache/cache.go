package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/voordathetnieuwswas/vhnw/internal/model"
)

// ErrNotInitialized is returned when the store is written before Init
var ErrNotInitialized = errors.New("cache not initialized")

// Backend persists cache entries by hashed key
type Backend interface {
	Load(ctx context.Context) (map[string]model.CacheEntry, error)
	Save(ctx context.Context, key string, entry model.CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Key hashes a raw cache key (an article URL or sentinel name)
func Key(raw string) string {
	sum := md5.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Store is a TTL cache of search outcomes in front of a persistence backend.
// Entries are valid while now - entry.Time <= ttl; expired entries are
// dropped lazily on Get and swept on Init.
type Store struct {
	mu           sync.RWMutex
	entries      map[string]model.CacheEntry
	initialized  bool
	backend      Backend
	ttl          time.Duration
	now          func() time.Time
	invalidators []func(changed []string) bool
}

// Option configures a Store
type Option func(*Store)

// WithClock replaces time.Now, mainly for tests
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store over the backend. A nil backend keeps entries in
// memory only.
func NewStore(backend Backend, ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]model.CacheEntry),
		backend: backend,
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init loads persisted entries and removes the expired ones. When loading
// fails the store starts empty and stays usable in memory.
func (s *Store) Init(ctx context.Context) error {
	loaded := make(map[string]model.CacheEntry)
	if s.backend != nil {
		entries, err := s.backend.Load(ctx)
		if err != nil {
			s.mu.Lock()
			s.entries = loaded
			s.initialized = true
			s.mu.Unlock()
			return fmt.Errorf("load cache: %w", err)
		}
		if entries != nil {
			loaded = entries
		}
	}

	s.mu.Lock()
	s.entries = loaded
	s.initialized = true
	keys := make([]string, 0, len(loaded))
	for key := range loaded {
		keys = append(keys, key)
	}
	s.mu.Unlock()

	var errs []error
	for _, key := range keys {
		s.mu.Lock()
		entry, ok := s.entries[key]
		expired := ok && !s.valid(entry)
		if expired {
			delete(s.entries, key)
		}
		s.mu.Unlock()

		if expired && s.backend != nil {
			if err := s.backend.Delete(ctx, key); err != nil {
				errs = append(errs, err)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("sweep cache: %w", errors.Join(errs...))
	}
	return nil
}

// Get returns the entry for the raw key if present and not expired
func (s *Store) Get(raw string) (*model.CacheEntry, bool) {
	key := Key(raw)

	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if !s.valid(entry) {
		s.mu.Lock()
		removed := false
		if current, ok := s.entries[key]; ok && current.Time == entry.Time {
			delete(s.entries, key)
			removed = true
		}
		s.mu.Unlock()
		if removed && s.backend != nil {
			go s.forget(key)
		}
		return nil, false
	}

	return &entry, true
}

// forget deletes an expired entry from the backend unless it was set again
// in the meantime. Failures are left to the next Init sweep.
func (s *Store) forget(key string) {
	s.mu.RLock()
	_, present := s.entries[key]
	s.mu.RUnlock()
	if present {
		return
	}
	_ = s.backend.Delete(context.Background(), key)
}

// Set stores the entry under the raw key. The in-memory entry is kept even
// when persisting fails.
func (s *Store) Set(ctx context.Context, raw string, entry model.CacheEntry) error {
	key := Key(raw)

	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return ErrNotInitialized
	}
	s.entries[key] = entry
	s.mu.Unlock()

	if s.backend == nil {
		return nil
	}
	if err := s.backend.Save(ctx, key, entry); err != nil {
		return fmt.Errorf("persist cache entry: %w", err)
	}
	return nil
}

// Remove deletes the entry for the raw key
func (s *Store) Remove(ctx context.Context, raw string) error {
	key := Key(raw)

	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return ErrNotInitialized
	}
	delete(s.entries, key)
	s.mu.Unlock()

	if s.backend == nil {
		return nil
	}
	if err := s.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

// Clear drops every entry
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.entries = make(map[string]model.CacheEntry)
	s.mu.Unlock()

	if s.backend == nil {
		return nil
	}
	if err := s.backend.Clear(ctx); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

// Create returns a fresh unresolved entry stamped with the current time
func (s *Store) Create() model.CacheEntry {
	return model.NewCacheEntry(s.now())
}

// OnInvalidate registers a predicate over changed setting names. When any
// predicate matches a change, Notify clears the store.
func (s *Store) OnInvalidate(pred func(changed []string) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidators = append(s.invalidators, pred)
}

// Notify reports changed setting names and clears the store if a registered
// predicate asks for it
func (s *Store) Notify(ctx context.Context, changed []string) (bool, error) {
	if len(changed) == 0 {
		return false, nil
	}

	s.mu.RLock()
	preds := append([]func([]string) bool(nil), s.invalidators...)
	s.mu.RUnlock()

	for _, pred := range preds {
		if pred(changed) {
			return true, s.Clear(ctx)
		}
	}
	return false, nil
}

// Len returns the number of entries held in memory, expired ones included
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats summarizes the store contents
type Stats struct {
	Entries  int
	Expired  int
	Counts   int // entries with a resolved count
	Results  int // entries with resolved results
	Oldest   time.Duration
	Duration time.Duration
}

// Stats returns a summary of the entries in memory
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Entries: len(s.entries), Duration: s.ttl}
	now := s.now()
	for _, entry := range s.entries {
		if !s.valid(entry) {
			stats.Expired++
			continue
		}
		if entry.CountResolved() {
			stats.Counts++
		}
		if entry.ResultsResolved() {
			stats.Results++
		}
		if age := entry.Age(now); age > stats.Oldest {
			stats.Oldest = age
		}
	}
	return stats
}

func (s *Store) valid(entry model.CacheEntry) bool {
	return entry.Age(s.now()) <= s.ttl
}
