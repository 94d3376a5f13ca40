// Package cache implements a time-bounded cache keyed by (category, key),
// persisted write-through as one JSON snapshot in the key-value storage.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/kmcdade/finboard/internal/common"
	"github.com/kmcdade/finboard/internal/interfaces"
)

// storageKey is the fixed KV key holding the whole cache snapshot.
const storageKey = "cache"

// Entry wraps a cached value with its write timestamp and optional TTL.
// An entry is valid iff TTL is zero or now - Timestamp < TTL; an invalid
// entry is logically absent and is removed the next time it is touched.
type Entry struct {
	Value     json.RawMessage `json:"value"`
	Timestamp int64           `json:"timestamp"`     // epoch ms
	TTL       int64           `json:"ttl,omitempty"` // ms; 0 = never expires
}

// expired reports whether the entry's own TTL has elapsed at time now.
func (e Entry) expired(now time.Time) bool {
	return e.TTL > 0 && now.UnixMilli()-e.Timestamp >= e.TTL
}

// Store is the category/key cache. Thread-safe with sync.RWMutex. The
// persisted snapshot is loaded lazily on first access; malformed or missing
// snapshots degrade to an empty cache.
type Store struct {
	mu         sync.Mutex
	categories map[string]map[string]Entry
	loaded     bool
	kv         interfaces.KeyValueStorage
	logger     *common.Logger
	now        func() time.Time
}

// New creates a cache backed by the given key-value storage.
func New(kv interfaces.KeyValueStorage, logger *common.Logger) *Store {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Store{
		kv:     kv,
		logger: logger,
		now:    time.Now,
	}
}

// load reads the persisted snapshot. Must be called with mu held.
func (s *Store) load() {
	if s.loaded {
		return
	}
	s.loaded = true
	s.categories = make(map[string]map[string]Entry)

	raw, err := s.kv.Get(context.Background(), storageKey)
	if err != nil {
		if !errors.Is(err, interfaces.ErrNotFound) {
			s.logger.Warn().Str("error", err.Error()).Msg("failed to read cache snapshot, starting empty")
		}
		return
	}

	var categories map[string]map[string]Entry
	if err := json.Unmarshal([]byte(raw), &categories); err != nil {
		s.logger.Warn().Str("error", err.Error()).Msg("malformed cache snapshot, starting empty")
		return
	}
	if categories != nil {
		s.categories = categories
	}
}

// persist writes the whole snapshot back. Must be called with mu held.
// Write failures are logged and reported as false; callers do not retry.
func (s *Store) persist() bool {
	data, err := json.Marshal(s.categories)
	if err != nil {
		s.logger.Error().Str("error", err.Error()).Msg("failed to marshal cache snapshot")
		return false
	}
	if err := s.kv.Set(context.Background(), storageKey, string(data)); err != nil {
		s.logger.Error().Str("error", err.Error()).Msg("failed to persist cache snapshot")
		return false
	}
	return true
}

// Set stores value under (category, key) with the current timestamp,
// overwriting any existing entry. ttl 0 means the entry never expires.
// Returns whether the persistence write succeeded.
func (s *Store) Set(category, key string, value any, ttl time.Duration) bool {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error().
			Str("category", category).
			Str("key", key).
			Str("error", err.Error()).
			Msg("failed to marshal cache value")
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	if s.categories[category] == nil {
		s.categories[category] = make(map[string]Entry)
	}
	s.categories[category][key] = Entry{
		Value:     data,
		Timestamp: s.now().UnixMilli(),
		TTL:       ttl.Milliseconds(),
	}
	return s.persist()
}

// Get returns the raw value stored under (category, key), or nil and false
// when absent. An entry whose stored TTL has elapsed is deleted as a side
// effect and reported absent.
func (s *Store) Get(category, key string) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	entry, ok := s.categories[category][key]
	if !ok {
		return nil, false
	}
	if entry.expired(s.now()) {
		delete(s.categories[category], key)
		s.persist()
		return nil, false
	}
	return entry.Value, true
}

// GetInto unmarshals the value stored under (category, key) into v.
// Returns false when absent, expired, or not unmarshalable into v.
func (s *Store) GetInto(category, key string, v any) bool {
	raw, ok := s.Get(category, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		s.logger.Warn().
			Str("category", category).
			Str("key", key).
			Str("error", err.Error()).
			Msg("cached value does not match expected shape")
		return false
	}
	return true
}

// IsValid reports whether an entry exists under (category, key) and is
// younger than maxAge. The check is independent of the entry's stored TTL,
// so different callers can apply different freshness policies; a category
// should stick to one scheme.
func (s *Store) IsValid(category, key string, maxAge time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	entry, ok := s.categories[category][key]
	if !ok {
		return false
	}
	return s.now().UnixMilli()-entry.Timestamp < maxAge.Milliseconds()
}

// Delete removes the entry under (category, key).
func (s *Store) Delete(category, key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	if _, ok := s.categories[category][key]; !ok {
		return true
	}
	delete(s.categories[category], key)
	return s.persist()
}

// ClearExpired sweeps all categories, removes entries whose stored TTL has
// elapsed, and returns the number removed. Entries without a TTL are never
// swept, regardless of age.
func (s *Store) ClearExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	now := s.now()
	removed := 0
	for category, entries := range s.categories {
		for key, entry := range entries {
			if entry.expired(now) {
				delete(entries, key)
				removed++
			}
		}
		if len(entries) == 0 {
			delete(s.categories, category)
		}
	}
	if removed > 0 {
		s.persist()
	}
	return removed
}

// ClearCategory removes every entry in the given category.
func (s *Store) ClearCategory(category string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	if _, ok := s.categories[category]; !ok {
		return true
	}
	delete(s.categories, category)
	return s.persist()
}

// Clear removes every entry in every category.
func (s *Store) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	s.categories = make(map[string]map[string]Entry)
	return s.persist()
}

// Stats returns the live (non-expired) entry count per category.
func (s *Store) Stats() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.load()

	now := s.now()
	stats := make(map[string]int)
	for category, entries := range s.categories {
		count := 0
		for _, entry := range entries {
			if !entry.expired(now) {
				count++
			}
		}
		if count > 0 {
			stats[category] = count
		}
	}
	return stats
}
