// Package memory provides a process-local session and cache store used when
// no database path is configured, and in tests.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	webstorage "github.com/louisbranch/fleettrack/internal/services/web/storage"
)

// Store keeps records in maps guarded by a mutex. Sessions do not survive a
// restart.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]webstorage.SessionRecord
	cache    map[string]webstorage.CacheEntry
	now      func() time.Time
}

// New returns an empty store.
func New() *Store {
	return &Store{
		sessions: make(map[string]webstorage.SessionRecord),
		cache:    make(map[string]webstorage.CacheEntry),
		now:      time.Now,
	}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// SaveSession upserts a session record, keeping created_at from the first save.
func (s *Store) SaveSession(_ context.Context, record webstorage.SessionRecord) error {
	record.ID = strings.TrimSpace(record.ID)
	if record.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if record.SealedToken == "" {
		return fmt.Errorf("sealed token is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.sessions[record.ID]; ok {
		record.CreatedAt = existing.CreatedAt
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now().UTC()
	}
	s.sessions[record.ID] = record
	return nil
}

// LoadSession returns an unexpired session record by id.
func (s *Store) LoadSession(_ context.Context, id string) (webstorage.SessionRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.sessions[strings.TrimSpace(id)]
	if !ok || (!record.ExpiresAt.IsZero() && !record.ExpiresAt.After(s.now())) {
		return webstorage.SessionRecord{}, false, nil
	}
	return record, true, nil
}

// DeleteSession removes a session record.
func (s *Store) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, strings.TrimSpace(id))
	return nil
}

// GetCacheEntry returns an unexpired cache entry by key.
func (s *Store) GetCacheEntry(_ context.Context, cacheKey string) (webstorage.CacheEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.cache[strings.TrimSpace(cacheKey)]
	if !ok || (!entry.ExpiresAt.IsZero() && !entry.ExpiresAt.After(s.now())) {
		return webstorage.CacheEntry{}, false, nil
	}
	return entry, true, nil
}

// PutCacheEntry upserts a cache entry.
func (s *Store) PutCacheEntry(_ context.Context, entry webstorage.CacheEntry) error {
	entry.CacheKey = strings.TrimSpace(entry.CacheKey)
	if entry.CacheKey == "" {
		return fmt.Errorf("cache key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[entry.CacheKey] = entry
	return nil
}

// DeleteCacheEntry removes a cache entry.
func (s *Store) DeleteCacheEntry(_ context.Context, cacheKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, strings.TrimSpace(cacheKey))
	return nil
}

var (
	_ webstorage.SessionStore = (*Store)(nil)
	_ webstorage.CacheStore   = (*Store)(nil)
)
