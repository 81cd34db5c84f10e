// Package redis provides a Redis-backed console session and cache store for
// deployments that run more than one console process.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	webstorage "github.com/louisbranch/fleettrack/internal/services/web/storage"
)

const (
	sessionKeyPrefix = "fleettrack:session:"
	cacheKeyPrefix   = "fleettrack:cache:"
)

// Store persists session records as JSON values whose Redis TTL matches the
// session expiry.
type Store struct {
	client *goredis.Client
	now    func() time.Time
}

// Open connects to the Redis server named by rawURL and pings it.
func Open(ctx context.Context, rawURL string) (*Store, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, fmt.Errorf("redis url is required")
	}
	opt, err := goredis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Store{client: client, now: time.Now}, nil
}

// Close releases the Redis connection pool.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

type sessionValue struct {
	UserID           string    `json:"userId"`
	Username         string    `json:"username"`
	DisplayName      string    `json:"displayName"`
	Role             string    `json:"role"`
	SealedToken      string    `json:"sealedToken"`
	AntiForgeryToken string    `json:"antiForgeryToken,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	VerifiedAt       time.Time `json:"verifiedAt"`
	ExpiresAt        time.Time `json:"expiresAt"`
}

// SaveSession writes the record with a TTL ending at its expiry. created_at
// is kept from an existing record.
func (s *Store) SaveSession(ctx context.Context, record webstorage.SessionRecord) error {
	record.ID = strings.TrimSpace(record.ID)
	if record.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if record.SealedToken == "" {
		return fmt.Errorf("sealed token is required")
	}
	ttl := record.ExpiresAt.Sub(s.now())
	if record.ExpiresAt.IsZero() || ttl <= 0 {
		return fmt.Errorf("session expiry must be in the future")
	}
	if existing, found, err := s.LoadSession(ctx, record.ID); err == nil && found {
		record.CreatedAt = existing.CreatedAt
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now().UTC()
	}

	payload, err := json.Marshal(sessionValue{
		UserID:           record.UserID,
		Username:         record.Username,
		DisplayName:      record.DisplayName,
		Role:             record.Role,
		SealedToken:      record.SealedToken,
		AntiForgeryToken: record.AntiForgeryToken,
		CreatedAt:        record.CreatedAt.UTC(),
		VerifiedAt:       record.VerifiedAt.UTC(),
		ExpiresAt:        record.ExpiresAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.client.Set(ctx, sessionKeyPrefix+record.ID, payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession reads a session record by id.
func (s *Store) LoadSession(ctx context.Context, id string) (webstorage.SessionRecord, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return webstorage.SessionRecord{}, false, nil
	}
	raw, err := s.client.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, goredis.Nil) {
		return webstorage.SessionRecord{}, false, nil
	}
	if err != nil {
		return webstorage.SessionRecord{}, false, fmt.Errorf("load session: %w", err)
	}
	var value sessionValue
	if err := json.Unmarshal(raw, &value); err != nil {
		return webstorage.SessionRecord{}, false, fmt.Errorf("decode session: %w", err)
	}
	return webstorage.SessionRecord{
		ID:               id,
		UserID:           value.UserID,
		Username:         value.Username,
		DisplayName:      value.DisplayName,
		Role:             value.Role,
		SealedToken:      value.SealedToken,
		AntiForgeryToken: value.AntiForgeryToken,
		CreatedAt:        value.CreatedAt,
		VerifiedAt:       value.VerifiedAt,
		ExpiresAt:        value.ExpiresAt,
	}, true, nil
}

// DeleteSession removes a session record.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKeyPrefix+strings.TrimSpace(id)).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

type cacheValue struct {
	Scope       string    `json:"scope"`
	Payload     []byte    `json:"payload"`
	RefreshedAt time.Time `json:"refreshedAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// GetCacheEntry loads a cache payload by key.
func (s *Store) GetCacheEntry(ctx context.Context, cacheKey string) (webstorage.CacheEntry, bool, error) {
	cacheKey = strings.TrimSpace(cacheKey)
	if cacheKey == "" {
		return webstorage.CacheEntry{}, false, fmt.Errorf("cache key is required")
	}
	raw, err := s.client.Get(ctx, cacheKeyPrefix+cacheKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return webstorage.CacheEntry{}, false, nil
	}
	if err != nil {
		return webstorage.CacheEntry{}, false, fmt.Errorf("get cache entry: %w", err)
	}
	var value cacheValue
	if err := json.Unmarshal(raw, &value); err != nil {
		return webstorage.CacheEntry{}, false, fmt.Errorf("decode cache entry: %w", err)
	}
	return webstorage.CacheEntry{
		CacheKey:     cacheKey,
		Scope:        value.Scope,
		PayloadBytes: value.Payload,
		RefreshedAt:  value.RefreshedAt,
		ExpiresAt:    value.ExpiresAt,
	}, true, nil
}

// PutCacheEntry stores a cache payload; entries with an expiry get a TTL.
func (s *Store) PutCacheEntry(ctx context.Context, entry webstorage.CacheEntry) error {
	entry.CacheKey = strings.TrimSpace(entry.CacheKey)
	if entry.CacheKey == "" {
		return fmt.Errorf("cache key is required")
	}
	if strings.TrimSpace(entry.Scope) == "" {
		return fmt.Errorf("cache scope is required")
	}
	if len(entry.PayloadBytes) == 0 {
		return fmt.Errorf("cache payload is required")
	}
	if entry.RefreshedAt.IsZero() {
		entry.RefreshedAt = s.now().UTC()
	}
	var ttl time.Duration
	if !entry.ExpiresAt.IsZero() {
		ttl = entry.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return nil
		}
	}
	payload, err := json.Marshal(cacheValue{
		Scope:       entry.Scope,
		Payload:     entry.PayloadBytes,
		RefreshedAt: entry.RefreshedAt,
		ExpiresAt:   entry.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := s.client.Set(ctx, cacheKeyPrefix+entry.CacheKey, payload, ttl).Err(); err != nil {
		return fmt.Errorf("put cache entry: %w", err)
	}
	return nil
}

// DeleteCacheEntry removes a cache payload by key.
func (s *Store) DeleteCacheEntry(ctx context.Context, cacheKey string) error {
	if err := s.client.Del(ctx, cacheKeyPrefix+strings.TrimSpace(cacheKey)).Err(); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

var (
	_ webstorage.SessionStore = (*Store)(nil)
	_ webstorage.CacheStore   = (*Store)(nil)
)
