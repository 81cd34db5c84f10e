package storage

import (
	"context"
	"time"
)

// SessionRecord is the persisted form of one console session.
//
// SealedToken holds the backend bearer token encrypted at rest; stores never
// see the plaintext token.
type SessionRecord struct {
	ID               string
	UserID           string
	Username         string
	DisplayName      string
	Role             string
	SealedToken      string
	AntiForgeryToken string
	CreatedAt        time.Time
	VerifiedAt       time.Time
	ExpiresAt        time.Time
}

// SessionStore persists console sessions so a process restart can restore
// them. Implementations must treat DeleteSession of a missing id as success.
type SessionStore interface {
	SaveSession(ctx context.Context, record SessionRecord) error
	LoadSession(ctx context.Context, id string) (SessionRecord, bool, error)
	DeleteSession(ctx context.Context, id string) error
	Close() error
}

// CacheEntry stores one derived payload and its freshness metadata.
//
// Cache data is always derived and can be discarded and rebuilt from the
// upstream service.
type CacheEntry struct {
	CacheKey     string
	Scope        string
	PayloadBytes []byte
	RefreshedAt  time.Time
	ExpiresAt    time.Time
}

// CacheStore persists derived payloads such as geocoding results.
type CacheStore interface {
	GetCacheEntry(ctx context.Context, cacheKey string) (CacheEntry, bool, error)
	PutCacheEntry(ctx context.Context, entry CacheEntry) error
	DeleteCacheEntry(ctx context.Context, cacheKey string) error
}
