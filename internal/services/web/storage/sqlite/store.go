package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/fleettrack/internal/platform/storage/sqlitemigrate"
	webstorage "github.com/louisbranch/fleettrack/internal/services/web/storage"
	"github.com/louisbranch/fleettrack/internal/services/web/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed persistence for console sessions and cache.
type Store struct {
	sqlDB *sql.DB
	now   func() time.Time
}

// Open opens and migrates a console SQLite store, creating its directory.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB, now: time.Now}
	if err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the underlying SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// SaveSession upserts a session record and prunes expired sessions.
// created_at is kept from the first save.
func (s *Store) SaveSession(ctx context.Context, record webstorage.SessionRecord) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	record.ID = strings.TrimSpace(record.ID)
	if record.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if record.SealedToken == "" {
		return fmt.Errorf("sealed token is required")
	}
	if record.ExpiresAt.IsZero() {
		return fmt.Errorf("session expiry is required")
	}
	now := s.now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}

	if _, err := s.sqlDB.ExecContext(ctx,
		`DELETE FROM web_sessions WHERE expires_at <= ?`,
		timeToUnixMillis(now),
	); err != nil {
		return fmt.Errorf("prune sessions: %w", err)
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO web_sessions (
		    session_id, user_id, username, display_name, role, sealed_token, anti_forgery_token, created_at, verified_at, expires_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET
		    user_id = excluded.user_id,
		    username = excluded.username,
		    display_name = excluded.display_name,
		    role = excluded.role,
		    sealed_token = excluded.sealed_token,
		    anti_forgery_token = excluded.anti_forgery_token,
		    verified_at = excluded.verified_at,
		    expires_at = excluded.expires_at`,
		record.ID,
		strings.TrimSpace(record.UserID),
		strings.TrimSpace(record.Username),
		strings.TrimSpace(record.DisplayName),
		strings.TrimSpace(record.Role),
		record.SealedToken,
		record.AntiForgeryToken,
		timeToUnixMillis(record.CreatedAt),
		timeToUnixMillis(record.VerifiedAt),
		timeToUnixMillis(record.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// LoadSession loads an unexpired session record by id.
func (s *Store) LoadSession(ctx context.Context, id string) (webstorage.SessionRecord, bool, error) {
	if s == nil || s.sqlDB == nil {
		return webstorage.SessionRecord{}, false, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return webstorage.SessionRecord{}, false, nil
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT session_id, user_id, username, display_name, role, sealed_token, anti_forgery_token, created_at, verified_at, expires_at
		 FROM web_sessions
		 WHERE session_id = ? AND expires_at > ?`,
		id, timeToUnixMillis(s.now()),
	)
	var record webstorage.SessionRecord
	var createdAt, verifiedAt, expiresAt int64
	if err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.Username,
		&record.DisplayName,
		&record.Role,
		&record.SealedToken,
		&record.AntiForgeryToken,
		&createdAt,
		&verifiedAt,
		&expiresAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webstorage.SessionRecord{}, false, nil
		}
		return webstorage.SessionRecord{}, false, fmt.Errorf("load session: %w", err)
	}
	record.CreatedAt = unixMillisToTime(createdAt)
	record.VerifiedAt = unixMillisToTime(verifiedAt)
	record.ExpiresAt = unixMillisToTime(expiresAt)
	return record, true, nil
}

// DeleteSession removes a session record. Missing ids are not an error.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM web_sessions WHERE session_id = ?`, strings.TrimSpace(id)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// GetCacheEntry loads a cache payload by key. Expired entries are reported
// as missing.
func (s *Store) GetCacheEntry(ctx context.Context, cacheKey string) (webstorage.CacheEntry, bool, error) {
	if s == nil || s.sqlDB == nil {
		return webstorage.CacheEntry{}, false, fmt.Errorf("storage is not configured")
	}
	cacheKey = strings.TrimSpace(cacheKey)
	if cacheKey == "" {
		return webstorage.CacheEntry{}, false, fmt.Errorf("cache key is required")
	}

	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT cache_key, scope, payload_json, refreshed_at, expires_at
		 FROM cache_entries
		 WHERE cache_key = ?`,
		cacheKey,
	)
	var entry webstorage.CacheEntry
	var refreshedAt, expiresAt int64
	if err := row.Scan(&entry.CacheKey, &entry.Scope, &entry.PayloadBytes, &refreshedAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webstorage.CacheEntry{}, false, nil
		}
		return webstorage.CacheEntry{}, false, fmt.Errorf("get cache entry: %w", err)
	}
	entry.RefreshedAt = unixMillisToTime(refreshedAt)
	entry.ExpiresAt = unixMillisToTime(expiresAt)
	if !entry.ExpiresAt.IsZero() && !entry.ExpiresAt.After(s.now()) {
		return webstorage.CacheEntry{}, false, nil
	}
	return entry, true, nil
}

// PutCacheEntry upserts a cache payload by key.
func (s *Store) PutCacheEntry(ctx context.Context, entry webstorage.CacheEntry) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	entry.CacheKey = strings.TrimSpace(entry.CacheKey)
	if entry.CacheKey == "" {
		return fmt.Errorf("cache key is required")
	}
	entry.Scope = strings.TrimSpace(entry.Scope)
	if entry.Scope == "" {
		return fmt.Errorf("cache scope is required")
	}
	if len(entry.PayloadBytes) == 0 {
		return fmt.Errorf("cache payload is required")
	}
	if entry.RefreshedAt.IsZero() {
		entry.RefreshedAt = s.now().UTC()
	}

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO cache_entries (cache_key, scope, payload_json, refreshed_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
		    scope = excluded.scope,
		    payload_json = excluded.payload_json,
		    refreshed_at = excluded.refreshed_at,
		    expires_at = excluded.expires_at`,
		entry.CacheKey,
		entry.Scope,
		entry.PayloadBytes,
		timeToUnixMillis(entry.RefreshedAt),
		timeToUnixMillis(entry.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("put cache entry: %w", err)
	}
	return nil
}

// DeleteCacheEntry removes a cache payload by key.
func (s *Store) DeleteCacheEntry(ctx context.Context, cacheKey string) error {
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM cache_entries WHERE cache_key = ?`, strings.TrimSpace(cacheKey)); err != nil {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

func timeToUnixMillis(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	return value.UTC().UnixMilli()
}

func unixMillisToTime(value int64) time.Time {
	if value <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(value).UTC()
}

var (
	_ webstorage.SessionStore = (*Store)(nil)
	_ webstorage.CacheStore   = (*Store)(nil)
)
