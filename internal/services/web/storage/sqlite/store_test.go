package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	webstorage "github.com/louisbranch/fleettrack/internal/services/web/storage"
	_ "modernc.org/sqlite"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "web.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return store, path
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestOpenRunsMigrations(t *testing.T) {
	_, path := openTestStore(t)

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer func() {
		_ = sqlDB.Close()
	}()

	assertTableExists(t, sqlDB, "web_sessions")
	assertTableExists(t, sqlDB, "cache_entries")
	assertTableExists(t, sqlDB, "schema_migrations")
}

func TestSessionPersistenceRoundTrip(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	expiresAt := time.Now().UTC().Add(time.Hour).Truncate(time.Millisecond)
	record := webstorage.SessionRecord{
		ID:               "sess-1",
		UserID:           "42",
		Username:         "dispatch",
		DisplayName:      "Dana Dispatch",
		Role:             "ADMIN",
		SealedToken:      "sealed-token",
		AntiForgeryToken: "xsrf-1",
		ExpiresAt:        expiresAt,
	}
	if err := store.SaveSession(ctx, record); err != nil {
		t.Fatalf("save session: %v", err)
	}

	got, found, err := store.LoadSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if !found {
		t.Fatal("expected session to be found")
	}
	if got.UserID != "42" || got.Username != "dispatch" || got.DisplayName != "Dana Dispatch" || got.Role != "ADMIN" {
		t.Fatalf("identity = %+v", got)
	}
	if got.SealedToken != "sealed-token" || got.AntiForgeryToken != "xsrf-1" {
		t.Fatalf("tokens = %q/%q", got.SealedToken, got.AntiForgeryToken)
	}
	if !got.ExpiresAt.Equal(expiresAt) {
		t.Fatalf("expires_at = %v, want %v", got.ExpiresAt, expiresAt)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be set")
	}

	if err := store.DeleteSession(ctx, "sess-1"); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if err := store.DeleteSession(ctx, "sess-1"); err != nil {
		t.Fatalf("repeat delete session: %v", err)
	}
	if _, found, err = store.LoadSession(ctx, "sess-1"); err != nil || found {
		t.Fatalf("load after delete = found %v, err %v", found, err)
	}
}

func TestSaveSessionRejectsIncompleteRecord(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	tests := []webstorage.SessionRecord{
		{SealedToken: "t", ExpiresAt: time.Now().Add(time.Hour)},
		{ID: "s", ExpiresAt: time.Now().Add(time.Hour)},
		{ID: "s", SealedToken: "t"},
	}
	for _, record := range tests {
		if err := store.SaveSession(ctx, record); err == nil {
			t.Fatalf("expected error for %+v", record)
		}
	}
}

func TestSessionPersistencePrunesExpiredSessionsOnSave(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	if err := store.SaveSession(ctx, webstorage.SessionRecord{
		ID: "expired", UserID: "1", Username: "a", Role: "DRIVER", SealedToken: "t1",
		ExpiresAt: time.Now().Add(-time.Hour),
	}); err != nil {
		t.Fatalf("save expired session: %v", err)
	}
	if err := store.SaveSession(ctx, webstorage.SessionRecord{
		ID: "fresh", UserID: "2", Username: "b", Role: "DRIVER", SealedToken: "t2",
		ExpiresAt: time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("save fresh session: %v", err)
	}

	if _, found, err := store.LoadSession(ctx, "expired"); err != nil || found {
		t.Fatalf("expired session found=%v err=%v, want pruned", found, err)
	}
	if _, found, err := store.LoadSession(ctx, "fresh"); err != nil || !found {
		t.Fatalf("fresh session found=%v err=%v, want found", found, err)
	}
}

func TestSessionPersistenceKeepsCreatedAtOnUpdate(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	created := time.Unix(1700000000, 0).UTC()
	record := webstorage.SessionRecord{
		ID: "sess-1", UserID: "1", Username: "a", Role: "ADMIN", SealedToken: "t1",
		CreatedAt: created, ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := store.SaveSession(ctx, record); err != nil {
		t.Fatalf("save session: %v", err)
	}
	record.CreatedAt = time.Time{}
	record.Role = "DRIVER"
	record.VerifiedAt = time.Now().UTC()
	if err := store.SaveSession(ctx, record); err != nil {
		t.Fatalf("update session: %v", err)
	}

	got, _, err := store.LoadSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at = %v, want %v", got.CreatedAt, created)
	}
	if got.Role != "DRIVER" {
		t.Fatalf("role = %q, want DRIVER", got.Role)
	}
	if got.VerifiedAt.IsZero() {
		t.Fatal("expected verified_at to be updated")
	}
}

func TestCacheEntryRoundTripAndExpiry(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	if err := store.PutCacheEntry(ctx, webstorage.CacheEntry{
		CacheKey:     "geocode:search:depot",
		Scope:        "geocode",
		PayloadBytes: []byte(`[{"lat":1,"lng":2}]`),
		ExpiresAt:    time.Now().Add(time.Hour),
	}); err != nil {
		t.Fatalf("put cache entry: %v", err)
	}
	entry, found, err := store.GetCacheEntry(ctx, "geocode:search:depot")
	if err != nil || !found {
		t.Fatalf("get cache entry found=%v err=%v", found, err)
	}
	if string(entry.PayloadBytes) != `[{"lat":1,"lng":2}]` {
		t.Fatalf("payload = %s", entry.PayloadBytes)
	}

	if err := store.PutCacheEntry(ctx, webstorage.CacheEntry{
		CacheKey:     "geocode:search:stale",
		Scope:        "geocode",
		PayloadBytes: []byte(`[]`),
		ExpiresAt:    time.Now().Add(-time.Minute),
	}); err != nil {
		t.Fatalf("put stale entry: %v", err)
	}
	if _, found, err := store.GetCacheEntry(ctx, "geocode:search:stale"); err != nil || found {
		t.Fatalf("stale entry found=%v err=%v, want missing", found, err)
	}

	if err := store.DeleteCacheEntry(ctx, "geocode:search:depot"); err != nil {
		t.Fatalf("delete cache entry: %v", err)
	}
	if _, found, err := store.GetCacheEntry(ctx, "geocode:search:depot"); err != nil || found {
		t.Fatalf("deleted entry found=%v err=%v", found, err)
	}
}

func TestPutCacheEntryValidates(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	tests := []webstorage.CacheEntry{
		{Scope: "geocode", PayloadBytes: []byte("x")},
		{CacheKey: "k", PayloadBytes: []byte("x")},
		{CacheKey: "k", Scope: "geocode"},
	}
	for _, entry := range tests {
		if err := store.PutCacheEntry(ctx, entry); err == nil {
			t.Fatalf("expected error for %+v", entry)
		}
	}
}

func assertTableExists(t *testing.T, db *sql.DB, name string) {
	t.Helper()
	var found string
	if err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&found); err != nil {
		t.Fatalf("table %s: %v", name, err)
	}
}
