package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	webstorage "github.com/louisbranch/fleettrack/internal/services/web/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	rawURL := os.Getenv("FLEETTRACK_TEST_REDIS_URL")
	if rawURL == "" {
		t.Skip("FLEETTRACK_TEST_REDIS_URL not set")
	}
	store, err := Open(context.Background(), rawURL)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestOpenRequiresURL(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected error")
	}
	if _, err := Open(context.Background(), "not a url"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSessionRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	id := "test-" + uuid.NewString()

	record := webstorage.SessionRecord{
		ID:          id,
		UserID:      "7",
		Username:    "driver7",
		DisplayName: "Riley",
		Role:        "DRIVER",
		SealedToken: "sealed",
		ExpiresAt:   time.Now().Add(time.Minute),
	}
	if err := store.SaveSession(ctx, record); err != nil {
		t.Fatalf("save session: %v", err)
	}
	got, found, err := store.LoadSession(ctx, id)
	if err != nil || !found {
		t.Fatalf("load session found=%v err=%v", found, err)
	}
	if got.Username != "driver7" || got.SealedToken != "sealed" || got.Role != "DRIVER" {
		t.Fatalf("record = %+v", got)
	}
	if err := store.DeleteSession(ctx, id); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	if _, found, err := store.LoadSession(ctx, id); err != nil || found {
		t.Fatalf("load after delete found=%v err=%v", found, err)
	}
}

func TestSaveSessionRejectsPastExpiry(t *testing.T) {
	store := openTestStore(t)

	err := store.SaveSession(context.Background(), webstorage.SessionRecord{
		ID:          "test-" + uuid.NewString(),
		SealedToken: "sealed",
		ExpiresAt:   time.Now().Add(-time.Minute),
	})
	if err == nil {
		t.Fatal("expected expiry error")
	}
}

func TestCacheRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	key := "test-" + uuid.NewString()

	if err := store.PutCacheEntry(ctx, webstorage.CacheEntry{
		CacheKey:     key,
		Scope:        "geocode",
		PayloadBytes: []byte(`[]`),
		ExpiresAt:    time.Now().Add(time.Minute),
	}); err != nil {
		t.Fatalf("put cache entry: %v", err)
	}
	entry, found, err := store.GetCacheEntry(ctx, key)
	if err != nil || !found || string(entry.PayloadBytes) != `[]` {
		t.Fatalf("get cache entry = %+v found=%v err=%v", entry, found, err)
	}
	if err := store.DeleteCacheEntry(ctx, key); err != nil {
		t.Fatalf("delete cache entry: %v", err)
	}
}
