package cache

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "key")
	if err != nil || hit {
		t.Fatalf("Get before Set = hit=%v err=%v, want miss", hit, err)
	}

	// Round trip
	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit {
		t.Fatalf("Get after Set = hit=%v err=%v, want hit", hit, err)
	}
	if string(data) != "value" {
		t.Errorf("Get = %q, want %q", data, "value")
	}

	// Expired entries are misses
	if err := c.Set(ctx, "expired", []byte("old"), -time.Second); err != nil {
		t.Fatalf("Set expired: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "expired"); hit {
		t.Error("expired entry should be a miss")
	}

	// Delete is idempotent
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete missing key: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("deleted entry should be a miss")
	}

	// Clear empties the cache but keeps the directory usable
	if err := c.Set(ctx, "other", []byte("x"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "other"); hit {
		t.Error("Clear should drop all entries")
	}
	if err := c.Set(ctx, "other", []byte("y"), 0); err != nil {
		t.Errorf("Set after Clear: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestIndexKey(t *testing.T) {
	k1 := IndexKey([]string{"/var/lib/pacman/sync/core.db"})
	if !strings.HasPrefix(k1, "revdeps:") {
		t.Errorf("IndexKey should carry the revdeps prefix: %s", k1)
	}

	// Deterministic for the same inputs
	if k2 := IndexKey([]string{"/var/lib/pacman/sync/core.db"}); k1 != k2 {
		t.Error("IndexKey should be deterministic")
	}

	// Different paths produce different keys even when none exist on disk
	if k3 := IndexKey([]string{"/var/lib/pacman/sync/extra.db"}); k1 == k3 {
		t.Error("Different paths should produce different keys")
	}
}
