package auth

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestTokenCachePutGet(t *testing.T) {
	cache := NewTokenCacheAt(filepath.Join(t.TempDir(), "cache.json"))

	if err := cache.Put("dev", "admin@example.com", "tok-1", 300); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	token, ok := cache.Get("dev", "admin@example.com")
	if !ok || token != "tok-1" {
		t.Fatalf("expected cached token, got %q ok=%v", token, ok)
	}

	if _, ok := cache.Get("dev", "other@example.com"); ok {
		t.Fatal("unexpected cache hit for unknown user")
	}
}

func TestTokenCacheExpiryMargin(t *testing.T) {
	cache := NewTokenCacheAt(filepath.Join(t.TempDir(), "cache.json"))

	// Lifetime inside the 30s safety margin: must not be handed out.
	if err := cache.Put("dev", "admin@example.com", "tok-short", 10); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if _, ok := cache.Get("dev", "admin@example.com"); ok {
		t.Fatal("token inside the expiry margin must not be returned")
	}
}

func TestTokenCacheSkipsZeroLifetime(t *testing.T) {
	cache := NewTokenCacheAt(filepath.Join(t.TempDir(), "cache.json"))

	if err := cache.Put("dev", "admin@example.com", "tok", 0); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if _, ok := cache.Get("dev", "admin@example.com"); ok {
		t.Fatal("tokens without a lifetime must not be cached")
	}
}

func TestTokenCachePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")

	first := NewTokenCacheAt(path)
	if err := first.Put("dev", "admin@example.com", "tok-persisted", 300); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	second := NewTokenCacheAt(path)
	token, ok := second.Get("dev", "admin@example.com")
	if !ok || token != "tok-persisted" {
		t.Fatalf("expected persisted token, got %q ok=%v", token, ok)
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat failed: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Fatalf("cache file must be 0600, got %v", info.Mode().Perm())
		}
	}
}

func TestTokenCacheCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cache := NewTokenCacheAt(path)
	if _, ok := cache.Get("dev", "admin@example.com"); ok {
		t.Fatal("corrupt cache file should behave as empty")
	}
	if err := cache.Put("dev", "admin@example.com", "tok", 300); err != nil {
		t.Fatalf("put after corrupt load failed: %v", err)
	}
}
