package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// expiryMargin is subtracted from a cached token's lifetime so a token about
// to expire mid-request is never handed out.
const expiryMargin = 30 * time.Second

// TokenCache persists fetched access tokens between invocations so repeated
// scripted calls do not hammer the token endpoint. Entries are keyed by
// "<env>/<user>" and written to a 0600 JSON file.
type TokenCache struct {
	path string

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	AccessToken string    `json:"access_token"`
	Expiry      time.Time `json:"expiry"`
}

// NewTokenCache opens the default cache at ~/.sso/token_cache.json.
// A missing or unreadable cache file starts empty.
func NewTokenCache() (*TokenCache, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewTokenCacheAt(filepath.Join(home, ".sso", "token_cache.json")), nil
}

// NewTokenCacheAt opens a cache at an explicit path.
func NewTokenCacheAt(path string) *TokenCache {
	c := &TokenCache{path: path, entries: map[string]cacheEntry{}}
	_ = c.load()
	return c
}

func (c *TokenCache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return err
	}
	entries := map[string]cacheEntry{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	return nil
}

func (c *TokenCache) save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return err
	}
	// 0600: the cache holds live bearer tokens.
	return os.WriteFile(c.path, data, 0600)
}

// Get returns a cached token if it survives the expiry margin.
func (c *TokenCache) Get(envKey, userKey string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[envKey+"/"+userKey]
	if !ok {
		return "", false
	}
	if !time.Now().Add(expiryMargin).Before(entry.Expiry) {
		return "", false
	}
	return entry.AccessToken, true
}

// Put stores a token with its expires_in lifetime (seconds) and persists the
// cache. Tokens without a lifetime are not cached.
func (c *TokenCache) Put(envKey, userKey, token string, expiresIn int) error {
	if expiresIn <= 0 {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[envKey+"/"+userKey] = cacheEntry{
		AccessToken: token,
		Expiry:      time.Now().Add(time.Duration(expiresIn) * time.Second),
	}
	if err := c.save(); err != nil {
		return fmt.Errorf("failed to write token cache: %w", err)
	}
	return nil
}
