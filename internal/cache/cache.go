// Package cache stores JSON values on disk with a time to live. It keeps
// slow GitHub lookups (contributors, resolved handles) between runs.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type entry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	CreatedAt time.Time       `json:"created_at"`
}

type Cache struct {
	cacheDir string
	ttl      time.Duration
	now      func() time.Time
}

// NewCache opens the cache under ~/.mate-pr/cache.
func NewCache(ttl time.Duration) (*Cache, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("error getting home directory: %w", err)
	}
	return NewCacheInDir(filepath.Join(homeDir, ".mate-pr", "cache"), ttl)
}

func NewCacheInDir(dir string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("error creating cache directory: %w", err)
	}

	c := &Cache{cacheDir: dir, ttl: ttl, now: time.Now}
	_ = c.CleanExpired()
	return c, nil
}

// Key hashes its parts into a file-safe cache key.
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}

// Get decodes the value stored under key into out. found is false when the
// key is missing or expired; expired entries are removed.
func (c *Cache) Get(key string, out any) (bool, error) {
	path := c.path(key)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("error reading cache: %w", err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false, fmt.Errorf("error decoding cache entry: %w", err)
	}

	if c.now().Sub(e.CreatedAt) > c.ttl {
		_ = os.Remove(path)
		return false, nil
	}

	if err := json.Unmarshal(e.Value, out); err != nil {
		return false, fmt.Errorf("error decoding cached value: %w", err)
	}
	return true, nil
}

func (c *Cache) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error encoding cached value: %w", err)
	}

	data, err := json.MarshalIndent(entry{Key: key, Value: raw, CreatedAt: c.now()}, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding cache entry: %w", err)
	}

	if err := os.WriteFile(c.path(key), data, 0644); err != nil {
		return fmt.Errorf("error writing cache: %w", err)
	}
	return nil
}

// CleanExpired removes entries whose file is older than the TTL.
func (c *Cache) CleanExpired() error {
	entries, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return fmt.Errorf("error reading cache directory: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if c.now().Sub(info.ModTime()) > c.ttl {
			_ = os.Remove(filepath.Join(c.cacheDir, e.Name()))
		}
	}
	return nil
}

// Clean removes the whole cache directory.
func (c *Cache) Clean() error {
	return os.RemoveAll(c.cacheDir)
}

func (c *Cache) Dir() string {
	return c.cacheDir
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.cacheDir, key+".json")
}
