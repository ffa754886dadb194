package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCache(t *testing.T, ttl time.Duration) (*Cache, string) {
	dir := t.TempDir()
	c, err := NewCacheInDir(dir, ttl)
	require.NoError(t, err)
	return c, dir
}

func TestNewCache(t *testing.T) {
	// Arrange
	t.Setenv("HOME", t.TempDir())

	// Act
	c, err := NewCache(time.Hour)

	// Assert
	require.NoError(t, err)
	assert.DirExists(t, c.Dir())
}

func TestKey(t *testing.T) {
	k1 := Key("contributors", "acme", "api")
	k2 := Key("contributors", "acme", "api")
	k3 := Key("contributors", "acmea", "pi")

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Len(t, k1, 64)
}

func TestCache_SetAndGet(t *testing.T) {
	// Arrange
	c, _ := setupTestCache(t, time.Hour)
	want := []string{"alice", "bob"}

	// Act
	require.NoError(t, c.Set("k", want))
	var got []string
	found, err := c.Get("k", &got)

	// Assert
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)
}

func TestCache_Get_NotFound(t *testing.T) {
	c, _ := setupTestCache(t, time.Hour)

	var got []string
	found, err := c.Get("missing", &got)

	assert.NoError(t, err)
	assert.False(t, found)
}

func TestCache_Get_Expired(t *testing.T) {
	// Arrange
	c, dir := setupTestCache(t, time.Minute)
	require.NoError(t, c.Set("old", "data"))
	c.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

	// Act
	var got string
	found, err := c.Get("old", &got)

	// Assert
	assert.NoError(t, err)
	assert.False(t, found)
	assert.NoFileExists(t, filepath.Join(dir, "old.json"))
}

func TestCache_CleanExpired(t *testing.T) {
	// Arrange
	c, dir := setupTestCache(t, time.Hour)
	require.NoError(t, c.Set("fresh", "data"))
	require.NoError(t, c.Set("old", "data"))
	oldTime := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.json"), oldTime, oldTime))

	// Act
	err := c.CleanExpired()

	// Assert
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "old.json"))
	assert.FileExists(t, filepath.Join(dir, "fresh.json"))
}

func TestCache_Clean(t *testing.T) {
	c, dir := setupTestCache(t, time.Hour)
	require.NoError(t, c.Set("a", 1))

	require.NoError(t, c.Clean())

	assert.NoDirExists(t, dir)
}

func TestCache_Get_Corrupt(t *testing.T) {
	c, dir := setupTestCache(t, time.Hour)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("invalid json{"), 0644))

	var got string
	found, err := c.Get("bad", &got)

	assert.Error(t, err)
	assert.False(t, found)
}
