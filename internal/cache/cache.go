// Package cache stores GitHub repository metadata between runs so
// repeated downloads skip redundant API calls. Entries are JSON on
// disk with a TTL; a corrupted or version-skewed file is discarded and
// rebuilt rather than erroring.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/klauern/promptsync/internal/util"
)

// RepoInfo is the cached metadata for one GitHub repository.
type RepoInfo struct {
	// Repo is the owner/name slug.
	Repo string `json:"repo"`
	// DefaultBranch is the branch codeload tarballs are fetched from.
	DefaultBranch string `json:"default_branch"`
}

// Entry wraps cached repository metadata with its freshness timestamp.
type Entry struct {
	Info     RepoInfo  `json:"info"`
	CachedAt time.Time `json:"cached_at"`
}

// Cache manages cached repository metadata.
type Cache struct {
	Version string           `json:"version"`
	Entries map[string]Entry `json:"entries"`
	path    string
}

const (
	cacheVersion = "1.0"
	// DefaultTTL is the default time-to-live for cache entries
	DefaultTTL = 1 * time.Hour
)

// New creates or loads the repository cache. If cacheDir is empty it
// defaults to util.CacheDir().
func New(cacheDir string) (*Cache, error) {
	if cacheDir == "" {
		cacheDir = util.CacheDir()
	}
	if err := os.MkdirAll(cacheDir, 0o750); err != nil {
		return nil, err
	}

	cachePath := filepath.Join(cacheDir, "repos.json")
	cache := &Cache{
		Version: cacheVersion,
		Entries: make(map[string]Entry),
		path:    cachePath,
	}

	// #nosec G304 - cachePath is constructed from the trusted cache dir
	if data, err := os.ReadFile(cachePath); err == nil {
		if err := json.Unmarshal(data, cache); err != nil {
			// Corrupted cache, start fresh
			cache.Entries = make(map[string]Entry)
		}
		// Version mismatch, invalidate cache
		if cache.Version != cacheVersion {
			cache.Entries = make(map[string]Entry)
			cache.Version = cacheVersion
		}
	}

	cache.path = cachePath
	return cache, nil
}

// Get retrieves cached repository metadata if it is fresher than ttl.
func (c *Cache) Get(repo string, ttl time.Duration) (RepoInfo, bool) {
	entry, exists := c.Entries[repo]
	if !exists {
		return RepoInfo{}, false
	}
	if time.Since(entry.CachedAt) > ttl {
		delete(c.Entries, repo)
		return RepoInfo{}, false
	}
	return entry.Info, true
}

// Set stores repository metadata in the cache.
func (c *Cache) Set(info RepoInfo) {
	c.Entries[info.Repo] = Entry{
		Info:     info,
		CachedAt: time.Now(),
	}
}

// Save persists the cache to disk.
func (c *Cache) Save() error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	// #nosec G306 - cache files should be readable by user
	return os.WriteFile(c.path, data, 0o644)
}

// Clear removes all entries from the cache.
func (c *Cache) Clear() error {
	c.Entries = make(map[string]Entry)
	err := os.Remove(c.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Size returns the number of entries in the cache.
func (c *Cache) Size() int {
	return len(c.Entries)
}

// Prune removes stale entries based on TTL and reports how many were
// dropped.
func (c *Cache) Prune(ttl time.Duration) int {
	pruned := 0
	for key, entry := range c.Entries {
		if time.Since(entry.CachedAt) > ttl {
			delete(c.Entries, key)
			pruned++
		}
	}
	return pruned
}
