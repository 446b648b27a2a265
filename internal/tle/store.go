package tle

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const catalogCacheFile = "element_catalog.txt"

// Store fetches and caches the raw element catalog. It uses a tiered
// fallback strategy: fresh disk cache, network fetch, stale disk cache.
// The remote is any endpoint that serves TLE text (CelesTrak group dumps,
// space-track query output).
type Store struct {
	url      string
	dataRoot string
	maxAge   time.Duration
}

// NewStore returns a store that fetches the catalog from catalogURL and
// caches it under dataRoot.
func NewStore(catalogURL, dataRoot string, refreshHours int) *Store {
	return &Store{
		url:      catalogURL,
		dataRoot: dataRoot,
		maxAge:   time.Duration(refreshHours) * time.Hour,
	}
}

// Library loads the catalog through the fallback chain and parses it into
// an element library.
func (s *Store) Library() (*Library, error) {
	raw, err := s.loadOrFetch(s.cachePath())
	if err != nil {
		return nil, err
	}
	return s.parse(raw)
}

// ForceRefresh fetches the catalog from the network regardless of cache age
// and returns the refreshed library.
func (s *Store) ForceRefresh() (*Library, error) {
	raw, err := s.fetchFromNetwork()
	if err != nil {
		return nil, err
	}
	_ = s.writeCache(s.cachePath(), raw)
	return s.parse(raw)
}

// CacheAge returns the age of the on-disk catalog cache, or false when no
// cache exists.
func (s *Store) CacheAge() (time.Duration, bool) {
	info, err := os.Stat(s.cachePath())
	if err != nil {
		return 0, false
	}
	return time.Since(info.ModTime()), true
}

func (s *Store) cachePath() string {
	return filepath.Join(s.dataRoot, catalogCacheFile)
}

func (s *Store) parse(raw string) (*Library, error) {
	snaps, err := Parse(strings.NewReader(raw))
	if err != nil {
		return nil, err
	}
	if len(snaps) == 0 {
		return nil, fmt.Errorf("no element sets found in catalog")
	}
	return NewLibrary(snaps), nil
}

// loadOrFetch walks the fallback chain to get raw catalog text:
// fresh cache -> network -> stale cache.
func (s *Store) loadOrFetch(cachePath string) (string, error) {
	// Tier 1: fresh disk cache
	info, err := os.Stat(cachePath)
	if err == nil && time.Since(info.ModTime()) < s.maxAge {
		if b, readErr := os.ReadFile(cachePath); readErr == nil && len(b) > 0 {
			return string(b), nil
		}
	}

	// Tier 2: network fetch
	body, fetchErr := s.fetchFromNetwork()
	if fetchErr == nil {
		// Cache write failure is non-fatal; the data is already in memory.
		_ = s.writeCache(cachePath, body)
		return body, nil
	}

	// Tier 3: stale disk cache
	if b, readErr := os.ReadFile(cachePath); readErr == nil && len(b) > 0 {
		return string(b), nil
	}

	return "", fmt.Errorf("all catalog sources exhausted: %w", fetchErr)
}

func (s *Store) fetchFromNetwork() (string, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(s.url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("catalog fetch returned HTTP %d", resp.StatusCode)
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// writeCache atomically writes data to cachePath via a temp file and rename
// so readers never see a half-written file.
func (s *Store) writeCache(cachePath, data string) error {
	dir := filepath.Dir(cachePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "catalog-*.tmp")
	if err != nil {
		return err
	}

	if _, err := tmp.WriteString(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), cachePath)
}
