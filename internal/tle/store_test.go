package tle

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func catalogText() string {
	return issName + "\n" + issLine1 + "\n" + issLine2 + "\n"
}

func TestStoreFetchesAndCaches(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(catalogText()))
	}))
	defer srv.Close()

	root := t.TempDir()
	store := NewStore(srv.URL, root, 24)

	lib, err := store.Library()
	if err != nil {
		t.Fatalf("Library failed: %v", err)
	}
	if got := lib.Objects(); len(got) != 1 || got[0] != 25544 {
		t.Errorf("Objects() = %v, want [25544]", got)
	}
	if hits.Load() != 1 {
		t.Errorf("network hits = %d, want 1", hits.Load())
	}

	if _, err := os.Stat(filepath.Join(root, "element_catalog.txt")); err != nil {
		t.Errorf("cache file not written: %v", err)
	}
	if _, ok := store.CacheAge(); !ok {
		t.Error("CacheAge reports no cache after a successful fetch")
	}

	// Second load must come from the fresh disk cache.
	if _, err := store.Library(); err != nil {
		t.Fatalf("second Library failed: %v", err)
	}
	if hits.Load() != 1 {
		t.Errorf("network hits after cached load = %d, want 1", hits.Load())
	}
}

func TestStoreFallsBackToStaleCache(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(catalogText()))
	}))

	root := t.TempDir()
	// maxAge 0: the disk cache is always considered stale.
	store := NewStore(srv.URL, root, 0)

	if _, err := store.Library(); err != nil {
		t.Fatalf("initial Library failed: %v", err)
	}

	// With the network gone, the stale cache still serves.
	srv.Close()
	lib, err := store.Library()
	if err != nil {
		t.Fatalf("Library with dead network failed: %v", err)
	}
	if got := lib.Objects(); len(got) != 1 || got[0] != 25544 {
		t.Errorf("Objects() = %v, want [25544]", got)
	}
}

func TestStoreAllSourcesExhausted(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close() // unreachable from the start

	store := NewStore(srv.URL, t.TempDir(), 24)
	if _, err := store.Library(); err == nil {
		t.Fatal("expected error with no cache and no network")
	}
}

func TestStoreForceRefresh(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(catalogText()))
	}))
	defer srv.Close()

	store := NewStore(srv.URL, t.TempDir(), 24)

	if _, err := store.Library(); err != nil {
		t.Fatalf("Library failed: %v", err)
	}
	if _, err := store.ForceRefresh(); err != nil {
		t.Fatalf("ForceRefresh failed: %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("network hits = %d, want 2 (refresh bypasses the cache)", hits.Load())
	}
}

func TestStoreRejectsEmptyCatalog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("this is not a catalog\n"))
	}))
	defer srv.Close()

	store := NewStore(srv.URL, t.TempDir(), 24)
	if _, err := store.Library(); err == nil {
		t.Fatal("expected error for a catalog with no element sets")
	}
}

func TestCacheAgeNoCache(t *testing.T) {
	store := NewStore("http://example.invalid", t.TempDir(), 24)
	if _, ok := store.CacheAge(); ok {
		t.Error("CacheAge reports a cache that does not exist")
	}
}
