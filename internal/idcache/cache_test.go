package idcache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type countingLookup struct {
	calls      int
	externalID string
	found      bool
	err        error
}

func (l *countingLookup) Resolve(ctx context.Context, sourceURL string) (string, bool, error) {
	l.calls++
	return l.externalID, l.found, l.err
}

func TestResolveFetchesOnceAndCaches(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identifiers.yml")
	lookup := &countingLookup{externalID: "tt1375666", found: true}
	cache := New(path, lookup, nil)

	res, err := cache.Resolve(context.Background(), 24931, "https://example.com/film/inception", "Inception", 2010)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.ExternalID != "tt1375666" {
		t.Fatalf("expected tt1375666, got %q", res.ExternalID)
	}
	if res.Status != StatusResolved {
		t.Fatalf("expected StatusResolved, got %v", res.Status)
	}
	if res.FromCache {
		t.Fatal("first resolution should not come from cache")
	}

	res, err = cache.Resolve(context.Background(), 24931, "https://example.com/film/inception", "Inception", 2010)
	if err != nil {
		t.Fatalf("second Resolve returned error: %v", err)
	}
	if !res.FromCache {
		t.Fatal("second resolution should come from cache")
	}
	if lookup.calls != 1 {
		t.Fatalf("expected exactly one fetch, got %d", lookup.calls)
	}
}

func TestResolveCachesMissingIdentifier(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identifiers.yml")
	lookup := &countingLookup{found: false}
	cache := New(path, lookup, nil)

	res, err := cache.Resolve(context.Background(), 7, "https://example.com/film/obscure", "Obscure", 1931)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.Status != StatusNoIdentifier {
		t.Fatalf("expected StatusNoIdentifier, got %v", res.Status)
	}

	// The negative outcome is cached: no second fetch.
	if _, err := cache.Resolve(context.Background(), 7, "https://example.com/film/obscure", "Obscure", 1931); err != nil {
		t.Fatalf("second Resolve returned error: %v", err)
	}
	if lookup.calls != 1 {
		t.Fatalf("expected exactly one fetch, got %d", lookup.calls)
	}
}

func TestResolveErrorLeavesCacheUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identifiers.yml")
	lookup := &countingLookup{err: &ResolutionError{Link: "https://example.com/bad"}}
	cache := New(path, lookup, nil)

	if _, err := cache.Resolve(context.Background(), 9, "https://example.com/film/bad", "Bad", 2001); err == nil {
		t.Fatal("expected error from lookup")
	}
	if cache.Len() != 0 {
		t.Fatal("failed lookup should not be cached")
	}

	// Retry performs a second fetch.
	lookup.err = nil
	lookup.found = true
	lookup.externalID = "tt0000009"
	if _, err := cache.Resolve(context.Background(), 9, "https://example.com/film/bad", "Bad", 2001); err != nil {
		t.Fatalf("retry returned error: %v", err)
	}
	if lookup.calls != 2 {
		t.Fatalf("expected retry fetch, got %d calls", lookup.calls)
	}
}

func TestFlushAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identifiers.yml")
	lookup := &countingLookup{externalID: "tt0033467", found: true}
	cache := New(path, lookup, nil)

	if _, err := cache.Resolve(context.Background(), 101, "https://example.com/film/kane", "Citizen Kane", 1941); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if err := cache.Flush(); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cache file: %v", err)
	}
	if !strings.Contains(string(data), "tt0033467") {
		t.Fatalf("expected external id in cache file, got %q", data)
	}

	reloaded := New(path, &countingLookup{}, nil)
	res, err := reloaded.Resolve(context.Background(), 101, "https://example.com/film/kane", "Citizen Kane", 1941)
	if err != nil {
		t.Fatalf("Resolve after reload returned error: %v", err)
	}
	if !res.FromCache {
		t.Fatal("reloaded cache should answer without fetching")
	}
	if res.ExternalID != "tt0033467" {
		t.Fatalf("expected tt0033467 after reload, got %q", res.ExternalID)
	}
}

func TestNewCorruptFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identifiers.yml")
	if err := os.WriteFile(path, []byte("{broken: ["), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	cache := New(path, &countingLookup{}, nil)
	if cache.Len() != 0 {
		t.Fatalf("expected empty cache, got %d entries", cache.Len())
	}
}

func TestAcquireConflicts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identifiers.yml")
	first := New(path, &countingLookup{}, nil)
	second := New(path, &countingLookup{}, nil)

	if err := first.Acquire(); err != nil {
		t.Fatalf("first Acquire returned error: %v", err)
	}
	defer first.Release()

	if err := second.Acquire(); err == nil {
		second.Release()
		t.Fatal("expected second Acquire to fail while lock is held")
	}
}
