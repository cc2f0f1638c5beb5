package idcache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"gopkg.in/yaml.v3"

	"reelsync/internal/logging"
)

// Entry is the cached resolution for one internal record id. An empty
// ExternalID records a completed lookup that found no identifier.
type Entry struct {
	Title      string `yaml:"title"`
	Year       int    `yaml:"year"`
	ExternalID string `yaml:"imdb_id"`
}

// Status classifies a resolution outcome.
type Status int

const (
	// StatusResolved means an external identifier is available.
	StatusResolved Status = iota
	// StatusNoIdentifier means the film page carries no identifier link.
	// This is data absence, not an error.
	StatusNoIdentifier
)

// Resolution is the outcome of Resolve.
type Resolution struct {
	ExternalID string
	Status     Status
	FromCache  bool
}

// Lookup is the external resolution strategy. found reports whether the page
// exposed an identifier at all; err covers network faults and malformed links.
type Lookup interface {
	Resolve(ctx context.Context, sourceURL string) (externalID string, found bool, err error)
}

// Cache provides at-most-once identifier resolution backed by a YAML file.
// A Cache belongs to exactly one pipeline run; it is not safe for concurrent
// use, and Acquire enforces single-run ownership across processes.
type Cache struct {
	path    string
	logger  *slog.Logger
	lookup  Lookup
	lock    *flock.Flock
	entries map[int]Entry
}

// New creates a cache backed by path, loading any existing mapping. A missing
// or unreadable file starts the cache empty.
func New(path string, lookup Lookup, logger *slog.Logger) *Cache {
	logger = logging.NewComponentLogger(logger, "idcache")

	c := &Cache{
		path:    path,
		logger:  logger,
		lookup:  lookup,
		lock:    flock.New(path + ".lock"),
		entries: make(map[int]Entry),
	}

	if err := c.load(); err != nil {
		logger.Warn("identifier cache unreadable, starting empty",
			logging.String("path", path),
			logging.Error(err))
	}

	return c
}

// Acquire takes the cross-process cache lock. It fails fast when another run
// holds the cache.
func (c *Cache) Acquire() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	ok, err := c.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire cache lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("identifier cache %s is locked by another run", c.path)
	}
	return nil
}

// Release drops the cross-process cache lock.
func (c *Cache) Release() error {
	return c.lock.Unlock()
}

// Resolve returns the external identifier for id, fetching and caching it on
// first sight. Present entries are returned without external interaction.
// Lookup errors leave the cache unchanged so a later run can retry.
func (c *Cache) Resolve(ctx context.Context, id int, sourceURL, title string, year int) (Resolution, error) {
	if entry, ok := c.entries[id]; ok {
		return resolutionFor(entry.ExternalID, true), nil
	}

	if c.lookup == nil {
		return Resolution{}, errors.New("idcache: no lookup configured")
	}

	externalID, found, err := c.lookup.Resolve(ctx, sourceURL)
	if err != nil {
		return Resolution{}, err
	}

	entry := Entry{Title: title, Year: year}
	if found {
		entry.ExternalID = externalID
	} else {
		c.logger.Info("no external identifier on film page",
			logging.Int("record_id", id),
			logging.String("title", title))
	}
	c.entries[id] = entry

	return resolutionFor(entry.ExternalID, false), nil
}

func resolutionFor(externalID string, fromCache bool) Resolution {
	status := StatusResolved
	if externalID == "" {
		status = StatusNoIdentifier
	}
	return Resolution{ExternalID: externalID, Status: status, FromCache: fromCache}
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries)
}

// Flush persists the entire mapping, overwriting prior content. Callers must
// invoke it exactly once at the end of every run, success or failure.
func (c *Cache) Flush() error {
	data, err := yaml.Marshal(c.entries)
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}

	c.logger.Debug("flushed identifier cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))
	return nil
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	entries := make(map[int]Entry)
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}
	c.entries = entries

	c.logger.Debug("loaded identifier cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))
	return nil
}
