// Package history holds the external viewing-history snapshot and answers
// "was this title watched, and when/where" with exact and fuzzy lookups.
package history

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"reelsync/internal/logging"
)

// Date is a calendar date persisted as YYYY-MM-DD.
type Date struct {
	time.Time
}

// MarshalYAML implements yaml.Marshaler.
func (d Date) MarshalYAML() (any, error) {
	return d.Format("2006-01-02"), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Date) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return fmt.Errorf("parse date %q: %w", raw, err)
	}
	d.Time = parsed
	return nil
}

// WatchedInfo is one viewing-history fact.
type WatchedInfo struct {
	Venue       string `yaml:"venue"`
	WatchedDate Date   `yaml:"watched_date"`
}

// Table maps exact titles to their watched info.
type Table map[string]WatchedInfo

// LoadTable reads a history snapshot. A missing or unreadable file yields an
// empty table, not an error; the condition is logged so a forgotten import is
// visible.
func LoadTable(path string, logger *slog.Logger) Table {
	logger = logging.NewComponentLogger(logger, "history")

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("history snapshot unreadable, starting empty",
				logging.String("path", path),
				logging.Error(err))
		}
		return Table{}
	}

	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		logger.Warn("history snapshot corrupt, starting empty",
			logging.String("path", path),
			logging.Error(err))
		return Table{}
	}
	if table == nil {
		table = Table{}
	}

	logger.Debug("loaded history snapshot",
		logging.Int("entry_count", len(table)),
		logging.String("path", path))
	return table
}

// SaveTable writes a history snapshot atomically via a temp file.
func SaveTable(path string, table Table) error {
	data, err := yaml.Marshal(table)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history directory: %w", err)
		}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
