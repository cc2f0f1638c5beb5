package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeResolver()
	c.normalizeHistory()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.RankingsFile) == "" {
		c.Paths.RankingsFile = defaultRankingsFile
	}
	if c.Paths.RankingsFile, err = expandPath(c.Paths.RankingsFile); err != nil {
		return fmt.Errorf("paths.rankings_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.HistoryFile) == "" {
		c.Paths.HistoryFile = defaultHistoryFile
	}
	if c.Paths.HistoryFile, err = expandPath(c.Paths.HistoryFile); err != nil {
		return fmt.Errorf("paths.history_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.CacheFile) == "" {
		c.Paths.CacheFile = defaultCacheFile
	}
	if c.Paths.CacheFile, err = expandPath(c.Paths.CacheFile); err != nil {
		return fmt.Errorf("paths.cache_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputFile) == "" {
		c.Paths.OutputFile = defaultOutputFile
	}
	if c.Paths.OutputFile, err = expandPath(c.Paths.OutputFile); err != nil {
		return fmt.Errorf("paths.output_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeResolver() {
	c.Resolver.StripSuffix = strings.Trim(strings.TrimSpace(c.Resolver.StripSuffix), "/")
	if c.Resolver.RateLimitMs <= 0 {
		c.Resolver.RateLimitMs = defaultResolverRateMs
	}
	if c.Resolver.TimeoutSeconds <= 0 {
		c.Resolver.TimeoutSeconds = defaultResolverTimeout
	}
	c.Resolver.UserAgent = strings.TrimSpace(c.Resolver.UserAgent)
	if c.Resolver.UserAgent == "" {
		c.Resolver.UserAgent = defaultResolverAgent
	}
}

func (c *Config) normalizeHistory() {
	c.History.Venue = strings.TrimSpace(c.History.Venue)
	if c.History.Venue == "" {
		c.History.Venue = defaultHistoryVenue
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
