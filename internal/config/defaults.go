package config

const (
	defaultRankingsFile     = "~/.local/share/reelsync/rankings.xml"
	defaultHistoryFile      = "~/.local/share/reelsync/history.yml"
	defaultCacheFile        = "~/.local/share/reelsync/identifiers.yml"
	defaultOutputFile       = "~/.local/share/reelsync/catalog.csv"
	defaultLogDir           = "~/.local/share/reelsync/logs"
	defaultResolverRateMs   = 50
	defaultResolverTimeout  = 30
	defaultResolverAgent    = "reelsync/dev"
	defaultHistoryVenue     = "netflix dvd"
	defaultLogFormat        = "text"
	defaultLogLevel         = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			RankingsFile: defaultRankingsFile,
			HistoryFile:  defaultHistoryFile,
			CacheFile:    defaultCacheFile,
			OutputFile:   defaultOutputFile,
			LogDir:       defaultLogDir,
		},
		Resolver: Resolver{
			RateLimitMs:    defaultResolverRateMs,
			TimeoutSeconds: defaultResolverTimeout,
			UserAgent:      defaultResolverAgent,
		},
		History: History{
			Venue: defaultHistoryVenue,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
