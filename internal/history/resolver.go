package history

import (
	"log/slog"
	"sort"

	"reelsync/internal/logging"
	"reelsync/internal/match"
	"reelsync/internal/titlekey"
)

// Resolver answers watched-info lookups over a fixed table. Canonical keys
// for every table entry are computed once at construction.
type Resolver struct {
	logger     *slog.Logger
	keyer      titlekey.Keyer
	table      Table
	candidates []match.Candidate
}

// NewResolver builds a resolver over table. The candidate list is sorted by
// original title so fuzzy scans are deterministic.
func NewResolver(table Table, keyer titlekey.Keyer, logger *slog.Logger) *Resolver {
	if table == nil {
		table = Table{}
	}

	titles := make([]string, 0, len(table))
	for title := range table {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	candidates := make([]match.Candidate, 0, len(titles))
	for _, title := range titles {
		candidates = append(candidates, match.Candidate{Key: keyer.Key(title), Label: title})
	}

	return &Resolver{
		logger:     logging.NewComponentLogger(logger, "history"),
		keyer:      keyer,
		table:      table,
		candidates: candidates,
	}
}

// Lookup returns the watched info for title: an exact table hit first, then
// the best fuzzy match over canonical keys.
func (r *Resolver) Lookup(title string) (WatchedInfo, bool) {
	if info, ok := r.table[title]; ok {
		return info, true
	}

	matched, _, ok := match.Best(r.logger, title, r.keyer.Key(title), r.candidates)
	if !ok {
		return WatchedInfo{}, false
	}
	return r.table[matched], true
}

// Len reports the number of history entries.
func (r *Resolver) Len() int {
	return len(r.table)
}
