// Package match links records across sources by approximate title matching.
//
// Matching runs Jaro similarity over canonical keys (see titlekey) and accepts
// the best candidate only when its similarity reaches the fixed threshold.
// Accepted matches are logged for audit, since a fuzzy link silently rewrites
// a record's watched data.
package match

import (
	"log/slog"

	"github.com/xrash/smetrics"

	"reelsync/internal/logging"
)

// Threshold is the minimum Jaro similarity for an accepted match.
const Threshold = 0.9

// Candidate pairs a canonical key with the original label it was derived from.
type Candidate struct {
	Key   string
	Label string
}

// Best scans candidates in order and returns the label whose key is most
// similar to key. The match is accepted only when the best similarity reaches
// Threshold; ties keep the first-seen candidate. subject is the original
// (uncanonicalized) title, used only for the audit log entry.
func Best(logger *slog.Logger, subject, key string, candidates []Candidate) (string, float64, bool) {
	if logger == nil {
		logger = logging.NewNop()
	}

	var (
		bestLabel string
		bestScore float64
	)
	for _, c := range candidates {
		d := smetrics.Jaro(key, c.Key)
		if d > bestScore {
			bestScore = d
			bestLabel = c.Label
		}
	}

	if bestScore < Threshold {
		return "", bestScore, false
	}

	logger.Info("accepted fuzzy match",
		logging.String("title", subject),
		logging.String("matched", bestLabel),
		logging.Float64("similarity", bestScore))
	return bestLabel, bestScore, true
}
