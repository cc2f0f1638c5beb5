// Package rating converts ordinal ranking scores into the bounded 0-5 rating
// scale used by the catalog export.
package rating

// threshold pairs a minimum score with the rating it earns. The table is
// ordered by descending MinScore and terminates at 0, so every clamped score
// matches exactly one row.
type threshold struct {
	MinScore int
	Rating   float64
}

var thresholds = []threshold{
	{98, 5.0},
	{93, 4.5},
	{90, 4.0},
	{88, 3.5},
	{83, 3.0},
	{78, 2.5},
	{73, 2.0},
	{70, 1.5},
	{60, 1.0},
	{40, 0.5},
	{0, 0.0},
}

// ForScore maps a ranking score to a rating value. Negative scores clamp to
// zero; the result is the rating of the first threshold the score satisfies,
// scanning from the highest band down.
func ForScore(score int) float64 {
	if score < 0 {
		score = 0
	}
	for _, t := range thresholds {
		if score >= t.MinScore {
			return t.Rating
		}
	}
	return 0.0
}
