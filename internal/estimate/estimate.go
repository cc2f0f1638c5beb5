// Package estimate produces plausible watched dates for records that predate
// reliable viewing data.
//
// Estimates are intentionally non-deterministic: re-running the pipeline gives
// a different date inside the same window. The integer source is injectable so
// tests can pin the window bounds.
package estimate

import (
	"math/rand"
	"time"
)

// Films released before the home-viewing era are assumed watched during its
// first five years, starting homeViewingStart. Later films are assumed watched
// starting mid-December of their release year, within one year for recent
// releases and within fifteen years for pre-1990 ones.
const (
	homeViewingCutoff = 1965
	recentCutoff      = 1990
	earlyWindowDays   = 1825
	wideWindowDays    = 5475
	yearWindowDays    = 365
)

var homeViewingStart = time.Date(1969, time.October, 1, 0, 0, 0, 0, time.UTC)

// EstimatedTag marks output records whose watched date was guessed.
const EstimatedTag = "estimated date"

// EarlyProvenanceTag is added alongside EstimatedTag for pre-1965 releases.
const EarlyProvenanceTag = "yfs"

// Estimator picks dates inside the era window for a release year.
type Estimator struct {
	intn func(int) int
}

// New returns an Estimator drawing from intn. Passing nil uses the shared
// math/rand source.
func New(intn func(int) int) *Estimator {
	if intn == nil {
		intn = rand.Intn
	}
	return &Estimator{intn: intn}
}

// Estimate returns a plausible watched date for a film released in year.
func (e *Estimator) Estimate(year int) time.Time {
	if year < homeViewingCutoff {
		return homeViewingStart.AddDate(0, 0, e.intn(earlyWindowDays))
	}
	window := yearWindowDays
	if year < recentCutoff {
		window = wideWindowDays
	}
	base := time.Date(year, time.December, 15, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, e.intn(window))
}

// Tags returns the tag string callers attach to an estimated record.
func (e *Estimator) Tags(year int) string {
	if year < homeViewingCutoff {
		return EarlyProvenanceTag + ", " + EstimatedTag
	}
	return EstimatedTag
}
