// Package pipeline orchestrates a reconciliation run: per-record identifier
// resolution, rating conversion, watched-date determination, and statistics
// accumulation. The identifier cache is flushed on every exit path.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"reelsync/internal/estimate"
	"reelsync/internal/history"
	"reelsync/internal/idcache"
	"reelsync/internal/logging"
	"reelsync/internal/output"
	"reelsync/internal/rankings"
	"reelsync/internal/rating"
)

// cutoverDate is the day the record-keeping rules changed: reviews at or
// before it may carry watched dates copied from the review date even though
// the film was seen much earlier, so those records are eligible for
// history lookup and estimation.
var cutoverDate = time.Date(2012, time.February, 16, 0, 0, 0, 0, time.UTC)

// maxReviewGapYears is the review-to-release gap beyond which a record's
// review date stops being a credible watched date.
const maxReviewGapYears = 3

// ParsePolicy controls how a malformed film name is handled.
type ParsePolicy int

const (
	// ParseAbort stops the whole run on the first malformed name.
	ParseAbort ParsePolicy = iota
	// ParseSkip records the failure and continues with the next record.
	ParseSkip
)

// Options tunes a run.
type Options struct {
	// Limit stops the run after this many emitted records; zero means all.
	Limit int
	// OnParseError selects the malformed-name policy.
	OnParseError ParsePolicy
}

// Sink receives normalized records in input order.
type Sink interface {
	Write(output.Record) error
}

// SkippedRecord reports a record dropped under ParseSkip.
type SkippedRecord struct {
	ID      int
	RawName string
	Err     error
}

// Result carries run statistics. It is a plain value returned by Run; callers
// aggregate and print separately.
type Result struct {
	Count        int
	Scores       map[int]int
	Ratings      map[float64]int
	HistoryHits  int
	Estimated    int
	NoIdentifier int
	Skipped      []SkippedRecord
}

func newResult() *Result {
	return &Result{
		Scores:  make(map[int]int),
		Ratings: make(map[float64]int),
	}
}

// Pipeline reconciles ranking records against the identifier cache and the
// viewing history. It owns the identifier cache for the duration of a run.
type Pipeline struct {
	cache     *idcache.Cache
	watched   *history.Resolver
	estimator *estimate.Estimator
	logger    *slog.Logger
	opts      Options
}

// New builds a pipeline.
func New(cache *idcache.Cache, watched *history.Resolver, estimator *estimate.Estimator, logger *slog.Logger, opts Options) (*Pipeline, error) {
	if cache == nil || watched == nil || estimator == nil {
		return nil, errors.New("pipeline requires cache, history resolver, and estimator")
	}
	return &Pipeline{
		cache:     cache,
		watched:   watched,
		estimator: estimator,
		logger:    logging.NewComponentLogger(logger, "pipeline"),
		opts:      opts,
	}, nil
}

// Run processes records in order and writes normalized rows to sink. The
// identifier cache lock is held for the whole run, and the cache is flushed
// exactly once before Run returns, whatever the outcome.
func (p *Pipeline) Run(ctx context.Context, records []rankings.Record, sink Sink) (result *Result, err error) {
	logger := p.logger.With(logging.String(logging.FieldRunID, uuid.NewString()))

	if err := p.cache.Acquire(); err != nil {
		return nil, err
	}
	defer func() {
		if rerr := p.cache.Release(); rerr != nil {
			err = errors.Join(err, fmt.Errorf("release cache lock: %w", rerr))
		}
	}()
	defer func() {
		if ferr := p.cache.Flush(); ferr != nil {
			err = errors.Join(err, fmt.Errorf("flush identifier cache: %w", ferr))
		}
	}()

	result = newResult()
	logger.Info("reconciliation started",
		logging.Int("record_count", len(records)),
		logging.Int("history_entries", p.watched.Len()))

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		row, outcome, perr := p.process(ctx, logger, rec)
		if perr != nil {
			var parseErr *rankings.ParseError
			if errors.As(perr, &parseErr) && p.opts.OnParseError == ParseSkip {
				logger.Warn("skipping malformed record",
					logging.Int("record_id", rec.ID),
					logging.Error(perr))
				result.Skipped = append(result.Skipped, SkippedRecord{ID: rec.ID, RawName: rec.RawName, Err: perr})
				continue
			}
			return result, perr
		}

		if err := sink.Write(row); err != nil {
			return result, fmt.Errorf("write record %d: %w", rec.ID, err)
		}

		result.Count++
		result.Scores[rec.Score]++
		result.Ratings[row.Rating]++
		switch outcome {
		case watchedFromHistory:
			result.HistoryHits++
		case watchedEstimated:
			result.Estimated++
		}
		if row.ExternalID == "" {
			result.NoIdentifier++
		}

		if p.opts.Limit > 0 && result.Count == p.opts.Limit {
			break
		}
	}

	logger.Info("reconciliation finished",
		logging.Int("emitted", result.Count),
		logging.Int("history_hits", result.HistoryHits),
		logging.Int("estimated", result.Estimated),
		logging.Int("no_identifier", result.NoIdentifier),
		logging.Int("skipped", len(result.Skipped)))
	return result, nil
}

type watchedOutcome int

const (
	watchedFromReview watchedOutcome = iota
	watchedFromHistory
	watchedEstimated
)

func (p *Pipeline) process(ctx context.Context, logger *slog.Logger, rec rankings.Record) (output.Record, watchedOutcome, error) {
	title, year, err := rankings.SplitTitleYear(rec.ID, rec.RawName)
	if err != nil {
		return output.Record{}, watchedFromReview, err
	}

	res, err := p.cache.Resolve(ctx, rec.ID, rec.SourceURL, title, year)
	if err != nil {
		return output.Record{}, watchedFromReview, fmt.Errorf("resolve record %d (%s): %w", rec.ID, title, err)
	}

	review := rec.ReviewDate
	row := output.Record{
		Title:       title,
		Year:        year,
		ExternalID:  res.ExternalID,
		WatchedDate: review,
		CreatedAt:   time.Date(review.Year(), review.Month(), review.Day(), 23, 0, 0, 0, time.UTC),
		Rating:      rating.ForScore(rec.Score),
		Review:      rec.Review,
	}

	outcome := watchedFromReview
	if p.needsWatchedOverride(review, year) {
		if info, ok := p.watched.Lookup(title); ok {
			row.WatchedDate = info.WatchedDate.Time
			row.Tags = info.Venue
			outcome = watchedFromHistory
		} else {
			row.WatchedDate = p.estimator.Estimate(year)
			row.Tags = p.estimator.Tags(year)
			outcome = watchedEstimated
		}
	}

	logger.Debug("record reconciled",
		logging.Int("record_id", rec.ID),
		logging.String("title", title),
		logging.Int("year", year),
		logging.Float64("rating", row.Rating),
		logging.Bool("from_cache", res.FromCache))
	return row, outcome, nil
}

// needsWatchedOverride reports whether the review date cannot be trusted as a
// watched date: the review predates the cutover and trails the release by
// more than the allowed gap.
func (p *Pipeline) needsWatchedOverride(review time.Time, year int) bool {
	return !review.After(cutoverDate) && review.Year() > year+maxReviewGapYears
}
