package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"reelsync/internal/estimate"
	"reelsync/internal/history"
	"reelsync/internal/idcache"
	"reelsync/internal/output"
	"reelsync/internal/pipeline"
	"reelsync/internal/rankings"
	"reelsync/internal/titlekey"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var outputPath string
	var skipBadNames bool

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Reconcile the ranking export and write the catalog CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			records, err := rankings.Load(cfg.Paths.RankingsFile)
			if err != nil {
				return err
			}

			keyer := titlekey.Keyer{FoldAccents: cfg.Matching.FoldAccents}
			table := history.LoadTable(cfg.Paths.HistoryFile, logger)
			watched := history.NewResolver(table, keyer, logger)

			resolver := idcache.NewPageResolver(idcache.PageResolverOptions{
				StripSuffix: cfg.Resolver.StripSuffix,
				RateLimit:   time.Duration(cfg.Resolver.RateLimitMs) * time.Millisecond,
				Timeout:     time.Duration(cfg.Resolver.TimeoutSeconds) * time.Second,
				UserAgent:   cfg.Resolver.UserAgent,
			}, logger)
			cache := idcache.New(cfg.Paths.CacheFile, resolver, logger)

			target := outputPath
			if target == "" {
				target = cfg.Paths.OutputFile
			}
			outFile, err := os.Create(target)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			defer outFile.Close()

			writer, err := output.NewWriter(outFile)
			if err != nil {
				return err
			}

			opts := pipeline.Options{Limit: limit}
			if skipBadNames {
				opts.OnParseError = pipeline.ParseSkip
			}
			p, err := pipeline.New(cache, watched, estimate.New(nil), logger, opts)
			if err != nil {
				return err
			}

			result, runErr := p.Run(cmd.Context(), records, writer)
			if flushErr := writer.Flush(); flushErr != nil && runErr == nil {
				runErr = flushErr
			}
			if result != nil {
				printRunReport(cmd, result, target)
			}
			return runErr
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Stop after this many records (0 = all)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output CSV path (overrides config)")
	cmd.Flags().BoolVar(&skipBadNames, "skip-bad-names", false, "Skip records whose film name has no year instead of aborting")
	return cmd
}

func printRunReport(cmd *cobra.Command, result *pipeline.Result, target string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %d records to %s\n", result.Count, target)
	if result.Count == 0 {
		return
	}

	scoreRows := make([][]string, 0, len(result.Scores))
	for _, score := range result.ScoresDescending() {
		count := result.Scores[score]
		scoreRows = append(scoreRows, []string{
			strconv.Itoa(score),
			strconv.Itoa(count),
			fmt.Sprintf("%.1f%%", float64(count)*100.0/float64(result.Count)),
		})
	}
	fmt.Fprintln(out, "\nScores")
	fmt.Fprintln(out, renderTable(
		[]string{"Score", "Count", "Share"},
		scoreRows,
		[]columnAlignment{alignRight, alignRight, alignRight},
	))

	ratingRows := make([][]string, 0, len(result.Ratings))
	for _, r := range result.RatingsDescending() {
		count := result.Ratings[r]
		ratingRows = append(ratingRows, []string{
			strconv.FormatFloat(r, 'f', 1, 64),
			strconv.Itoa(count),
			fmt.Sprintf("%.1f%%", float64(count)*100.0/float64(result.Count)),
		})
	}
	fmt.Fprintln(out, "\nRatings")
	fmt.Fprintln(out, renderTable(
		[]string{"Rating", "Count", "Share"},
		ratingRows,
		[]columnAlignment{alignRight, alignRight, alignRight},
	))

	if result.HistoryHits > 0 || result.Estimated > 0 || result.NoIdentifier > 0 {
		fmt.Fprintf(out, "\nHistory hits: %d  Estimated dates: %d  Missing identifiers: %d\n",
			result.HistoryHits, result.Estimated, result.NoIdentifier)
	}
	for _, skipped := range result.Skipped {
		fmt.Fprintf(out, "Skipped record %d: %q\n", skipped.ID, skipped.RawName)
	}
}
