package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reelsync/internal/rankings"
)

func newFindCommand(ctx *commandContext) *cobra.Command {
	var minScore, maxScore int

	cmd := &cobra.Command{
		Use:   "find",
		Short: "List ranked films whose score falls in a range",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			if maxScore < 0 {
				maxScore = minScore
			}
			if maxScore < minScore {
				return fmt.Errorf("--max (%d) is below --min (%d)", maxScore, minScore)
			}

			records, err := rankings.Load(cfg.Paths.RankingsFile)
			if err != nil {
				return err
			}

			rows := make([][]string, 0)
			for _, rec := range records {
				if rec.Score < minScore || rec.Score > maxScore {
					continue
				}
				title, year, err := rankings.SplitTitleYear(rec.ID, rec.RawName)
				if err != nil {
					// A listing should not abort on one bad name.
					title = rec.RawName
				}
				yearText := ""
				if year > 0 {
					yearText = strconv.Itoa(year)
				}
				rows = append(rows, []string{title, yearText, strconv.Itoa(rec.Score)})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Films with scores between %d and %d\n", minScore, maxScore)
			if len(rows) == 0 {
				fmt.Fprintln(out, "No films in range.")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Title", "Year", "Score"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&minScore, "min", 0, "Minimum score (inclusive)")
	cmd.Flags().IntVar(&maxScore, "max", -1, "Maximum score (inclusive, defaults to --min)")
	_ = cmd.MarkFlagRequired("min")
	return cmd
}
