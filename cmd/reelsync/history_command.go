package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"reelsync/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Viewing-history snapshot utilities",
	}

	historyCmd.AddCommand(newHistoryImportCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))

	return historyCmd
}

func newHistoryImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Build the viewing-history snapshot from a rental-activity export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open rental activity export: %w", err)
			}
			defer file.Close()

			table, err := history.ImportRentalActivity(file, cfg.History.Venue, logger)
			if err != nil {
				return err
			}
			if err := history.SaveTable(cfg.Paths.HistoryFile, table); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d history entries to %s\n", len(table), cfg.Paths.HistoryFile)
			return nil
		},
	}
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "List the viewing-history snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			table := history.LoadTable(cfg.Paths.HistoryFile, logger)
			titles := make([]string, 0, len(table))
			for title := range table {
				titles = append(titles, title)
			}
			sort.Strings(titles)

			rows := make([][]string, 0, len(titles))
			for _, title := range titles {
				info := table[title]
				rows = append(rows, []string{title, info.WatchedDate.Format("2006-01-02"), info.Venue})
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "History snapshot is empty.")
				return nil
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Title", "Watched", "Venue"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
