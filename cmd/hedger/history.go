package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"FxHedger/internal/model"
	"FxHedger/internal/notifier"
	"FxHedger/internal/recorder"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List previous runs from the SQLite journal",
		RunE:  runHistory,
	}
	cmd.Flags().Int("limit", 20, "Maximum number of runs to show (0 for all)")
	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Database.SQLitePath == "" {
		return errors.New("no run journal configured (database.sqlite_path or SQLITE_PATH)")
	}
	limit, _ := cmd.Flags().GetInt("limit")

	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		return err
	}
	defer rec.Close()

	runs, err := rec.ListRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWHEN\tCOMMODITY\tFOREX\tWINDOW\tRATIO\tCORR\tFX EXPOSURE")
	for _, r := range runs {
		window := r.Start.Format(model.DateLayout) + " ~ " + r.End.Format(model.DateLayout)
		if r.Failed() {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\tfailed: %s\t\t\n",
				r.ID, r.At.Format("2006-01-02 15:04"), r.CommodityTicker, r.ForexTicker, window, r.Error)
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s %s\n",
			r.ID, r.At.Format("2006-01-02 15:04"), r.CommodityTicker, r.ForexTicker, window,
			notifier.RatioString(r.HedgeRatio), notifier.RatioString(r.Correlation),
			notifier.AmountString(r.RecommendedExposure), cfg.Currency)
	}
	return tw.Flush()
}
