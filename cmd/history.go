package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/caravail/core/history"
	"github.com/kilianp07/caravail/core/model"
)

var (
	historyLimit  int
	historyStatus string
	historySince  string
	historyUntil  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past update runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of most recent runs to show (0 for all)")
	historyCmd.Flags().StringVar(&historyStatus, "status", "", "only show runs with this status (ok or failed)")
	historyCmd.Flags().StringVar(&historySince, "since", "", "only show runs on or after this day (YYYY-MM-DD)")
	historyCmd.Flags().StringVar(&historyUntil, "until", "", "only show runs on or before this day (YYYY-MM-DD)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	switch historyStatus {
	case "", history.StatusOK, history.StatusFailed:
	default:
		return fmt.Errorf("unknown status %q", historyStatus)
	}

	q := history.Query{Status: historyStatus, Limit: historyLimit}
	if historySince != "" {
		d, err := model.ParseDate(historySince)
		if err != nil {
			return fmt.Errorf("--since: %w", err)
		}
		q.Start = d
	}
	if historyUntil != "" {
		d, err := model.ParseDate(historyUntil)
		if err != nil {
			return fmt.Errorf("--until: %w", err)
		}
		q.End = d.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if !q.Start.IsZero() && !q.End.IsZero() && q.End.Before(q.Start) {
		return fmt.Errorf("--until %s is before --since %s", historyUntil, historySince)
	}

	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	runs, err := svc.History(ctx, q)
	if err != nil {
		return fmt.Errorf("query history: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		_, err = fmt.Fprintln(out, "No runs recorded.")
		return err
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		status := r.Status
		if r.DryRun {
			status += " (dry run)"
		}
		rows = append(rows, []string{
			r.Timestamp.Format(time.RFC3339),
			status,
			strconv.Itoa(r.Count),
			r.StartDate + " → " + r.EndDate,
			r.Path,
			r.Error,
		})
	}
	return renderTable(out, []string{"TIME", "STATUS", "CARS", "WINDOW", "FILE", "ERROR"}, rows)
}
