package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/caravail/core/availability"
	"github.com/kilianp07/caravail/core/model"
)

var (
	checkFrom string
	checkTo   string
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "List cars available for a booking window",
	Long: `check reads the car file without modifying it and lists every car whose
availability window covers the requested dates. Without flags the window
runs from today to tomorrow; with only --from it lasts one day.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&checkFrom, "from", "", "first day of the booking (YYYY-MM-DD)")
	checkCmd.Flags().StringVar(&checkTo, "to", "", "last day of the booking (YYYY-MM-DD)")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	svc, err := newService()
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	from, to := availability.DefaultBookingWindow(svc.Today())
	if checkFrom != "" {
		if from, err = model.ParseDate(checkFrom); err != nil {
			return fmt.Errorf("--from: %w", err)
		}
	}
	switch {
	case checkTo != "":
		if to, err = model.ParseDate(checkTo); err != nil {
			return fmt.Errorf("--to: %w", err)
		}
	case checkFrom != "":
		to = from.AddDate(0, 0, 1)
	}
	if to.Before(from) {
		return fmt.Errorf("--to %s is before --from %s", to.Format(model.DateLayout), from.Format(model.DateLayout))
	}

	cars, err := svc.Check(ctx, from, to)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(cars))
	for _, c := range cars {
		a, _, _ := c.Availability()
		rows = append(rows, []string{c.ID(), c.Text("brand"), c.Text("model"), a.StartDate, a.EndDate})
	}
	out := cmd.OutOrStdout()
	if len(rows) > 0 {
		if err := renderTable(out, []string{"ID", "BRAND", "MODEL", "FROM", "UNTIL"}, rows); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(out, "%d cars available from %s to %s\n",
		len(cars), from.Format(model.DateLayout), to.Format(model.DateLayout))
	return err
}
