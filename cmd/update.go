package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/caravail/app"
)

var dryRun bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Stamp every car with today's availability window",
	Args:  cobra.NoArgs,
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "stamp in memory and print the summary without writing the file")
	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext()
	defer stop()

	svc, err := newService(app.WithDryRun(dryRun))
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	res, err := svc.Run(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Summary())
	return err
}
