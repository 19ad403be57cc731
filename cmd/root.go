package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/caravail/app"
	"github.com/kilianp07/caravail/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "caravail",
	Short: "Stamp every car in data/cars.json with a fresh availability window",
	Long: `caravail rewrites the availability field of every car record with a window
starting today and ending on the configured end date (2030-12-30 by default).
Run without arguments it updates data/cars.json in place.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	RunE:          runUpdate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// newService loads the configuration and builds the service.
func newService(opts ...app.Option) (*app.Service, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return app.New(cfg, opts...)
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
