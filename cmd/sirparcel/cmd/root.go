// Package cmd provides the CLI commands for sirparcel.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"sirparcel/internal/config"
	"sirparcel/internal/infra"
	"sirparcel/internal/logging"
	"sirparcel/internal/modules/location"
	"sirparcel/internal/modules/pricing"
)

var (
	envFile string
	verbose bool
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sirparcel",
	Short: "Quote and inspect Sir Parcel shipping data",
	Long: `sirparcel works directly on the reference documents the API serves.

Examples:
  sirparcel quote --from Mumbai --to Delhi --weight 2
  sirparcel cities
  sirparcel offices Maharashtra Mumbai
  sirparcel validate`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if envFile != "" {
			cfg, err = config.Load(envFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		lc := logging.Config{Level: "warn", Format: "console", Output: "stderr"}
		if verbose {
			lc.Level = "debug"
		}
		return logging.Initialize(lc)
	},
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(citiesCmd)
	rootCmd.AddCommand(officesCmd)
	rootCmd.AddCommand(validateCmd)
}

type services struct {
	location *location.Service
	pricing  *pricing.Service
	store    *pricing.Store
	close    func()
}

func openServices(ctx context.Context) (*services, error) {
	backend, closeBackend, err := infra.OpenBackend(ctx, cfg.Store.Backend, cfg.Store.DataDir, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	docs := infra.NewDocuments(backend, logging.Named("docstore"))
	locStore := location.NewStore(docs)
	store := pricing.NewStore(docs, locStore)
	return &services{
		location: location.NewService(locStore),
		pricing:  pricing.NewService(store, logging.Named("pricing")),
		store:    store,
		close:    closeBackend,
	}, nil
}
