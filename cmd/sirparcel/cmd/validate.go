package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sirparcel/internal/infra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that the reference documents load",
	Long: `Load locations, zone tables and direct rates the way the API does at
startup. Missing documents are created empty.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.close()

		ref, err := svc.store.LoadReference(ctx)
		var schemaErr *infra.SchemaError
		if errors.As(err, &schemaErr) {
			return fmt.Errorf("%s is invalid: %s: %w", schemaErr.Document, schemaErr.Reason, schemaErr.Err)
		}
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "states:         %d\n", ref.Locations.States.Len())
		fmt.Fprintf(out, "zones:          %d\n", ref.Zones.Zones.Len())
		fmt.Fprintf(out, "direct origins: %d\n", ref.Direct.Origins.Len())
		return nil
	},
}
