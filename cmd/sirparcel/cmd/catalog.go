package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var citiesCmd = &cobra.Command{
	Use:   "cities",
	Short: "List every city that can be quoted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.close()

		cities, err := svc.pricing.Cities(ctx)
		if err != nil {
			return err
		}
		for _, c := range cities {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return nil
	},
}

var officesCmd = &cobra.Command{
	Use:   "offices <state> [city]",
	Short: "List a state's cities, or a city's offices",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, err := openServices(ctx)
		if err != nil {
			return err
		}
		defer svc.close()

		out := cmd.OutOrStdout()
		if len(args) == 1 {
			cities, err := svc.location.ListCities(ctx, args[0])
			if err != nil {
				return err
			}
			for _, c := range cities {
				fmt.Fprintln(out, c)
			}
			return nil
		}

		offices, err := svc.location.ListOffices(ctx, args[0], args[1])
		if err != nil {
			return err
		}
		if len(offices) == 0 {
			fmt.Fprintf(out, "No offices listed in %s.\n", args[1])
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ADDRESS\tCONTACT")
		for _, o := range offices {
			fmt.Fprintf(tw, "%s\t%s\n", o.Address, o.Contact)
		}
		return tw.Flush()
	},
}
