package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"sirparcel/internal/modules/pricing"
)

var (
	quoteFrom   string
	quoteTo     string
	quoteWeight string
	quoteJSON   bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a shipment between two cities",
	Long: `Price a shipment using the direct rate table first, then zone tiers.

Examples:
  sirparcel quote --from Mumbai --to Delhi --weight 2
  sirparcel quote --from Pune --to Bengaluru --weight 1.5 --json`,
	Args: cobra.NoArgs,
	RunE: runQuote,
}

func init() {
	quoteCmd.Flags().StringVar(&quoteFrom, "from", "", "origin city")
	quoteCmd.Flags().StringVar(&quoteTo, "to", "", "destination city")
	quoteCmd.Flags().StringVarP(&quoteWeight, "weight", "w", "", "weight in kilograms")
	quoteCmd.Flags().BoolVar(&quoteJSON, "json", false, "print the quote as JSON")
	_ = quoteCmd.MarkFlagRequired("from")
	_ = quoteCmd.MarkFlagRequired("to")
	_ = quoteCmd.MarkFlagRequired("weight")
}

func runQuote(cmd *cobra.Command, args []string) error {
	weight, err := decimal.NewFromString(quoteWeight)
	if err != nil {
		return fmt.Errorf("weight %q is not a number", quoteWeight)
	}
	ctx := cmd.Context()
	svc, err := openServices(ctx)
	if err != nil {
		return err
	}
	defer svc.close()

	q, err := svc.pricing.Quote(ctx, pricing.QuoteRequest{From: quoteFrom, To: quoteTo, Weight: weight})
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if quoteJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"cost":        q.Cost.StringFixed(2),
			"explanation": q.Explanation,
			"source":      q.Source,
			"tier":        q.Tier,
			"rate":        q.Rate,
		})
	}
	fmt.Fprintf(out, "%s\n%s\n", q.Money(), q.Explanation)
	return nil
}
