package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	rankvouchers "rewards-workers/internal/workers/personalization/rank-vouchers"
)

func rankCmd(opts *globalOptions) *cobra.Command {
	var (
		fixturePath string
		userID      string
		at          string
		maxResults  int
		weights     map[string]string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the fixture catalog for a user",
		Long: `Rank scores every eligible voucher in the fixture catalog against the
user's signals and prints the top recommendations.

Without --user the ranking is anonymous. Weight overrides use the same
names as job variables, e.g. --weight categoryMatch=0.4.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			fx, err := loadFixture(fixturePath)
			if err != nil {
				return err
			}
			clock, err := clockAt(at)
			if err != nil {
				return err
			}
			overrides, err := parseWeights(weights)
			if err != nil {
				return err
			}
			appCfg, err := opts.appConfig()
			if err != nil {
				return err
			}

			h, err := rankvouchers.NewHandler(rankvouchers.HandlerOptions{
				AppConfig:  appCfg,
				Logger:     opts.logger(),
				Users:      fx,
				Purchases:  fx,
				Enrichment: fx.enrichment(),
				Clock:      clock,
			})
			if err != nil {
				return err
			}

			out, err := h.Execute(cmd.Context(), &rankvouchers.Input{
				UserID:        userID,
				Questionnaire: fx.Questionnaire,
				Catalog:       fx.Catalog,
				MaxResults:    maxResults,
				Weights:       overrides,
			})
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return writeRecommendations(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&fixturePath, "fixture", "", "fixture file with catalog and user data")
	cmd.Flags().StringVar(&userID, "user", "", "user id to rank for (anonymous when empty)")
	cmd.Flags().StringVar(&at, "at", "", "evaluate at this RFC 3339 instant instead of now")
	cmd.Flags().IntVar(&maxResults, "max", 0, "maximum recommendations (default from config)")
	cmd.Flags().StringToStringVar(&weights, "weight", nil, "scorer weight override, name=value")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the worker output as JSON")
	_ = cmd.MarkFlagRequired("fixture")

	return cmd
}

func parseWeights(raw map[string]string) (map[string]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]float64, len(raw))
	for name, v := range raw {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("weight %s: %w", name, err)
		}
		out[name] = f
	}
	return out, nil
}

func writeRecommendations(w io.Writer, out *rankvouchers.Output) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSCORE\tVOUCHER\tCATEGORY\tMERCHANT\tREASON")
	for i, r := range out.Recommendations {
		fmt.Fprintf(tw, "%d\t%.1f\t%s\t%s\t%s\t%s\n",
			i+1, r.RelevanceScore, r.VoucherID, r.Category, r.MerchantName, r.Reason)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d of %d vouchers eligible, %d skipped\n",
		out.EligibleCount, out.CatalogCount, out.SkippedRecords)
	return err
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
