package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	findnearbydeals "rewards-workers/internal/workers/personalization/find-nearby-deals"
)

func nearbyCmd(opts *globalOptions) *cobra.Command {
	var (
		fixturePath string
		at          string
		lat, lng    float64
		maxResults  int
		openNow     bool
		radiusKm    float64
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "List fixture deals closest to a location",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fx, err := loadFixture(fixturePath)
			if err != nil {
				return err
			}
			clock, err := clockAt(at)
			if err != nil {
				return err
			}
			appCfg, err := opts.appConfig()
			if err != nil {
				return err
			}

			h, err := findnearbydeals.NewHandler(findnearbydeals.HandlerOptions{
				AppConfig: appCfg,
				Logger:    opts.logger(),
				Branches:  fx,
				Clock:     clock,
			})
			if err != nil {
				return err
			}

			input := &findnearbydeals.Input{
				MaxResults:  maxResults,
				OpenNowOnly: openNow,
				Catalog:     fx.Catalog,
			}
			if cmd.Flags().Changed("lat") {
				input.Latitude = &lat
			}
			if cmd.Flags().Changed("lng") {
				input.Longitude = &lng
			}
			if cmd.Flags().Changed("radius") {
				input.RadiusKm = &radiusKm
			}

			out, err := h.Execute(cmd.Context(), input)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			return writeDeals(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&fixturePath, "fixture", "", "fixture file with catalog and business directory")
	cmd.Flags().StringVar(&at, "at", "", "evaluate at this RFC 3339 instant instead of now")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude of the user")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude of the user")
	cmd.Flags().IntVar(&maxResults, "max", 0, "maximum deals (default from config)")
	cmd.Flags().BoolVar(&openNow, "open-now", false, "only branches open at the evaluation time")
	cmd.Flags().Float64Var(&radiusKm, "radius", 0, "search radius in km, 0 for unlimited (default from config)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the worker output as JSON")
	_ = cmd.MarkFlagRequired("fixture")

	return cmd
}

func writeDeals(w io.Writer, out *findnearbydeals.Output) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DISTANCE\tVOUCHER\tMERCHANT\tBRANCH\tOPEN")
	for _, d := range out.Deals {
		open := "no"
		if d.OpenNow {
			open = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.DistanceLabel, d.VoucherID, d.MerchantName, d.Branch.Name, open)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d deals\n", out.Count)
	return err
}
