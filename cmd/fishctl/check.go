package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"FishCast/internal/domain/models"
	"FishCast/pkg/util"
)

func checkCmd() *cobra.Command {
	var (
		req  models.ComplianceRequest
		date string
	)
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check a planned catch against the compliance rules",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := util.ParseDate(date)
			if err != nil {
				return err
			}
			req.Date = d

			in, err := initInspector()
			if err != nil {
				return err
			}
			return writeVerdict(cmd.OutOrStdout(), in.Compliance.Check(req))
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Species, "species", "", "target species")
	f.StringVar(&date, "date", "", "fishing day, YYYY-MM-DD")
	f.StringVar(&req.GearType, "gear", "", "gear type")
	f.Float64Var(&req.ProposedCatch, "catch", 0, "proposed catch in kg")
	f.Float64Var(&req.Lat, "lat", -6.0, "latitude")
	f.Float64Var(&req.Lon, "lon", 106.0, "longitude")
	_ = cmd.MarkFlagRequired("species")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("gear")
	return cmd
}

func writeVerdict(w io.Writer, res models.ComplianceResult) error {
	verdict := "APPROVED"
	if !res.Approved {
		verdict = "REJECTED"
	}
	if _, err := fmt.Fprintf(w, "%s (sustainability %.2f)\n", verdict, res.SustainabilityScore); err != nil {
		return err
	}
	for _, v := range res.Violations {
		if _, err := fmt.Fprintf(w, "  - %s\n", v); err != nil {
			return err
		}
	}
	return nil
}
