package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"FishCast/internal/domain/models"
	"FishCast/internal/usecase"
	"FishCast/pkg/util"
)

func predictCmd() *cobra.Command {
	var (
		species string
		asJSON  bool
		window  windowFlags
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run a prediction and print the daily recommendations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dr, bbox, err := window.window()
			if err != nil {
				return err
			}
			cli, err := initCLI()
			if err != nil {
				return err
			}
			defer cli.Close()

			run, err := cli.Pipeline.Run(cmd.Context(), usecase.PredictParams{
				Species: species,
				Range:   dr,
				Bounds:  bbox,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), models.NewPredictionRunDTO(run))
			}
			return writeRunTable(cmd.OutOrStdout(), run)
		},
	}
	cmd.Flags().StringVar(&species, "species", "", "species to predict")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full run as JSON")
	_ = cmd.MarkFlagRequired("species")
	window.register(cmd)
	return cmd
}

func writeRunTable(w io.Writer, run *models.PredictionRun) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "DATE\tSST\tCHLOROPHYLL\tPROBABILITY\tRECOMMENDATION\n")
	for _, r := range run.Results {
		fmt.Fprintf(tw, "%s\t%.2f\t%.3f\t%.3f\t%s\n",
			r.Date.Format(util.DateLayout), r.SST, r.Chlorophyll, r.Probability, r.Recommendation)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s (%s): %d days, %d HIGH, avg probability %.3f\n",
		run.Species, run.ModelSource, run.Summary.TotalDays, run.Summary.HighRecommendations, run.Summary.AvgProbability)
	return err
}
