package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"FishCast/internal/domain/models"
	domsvc "FishCast/internal/domain/service"
	"FishCast/internal/services/estimator"
	"FishCast/internal/usecase"
)

type trainOptions struct {
	species   string
	labels    string
	catchFile string
	async     bool
	window    windowFlags
}

func trainCmd() *cobra.Command {
	opts := &trainOptions{}
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit and store a model for one species",
		Long: `Fetch observations for the window, label them and fit a ridge model.
The model is saved to the configured model store and cached predictions for
the species are dropped.

With --async the request is queued for a running server instead. Queued jobs
always use synthetic labels.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTrain(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.species, "species", "", "species to train")
	cmd.Flags().StringVar(&opts.labels, "labels", "synthetic", "label source: synthetic or catch")
	cmd.Flags().StringVar(&opts.catchFile, "catch-file", "", "catch history CSV (date,species,probability) for --labels catch")
	cmd.Flags().BoolVar(&opts.async, "async", false, "enqueue on the training queue instead of training here")
	_ = cmd.MarkFlagRequired("species")
	opts.window.register(cmd)
	return cmd
}

func (o *trainOptions) validate() error {
	switch o.labels {
	case "synthetic":
	case "catch":
		if o.catchFile == "" {
			return errors.New("--catch-file is required with --labels catch")
		}
		if o.async {
			return errors.New("--async only supports synthetic labels")
		}
	default:
		return fmt.Errorf("--labels must be synthetic or catch, got %q", o.labels)
	}
	return nil
}

func (o *trainOptions) labelSource() (domsvc.LabelSource, error) {
	if o.labels != "catch" {
		return nil, nil
	}
	f, err := os.Open(o.catchFile)
	if err != nil {
		return nil, fmt.Errorf("open catch history: %w", err)
	}
	defer f.Close()
	return estimator.LoadCatchHistory(f)
}

func runTrain(cmd *cobra.Command, o *trainOptions) error {
	if err := o.validate(); err != nil {
		return err
	}
	dr, bbox, err := o.window.window()
	if err != nil {
		return err
	}
	labels, err := o.labelSource()
	if err != nil {
		return err
	}

	if o.async {
		return enqueueTrain(cmd, o, bbox)
	}

	cli, err := initCLI()
	if err != nil {
		return err
	}
	defer cli.Close()

	report, err := cli.Trainer.Train(cmd.Context(), usecase.TrainParams{
		Species: o.species,
		Range:   dr,
		Bounds:  bbox,
		Labels:  labels,
	})
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), report)
}

// enqueueTrain hands the request to a running server's training queue. It
// never opens the model store.
func enqueueTrain(cmd *cobra.Command, o *trainOptions, bbox models.BoundingBox) error {
	p, err := initProducer()
	if err != nil {
		return err
	}
	defer p.Close()

	if p.Jobs == nil {
		return errors.New("training queue is disabled, set queue.enabled or FISHCAST_QUEUE_ENABLED")
	}
	if err := p.Jobs.Start(); err != nil {
		return fmt.Errorf("start queue: %w", err)
	}
	id, err := p.Jobs.Enqueue(cmd.Context(), usecase.TrainJobType, usecase.TrainJobPayload{
		Species:   o.species,
		StartDate: o.window.start,
		EndDate:   o.window.end,
		Bounds:    bbox,
	})
	if err != nil {
		return fmt.Errorf("enqueue training: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "queued training job %s for %s\n", id, o.species)
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
