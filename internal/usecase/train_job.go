package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"FishCast/internal/domain/models"
	"FishCast/pkg/queue"
	"FishCast/pkg/util"
)

// TrainJobType is the queue message type for background training.
const TrainJobType = "train_model"

// TrainJobPayload is what producers enqueue. Queued jobs always use the
// synthetic labeler; catch history is a local file only the CLI can read.
type TrainJobPayload struct {
	Species   string             `json:"species"`
	StartDate string             `json:"start_date"`
	EndDate   string             `json:"end_date"`
	Bounds    models.BoundingBox `json:"bounds"`
}

// TrainJob runs queued training requests.
type TrainJob struct {
	trainer *Trainer
}

var _ queue.Job = (*TrainJob)(nil)

func NewTrainJob(trainer *Trainer) *TrainJob { return &TrainJob{trainer: trainer} }

func (j *TrainJob) Name() string { return "model-trainer" }
func (j *TrainJob) Type() string { return TrainJobType }

func (j *TrainJob) Handle(ctx context.Context, raw json.RawMessage) error {
	p, err := queue.Decode[TrainJobPayload](raw)
	if err != nil {
		return err
	}
	from, to, err := util.ParseDateRange(p.StartDate, p.EndDate)
	if err != nil {
		return fmt.Errorf("train job: %w", err)
	}
	_, err = j.trainer.Train(ctx, TrainParams{
		Species: p.Species,
		Range:   models.DateRange{Start: from, End: to},
		Bounds:  p.Bounds,
	})
	return err
}
