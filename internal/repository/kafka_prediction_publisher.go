package repository

import (
	"context"
	"time"

	"FishCast/internal/domain/models"
	domrepo "FishCast/internal/domain/repository"
	pkgkafka "FishCast/pkg/kafka"
)

// PredictionRunEvent is the message published for every completed run.
type PredictionRunEvent struct {
	RunID       string             `json:"run_id"`
	Species     string             `json:"species"`
	ModelSource string             `json:"model_source"`
	StartDate   string             `json:"start_date"`
	EndDate     string             `json:"end_date"`
	Bounds      models.BoundingBox `json:"bounds"`
	Summary     models.SummaryDTO  `json:"summary"`
	CreatedAt   time.Time          `json:"created_at"`
}

// NewPredictionRunEvent flattens a run into its event form.
func NewPredictionRunEvent(run *models.PredictionRun) PredictionRunEvent {
	return PredictionRunEvent{
		RunID:       run.ID,
		Species:     run.Species,
		ModelSource: string(run.ModelSource),
		StartDate:   run.Range.Start.Format(models.DateLayout),
		EndDate:     run.Range.End.Format(models.DateLayout),
		Bounds:      run.Bounds,
		Summary: models.SummaryDTO{
			TotalDays:           run.Summary.TotalDays,
			HighRecommendations: run.Summary.HighRecommendations,
			AvgProbability:      run.Summary.AvgProbability,
		},
		CreatedAt: run.CreatedAt,
	}
}

type runProducer interface {
	Publish(ctx context.Context, topic string, m pkgkafka.Message) error
	Close() error
}

// KafkaPublisher implements PredictionPublisher on a Kafka topic, keyed by
// species so runs of one species stay ordered.
type KafkaPublisher struct {
	producer runProducer
	topic    string
}

var _ domrepo.PredictionPublisher = (*KafkaPublisher)(nil)

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishRun(ctx context.Context, run *models.PredictionRun) error {
	return p.producer.Publish(ctx, p.topic, pkgkafka.Message{
		Key:     []byte(run.Species),
		Value:   NewPredictionRunEvent(run),
		Headers: map[string]string{"event": "prediction_run", "run_id": run.ID},
	})
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NoopPublisher drops every run. Used when Kafka is disabled.
type NoopPublisher struct{}

var _ domrepo.PredictionPublisher = NoopPublisher{}

func (NoopPublisher) PublishRun(context.Context, *models.PredictionRun) error { return nil }

func (NoopPublisher) Close() error { return nil }
