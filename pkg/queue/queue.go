package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Enqueuer submits work without caring who runs it.
type Enqueuer interface {
	Enqueue(ctx context.Context, msgType string, payload interface{}) (string, error)
}

// Config controls consumers.
type Config struct {
	Workers    int           // number of workers
	RetryLimit int           // retries before a message is dead-lettered
	RetryDelay time.Duration // delay before a failed message is retried
}

// Message is the stored envelope.
type Message struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	Attempts   int             `json:"attempts"`
	EnqueuedAt time.Time       `json:"enqueued_at"`
}

// Decode unmarshals a payload into T.
func Decode[T any](payload json.RawMessage) (*T, error) {
	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return &out, nil
}

// failureOutcome decides what happens to msg after a failed attempt. The
// returned message has its attempt count advanced.
func failureOutcome(msg Message, cfg Config, now time.Time) (next Message, retryAt time.Time, deadLetter bool) {
	msg.Attempts++
	if msg.Attempts > cfg.RetryLimit {
		return msg, time.Time{}, true
	}
	return msg, now.Add(cfg.RetryDelay), false
}
