package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"FishCast/pkg/logger"
)

type payload struct {
	Species string `json:"species"`
}

type recordingJob struct {
	got []string
	err error
}

func (j *recordingJob) Name() string { return "recording" }
func (j *recordingJob) Type() string { return "record" }
func (j *recordingJob) Handle(_ context.Context, raw json.RawMessage) error {
	p, err := Decode[payload](raw)
	if err != nil {
		return err
	}
	j.got = append(j.got, p.Species)
	return j.err
}

func TestDispatchRunsRegisteredJob(t *testing.T) {
	q := NewRedisQueue(logger.Nop(), Config{}, nil, ModeProducerConsumer)
	job := &recordingJob{}
	q.RegisterJob(job)
	q.RegisterJob(job)

	msg, err := q.newMessage("record", payload{Species: "tuna"})
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	require.NoError(t, q.dispatch(context.Background(), msg))
	assert.Equal(t, []string{"tuna"}, job.got)

	msg.Type = "unknown"
	assert.Error(t, q.dispatch(context.Background(), msg))

	job.err = errors.New("fit failed")
	msg.Type = "record"
	assert.EqualError(t, q.dispatch(context.Background(), msg), "fit failed")
}

func TestProducerOnlyIgnoresJobs(t *testing.T) {
	q := NewRedisQueue(logger.Nop(), Config{}, nil, ModeProducerOnly)
	q.RegisterJob(&recordingJob{})
	assert.Empty(t, q.jobs)
	assert.Equal(t, "producer-only", q.mode.String())
}

func TestEnqueueRequiresStart(t *testing.T) {
	q := NewRedisQueue(logger.Nop(), Config{}, nil, ModeProducerOnly)
	_, err := q.Enqueue(context.Background(), "record", payload{})
	assert.Error(t, err)
}

func TestFailureOutcome(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{RetryLimit: 2, RetryDelay: time.Minute}

	next, at, dead := failureOutcome(Message{ID: "a"}, cfg, now)
	assert.False(t, dead)
	assert.Equal(t, 1, next.Attempts)
	assert.Equal(t, now.Add(time.Minute), at)

	next, _, dead = failureOutcome(next, cfg, now)
	assert.False(t, dead)
	_, _, dead = failureOutcome(next, cfg, now)
	assert.True(t, dead)
}

func TestDecode(t *testing.T) {
	p, err := Decode[payload](json.RawMessage(`{"species":"skipjack"}`))
	require.NoError(t, err)
	assert.Equal(t, "skipjack", p.Species)

	_, err = Decode[payload](json.RawMessage(`[`))
	assert.Error(t, err)
}

func TestKeys(t *testing.T) {
	q := NewRedisQueue(nil, Config{}, nil, ModeProducerConsumer, WithKeyPrefix("fc:train"))
	assert.Equal(t, "fc:train:messages", q.queueKey())
	assert.Equal(t, "fc:train:retry", q.retryKey())
	assert.Equal(t, "fc:train:dlq", q.deadLetterKey())
	assert.Equal(t, 1, q.config.Workers)
}
