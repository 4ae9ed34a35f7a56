package thumbs

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// Enqueuer is the job queue contract the services depend on. The concrete
// implementation is injected at process start.
type Enqueuer interface {
	EnqueueThumbnail(ctx context.Context, userID, fileID string) error
	EnqueueWelcome(ctx context.Context, userID string) error
}

// AsynqEnqueuer enqueues jobs on a Redis-backed asynq queue.
//
// Jobs are retried a bounded number of times on transient failure
// (maxRetry); handlers mark permanent failures with asynq.SkipRetry.
type AsynqEnqueuer struct {
	client *asynq.Client
}

const (
	maxRetry    = 3
	taskTimeout = 30 * time.Second
)

// NewAsynqEnqueuer constructs an enqueuer over an asynq client.
func NewAsynqEnqueuer(client *asynq.Client) *AsynqEnqueuer {
	return &AsynqEnqueuer{client: client}
}

func (e *AsynqEnqueuer) enqueue(ctx context.Context, taskType string, payload []byte) error {
	task := asynq.NewTask(taskType, payload)
	if _, err := e.client.EnqueueContext(ctx, task, asynq.MaxRetry(maxRetry), asynq.Timeout(taskTimeout)); err != nil {
		return fmt.Errorf("enqueue %s: %w", taskType, err)
	}
	return nil
}

func (e *AsynqEnqueuer) EnqueueThumbnail(ctx context.Context, userID, fileID string) error {
	return e.enqueue(ctx, TypeThumbnail, marshalPayload(ThumbnailPayload{UserID: userID, FileID: fileID}))
}

func (e *AsynqEnqueuer) EnqueueWelcome(ctx context.Context, userID string) error {
	return e.enqueue(ctx, TypeWelcome, marshalPayload(WelcomePayload{UserID: userID}))
}

// NoopEnqueuer discards jobs. Used in tests and when running without a
// worker.
type NoopEnqueuer struct{}

func (NoopEnqueuer) EnqueueThumbnail(ctx context.Context, userID, fileID string) error { return nil }
func (NoopEnqueuer) EnqueueWelcome(ctx context.Context, userID string) error          { return nil }
