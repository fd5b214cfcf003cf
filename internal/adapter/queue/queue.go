// Package queue runs background work on river, a Postgres-backed job queue.
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivertype"
	"go.uber.org/zap"
)

// Queue names.
const (
	QueueTranscription = "transcription"
	QueueDelivery      = "warrant_delivery"
)

// Inserter enqueues jobs without working them.
type Inserter interface {
	Insert(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (*rivertype.JobInsertResult, error)
}

// Queue enqueues transcription and delivery jobs.
type Queue struct {
	client      Inserter
	maxAttempts int
	log         *zap.Logger
}

// NewInsertOnly returns a Queue backed by an insert-only river client on pool.
func NewInsertOnly(pool *pgxpool.Pool, maxAttempts int, log *zap.Logger) (*Queue, error) {
	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not create river insert client: %w", err)
	}
	return New(client, maxAttempts, log), nil
}

// New wraps an existing inserter.
func New(client Inserter, maxAttempts int, log *zap.Logger) *Queue {
	return &Queue{client: client, maxAttempts: maxAttempts, log: log}
}

// EnqueueTranscription schedules transcription of job jobID.
func (q *Queue) EnqueueTranscription(ctx context.Context, jobID string) error {
	return q.insert(ctx, TranscriptionArgs{JobID: jobID})
}

// EnqueueDelivery schedules delivery of transfer transferID.
func (q *Queue) EnqueueDelivery(ctx context.Context, transferID string) error {
	return q.insert(ctx, DeliveryArgs{TransferID: transferID})
}

func (q *Queue) insert(ctx context.Context, args river.JobArgs) error {
	res, err := q.client.Insert(ctx, args, &river.InsertOpts{MaxAttempts: q.maxAttempts})
	if err != nil {
		return fmt.Errorf("could not insert %s job: %w", args.Kind(), err)
	}
	q.log.Debug("job enqueued",
		zap.String("kind", args.Kind()),
		zap.Int64("river_job_id", res.Job.ID),
		zap.Bool("duplicate", res.UniqueSkippedAsDuplicate),
	)
	return nil
}

// WorkerConfig sizes the worker client.
type WorkerConfig struct {
	MaxWorkers       int
	TranscribeTimeout time.Duration
}

// Start builds the working river client for the given processors and starts it.
func Start(ctx context.Context, pool *pgxpool.Pool, cfg WorkerConfig, jobs JobProcessor, deliveries DeliveryProcessor, log *slog.Logger) (*river.Client[pgx.Tx], error) {
	workers := river.NewWorkers()
	river.AddWorker(workers, NewTranscriptionWorker(jobs, cfg.TranscribeTimeout))
	river.AddWorker(workers, NewDeliveryWorker(deliveries))

	deliveryWorkers := cfg.MaxWorkers / 2
	if deliveryWorkers < 1 {
		deliveryWorkers = 1
	}
	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			QueueTranscription: {MaxWorkers: cfg.MaxWorkers},
			QueueDelivery:      {MaxWorkers: deliveryWorkers},
		},
		Workers: workers,
		Logger:  log,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create river queue client: %w", err)
	}

	if err := client.Start(ctx); err != nil {
		return nil, fmt.Errorf("could not start river queue client: %w", err)
	}
	return client, nil
}
