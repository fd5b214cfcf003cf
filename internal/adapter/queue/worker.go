package queue

import (
	"context"
	"errors"
	"time"

	"github.com/riverqueue/river"

	apperrors "court-service/pkg/errors"
)

// JobProcessor transcribes queued jobs.
type JobProcessor interface {
	ProcessJob(ctx context.Context, id string, finalAttempt bool) error
}

// DeliveryProcessor delivers queued warrant transfers.
type DeliveryProcessor interface {
	Deliver(ctx context.Context, transferID string, finalAttempt bool) error
}

// TranscriptionWorker works TranscriptionArgs.
type TranscriptionWorker struct {
	river.WorkerDefaults[TranscriptionArgs]

	processor JobProcessor
	timeout   time.Duration
}

// NewTranscriptionWorker creates a worker. A zero timeout keeps river's default.
func NewTranscriptionWorker(p JobProcessor, timeout time.Duration) *TranscriptionWorker {
	return &TranscriptionWorker{processor: p, timeout: timeout}
}

// Timeout bounds a single attempt.
func (w *TranscriptionWorker) Timeout(*river.Job[TranscriptionArgs]) time.Duration {
	return w.timeout
}

// Work transcribes one job. A job deleted before it ran is cancelled rather than retried.
func (w *TranscriptionWorker) Work(ctx context.Context, job *river.Job[TranscriptionArgs]) error {
	err := w.processor.ProcessJob(ctx, job.Args.JobID, finalAttempt(job.JobRow.Attempt, job.JobRow.MaxAttempts))
	if errors.Is(err, apperrors.ErrNotFound) {
		return river.JobCancel(err)
	}
	return err
}

// DeliveryWorker works DeliveryArgs.
type DeliveryWorker struct {
	river.WorkerDefaults[DeliveryArgs]

	processor DeliveryProcessor
}

// NewDeliveryWorker creates a worker.
func NewDeliveryWorker(p DeliveryProcessor) *DeliveryWorker {
	return &DeliveryWorker{processor: p}
}

// Work delivers one transfer.
func (w *DeliveryWorker) Work(ctx context.Context, job *river.Job[DeliveryArgs]) error {
	err := w.processor.Deliver(ctx, job.Args.TransferID, finalAttempt(job.JobRow.Attempt, job.JobRow.MaxAttempts))
	if errors.Is(err, apperrors.ErrNotFound) {
		return river.JobCancel(err)
	}
	return err
}

func finalAttempt(attempt, maxAttempts int) bool {
	return maxAttempts > 0 && attempt >= maxAttempts
}
