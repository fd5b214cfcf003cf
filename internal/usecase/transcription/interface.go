package transcription

import (
	"context"
	"io"
	"os"
	"time"

	"court-service/internal/adapter/storage"
	domain "court-service/internal/domain/transcription"
)

// Repository defines transcription data access.
type Repository interface {
	CreateSession(ctx context.Context, s *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	StopSession(ctx context.Context, id string, stoppedAt time.Time, render func(*domain.Session, []domain.Segment) string) (*domain.Session, error)
	AppendSegment(ctx context.Context, seg *domain.Segment) error
	ListSegments(ctx context.Context, sessionID string) ([]domain.Segment, error)

	CreateJob(ctx context.Context, j *domain.Job) error
	GetJob(ctx context.Context, id string) (*domain.Job, error)
	UpdateJob(ctx context.Context, j *domain.Job) error
	ListJobs(ctx context.Context, submittedBy *int64, page, limit int64) ([]domain.Job, int64, error)
	DeleteJob(ctx context.Context, id string) error
}

// Transcriber converts speech to text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, opts domain.Options) (*domain.Result, error)
}

// Publisher fans a new segment out to live subscribers.
type Publisher interface {
	Publish(ctx context.Context, seg *domain.Segment) error
}

// Queue schedules background transcription of a job.
type Queue interface {
	EnqueueTranscription(ctx context.Context, jobID string) error
}

// FileStore persists uploaded recordings.
type FileStore interface {
	Save(ctx context.Context, dir, fileName string, r io.Reader, limit int64) (*storage.Object, error)
	Open(path string) (*os.File, error)
	RemoveDir(dir string) error
}
