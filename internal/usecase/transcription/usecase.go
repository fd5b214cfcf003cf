package transcription

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"court-service/internal/adapter/storage"
	"court-service/internal/domain/auth"
	"court-service/internal/domain/pagination"
	domain "court-service/internal/domain/transcription"
	"court-service/internal/usecase"
	apperrors "court-service/pkg/errors"
	"court-service/pkg/metrics"
)

// Config holds the limits applied to uploads.
type Config struct {
	DefaultLanguage string
	MaxChunkSize    int64
	MaxUploadSize   int64
}

// Usecase implements live sessions and offline transcription jobs.
type Usecase struct {
	repo        Repository
	transcriber Transcriber
	publisher   Publisher
	queue       Queue
	files       FileStore
	cfg         Config
	metrics     *metrics.Metrics
	log         *zap.Logger
	validate    *validator.Validate
	now         func() time.Time
}

// New creates a transcription Usecase. transcriber and publisher may be nil.
func New(r Repository, t Transcriber, p Publisher, q Queue, files FileStore, cfg Config, m *metrics.Metrics, log *zap.Logger) *Usecase {
	if cfg.DefaultLanguage == "" {
		cfg.DefaultLanguage = "en-NG"
	}
	if m == nil {
		m = metrics.NewNop()
	}
	return &Usecase{
		repo:        r,
		transcriber: t,
		publisher:   p,
		queue:       q,
		files:       files,
		cfg:         cfg,
		metrics:     m,
		log:         log,
		validate:    usecase.NewValidator(),
		now:         time.Now,
	}
}

// StartSession opens an active session.
func (uc *Usecase) StartSession(ctx context.Context, p auth.Principal, in StartSessionRequest) (*domain.Session, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, usecase.FormatValidationError(err)
	}

	s := &domain.Session{
		ID:        uuid.NewString(),
		CaseID:    in.CaseID,
		Title:     strings.TrimSpace(in.Title),
		CourtRoom: strings.TrimSpace(in.CourtRoom),
		Language:  orDefault(in.Language, uc.cfg.DefaultLanguage),
		Status:    domain.SessionActive,
		StartedBy: p.UserID,
		StartedAt: uc.now().UTC(),
	}
	if err := uc.repo.CreateSession(ctx, s); err != nil {
		return nil, err
	}

	uc.log.Info("transcription session started", zap.String("session_id", s.ID), zap.Int64("user_id", p.UserID))
	return s, nil
}

// StopSession stops an active session and stores its rendered transcript.
func (uc *Usecase) StopSession(ctx context.Context, p auth.Principal, id string) (*domain.Session, error) {
	s, err := uc.repo.StopSession(ctx, id, uc.now().UTC(), domain.RenderTranscript)
	if err != nil {
		return nil, err
	}

	uc.log.Info("transcription session stopped",
		zap.String("session_id", id),
		zap.Int("segments", s.SegmentCount),
		zap.Int64("user_id", p.UserID),
	)
	return s, nil
}

// GetSession returns a session with its segments.
func (uc *Usecase) GetSession(ctx context.Context, id string) (*SessionDetail, error) {
	s, err := uc.repo.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	segments, err := uc.repo.ListSegments(ctx, id)
	if err != nil {
		return nil, err
	}
	return &SessionDetail{Session: s, Segments: segments}, nil
}

// TranscribeChunk transcribes one audio chunk of a live session and appends it as
// the next segment.
func (uc *Usecase) TranscribeChunk(ctx context.Context, p auth.Principal, in ChunkRequest) (*ChunkResponse, error) {
	if uc.transcriber == nil {
		return nil, apperrors.With(apperrors.ErrUnavailable, "transcription provider is not configured")
	}
	if err := uc.validate.Struct(in.Metadata); err != nil {
		return nil, usecase.FormatValidationError(err)
	}
	if len(in.Audio) == 0 {
		return nil, apperrors.NewValidationError("audio_file", "audio chunk is empty")
	}
	if uc.cfg.MaxChunkSize > 0 && int64(len(in.Audio)) > uc.cfg.MaxChunkSize {
		return nil, apperrors.NewValidationError("audio_file", fmt.Sprintf("audio chunk exceeds %d bytes", uc.cfg.MaxChunkSize))
	}

	meta := in.Metadata
	s, err := uc.repo.GetSession(ctx, meta.SessionID)
	if err != nil {
		return nil, err
	}
	if s.Status != domain.SessionActive {
		return nil, apperrors.With(apperrors.ErrConflict, "transcription session %s is not active", s.ID)
	}

	language := orDefault(meta.Language, s.Language)
	started := uc.now()
	res, err := uc.transcriber.Transcribe(ctx, bytes.NewReader(in.Audio), domain.Options{
		FileName: orDefault(in.FileName, "chunk.webm"),
		Language: language,
	})
	uc.metrics.TranscriptionLatency.Observe(time.Since(started).Seconds())
	if err != nil {
		uc.metrics.TranscriptionSegments.WithLabelValues("error").Inc()
		uc.log.Error("transcription provider failed", zap.String("session_id", s.ID), zap.Error(err))
		return nil, apperrors.Wrap(apperrors.ErrUnavailable, err, "transcription provider failed")
	}

	out := &ChunkResponse{SessionID: s.ID, Text: strings.TrimSpace(res.Text)}
	if out.Text == "" {
		uc.metrics.TranscriptionSegments.WithLabelValues("empty").Inc()
		return out, nil
	}

	seg := &domain.Segment{
		ID:        uuid.NewString(),
		SessionID: s.ID,
		Speaker: domain.ResolveSpeaker(domain.Speaker{
			ID:   meta.SpeakerID,
			Name: meta.SpeakerName,
			Role: meta.SpeakerRole,
		}, meta.KnownSpeakers),
		Text:        out.Text,
		Language:    orDefault(res.Language, language),
		Confidence:  res.Confidence,
		StartOffset: meta.OffsetSeconds,
		EndOffset:   meta.OffsetSeconds + res.Duration,
		CreatedBy:   p.UserID,
		CreatedAt:   uc.now().UTC(),
	}
	if err := uc.repo.AppendSegment(ctx, seg); err != nil {
		return nil, err
	}
	uc.metrics.TranscriptionSegments.WithLabelValues("ok").Inc()

	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, seg); err != nil {
			uc.log.Warn("failed to publish segment", zap.String("session_id", s.ID), zap.Error(err))
		}
	}

	out.Segment = seg
	return out, nil
}

// SubmitJob stores a recording and queues it for transcription.
func (uc *Usecase) SubmitJob(ctx context.Context, p auth.Principal, in SubmitJobRequest) (*domain.Job, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, usecase.FormatValidationError(err)
	}
	if in.Body == nil {
		return nil, apperrors.NewValidationError("audio_file", "audio file is required")
	}

	id := uuid.NewString()
	dir := domain.AudioDir(id)
	obj, err := uc.files.Save(ctx, dir, in.FileName, in.Body, uc.cfg.MaxUploadSize)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, apperrors.NewValidationError("audio_file", "file too large")
		}
		return nil, apperrors.NewInternalError("failed to store audio", err)
	}
	if obj.Size == 0 {
		_ = uc.files.RemoveDir(dir)
		return nil, apperrors.NewValidationError("audio_file", "audio file is empty")
	}

	job := &domain.Job{
		ID:          id,
		SessionID:   in.SessionID,
		CaseID:      in.CaseID,
		FileName:    in.FileName,
		AudioPath:   obj.Path,
		Language:    orDefault(in.Language, uc.cfg.DefaultLanguage),
		Status:      domain.JobPending,
		SubmittedBy: p.UserID,
	}
	if err := uc.repo.CreateJob(ctx, job); err != nil {
		_ = uc.files.RemoveDir(dir)
		return nil, err
	}

	if err := uc.queue.EnqueueTranscription(ctx, id); err != nil {
		uc.log.Error("failed to enqueue transcription job", zap.String("job_id", id), zap.Error(err))
		_ = uc.repo.DeleteJob(ctx, id)
		_ = uc.files.RemoveDir(dir)
		return nil, apperrors.NewInternalError("failed to queue transcription job", err)
	}

	uc.metrics.TranscriptionJobs.WithLabelValues(string(domain.JobPending)).Inc()
	uc.log.Info("transcription job submitted", zap.String("job_id", id), zap.Int64("size", obj.Size))
	return job, nil
}

// ListJobs returns a page of jobs. Callers other than judges and admins only see their own.
func (uc *Usecase) ListJobs(ctx context.Context, p auth.Principal, page, limit int64) (*ListJobsResponse, error) {
	page, limit = pagination.Normalize(page, limit)

	var owner *int64
	if !p.IsPrivileged() {
		owner = &p.UserID
	}
	jobs, total, err := uc.repo.ListJobs(ctx, owner, page, limit)
	if err != nil {
		return nil, err
	}
	return &ListJobsResponse{Jobs: jobs, Pagination: pagination.New(total, page, limit)}, nil
}

// GetJob returns a job visible to p.
func (uc *Usecase) GetJob(ctx context.Context, p auth.Principal, id string) (*domain.Job, error) {
	job, err := uc.repo.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.SubmittedBy != p.UserID && !p.IsPrivileged() {
		return nil, apperrors.With(apperrors.ErrForbidden, "not allowed to access this job")
	}
	return job, nil
}

// GetJobResult returns the transcript of a completed job.
func (uc *Usecase) GetJobResult(ctx context.Context, p auth.Principal, id string) (*JobResult, error) {
	job, err := uc.GetJob(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if job.Status != domain.JobCompleted {
		return nil, apperrors.NewValidationError("status", fmt.Sprintf("job is %s, not completed", job.Status))
	}
	return &JobResult{
		JobID:      job.ID,
		FileName:   job.FileName,
		Language:   job.Language,
		Duration:   job.Duration,
		Transcript: job.Transcript,
	}, nil
}

// DeleteJob removes a job and its audio. Only the owner or an admin may delete.
func (uc *Usecase) DeleteJob(ctx context.Context, p auth.Principal, id string) error {
	job, err := uc.repo.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if job.SubmittedBy != p.UserID && !p.HasRole(auth.RoleAdmin) {
		return apperrors.With(apperrors.ErrForbidden, "not allowed to delete this job")
	}

	if err := uc.repo.DeleteJob(ctx, id); err != nil {
		return err
	}
	if err := uc.files.RemoveDir(domain.AudioDir(id)); err != nil {
		uc.log.Warn("failed to remove job audio", zap.String("job_id", id), zap.Error(err))
	}
	return nil
}

// ProcessJob runs the provider over a queued job. A NOT_FOUND error means the job
// was deleted and must not be retried. On finalAttempt a provider failure marks the
// job failed; earlier failures leave it processing for the next retry.
func (uc *Usecase) ProcessJob(ctx context.Context, id string, finalAttempt bool) error {
	job, err := uc.repo.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if job.Status == domain.JobCompleted {
		return nil
	}
	log := uc.log.With(zap.String("job_id", id))

	job.Status = domain.JobProcessing
	job.Progress = 10
	job.Error = ""
	if err := uc.repo.UpdateJob(ctx, job); err != nil {
		return err
	}

	res, err := uc.transcribeJob(ctx, job)
	if err != nil {
		log.Warn("transcription attempt failed", zap.Bool("final", finalAttempt), zap.Error(err))
		if finalAttempt {
			job.Status = domain.JobFailed
			job.Error = err.Error()
			if uerr := uc.repo.UpdateJob(ctx, job); uerr != nil {
				log.Error("failed to mark job failed", zap.Error(uerr))
			}
			uc.metrics.TranscriptionJobs.WithLabelValues(string(domain.JobFailed)).Inc()
		}
		return err
	}

	completed := uc.now().UTC()
	job.Status = domain.JobCompleted
	job.Progress = 100
	job.Transcript = strings.TrimSpace(res.Text)
	job.Duration = res.Duration
	job.Language = orDefault(res.Language, job.Language)
	job.CompletedAt = &completed
	if err := uc.repo.UpdateJob(ctx, job); err != nil {
		return err
	}

	uc.metrics.TranscriptionJobs.WithLabelValues(string(domain.JobCompleted)).Inc()
	log.Info("transcription job completed", zap.Float64("duration", res.Duration))
	return nil
}

func (uc *Usecase) transcribeJob(ctx context.Context, job *domain.Job) (*domain.Result, error) {
	if uc.transcriber == nil {
		return nil, errors.New("transcription provider is not configured")
	}
	f, err := uc.files.Open(job.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	started := uc.now()
	res, err := uc.transcriber.Transcribe(ctx, f, domain.Options{FileName: job.FileName, Language: job.Language})
	uc.metrics.TranscriptionLatency.Observe(time.Since(started).Seconds())
	return res, err
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
