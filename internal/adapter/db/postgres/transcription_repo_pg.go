package postgres

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"court-service/internal/domain/pagination"
	"court-service/internal/domain/transcription"
	apperrors "court-service/pkg/errors"
)

// TranscriptionRepoPG stores live sessions, their segments and offline jobs.
type TranscriptionRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewTranscriptionRepoPG creates a new instance of TranscriptionRepoPG.
func NewTranscriptionRepoPG(db *gorm.DB, log *zap.Logger) *TranscriptionRepoPG {
	return &TranscriptionRepoPG{db: db, log: log}
}

// CreateSession inserts a new live session.
func (r *TranscriptionRepoPG) CreateSession(ctx context.Context, s *transcription.Session) error {
	model := TranscriptionSessionSchema{
		ID:        s.ID,
		CaseID:    s.CaseID,
		Title:     s.Title,
		CourtRoom: s.CourtRoom,
		Language:  s.Language,
		Status:    string(s.Status),
		StartedBy: s.StartedBy,
		StartedAt: s.StartedAt,
	}
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create transcription session", zap.Error(err), zap.String("session_id", s.ID))
		return translate(err, "transcription session")
	}
	return nil
}

// GetSession retrieves a session by ID.
func (r *TranscriptionRepoPG) GetSession(ctx context.Context, id string) (*transcription.Session, error) {
	var m TranscriptionSessionSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("failed to get transcription session", zap.Error(err), zap.String("session_id", id))
		}
		return nil, translate(err, "transcription session")
	}
	return sessionFromSchema(m), nil
}

// StopSession marks an active session stopped and stores the transcript render
// produces from its segments. The session row stays locked from the segment read
// to the status change, so AppendSegment either lands before the render or fails
// with CONFLICT. A session that is no longer active also yields CONFLICT.
func (r *TranscriptionRepoPG) StopSession(ctx context.Context, id string, stoppedAt time.Time,
	render func(*transcription.Session, []transcription.Segment) string) (*transcription.Session, error) {
	var stopped *transcription.Session
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m TranscriptionSessionSchema
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&m).Error; err != nil {
			return translate(err, "transcription session")
		}
		if m.Status != string(transcription.SessionActive) {
			return apperrors.With(apperrors.ErrConflict, "transcription session %s is not active", id)
		}

		segments, err := listSegments(tx, id)
		if err != nil {
			return translate(err, "segment")
		}

		s := sessionFromSchema(m)
		s.Status = transcription.SessionStopped
		s.StoppedAt = &stoppedAt
		s.SegmentCount = len(segments)
		s.Transcript = render(s, segments)

		if err := tx.Model(&TranscriptionSessionSchema{}).Where("id = ?", id).
			Updates(map[string]any{
				"status":        string(s.Status),
				"stopped_at":    stoppedAt,
				"transcript":    s.Transcript,
				"segment_count": s.SegmentCount,
			}).Error; err != nil {
			return translate(err, "transcription session")
		}
		stopped = s
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInternal) {
			r.log.Error("failed to stop transcription session", zap.Error(err), zap.String("session_id", id))
		}
		return nil, err
	}
	return stopped, nil
}

// AppendSegment stores seg as the next segment of its session and sets seg.Sequence.
// The session counter is bumped and read inside one transaction so concurrent
// chunks never share a sequence number.
func (r *TranscriptionRepoPG) AppendSegment(ctx context.Context, seg *transcription.Segment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&TranscriptionSessionSchema{}).
			Where("id = ? AND status = ?", seg.SessionID, string(transcription.SessionActive)).
			UpdateColumn("segment_count", gorm.Expr("segment_count + 1"))
		if res.Error != nil {
			return translate(res.Error, "transcription session")
		}
		if res.RowsAffected == 0 {
			return apperrors.With(apperrors.ErrConflict, "transcription session %s is not active", seg.SessionID)
		}

		var count int
		if err := tx.Model(&TranscriptionSessionSchema{}).Where("id = ?", seg.SessionID).
			Select("segment_count").Scan(&count).Error; err != nil {
			return translate(err, "transcription session")
		}
		seg.Sequence = count

		model := SegmentSchema{
			ID:          seg.ID,
			SessionID:   seg.SessionID,
			Sequence:    seg.Sequence,
			SpeakerID:   seg.Speaker.ID,
			SpeakerName: seg.Speaker.Name,
			SpeakerRole: seg.Speaker.Role,
			Text:        seg.Text,
			Language:    seg.Language,
			Confidence:  seg.Confidence,
			StartOffset: seg.StartOffset,
			EndOffset:   seg.EndOffset,
			CreatedBy:   seg.CreatedBy,
			CreatedAt:   seg.CreatedAt,
		}
		if err := tx.Create(&model).Error; err != nil {
			r.log.Error("failed to append segment", zap.Error(err), zap.String("session_id", seg.SessionID))
			return translate(err, "segment")
		}
		seg.CreatedAt = model.CreatedAt
		return nil
	})
}

// ListSegments returns the segments of a session in sequence order.
func (r *TranscriptionRepoPG) ListSegments(ctx context.Context, sessionID string) ([]transcription.Segment, error) {
	segments, err := listSegments(r.db.WithContext(ctx), sessionID)
	if err != nil {
		r.log.Error("failed to list segments", zap.Error(err), zap.String("session_id", sessionID))
		return nil, translate(err, "segment")
	}
	return segments, nil
}

func listSegments(db *gorm.DB, sessionID string) ([]transcription.Segment, error) {
	var models []SegmentSchema
	if err := db.Where("session_id = ?", sessionID).Order("sequence ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	segments := make([]transcription.Segment, len(models))
	for i, m := range models {
		segments[i] = transcription.Segment{
			ID:          m.ID,
			SessionID:   m.SessionID,
			Sequence:    m.Sequence,
			Speaker:     transcription.Speaker{ID: m.SpeakerID, Name: m.SpeakerName, Role: m.SpeakerRole},
			Text:        m.Text,
			Language:    m.Language,
			Confidence:  m.Confidence,
			StartOffset: m.StartOffset,
			EndOffset:   m.EndOffset,
			CreatedBy:   m.CreatedBy,
			CreatedAt:   m.CreatedAt,
		}
	}
	return segments, nil
}

func sessionFromSchema(m TranscriptionSessionSchema) *transcription.Session {
	return &transcription.Session{
		ID:           m.ID,
		CaseID:       m.CaseID,
		Title:        m.Title,
		CourtRoom:    m.CourtRoom,
		Language:     m.Language,
		Status:       transcription.SessionStatus(m.Status),
		StartedBy:    m.StartedBy,
		StartedAt:    m.StartedAt,
		StoppedAt:    m.StoppedAt,
		SegmentCount: m.SegmentCount,
		Transcript:   m.Transcript,
	}
}

// CreateJob inserts an offline transcription job.
func (r *TranscriptionRepoPG) CreateJob(ctx context.Context, j *transcription.Job) error {
	model := jobToSchema(j)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create transcription job", zap.Error(err), zap.String("job_id", j.ID))
		return translate(err, "transcription job")
	}
	j.CreatedAt = model.CreatedAt
	j.UpdatedAt = model.UpdatedAt
	return nil
}

// GetJob retrieves a job by ID.
func (r *TranscriptionRepoPG) GetJob(ctx context.Context, id string) (*transcription.Job, error) {
	var m JobSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("failed to get transcription job", zap.Error(err), zap.String("job_id", id))
		}
		return nil, translate(err, "transcription job")
	}
	return jobFromSchema(m), nil
}

// UpdateJob persists the processing state of j.
func (r *TranscriptionRepoPG) UpdateJob(ctx context.Context, j *transcription.Job) error {
	res := r.db.WithContext(ctx).Model(&JobSchema{ID: j.ID}).
		Select("status", "progress", "error", "transcript", "duration", "language", "completed_at", "updated_at").
		Updates(&JobSchema{
			Status:      string(j.Status),
			Progress:    j.Progress,
			Error:       j.Error,
			Transcript:  j.Transcript,
			Duration:    j.Duration,
			Language:    j.Language,
			CompletedAt: j.CompletedAt,
		})
	if res.Error != nil {
		r.log.Error("failed to update transcription job", zap.Error(res.Error), zap.String("job_id", j.ID))
		return translate(res.Error, "transcription job")
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError("transcription job", "")
	}
	return nil
}

// ListJobs returns one page of jobs, newest first. A nil submittedBy lists every job.
func (r *TranscriptionRepoPG) ListJobs(ctx context.Context, submittedBy *int64, page, limit int64) ([]transcription.Job, int64, error) {
	tx := r.db.WithContext(ctx).Model(&JobSchema{})
	if submittedBy != nil {
		tx = tx.Where("submitted_by = ?", *submittedBy)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		r.log.Error("failed to count transcription jobs", zap.Error(err))
		return nil, 0, translate(err, "transcription job")
	}

	var models []JobSchema
	if err := tx.Order("created_at DESC").Offset(pagination.Offset(page, limit)).Limit(int(limit)).
		Find(&models).Error; err != nil {
		r.log.Error("failed to list transcription jobs", zap.Error(err))
		return nil, 0, translate(err, "transcription job")
	}

	jobs := make([]transcription.Job, len(models))
	for i, m := range models {
		jobs[i] = *jobFromSchema(m)
	}
	return jobs, total, nil
}

// DeleteJob removes a job by ID.
func (r *TranscriptionRepoPG) DeleteJob(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&JobSchema{})
	if res.Error != nil {
		r.log.Error("failed to delete transcription job", zap.Error(res.Error), zap.String("job_id", id))
		return translate(res.Error, "transcription job")
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError("transcription job", "")
	}
	r.log.Info("transcription job deleted", zap.String("job_id", id))
	return nil
}

func jobToSchema(j *transcription.Job) JobSchema {
	return JobSchema{
		ID:          j.ID,
		SessionID:   j.SessionID,
		CaseID:      j.CaseID,
		FileName:    j.FileName,
		AudioPath:   j.AudioPath,
		Language:    j.Language,
		Status:      string(j.Status),
		Progress:    j.Progress,
		Error:       j.Error,
		Transcript:  j.Transcript,
		Duration:    j.Duration,
		SubmittedBy: j.SubmittedBy,
		CompletedAt: j.CompletedAt,
	}
}

func jobFromSchema(m JobSchema) *transcription.Job {
	return &transcription.Job{
		ID:          m.ID,
		SessionID:   m.SessionID,
		CaseID:      m.CaseID,
		FileName:    m.FileName,
		AudioPath:   m.AudioPath,
		Language:    m.Language,
		Status:      transcription.JobStatus(m.Status),
		Progress:    m.Progress,
		Error:       m.Error,
		Transcript:  m.Transcript,
		Duration:    m.Duration,
		SubmittedBy: m.SubmittedBy,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		CompletedAt: m.CompletedAt,
	}
}
