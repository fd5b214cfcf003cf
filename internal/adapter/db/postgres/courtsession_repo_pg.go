package postgres

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"court-service/internal/domain/courtsession"
	"court-service/internal/domain/pagination"
	apperrors "court-service/pkg/errors"
)

// CourtSessionRepoPG stores virtual court sessions.
type CourtSessionRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewCourtSessionRepoPG creates a new instance of CourtSessionRepoPG.
func NewCourtSessionRepoPG(db *gorm.DB, log *zap.Logger) *CourtSessionRepoPG {
	return &CourtSessionRepoPG{db: db, log: log}
}

// Create inserts a session.
func (r *CourtSessionRepoPG) Create(ctx context.Context, s *courtsession.Session) error {
	model := courtSessionToSchema(s)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create court session", zap.Error(err), zap.Int64("case_id", s.CaseID))
		return translate(err, "court session")
	}
	s.CreatedAt = model.CreatedAt
	return nil
}

// GetByID retrieves a session by ID.
func (r *CourtSessionRepoPG) GetByID(ctx context.Context, id string) (*courtsession.Session, error) {
	var m CourtSessionSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("failed to get court session", zap.Error(err), zap.String("session_id", id))
		}
		return nil, translate(err, "court session")
	}
	return courtSessionFromSchema(m), nil
}

// UpdateStatus saves the status fields of s provided the stored status is still
// from. A session moved on by someone else yields CONFLICT.
func (r *CourtSessionRepoPG) UpdateStatus(ctx context.Context, s *courtsession.Session, from courtsession.Status) error {
	res := r.db.WithContext(ctx).Model(&CourtSessionSchema{}).
		Where("id = ? AND status = ?", s.ID, string(from)).
		Updates(map[string]any{
			"status":        string(s.Status),
			"scheduled_at":  s.ScheduledAt,
			"status_reason": s.StatusReason,
			"started_at":    s.StartedAt,
			"ended_at":      s.EndedAt,
		})
	if res.Error != nil {
		r.log.Error("failed to update court session status", zap.Error(res.Error), zap.String("session_id", s.ID))
		return translate(res.Error, "court session")
	}
	if res.RowsAffected == 0 {
		return apperrors.With(apperrors.ErrConflict, "court session %s is no longer %s", s.ID, from)
	}
	return nil
}

// UpdateParticipants locks the session row, lets apply change the participant
// list of the current state and saves only that list. Status changes committed
// concurrently are seen by apply and never overwritten.
func (r *CourtSessionRepoPG) UpdateParticipants(ctx context.Context, id string, apply func(*courtsession.Session) error) (*courtsession.Session, error) {
	var updated *courtsession.Session
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m CourtSessionSchema
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&m).Error; err != nil {
			return translate(err, "court session")
		}

		s := courtSessionFromSchema(m)
		if err := apply(s); err != nil {
			return err
		}

		model := courtSessionToSchema(s)
		if err := tx.Model(&CourtSessionSchema{ID: id}).Select("participants").Updates(&model).Error; err != nil {
			return translate(err, "court session")
		}
		updated = s
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInternal) {
			r.log.Error("failed to update court session participants", zap.Error(err), zap.String("session_id", id))
		}
		return nil, err
	}
	return updated, nil
}

// List returns one page of sessions ordered by schedule. Zero caseID or empty status match all.
func (r *CourtSessionRepoPG) List(ctx context.Context, caseID int64, status string, page, limit int64) ([]courtsession.Session, int64, error) {
	tx := r.db.WithContext(ctx).Model(&CourtSessionSchema{})
	if caseID > 0 {
		tx = tx.Where("case_id = ?", caseID)
	}
	if status != "" {
		tx = tx.Where("status = ?", status)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		r.log.Error("failed to count court sessions", zap.Error(err))
		return nil, 0, translate(err, "court session")
	}

	var models []CourtSessionSchema
	if err := tx.Order("scheduled_at ASC").Offset(pagination.Offset(page, limit)).Limit(int(limit)).
		Find(&models).Error; err != nil {
		r.log.Error("failed to list court sessions", zap.Error(err))
		return nil, 0, translate(err, "court session")
	}

	sessions := make([]courtsession.Session, len(models))
	for i, m := range models {
		sessions[i] = *courtSessionFromSchema(m)
	}
	return sessions, total, nil
}

func courtSessionToSchema(s *courtsession.Session) CourtSessionSchema {
	participants := make([]ParticipantJSON, len(s.Participants))
	for i, p := range s.Participants {
		participants[i] = ParticipantJSON(p)
	}
	return CourtSessionSchema{
		ID:              s.ID,
		CaseID:          s.CaseID,
		Title:           s.Title,
		Description:     s.Description,
		ScheduledAt:     s.ScheduledAt,
		DurationMinutes: s.DurationMinutes,
		Status:          string(s.Status),
		JudgeID:         s.JudgeID,
		AccessCodes:     s.AccessCodes,
		Participants:    participants,
		StatusReason:    s.StatusReason,
		StartedAt:       s.StartedAt,
		EndedAt:         s.EndedAt,
		CreatedAt:       s.CreatedAt,
	}
}

func courtSessionFromSchema(m CourtSessionSchema) *courtsession.Session {
	participants := make([]courtsession.Participant, len(m.Participants))
	for i, p := range m.Participants {
		participants[i] = courtsession.Participant(p)
	}
	return &courtsession.Session{
		ID:              m.ID,
		CaseID:          m.CaseID,
		Title:           m.Title,
		Description:     m.Description,
		ScheduledAt:     m.ScheduledAt,
		DurationMinutes: m.DurationMinutes,
		Status:          courtsession.Status(m.Status),
		JudgeID:         m.JudgeID,
		AccessCodes:     m.AccessCodes,
		Participants:    participants,
		StatusReason:    m.StatusReason,
		StartedAt:       m.StartedAt,
		EndedAt:         m.EndedAt,
		CreatedAt:       m.CreatedAt,
	}
}
