package virtualcourt

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"court-service/internal/domain/auth"
	domain "court-service/internal/domain/courtsession"
	"court-service/internal/domain/pagination"
	"court-service/internal/usecase"
	apperrors "court-service/pkg/errors"
)

const defaultDuration = 60

// Usecase implements virtual court scheduling and attendance.
type Usecase struct {
	repo     Repository
	cases    CaseReader
	log      *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

// New creates a virtual court Usecase.
func New(r Repository, cases CaseReader, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, cases: cases, log: log, validate: usecase.NewValidator(), now: time.Now}
}

// CreateSession schedules a session and returns it with its access codes.
func (uc *Usecase) CreateSession(ctx context.Context, p auth.Principal, in CreateSessionRequest) (*domain.Session, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, usecase.FormatValidationError(err)
	}
	if _, err := uc.cases.GetByID(ctx, in.CaseID); err != nil {
		return nil, err
	}

	duration := in.DurationMinutes
	if duration == 0 {
		duration = defaultDuration
	}
	s := &domain.Session{
		ID:              uuid.NewString(),
		CaseID:          in.CaseID,
		Title:           strings.TrimSpace(in.Title),
		Description:     strings.TrimSpace(in.Description),
		ScheduledAt:     in.ScheduledAt.UTC(),
		DurationMinutes: duration,
		Status:          domain.StatusScheduled,
		JudgeID:         p.UserID,
		AccessCodes:     domain.NewAccessCodes(),
		Participants:    []domain.Participant{},
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}

	uc.log.Info("virtual court session scheduled",
		zap.String("session_id", s.ID),
		zap.Int64("case_id", s.CaseID),
		zap.Time("scheduled_at", s.ScheduledAt),
	)
	return s, nil
}

// GetSession returns a session. Access codes are only shown to its judge and admins.
func (uc *Usecase) GetSession(ctx context.Context, p auth.Principal, id string) (*domain.Session, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	redact(p, s)
	return s, nil
}

// ListSessions returns a page of sessions.
func (uc *Usecase) ListSessions(ctx context.Context, p auth.Principal, in ListSessionsRequest) (*ListSessionsResponse, error) {
	page, limit := pagination.Normalize(in.Page, in.Limit)
	if in.Status != "" && !validStatus(in.Status) {
		return nil, apperrors.NewValidationError("status", fmt.Sprintf("unknown status %q", in.Status))
	}

	sessions, total, err := uc.repo.List(ctx, in.CaseID, in.Status, page, limit)
	if err != nil {
		return nil, err
	}
	for i := range sessions {
		redact(p, &sessions[i])
	}
	return &ListSessionsResponse{Sessions: sessions, Pagination: pagination.New(total, page, limit)}, nil
}

// Join admits p to a session when the access code matches the requested role.
func (uc *Usecase) Join(ctx context.Context, p auth.Principal, id string, in JoinRequest) (*JoinResponse, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, usecase.FormatValidationError(err)
	}
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if !domain.ValidRole(role) {
		return nil, apperrors.NewValidationError("role", fmt.Sprintf("unknown participant role %q", in.Role))
	}

	code := strings.ToUpper(strings.TrimSpace(in.AccessCode))

	var participant domain.Participant
	s, err := uc.repo.UpdateParticipants(ctx, id, func(s *domain.Session) error {
		if !s.Joinable() {
			return apperrors.With(apperrors.ErrConflict, "session is %s and cannot be joined", s.Status)
		}
		if subtle.ConstantTimeCompare([]byte(code), []byte(s.AccessCodes[role])) != 1 {
			return apperrors.With(apperrors.ErrForbidden, "invalid access code for role %s", role)
		}
		participant = domain.Participant{UserID: p.UserID, Name: p.Name, Role: role, JoinedAt: uc.now().UTC()}
		s.Participants = append(s.Participants, participant)
		return nil
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			uc.log.Warn("invalid access code", zap.String("session_id", id), zap.String("role", role), zap.Int64("user_id", p.UserID))
		}
		return nil, err
	}

	uc.log.Info("participant joined", zap.String("session_id", id), zap.String("role", role), zap.Int64("user_id", p.UserID))
	return &JoinResponse{SessionID: s.ID, Participant: participant, Status: s.Status}, nil
}

// Leave closes the caller's attendance of a session.
func (uc *Usecase) Leave(ctx context.Context, p auth.Principal, id string) (*LeaveResponse, error) {
	var left domain.Participant
	_, err := uc.repo.UpdateParticipants(ctx, id, func(s *domain.Session) error {
		var err error
		left, err = s.Leave(p.UserID, uc.now().UTC())
		if errors.Is(err, domain.ErrNotParticipant) {
			return apperrors.With(apperrors.ErrConflict, "you are not attending session %s", id)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info("participant left", zap.String("session_id", id), zap.Int64("user_id", p.UserID))
	return &LeaveResponse{SessionID: id, Participant: left}, nil
}

// StartSession moves a session in progress.
func (uc *Usecase) StartSession(ctx context.Context, p auth.Principal, id string) (*domain.Session, error) {
	now := uc.now().UTC()
	return uc.transition(ctx, p, id, "start", func(s *domain.Session) error { return s.Start(now) })
}

// EndSession completes an in-progress session.
func (uc *Usecase) EndSession(ctx context.Context, p auth.Principal, id string) (*domain.Session, error) {
	now := uc.now().UTC()
	return uc.transition(ctx, p, id, "end", func(s *domain.Session) error { return s.End(now) })
}

// PostponeSession moves a session that has not started to a later time.
func (uc *Usecase) PostponeSession(ctx context.Context, p auth.Principal, id string, in PostponeRequest) (*domain.Session, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, usecase.FormatValidationError(err)
	}
	now := uc.now().UTC()
	return uc.transition(ctx, p, id, "postpone", func(s *domain.Session) error {
		return s.Postpone(now, in.ScheduledAt.UTC(), strings.TrimSpace(in.Reason))
	})
}

// CancelSession calls off a session that has not started.
func (uc *Usecase) CancelSession(ctx context.Context, p auth.Principal, id string, in CancelRequest) (*domain.Session, error) {
	if err := uc.validate.Struct(in); err != nil {
		return nil, usecase.FormatValidationError(err)
	}
	return uc.transition(ctx, p, id, "cancel", func(s *domain.Session) error {
		return s.Cancel(strings.TrimSpace(in.Reason))
	})
}

// transition applies a status change and saves it only if nobody changed the
// status in between.
func (uc *Usecase) transition(ctx context.Context, p auth.Principal, id, action string, apply func(*domain.Session) error) (*domain.Session, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.JudgeID != p.UserID && !p.HasRole(auth.RoleAdmin) {
		return nil, apperrors.With(apperrors.ErrForbidden, "only the presiding judge can %s this session", action)
	}

	from := s.Status
	if err := apply(s); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTransition):
			return nil, apperrors.With(apperrors.ErrConflict, "cannot %s a session that is %s", action, from)
		case errors.Is(err, domain.ErrPastSchedule):
			return nil, apperrors.NewValidationError("scheduled_at", "must be in the future")
		}
		return nil, err
	}
	if err := uc.repo.UpdateStatus(ctx, s, from); err != nil {
		return nil, err
	}

	uc.log.Info("virtual court session "+action,
		zap.String("session_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(s.Status)),
	)
	return s, nil
}

func redact(p auth.Principal, s *domain.Session) {
	if s.JudgeID != p.UserID && !p.HasRole(auth.RoleAdmin) {
		s.AccessCodes = nil
	}
}

func validStatus(status string) bool {
	switch domain.Status(status) {
	case domain.StatusScheduled, domain.StatusInProgress, domain.StatusCompleted, domain.StatusPostponed, domain.StatusCancelled:
		return true
	}
	return false
}
