package virtualcourt

import (
	"time"

	domain "court-service/internal/domain/courtsession"
	"court-service/internal/domain/pagination"
)

// CreateSessionRequest schedules a virtual hearing.
type CreateSessionRequest struct {
	CaseID          int64     `json:"case_id" validate:"required,gt=0"`
	Title           string    `json:"title" validate:"required,max=255"`
	Description     string    `json:"description" validate:"max=2000"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"omitempty,gt=0,max=1440"`
}

// JoinRequest joins a session with a role access code.
type JoinRequest struct {
	Role       string `json:"role" validate:"required"`
	AccessCode string `json:"access_code" validate:"required"`
}

// PostponeRequest moves a session to a new time.
type PostponeRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Reason      string    `json:"reason" validate:"required,max=1000"`
}

// CancelRequest calls off a session.
type CancelRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// ListSessionsRequest filters sessions.
type ListSessionsRequest struct {
	CaseID int64
	Status string
	Page   int64
	Limit  int64
}

// ListSessionsResponse is one page of sessions.
type ListSessionsResponse struct {
	Sessions   []domain.Session       `json:"sessions"`
	Pagination *pagination.Pagination `json:"pagination"`
}

// JoinResponse confirms a join.
type JoinResponse struct {
	SessionID   string             `json:"session_id"`
	Participant domain.Participant `json:"participant"`
	Status      domain.Status      `json:"status"`
}

// LeaveResponse confirms a participant left.
type LeaveResponse struct {
	SessionID   string             `json:"session_id"`
	Participant domain.Participant `json:"participant"`
}
