package courtsession

import (
	"crypto/rand"
	"errors"
	"time"
)

// Status is the state of a virtual court session.
type Status string

// Session statuses.
const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusPostponed  Status = "postponed"
	StatusCancelled  Status = "cancelled"
)

// Participant roles with their own access code.
const (
	RoleJudge   = "judge"
	RoleCounsel = "counsel"
	RoleWitness = "witness"
	RolePublic  = "public"
)

// AccessRoles lists the roles that receive an access code.
var AccessRoles = []string{RoleJudge, RoleCounsel, RoleWitness, RolePublic}

var (
	// ErrInvalidTransition is returned for a state change the current status forbids.
	ErrInvalidTransition = errors.New("invalid session status transition")
	// ErrNotParticipant is returned when a user leaves a session they are not attending.
	ErrNotParticipant = errors.New("not an attending participant")
	// ErrPastSchedule is returned when a session is moved to a time that has passed.
	ErrPastSchedule = errors.New("new schedule is in the past")
)

// Session is a scheduled virtual hearing.
type Session struct {
	ID              string            `json:"id"`
	CaseID          int64             `json:"case_id"`
	Title           string            `json:"title"`
	Description     string            `json:"description,omitempty"`
	ScheduledAt     time.Time         `json:"scheduled_at"`
	DurationMinutes int               `json:"duration_minutes"`
	Status          Status            `json:"status"`
	JudgeID         int64             `json:"judge_id"`
	AccessCodes     map[string]string `json:"access_codes,omitempty"`
	Participants    []Participant     `json:"participants"`
	StatusReason    string            `json:"status_reason,omitempty"`
	StartedAt       *time.Time        `json:"started_at,omitempty"`
	EndedAt         *time.Time        `json:"ended_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// Participant is someone who joined a session.
type Participant struct {
	UserID   int64      `json:"user_id"`
	Name     string     `json:"name"`
	Role     string     `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
	LeftAt   *time.Time `json:"left_at,omitempty"`
}

// ValidRole reports whether role has an access code.
func ValidRole(role string) bool {
	for _, r := range AccessRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Joinable reports whether participants may join in the current status.
func (s *Session) Joinable() bool {
	return s.Status == StatusScheduled || s.Status == StatusInProgress
}

// Start moves a scheduled or postponed session in progress.
func (s *Session) Start(now time.Time) error {
	if s.Status != StatusScheduled && s.Status != StatusPostponed {
		return ErrInvalidTransition
	}
	s.Status = StatusInProgress
	s.StartedAt = &now
	return nil
}

// End completes an in-progress session.
func (s *Session) End(now time.Time) error {
	if s.Status != StatusInProgress {
		return ErrInvalidTransition
	}
	s.Status = StatusCompleted
	s.EndedAt = &now
	return nil
}

// Postpone moves a scheduled or already postponed session to a later time.
func (s *Session) Postpone(now, scheduledAt time.Time, reason string) error {
	if s.Status != StatusScheduled && s.Status != StatusPostponed {
		return ErrInvalidTransition
	}
	if !scheduledAt.After(now) {
		return ErrPastSchedule
	}
	s.Status = StatusPostponed
	s.ScheduledAt = scheduledAt
	s.StatusReason = reason
	return nil
}

// Cancel calls off a session that has not started.
func (s *Session) Cancel(reason string) error {
	if s.Status != StatusScheduled && s.Status != StatusPostponed {
		return ErrInvalidTransition
	}
	s.Status = StatusCancelled
	s.StatusReason = reason
	return nil
}

// Leave records that userID left. Only the latest attendance is closed.
func (s *Session) Leave(userID int64, now time.Time) (Participant, error) {
	for i := len(s.Participants) - 1; i >= 0; i-- {
		p := &s.Participants[i]
		if p.UserID == userID && p.LeftAt == nil {
			p.LeftAt = &now
			return *p, nil
		}
	}
	return Participant{}, ErrNotParticipant
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewAccessCodes generates a 6-character code per access role.
func NewAccessCodes() map[string]string {
	codes := make(map[string]string, len(AccessRoles))
	for _, role := range AccessRoles {
		codes[role] = newCode(6)
	}
	return codes
}

func newCode(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	for i := range b {
		b[i] = codeAlphabet[int(b[i])%len(codeAlphabet)]
	}
	return string(b)
}
