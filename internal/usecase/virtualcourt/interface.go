package virtualcourt

import (
	"context"

	"court-service/internal/domain/casefile"
	domain "court-service/internal/domain/courtsession"
)

// Repository defines virtual court session data access.
type Repository interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	UpdateStatus(ctx context.Context, s *domain.Session, from domain.Status) error
	UpdateParticipants(ctx context.Context, id string, apply func(*domain.Session) error) (*domain.Session, error)
	List(ctx context.Context, caseID int64, status string, page, limit int64) ([]domain.Session, int64, error)
}

// CaseReader resolves the case a session is scheduled for.
type CaseReader interface {
	GetByID(ctx context.Context, id int64) (*casefile.Case, error)
}
