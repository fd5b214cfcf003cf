package auth

import (
	"context"

	domain "court-service/internal/domain/auth"
)

// Repository defines user data access.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}
