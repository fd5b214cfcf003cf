package user

import (
	"context"

	domain "court-service/internal/domain/auth"
)

// Repository defines the data access the user administration needs.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	List(ctx context.Context, f domain.UserFilter) ([]domain.User, int64, error)
}
