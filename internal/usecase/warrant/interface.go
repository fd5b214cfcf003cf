package warrant

import (
	"context"

	domain "court-service/internal/domain/warrant"
)

// Repository defines warrant data access.
type Repository interface {
	Create(ctx context.Context, w *domain.Warrant) error
	GetByID(ctx context.Context, id string) (*domain.Warrant, error)
	List(ctx context.Context, f domain.Filter) ([]domain.Warrant, int64, error)
	UpdateStatus(ctx context.Context, w *domain.Warrant) error
	AddTransfer(ctx context.Context, t *domain.Transfer) error
	MarkTransferred(ctx context.Context, id string) error
	GetTransfer(ctx context.Context, id string) (*domain.Transfer, error)
	UpdateTransfer(ctx context.Context, t *domain.Transfer) error
}

// Deliverer hands a warrant to an agency and returns the agency reference.
type Deliverer interface {
	Deliver(ctx context.Context, w *domain.Warrant, t *domain.Transfer) (string, error)
}

// Queue schedules background delivery of a transfer.
type Queue interface {
	EnqueueDelivery(ctx context.Context, transferID string) error
}
