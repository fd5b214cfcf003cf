package casefile

import (
	"context"
	"io"

	"court-service/internal/adapter/storage"
	domain "court-service/internal/domain/casefile"
)

// Repository defines case data access.
type Repository interface {
	Create(ctx context.Context, c *domain.Case) error
	GetByID(ctx context.Context, id int64) (*domain.Case, error)
	GetByNumber(ctx context.Context, number string) (*domain.Case, error)
	Update(ctx context.Context, c *domain.Case) error
	List(ctx context.Context, f domain.Filter) ([]domain.Case, int64, error)
	AddDocument(ctx context.Context, d *domain.Document) error
	ListDocuments(ctx context.Context, caseID int64) ([]domain.Document, error)
}

// FileStore persists uploaded documents.
type FileStore interface {
	Save(ctx context.Context, dir, fileName string, r io.Reader, limit int64) (*storage.Object, error)
	Remove(path string) error
}
