package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	apperrors "court-service/pkg/errors"
	"court-service/pkg/security"
)

const uniqueViolation = "23505"

// translate maps driver errors onto application error kinds.
func translate(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFoundError(resource, "")
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.NewAlreadyExistsError(resource, "")
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperrors.NewAlreadyExistsError(resource, "")
	}
	return apperrors.NewInternalError("failed to access "+resource, err)
}

// likePattern builds a case-insensitive contains pattern with wildcards escaped.
func likePattern(query string) string {
	return "%" + security.SanitizeSearchString(query) + "%"
}

const likeClause = `LOWER(%s) LIKE LOWER(?) ESCAPE '\'`
