// Package user administers court accounts: provisioning, role changes and deactivation.
package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	domain "court-service/internal/domain/auth"
	"court-service/internal/domain/pagination"
	"court-service/internal/usecase"
	apperrors "court-service/pkg/errors"
)

var errSelfLockout = apperrors.With(apperrors.ErrConflict, "administrators cannot demote or deactivate their own account")

// Usecase implements the business logic for user management operations.
type Usecase struct {
	repo     Repository
	log      *zap.Logger
	validate *validator.Validate
	cost     int
}

// New creates a new instance of Usecase with the provided repository and logger.
func New(r Repository, log *zap.Logger) *Usecase {
	return &Usecase{repo: r, log: log, validate: usecase.NewValidator(), cost: bcrypt.DefaultCost}
}

// CreateUser provisions an account with a bcrypt-hashed password after checking
// username and email uniqueness.
func (uc *Usecase) CreateUser(ctx context.Context, in CreateUserRequest) (*domain.User, error) {
	uc.log.Info("creating user", zap.String("username", in.Username), zap.String("role", in.Role))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, usecase.FormatValidationError(err)
	}
	if !domain.ValidRole(in.Role) {
		return nil, apperrors.NewValidationError("role", fmt.Sprintf("unknown role %q", in.Role))
	}

	existing, err := uc.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		uc.log.Error("failed to check existing username", zap.Error(err))
		return nil, apperrors.NewInternalError("failed to validate username uniqueness", err)
	}
	if existing != nil {
		return nil, apperrors.NewAlreadyExistsError("user", "username already exists")
	}
	if err := uc.ensureEmailFree(ctx, in.Email, 0); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to hash password", err)
	}

	u := &domain.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        in.Email,
		FullName:     in.FullName,
		Role:         domain.Role(in.Role),
		Court:        in.Court,
		PasswordHash: string(hash),
		Active:       true,
	}
	id, err := uc.repo.Create(ctx, u)
	if err != nil {
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, err
	}
	u.ID = id

	uc.log.Info("user created", zap.Int64("user_id", id), zap.String("role", in.Role))
	return u, nil
}

// GetUser retrieves a user by ID.
func (uc *Usecase) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if id <= 0 {
		return nil, apperrors.NewValidationError("id", "invalid user id")
	}
	return uc.repo.GetByID(ctx, id)
}

// UpdateUser applies a partial update. An administrator cannot demote or
// deactivate their own account.
func (uc *Usecase) UpdateUser(ctx context.Context, p domain.Principal, id int64, in UpdateUserRequest) (*domain.User, error) {
	uc.log.Info("updating user", zap.Int64("id", id), zap.Int64("by", p.UserID))

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, usecase.FormatValidationError(err)
	}
	if in.Role != nil && !domain.ValidRole(*in.Role) {
		return nil, apperrors.NewValidationError("role", fmt.Sprintf("unknown role %q", *in.Role))
	}
	if id == p.UserID && ((in.Active != nil && !*in.Active) || (in.Role != nil && domain.Role(*in.Role) != p.Role)) {
		return nil, errSelfLockout
	}

	u, err := uc.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && !strings.EqualFold(*in.Email, u.Email) {
		if err := uc.ensureEmailFree(ctx, *in.Email, id); err != nil {
			return nil, err
		}
		u.Email = *in.Email
	}
	if in.FullName != nil {
		u.FullName = *in.FullName
	}
	if in.Role != nil {
		u.Role = domain.Role(*in.Role)
	}
	if in.Court != nil {
		u.Court = *in.Court
	}
	if in.Active != nil {
		u.Active = *in.Active
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), uc.cost)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to hash password", err)
		}
		u.PasswordHash = string(hash)
	}

	if err := uc.repo.Update(ctx, u); err != nil {
		uc.log.Error("failed to update user", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return u, nil
}

// DeactivateUser disables sign-in for an account. Accounts are never removed
// because warrants, jobs and audit rows reference them.
func (uc *Usecase) DeactivateUser(ctx context.Context, p domain.Principal, id int64) (*domain.User, error) {
	inactive := false
	return uc.UpdateUser(ctx, p, id, UpdateUserRequest{Active: &inactive})
}

// ListUsers retrieves a paginated list of users with optional search and role filter.
func (uc *Usecase) ListUsers(ctx context.Context, in ListUsersRequest) (*ListUsersResponse, error) {
	if in.Role != "" && !domain.ValidRole(in.Role) {
		return nil, apperrors.NewValidationError("role", fmt.Sprintf("unknown role %q", in.Role))
	}
	in.Page, in.Limit = pagination.Normalize(in.Page, in.Limit)

	uc.log.Info("listing users", zap.String("query", in.Query), zap.Int64("page", in.Page), zap.Int64("limit", in.Limit))

	users, total, err := uc.repo.List(ctx, domain.UserFilter{
		Query:  in.Query,
		Role:   in.Role,
		Active: in.Active,
		Page:   in.Page,
		Limit:  in.Limit,
	})
	if err != nil {
		return nil, err
	}

	return &ListUsersResponse{
		Users:      users,
		Pagination: pagination.New(total, in.Page, in.Limit),
	}, nil
}

func (uc *Usecase) ensureEmailFree(ctx context.Context, email string, self int64) error {
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		uc.log.Error("failed to check existing email", zap.Error(err))
		return apperrors.NewInternalError("failed to validate email uniqueness", err)
	}
	if existing != nil && existing.ID != self {
		uc.log.Warn("email already exists", zap.Int64("existing_id", existing.ID))
		return apperrors.NewAlreadyExistsError("user", "email already exists")
	}
	return nil
}
