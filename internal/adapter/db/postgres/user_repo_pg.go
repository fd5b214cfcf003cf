package postgres

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"court-service/internal/domain/auth"
	"court-service/internal/domain/pagination"
	apperrors "court-service/pkg/errors"
	"court-service/pkg/security"
)

// UserRepoPG stores court users using PostgreSQL and GORM.
type UserRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// Create inserts a new user and returns its ID.
func (r *UserRepoPG) Create(ctx context.Context, u *auth.User) (int64, error) {
	if u == nil {
		return 0, errors.New("user cannot be nil")
	}

	model := UserSchema{
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         string(u.Role),
		Court:        u.Court,
		PasswordHash: u.PasswordHash,
		Active:       u.Active,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("username", u.Username))
		return 0, translate(err, "user")
	}

	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return model.ID, nil
}

// GetByID retrieves a user by ID.
func (r *UserRepoPG) GetByID(ctx context.Context, id int64) (*auth.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		}
		return nil, translate(err, "user")
	}
	return userFromSchema(model), nil
}

// GetByUsername retrieves a user by username. It returns nil, nil when absent.
func (r *UserRepoPG) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by username", zap.String("username", username))
			return nil, nil
		}
		r.log.Error("failed to get user by username", zap.Error(err), zap.String("username", username))
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return userFromSchema(model), nil
}

// GetByEmail retrieves a user by email. It returns nil, nil when absent.
func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("LOWER(email) = LOWER(?)", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.log.Error("failed to get user by email", zap.Error(err))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return userFromSchema(model), nil
}

// Update writes the mutable fields of u.
func (r *UserRepoPG) Update(ctx context.Context, u *auth.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	model := UserSchema{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         string(u.Role),
		Court:        u.Court,
		PasswordHash: u.PasswordHash,
		Active:       u.Active,
	}
	res := r.db.WithContext(ctx).Model(&UserSchema{ID: u.ID}).
		Select("email", "full_name", "role", "court", "password_hash", "active", "updated_at").
		Updates(&model)
	if res.Error != nil {
		r.log.Error("failed to update user in db", zap.Error(res.Error), zap.Int64("id", u.ID))
		return translate(res.Error, "user")
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFoundError("user", "")
	}

	r.log.Info("user updated in db", zap.Int64("id", u.ID))
	return nil
}

// List returns one page of users matching f and the total number of matches.
func (r *UserRepoPG) List(ctx context.Context, f auth.UserFilter) ([]auth.User, int64, error) {
	query, err := security.ValidateSearchQuery(f.Query)
	if err != nil {
		r.log.Warn("rejected user search query", zap.Error(err))
		return nil, 0, apperrors.NewValidationError("query", "invalid search query: "+err.Error())
	}

	tx := r.db.WithContext(ctx).Model(&UserSchema{})
	if query != "" {
		p := likePattern(query)
		tx = tx.Where("("+fmt.Sprintf(likeClause, "username")+" OR "+fmt.Sprintf(likeClause, "full_name")+
			" OR "+fmt.Sprintf(likeClause, "email")+")", p, p, p)
	}
	if f.Role != "" {
		tx = tx.Where("role = ?", f.Role)
	}
	if f.Active != nil {
		tx = tx.Where("active = ?", *f.Active)
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		r.log.Error("failed to count users", zap.Error(err))
		return nil, 0, translate(err, "user")
	}

	page, limit := pagination.Normalize(f.Page, f.Limit)
	var models []UserSchema
	if err := tx.Order("id ASC").Offset(pagination.Offset(page, limit)).Limit(int(limit)).Find(&models).Error; err != nil {
		r.log.Error("failed to list users", zap.Error(err), zap.Int64("page", page), zap.Int64("limit", limit))
		return nil, 0, translate(err, "user")
	}

	users := make([]auth.User, len(models))
	for i, m := range models {
		users[i] = *userFromSchema(m)
	}
	return users, total, nil
}

func userFromSchema(m UserSchema) *auth.User {
	return &auth.User{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		FullName:     m.FullName,
		Role:         auth.Role(m.Role),
		Court:        m.Court,
		PasswordHash: m.PasswordHash,
		Active:       m.Active,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
