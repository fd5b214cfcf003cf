package user

import (
	domain "court-service/internal/domain/auth"
	"court-service/internal/domain/pagination"
)

// CreateUserRequest represents the payload for provisioning an account.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,min=3,max=255"`
	Role     string `json:"role" validate:"required"`
	Court    string `json:"court" validate:"max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// UpdateUserRequest is a partial update; nil fields are left unchanged.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,min=3,max=255"`
	Role     *string `json:"role"`
	Court    *string `json:"court" validate:"omitempty,max=255"`
	Active   *bool   `json:"is_active"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72"`
}

// ListUsersRequest represents the request payload for listing users.
// It supports pagination, search and role filtering.
type ListUsersRequest struct {
	Query  string
	Role   string
	Active *bool
	Page   int64
	Limit  int64
}

// ListUsersResponse represents the response payload for user listing.
type ListUsersResponse struct {
	Users      []domain.User          `json:"users"`
	Pagination *pagination.Pagination `json:"pagination"`
}
