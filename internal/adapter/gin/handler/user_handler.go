package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"court-service/internal/adapter/gin/response"
	"court-service/internal/domain/auth"
	"court-service/internal/usecase/user"
)

// UserUsecase administers court accounts.
type UserUsecase interface {
	CreateUser(ctx context.Context, in user.CreateUserRequest) (*auth.User, error)
	GetUser(ctx context.Context, id int64) (*auth.User, error)
	UpdateUser(ctx context.Context, p auth.Principal, id int64, in user.UpdateUserRequest) (*auth.User, error)
	DeactivateUser(ctx context.Context, p auth.Principal, id int64) (*auth.User, error)
	ListUsers(ctx context.Context, in user.ListUsersRequest) (*user.ListUsersResponse, error)
}

// UserHandler handles HTTP requests for user administration
type UserHandler struct {
	uc  UserUsecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc UserUsecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req user.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	h.log.Info("create user request", zap.String("username", req.Username), zap.String("role", req.Role))

	u, err := h.uc.CreateUser(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// GetUser handles GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	u, err := h.uc.GetUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// UpdateUser handles PUT /users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req user.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.uc.UpdateUser(c.Request.Context(), p, id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// DeactivateUser handles DELETE /users/:id
func (h *UserHandler) DeactivateUser(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	u, err := h.uc.DeactivateUser(c.Request.Context(), p, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

// ListUsers handles GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)
	req := user.ListUsersRequest{
		Query: c.Query("query"),
		Role:  c.Query("role"),
		Page:  page,
		Limit: limit,
	}
	if v := c.Query("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(c, "active must be true or false")
			return
		}
		req.Active = &active
	}

	resp, err := h.uc.ListUsers(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
