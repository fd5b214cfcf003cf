package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"court-service/internal/adapter/gin/middleware"
	"court-service/internal/adapter/gin/response"
	"court-service/internal/domain/auth"
	authuc "court-service/internal/usecase/auth"
)

// AuthUsecase is the subset of the auth usecase served over HTTP.
type AuthUsecase interface {
	Login(ctx context.Context, in authuc.LoginRequest) (*authuc.TokenPair, error)
	Refresh(ctx context.Context, in authuc.RefreshRequest) (*authuc.TokenPair, error)
	Logout(ctx context.Context, accessToken string, in authuc.LogoutRequest) error
	Me(ctx context.Context, p auth.Principal) (*auth.User, error)
}

// AuthHandler handles login, token refresh and logout.
type AuthHandler struct {
	uc  AuthUsecase
	log *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(uc AuthUsecase, log *zap.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authuc.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.uc.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req authuc.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.uc.Refresh(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, pair)
}

// Logout handles POST /auth/logout. The body is optional.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req authuc.LogoutRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	if err := h.uc.Logout(c.Request.Context(), middleware.AccessToken(c), req); err != nil {
		h.log.Warn("logout failed", zap.Error(err))
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	u, err := h.uc.Me(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
