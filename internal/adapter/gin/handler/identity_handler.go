package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"court-service/internal/adapter/gin/response"
	"court-service/internal/domain/identity"
	identityuc "court-service/internal/usecase/identity"
)

// IdentityUsecase verifies identities against the registry mirror.
type IdentityUsecase interface {
	VerifyNIN(ctx context.Context, requestedBy int64, in identityuc.VerifyNINRequest) (*identity.NINResult, error)
	VerifyOfficial(ctx context.Context, requestedBy int64, in identityuc.VerifyOfficialRequest) (*identity.OfficialResult, error)
}

// IdentityHandler handles identity verification requests.
type IdentityHandler struct {
	uc  IdentityUsecase
	log *zap.Logger
}

// NewIdentityHandler creates a new IdentityHandler instance
func NewIdentityHandler(uc IdentityUsecase, log *zap.Logger) *IdentityHandler {
	return &IdentityHandler{uc: uc, log: log}
}

// VerifyNIN handles POST /identity/verify
func (h *IdentityHandler) VerifyNIN(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req identityuc.VerifyNINRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.uc.VerifyNIN(c.Request.Context(), p.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// VerifyOfficial handles POST /identity/verify-official
func (h *IdentityHandler) VerifyOfficial(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req identityuc.VerifyOfficialRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.uc.VerifyOfficial(c.Request.Context(), p.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
