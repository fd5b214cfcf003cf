package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"court-service/internal/adapter/gin/response"
	"court-service/internal/domain/auth"
	"court-service/internal/domain/warrant"
	warrantuc "court-service/internal/usecase/warrant"
)

// WarrantUsecase is the subset of the warrant usecase served over HTTP.
type WarrantUsecase interface {
	Types() []warrant.TypeSpec
	Agencies() []warrant.Agency
	Issue(ctx context.Context, p auth.Principal, in warrantuc.IssueRequest) (*warrant.Warrant, error)
	Get(ctx context.Context, id string) (*warrant.Warrant, error)
	List(ctx context.Context, in warrantuc.ListRequest) (*warrantuc.ListResponse, error)
	Status(ctx context.Context, id string) (*warrantuc.StatusResponse, error)
	Transfer(ctx context.Context, p auth.Principal, id string, in warrantuc.TransferRequest) (*warrant.Transfer, error)
	Revoke(ctx context.Context, p auth.Principal, id string, in warrantuc.RevokeRequest) (*warrant.Warrant, error)
	Verify(ctx context.Context, id string, in warrantuc.VerifyRequest) (*warrantuc.VerifyResponse, error)
}

// WarrantHandler handles warrant issuance, transfer and verification.
type WarrantHandler struct {
	uc  WarrantUsecase
	log *zap.Logger
}

// NewWarrantHandler creates a new WarrantHandler instance
func NewWarrantHandler(uc WarrantUsecase, log *zap.Logger) *WarrantHandler {
	return &WarrantHandler{uc: uc, log: log}
}

// Types handles GET /warrants/types
func (h *WarrantHandler) Types(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"types": h.uc.Types()})
}

// Agencies handles GET /warrants/agencies
func (h *WarrantHandler) Agencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"agencies": h.uc.Agencies()})
}

// Issue handles POST /warrants
func (h *WarrantHandler) Issue(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req warrantuc.IssueRequest
	if !bindJSON(c, &req) {
		return
	}

	w, err := h.uc.Issue(c.Request.Context(), p, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

// List handles GET /warrants
func (h *WarrantHandler) List(c *gin.Context) {
	page, limit := pageParams(c)
	req := warrantuc.ListRequest{
		Status: c.Query("status"),
		Type:   c.Query("warrant_type"),
		Page:   page,
		Limit:  limit,
	}
	if v := c.Query("case_id"); v != "" {
		caseID, err := strconv.ParseInt(v, 10, 64)
		if err != nil || caseID < 1 {
			response.BadRequest(c, "case_id must be a positive integer")
			return
		}
		req.CaseID = caseID
	}

	resp, err := h.uc.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /warrants/:id
func (h *WarrantHandler) Get(c *gin.Context) {
	w, err := h.uc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// Status handles GET /warrants/:id/status
func (h *WarrantHandler) Status(c *gin.Context) {
	st, err := h.uc.Status(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// Transfer handles POST /warrants/:id/transfer
func (h *WarrantHandler) Transfer(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req warrantuc.TransferRequest
	if !bindJSON(c, &req) {
		return
	}

	t, err := h.uc.Transfer(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusAccepted, t)
}

// Revoke handles POST /warrants/:id/revoke
func (h *WarrantHandler) Revoke(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req warrantuc.RevokeRequest
	if !bindJSON(c, &req) {
		return
	}

	w, err := h.uc.Revoke(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, w)
}

// Verify handles POST /warrants/:id/verify
func (h *WarrantHandler) Verify(c *gin.Context) {
	var req warrantuc.VerifyRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.uc.Verify(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
