package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"court-service/internal/adapter/gin/response"
	"court-service/internal/domain/auth"
	"court-service/internal/domain/courtsession"
	"court-service/internal/usecase/virtualcourt"
)

// VirtualCourtUsecase is the subset of the virtual court usecase served over HTTP.
type VirtualCourtUsecase interface {
	CreateSession(ctx context.Context, p auth.Principal, in virtualcourt.CreateSessionRequest) (*courtsession.Session, error)
	GetSession(ctx context.Context, p auth.Principal, id string) (*courtsession.Session, error)
	ListSessions(ctx context.Context, p auth.Principal, in virtualcourt.ListSessionsRequest) (*virtualcourt.ListSessionsResponse, error)
	Join(ctx context.Context, p auth.Principal, id string, in virtualcourt.JoinRequest) (*virtualcourt.JoinResponse, error)
	StartSession(ctx context.Context, p auth.Principal, id string) (*courtsession.Session, error)
	EndSession(ctx context.Context, p auth.Principal, id string) (*courtsession.Session, error)
	PostponeSession(ctx context.Context, p auth.Principal, id string, in virtualcourt.PostponeRequest) (*courtsession.Session, error)
	CancelSession(ctx context.Context, p auth.Principal, id string, in virtualcourt.CancelRequest) (*courtsession.Session, error)
	Leave(ctx context.Context, p auth.Principal, id string) (*virtualcourt.LeaveResponse, error)
}

// VirtualCourtHandler handles virtual hearing sessions.
type VirtualCourtHandler struct {
	uc  VirtualCourtUsecase
	log *zap.Logger
}

// NewVirtualCourtHandler creates a new VirtualCourtHandler instance
func NewVirtualCourtHandler(uc VirtualCourtUsecase, log *zap.Logger) *VirtualCourtHandler {
	return &VirtualCourtHandler{uc: uc, log: log}
}

// CreateSession handles POST /virtual-court/sessions
func (h *VirtualCourtHandler) CreateSession(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req virtualcourt.CreateSessionRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.uc.CreateSession(c.Request.Context(), p, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

// ListSessions handles GET /virtual-court/sessions
func (h *VirtualCourtHandler) ListSessions(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)
	req := virtualcourt.ListSessionsRequest{
		Status: c.Query("status"),
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

	resp, err := h.uc.ListSessions(c.Request.Context(), p, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetSession handles GET /virtual-court/sessions/:id
func (h *VirtualCourtHandler) GetSession(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	s, err := h.uc.GetSession(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Join handles POST /virtual-court/sessions/:id/join
func (h *VirtualCourtHandler) Join(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req virtualcourt.JoinRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.uc.Join(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Start handles POST /virtual-court/sessions/:id/start
func (h *VirtualCourtHandler) Start(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	s, err := h.uc.StartSession(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// End handles POST /virtual-court/sessions/:id/end
func (h *VirtualCourtHandler) End(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	s, err := h.uc.EndSession(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Leave handles POST /virtual-court/sessions/:id/leave
func (h *VirtualCourtHandler) Leave(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	res, err := h.uc.Leave(c.Request.Context(), p, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Postpone handles POST /virtual-court/sessions/:id/postpone
func (h *VirtualCourtHandler) Postpone(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req virtualcourt.PostponeRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.uc.PostponeSession(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// Cancel handles POST /virtual-court/sessions/:id/cancel
func (h *VirtualCourtHandler) Cancel(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req virtualcourt.CancelRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.uc.CancelSession(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}
