package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"court-service/internal/adapter/gin/response"
	"court-service/internal/domain/anonymize"
	anonymizeuc "court-service/internal/usecase/anonymize"
)

// AnonymizeUsecase redacts sensitive entities from text.
type AnonymizeUsecase interface {
	EntityTypes() []anonymize.EntityInfo
	Anonymize(ctx context.Context, in anonymizeuc.Request) (*anonymize.Result, error)
	AnonymizeTranscript(ctx context.Context, in anonymizeuc.TranscriptRequest) (*anonymizeuc.TranscriptResult, error)
}

// AnonymizeHandler handles document anonymization.
type AnonymizeHandler struct {
	uc  AnonymizeUsecase
	log *zap.Logger
}

// NewAnonymizeHandler creates a new AnonymizeHandler instance
func NewAnonymizeHandler(uc AnonymizeUsecase, log *zap.Logger) *AnonymizeHandler {
	return &AnonymizeHandler{uc: uc, log: log}
}

// EntityTypes handles GET /anonymize/entity-types
func (h *AnonymizeHandler) EntityTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entity_types": h.uc.EntityTypes()})
}

// Text handles POST /anonymize/text
func (h *AnonymizeHandler) Text(c *gin.Context) {
	var req anonymizeuc.Request
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.uc.Anonymize(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Transcript handles POST /anonymize/transcript
func (h *AnonymizeHandler) Transcript(c *gin.Context) {
	var req anonymizeuc.TranscriptRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.uc.AnonymizeTranscript(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
