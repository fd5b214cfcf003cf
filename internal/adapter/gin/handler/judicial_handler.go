package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"court-service/internal/adapter/gin/response"
	"court-service/internal/domain/judicial"
	judicialuc "court-service/internal/usecase/judicial"
)

// JudicialUsecase provides decision support and precedent search.
type JudicialUsecase interface {
	DecisionSupport(ctx context.Context, caseID int64) (*judicialuc.DecisionSupport, error)
	SearchPrecedents(ctx context.Context, in judicialuc.SearchRequest) ([]judicial.Precedent, error)
}

// JudicialHandler handles decision support requests.
type JudicialHandler struct {
	uc  JudicialUsecase
	log *zap.Logger
}

// NewJudicialHandler creates a new JudicialHandler instance
func NewJudicialHandler(uc JudicialUsecase, log *zap.Logger) *JudicialHandler {
	return &JudicialHandler{uc: uc, log: log}
}

// DecisionSupport handles GET /judicial/decision-support/:id
func (h *JudicialHandler) DecisionSupport(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	res, err := h.uc.DecisionSupport(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// SearchPrecedents handles GET /judicial/precedents
func (h *JudicialHandler) SearchPrecedents(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	precedents, err := h.uc.SearchPrecedents(c.Request.Context(), judicialuc.SearchRequest{
		Query:    c.Query("query"),
		Category: c.Query("category"),
		Limit:    limit,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"precedents": precedents, "count": len(precedents)})
}
