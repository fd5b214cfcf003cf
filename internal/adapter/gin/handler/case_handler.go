package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"court-service/internal/adapter/gin/response"
	"court-service/internal/domain/auth"
	"court-service/internal/domain/casefile"
	casefileuc "court-service/internal/usecase/casefile"
	apperrors "court-service/pkg/errors"
)

// CaseUsecase is the subset of the case usecase served over HTTP.
type CaseUsecase interface {
	CreateCase(ctx context.Context, p auth.Principal, in casefileuc.CreateCaseRequest) (*casefile.Case, error)
	GetCase(ctx context.Context, id int64) (*casefile.Case, error)
	UpdateCase(ctx context.Context, id int64, in casefileuc.UpdateCaseRequest) (*casefile.Case, error)
	ListCases(ctx context.Context, in casefileuc.ListCasesRequest) (*casefileuc.ListCasesResponse, error)
	UploadDocument(ctx context.Context, in casefileuc.UploadDocumentRequest) (*casefile.Document, error)
	ListDocuments(ctx context.Context, caseID int64) ([]casefile.Document, error)
}

// CaseHandler handles HTTP requests for court cases
type CaseHandler struct {
	uc        CaseUsecase
	maxUpload int64
	log       *zap.Logger
}

// NewCaseHandler creates a new CaseHandler instance
func NewCaseHandler(uc CaseUsecase, log *zap.Logger) *CaseHandler {
	return &CaseHandler{uc: uc, maxUpload: defaultMaxUploadSize, log: log}
}

// WithMaxUpload sets the largest accepted case document.
func (h *CaseHandler) WithMaxUpload(n int64) *CaseHandler {
	if n > 0 {
		h.maxUpload = n
	}
	return h
}

// CreateCase handles POST /cases
func (h *CaseHandler) CreateCase(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var req casefileuc.CreateCaseRequest
	if !bindJSON(c, &req) {
		return
	}

	h.log.Info("Gin CreateCase request", zap.String("case_number", req.CaseNumber), zap.Int64("user_id", p.UserID))

	cs, err := h.uc.CreateCase(c.Request.Context(), p, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, cs)
}

// GetCase handles GET /cases/:id
func (h *CaseHandler) GetCase(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	cs, err := h.uc.GetCase(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, cs)
}

// UpdateCase handles PUT /cases/:id
func (h *CaseHandler) UpdateCase(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req casefileuc.UpdateCaseRequest
	if !bindJSON(c, &req) {
		return
	}

	cs, err := h.uc.UpdateCase(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, cs)
}

// ListCases handles GET /cases
func (h *CaseHandler) ListCases(c *gin.Context) {
	page, limit := pageParams(c)
	req := casefileuc.ListCasesRequest{
		Query:    c.Query("query"),
		Status:   c.Query("status"),
		CaseType: c.Query("case_type"),
		Page:     page,
		Limit:    limit,
	}

	resp, err := h.uc.ListCases(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UploadDocument handles POST /cases/:id/documents
func (h *CaseHandler) UploadDocument(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if !parseUpload(c, "file", h.maxUpload) {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if !withinLimit(c, fh, "file", h.maxUpload) {
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error(c, apperrors.NewInternalError("failed to read upload", err))
		return
	}
	defer f.Close()

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		title = fh.Filename
	}

	doc, err := h.uc.UploadDocument(c.Request.Context(), casefileuc.UploadDocumentRequest{
		CaseID:       id,
		Title:        title,
		DocumentType: c.PostForm("document_type"),
		FileName:     fh.Filename,
		ContentType:  fh.Header.Get("Content-Type"),
		Body:         f,
		UploadedBy:   p.UserID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, doc)
}

// ListDocuments handles GET /cases/:id/documents
func (h *CaseHandler) ListDocuments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	docs, err := h.uc.ListDocuments(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs})
}
