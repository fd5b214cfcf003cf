package casefile

import (
	"io"
	"time"

	domain "court-service/internal/domain/casefile"
	"court-service/internal/domain/pagination"
)

// CreateCaseRequest represents the payload for filing a new case.
type CreateCaseRequest struct {
	CaseNumber string     `json:"case_number" validate:"required,max=64"`
	Title      string     `json:"title" validate:"required,min=3,max=255"`
	CaseType   string     `json:"case_type" validate:"required"`
	Court      string     `json:"court" validate:"max=255"`
	JudgeID    *int64     `json:"judge_id"`
	Plaintiff  string     `json:"plaintiff" validate:"max=255"`
	Defendant  string     `json:"defendant" validate:"max=255"`
	Charges    []string   `json:"charges"`
	Facts      string     `json:"facts"`
	Keywords   []string   `json:"keywords"`
	FilingDate *time.Time `json:"filing_date"`
}

// UpdateCaseRequest carries a partial update; nil fields are left unchanged.
type UpdateCaseRequest struct {
	Title      *string    `json:"title" validate:"omitempty,min=3,max=255"`
	CaseType   *string    `json:"case_type"`
	Status     *string    `json:"status"`
	Court      *string    `json:"court"`
	JudgeID    *int64     `json:"judge_id"`
	Plaintiff  *string    `json:"plaintiff"`
	Defendant  *string    `json:"defendant"`
	Charges    []string   `json:"charges"`
	Facts      *string    `json:"facts"`
	Keywords   []string   `json:"keywords"`
	FilingDate *time.Time `json:"filing_date"`
}

// ListCasesRequest represents a case search.
type ListCasesRequest struct {
	Query    string
	Status   string
	CaseType string
	Page     int64
	Limit    int64
}

// ListCasesResponse is one page of cases.
type ListCasesResponse struct {
	Cases      []domain.Case          `json:"cases"`
	Pagination *pagination.Pagination `json:"pagination"`
}

// UploadDocumentRequest describes a document upload.
type UploadDocumentRequest struct {
	CaseID       int64
	Title        string `validate:"required,max=255"`
	DocumentType string `validate:"max=64"`
	FileName     string `validate:"required"`
	ContentType  string
	Body         io.Reader
	UploadedBy   int64
}
