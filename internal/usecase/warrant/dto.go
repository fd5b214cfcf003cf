package warrant

import (
	"time"

	"court-service/internal/domain/pagination"
	domain "court-service/internal/domain/warrant"
)

// IssueRequest is the payload for issuing a warrant.
type IssueRequest struct {
	WarrantType string            `json:"warrant_type" validate:"required"`
	CaseID      *int64            `json:"case_id"`
	Details     map[string]string `json:"details" validate:"required"`
}

// TransferRequest sends a warrant to an agency.
type TransferRequest struct {
	AgencyID string `json:"agency_id" validate:"required"`
	Notes    string `json:"notes" validate:"max=1000"`
}

// RevokeRequest revokes a warrant.
type RevokeRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// VerifyRequest checks a warrant's verification code.
type VerifyRequest struct {
	VerificationCode string `json:"verification_code" validate:"required"`
}

// StatusResponse is the effective state of a warrant.
type StatusResponse struct {
	WarrantID string            `json:"warrant_id"`
	Status    domain.Status     `json:"status"`
	IssuedAt  time.Time         `json:"issued_at"`
	ExpiresAt time.Time         `json:"expires_at"`
	Transfers []domain.Transfer `json:"transfers"`
}

// VerifyResponse is the outcome of a verification code check.
type VerifyResponse struct {
	WarrantID string        `json:"warrant_id"`
	Valid     bool          `json:"valid"`
	Reason    string        `json:"reason,omitempty"`
	Status    domain.Status `json:"status"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// ListRequest filters a warrant listing.
type ListRequest struct {
	Status string
	Type   string
	CaseID int64
	Page   int64
	Limit  int64
}

// ListResponse is one page of warrants.
type ListResponse struct {
	Warrants   []domain.Warrant       `json:"warrants"`
	Pagination *pagination.Pagination `json:"pagination"`
}
