package warrant

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a warrant.
type Status string

// Warrant statuses. StatusExpired is derived, never stored.
const (
	StatusIssued      Status = "issued"
	StatusTransferred Status = "transferred"
	StatusRevoked     Status = "revoked"
	StatusExpired     Status = "expired"
)

// TransferStatus is the delivery state of a transfer to an agency.
type TransferStatus string

// Transfer statuses.
const (
	TransferPending   TransferStatus = "pending"
	TransferDelivered TransferStatus = "delivered"
	TransferFailed    TransferStatus = "failed"
)

// Warrant is a court-issued warrant.
type Warrant struct {
	ID               string            `json:"id"`
	Type             string            `json:"warrant_type"`
	CaseID           *int64            `json:"case_id,omitempty"`
	Details          map[string]string `json:"details"`
	Status           Status            `json:"status"`
	IssuedBy         int64             `json:"issued_by"`
	IssuedAt         time.Time         `json:"issued_at"`
	ExpiresAt        time.Time         `json:"expires_at"`
	VerificationCode string            `json:"verification_code"`
	Signature        string            `json:"signature"`
	RevokedAt        *time.Time        `json:"revoked_at,omitempty"`
	RevokedBy        *int64            `json:"revoked_by,omitempty"`
	RevocationReason string            `json:"revocation_reason,omitempty"`
	Transfers        []Transfer        `json:"transfers"`
}

// Transfer records the hand-off of a warrant to an agency.
type Transfer struct {
	ID          string         `json:"id"`
	WarrantID   string         `json:"warrant_id"`
	AgencyID    string         `json:"agency_id"`
	AgencyName  string         `json:"agency_name"`
	Status      TransferStatus `json:"status"`
	Reference   string         `json:"reference,omitempty"`
	Notes       string         `json:"notes,omitempty"`
	Error       string         `json:"error,omitempty"`
	RequestedBy int64          `json:"requested_by"`
	RequestedAt time.Time      `json:"requested_at"`
	DeliveredAt *time.Time     `json:"delivered_at,omitempty"`
}

// Filter narrows warrant listings. Status matches the effective status at Now.
type Filter struct {
	Status Status
	Type   string
	CaseID int64
	Now    time.Time
	Page   int64
	Limit  int64
}

// MissingFields returns the required detail fields absent or blank in details.
func MissingFields(spec TypeSpec, details map[string]string) []string {
	var missing []string
	for _, f := range spec.RequiredFields {
		if strings.TrimSpace(details[f]) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// EffectiveStatus reports expired for unrevoked warrants past their expiry.
func (w *Warrant) EffectiveStatus(now time.Time) Status {
	if w.Status != StatusRevoked && !now.Before(w.ExpiresAt) {
		return StatusExpired
	}
	return w.Status
}

// NewVerificationCode returns a 6-character base32 code.
func NewVerificationCode() string {
	b := make([]byte, 5)
	_, _ = rand.Read(b)
	return base32.StdEncoding.EncodeToString(b)[:6]
}

// NewAgencyReference returns a delivery reference such as AGY-NPF-1a2b3c4d.
func NewAgencyReference(agencyID string) string {
	b := make([]byte, 4)
	_, _ = rand.Read(b)
	return fmt.Sprintf("AGY-%s-%s", strings.ToUpper(agencyID), hex.EncodeToString(b))
}

// Sign computes the HMAC-SHA256 signature over the warrant's identifying content.
func Sign(key []byte, w *Warrant) (string, error) {
	payload, err := json.Marshal(struct {
		ID        string            `json:"id"`
		Type      string            `json:"type"`
		Details   map[string]string `json:"details"`
		IssuedBy  int64             `json:"issued_by"`
		IssuedAt  int64             `json:"issued_at"`
		ExpiresAt int64             `json:"expires_at"`
	}{w.ID, w.Type, w.Details, w.IssuedBy, w.IssuedAt.Unix(), w.ExpiresAt.Unix()})
	if err != nil {
		return "", err
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// VerifySignature recomputes the signature and compares in constant time.
func VerifySignature(key []byte, w *Warrant) bool {
	sig, err := Sign(key, w)
	if err != nil {
		return false
	}
	return hmac.Equal([]byte(sig), []byte(w.Signature))
}
