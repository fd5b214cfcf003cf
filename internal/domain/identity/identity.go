package identity

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"time"
)

// Source is the registry a verification was checked against.
const Source = "NIMC"

var ninPattern = regexp.MustCompile(`^\d{11}$`)

// ValidNIN reports whether nin is an 11-digit National Identification Number.
func ValidNIN(nin string) bool {
	return ninPattern.MatchString(nin)
}

// Record is a registry entry for a citizen or resident.
type Record struct {
	NIN         string    `json:"nin"`
	FirstName   string    `json:"first_name"`
	MiddleName  string    `json:"middle_name,omitempty"`
	LastName    string    `json:"last_name"`
	DateOfBirth string    `json:"date_of_birth"`
	Gender      string    `json:"gender"`
	Phone       string    `json:"phone,omitempty"`
	State       string    `json:"state_of_origin,omitempty"`
	Address     string    `json:"address,omitempty"`
	PhotoURL    string    `json:"photo_url,omitempty"`
	Active      bool      `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Official is a registered court official.
type Official struct {
	OfficialID string `json:"official_id"`
	FullName   string `json:"full_name"`
	Role       string `json:"role"`
	Court      string `json:"court"`
	Active     bool   `json:"is_active"`
}

// NINResult is the outcome of a NIN verification.
type NINResult struct {
	Verified           bool      `json:"verified"`
	Reason             string    `json:"reason,omitempty"`
	Person             *Record   `json:"person,omitempty"`
	VerificationID     string    `json:"verification_id,omitempty"`
	VerificationSource string    `json:"verification_source"`
	VerifiedAt         time.Time `json:"verified_at"`
	Cached             bool      `json:"cached"`
}

// OfficialResult is the outcome of a court official verification.
type OfficialResult struct {
	Verified   bool      `json:"verified"`
	Reason     string    `json:"reason,omitempty"`
	Official   *Official `json:"official,omitempty"`
	VerifiedAt time.Time `json:"verified_at"`
}

// Verification kinds recorded in the audit trail.
const (
	KindNIN      = "nin"
	KindOfficial = "official"
)

// Audit is an entry in the verification audit trail.
type Audit struct {
	ID          int64
	Kind        string
	Subject     string // masked
	Verified    bool
	Reason      string
	RequestedBy int64
	CreatedAt   time.Time
}

// NewVerificationID returns an identifier such as VERIF-3f9a0c1b2d4e.
func NewVerificationID() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return "VERIF-" + hex.EncodeToString(b)
}
