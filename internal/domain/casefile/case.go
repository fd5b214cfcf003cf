package casefile

import "time"

// Type is the kind of proceeding.
type Type string

// Case types.
const (
	TypeCriminal       Type = "criminal"
	TypeCivil          Type = "civil"
	TypeCommercial     Type = "commercial"
	TypeFamily         Type = "family"
	TypeLand           Type = "land"
	TypeConstitutional Type = "constitutional"
	TypeAppeal         Type = "appeal"
)

var types = map[Type]struct{}{
	TypeCriminal: {}, TypeCivil: {}, TypeCommercial: {}, TypeFamily: {},
	TypeLand: {}, TypeConstitutional: {}, TypeAppeal: {},
}

// ValidType reports whether t is a known case type.
func ValidType(t string) bool {
	_, ok := types[Type(t)]
	return ok
}

// Status is the lifecycle state of a case.
type Status string

// Case statuses.
const (
	StatusFiled            Status = "filed"
	StatusPending          Status = "pending"
	StatusInProgress       Status = "in_progress"
	StatusAdjourned        Status = "adjourned"
	StatusJudgmentReserved Status = "judgment_reserved"
	StatusClosed           Status = "closed"
)

var statuses = map[Status]struct{}{
	StatusFiled: {}, StatusPending: {}, StatusInProgress: {}, StatusAdjourned: {},
	StatusJudgmentReserved: {}, StatusClosed: {},
}

// ValidStatus reports whether s is a known case status.
func ValidStatus(s string) bool {
	_, ok := statuses[Status(s)]
	return ok
}

// Case is a court case file.
type Case struct {
	ID         int64     `json:"id"`
	CaseNumber string    `json:"case_number"`
	Title      string    `json:"title"`
	Type       Type      `json:"case_type"`
	Status     Status    `json:"status"`
	Court      string    `json:"court"`
	JudgeID    *int64    `json:"judge_id,omitempty"`
	Plaintiff  string    `json:"plaintiff"`
	Defendant  string    `json:"defendant"`
	Charges    []string  `json:"charges"`
	Facts      string    `json:"facts"`
	Keywords   []string  `json:"keywords"`
	FilingDate time.Time `json:"filing_date"`
	CreatedBy  int64     `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Filter narrows case listings.
type Filter struct {
	Query  string
	Status string
	Type   string
	Page   int64
	Limit  int64
}

// Document is a file attached to a case.
type Document struct {
	ID           string    `json:"id"`
	CaseID       int64     `json:"case_id"`
	Title        string    `json:"title"`
	DocumentType string    `json:"document_type"`
	FileName     string    `json:"file_name"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	Checksum     string    `json:"checksum"`
	StoragePath  string    `json:"-"`
	UploadedBy   int64     `json:"uploaded_by"`
	CreatedAt    time.Time `json:"created_at"`
}
