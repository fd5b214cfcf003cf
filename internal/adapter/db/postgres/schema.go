package postgres

import (
	"time"
)

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"not null;uniqueIndex"`
	Email        string `gorm:"not null;uniqueIndex"`
	FullName     string `gorm:"not null"`
	Role         string `gorm:"not null;index"`
	Court        string
	PasswordHash string `gorm:"not null"`
	Active       bool   `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string { return "users" }

// CaseSchema represents the cases table.
type CaseSchema struct {
	ID         int64  `gorm:"primaryKey;autoIncrement"`
	CaseNumber string `gorm:"not null;uniqueIndex"`
	Title      string `gorm:"not null"`
	CaseType   string `gorm:"not null;index"`
	Status     string `gorm:"not null;index"`
	Court      string
	JudgeID    *int64
	Plaintiff  string
	Defendant  string
	Charges    []string `gorm:"serializer:json"`
	Facts      string
	Keywords   []string `gorm:"serializer:json"`
	FilingDate time.Time
	CreatedBy  int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName specifies the table name for the CaseSchema model.
func (CaseSchema) TableName() string { return "cases" }

// DocumentSchema represents the case_documents table.
type DocumentSchema struct {
	ID           string `gorm:"primaryKey"`
	CaseID       int64  `gorm:"not null;index"`
	Title        string `gorm:"not null"`
	DocumentType string
	FileName     string `gorm:"not null"`
	ContentType  string
	Size         int64
	Checksum     string
	StoragePath  string `gorm:"not null"`
	UploadedBy   int64
	CreatedAt    time.Time
}

// TableName specifies the table name for the DocumentSchema model.
func (DocumentSchema) TableName() string { return "case_documents" }

// TranscriptionSessionSchema represents the transcription_sessions table.
type TranscriptionSessionSchema struct {
	ID           string `gorm:"primaryKey"`
	CaseID       *int64 `gorm:"index"`
	Title        string
	CourtRoom    string
	Language     string `gorm:"not null"`
	Status       string `gorm:"not null;index"`
	StartedBy    int64
	StartedAt    time.Time
	StoppedAt    *time.Time
	SegmentCount int `gorm:"not null;default:0"`
	Transcript   string
}

// TableName specifies the table name for the TranscriptionSessionSchema model.
func (TranscriptionSessionSchema) TableName() string { return "transcription_sessions" }

// SegmentSchema represents the transcription_segments table.
type SegmentSchema struct {
	ID          string `gorm:"primaryKey"`
	SessionID   string `gorm:"not null;uniqueIndex:idx_segment_seq"`
	Sequence    int    `gorm:"not null;uniqueIndex:idx_segment_seq"`
	SpeakerID   string
	SpeakerName string
	SpeakerRole string
	Text        string
	Language    string
	Confidence  float64
	StartOffset float64
	EndOffset   float64
	CreatedBy   int64
	CreatedAt   time.Time
}

// TableName specifies the table name for the SegmentSchema model.
func (SegmentSchema) TableName() string { return "transcription_segments" }

// JobSchema represents the transcription_jobs table.
type JobSchema struct {
	ID          string `gorm:"primaryKey"`
	SessionID   *string
	CaseID      *int64
	FileName    string `gorm:"not null"`
	AudioPath   string `gorm:"not null"`
	Language    string
	Status      string `gorm:"not null;index"`
	Progress    int
	Error       string
	Transcript  string
	Duration    float64
	SubmittedBy int64 `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// TableName specifies the table name for the JobSchema model.
func (JobSchema) TableName() string { return "transcription_jobs" }

// IdentityRecordSchema represents the identity_records registry mirror.
type IdentityRecordSchema struct {
	NIN         string `gorm:"primaryKey"`
	FirstName   string
	MiddleName  string
	LastName    string
	DateOfBirth string
	Gender      string
	Phone       string
	State       string
	Address     string
	PhotoURL    string
	Active      bool `gorm:"not null"`
	UpdatedAt   time.Time
}

// TableName specifies the table name for the IdentityRecordSchema model.
func (IdentityRecordSchema) TableName() string { return "identity_records" }

// CourtOfficialSchema represents the court_officials registry.
type CourtOfficialSchema struct {
	OfficialID string `gorm:"primaryKey"`
	FullName   string
	Role       string
	Court      string
	Active     bool `gorm:"not null"`
}

// TableName specifies the table name for the CourtOfficialSchema model.
func (CourtOfficialSchema) TableName() string { return "court_officials" }

// VerificationAuditSchema represents the identity_verifications audit trail.
type VerificationAuditSchema struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Kind        string `gorm:"not null"`
	Subject     string `gorm:"not null"`
	Verified    bool
	Reason      string
	RequestedBy int64
	CreatedAt   time.Time
}

// TableName specifies the table name for the VerificationAuditSchema model.
func (VerificationAuditSchema) TableName() string { return "identity_verifications" }

// WarrantSchema represents the warrants table.
type WarrantSchema struct {
	ID               string `gorm:"primaryKey"`
	WarrantType      string `gorm:"not null;index"`
	CaseID           *int64
	Details          map[string]string `gorm:"serializer:json"`
	Status           string            `gorm:"not null"`
	IssuedBy         int64
	IssuedAt         time.Time
	ExpiresAt        time.Time
	VerificationCode string `gorm:"not null"`
	Signature        string `gorm:"not null"`
	RevokedAt        *time.Time
	RevokedBy        *int64
	RevocationReason string
	Transfers        []WarrantTransferSchema `gorm:"foreignKey:WarrantID"`
}

// TableName specifies the table name for the WarrantSchema model.
func (WarrantSchema) TableName() string { return "warrants" }

// WarrantTransferSchema represents the warrant_transfers table.
type WarrantTransferSchema struct {
	ID          string `gorm:"primaryKey"`
	WarrantID   string `gorm:"not null;index"`
	AgencyID    string `gorm:"not null"`
	AgencyName  string
	Status      string `gorm:"not null"`
	Reference   string
	Notes       string
	Error       string
	RequestedBy int64
	RequestedAt time.Time
	DeliveredAt *time.Time
}

// TableName specifies the table name for the WarrantTransferSchema model.
func (WarrantTransferSchema) TableName() string { return "warrant_transfers" }

// CourtSessionSchema represents the virtual_court_sessions table.
type CourtSessionSchema struct {
	ID              string `gorm:"primaryKey"`
	CaseID          int64  `gorm:"not null;index"`
	Title           string `gorm:"not null"`
	Description     string
	ScheduledAt     time.Time
	DurationMinutes int
	Status          string            `gorm:"not null;index"`
	JudgeID         int64             `gorm:"not null"`
	AccessCodes     map[string]string `gorm:"serializer:json"`
	Participants    []ParticipantJSON `gorm:"serializer:json"`
	StatusReason    string
	StartedAt       *time.Time
	EndedAt         *time.Time
	CreatedAt       time.Time
}

// ParticipantJSON is the stored form of a session participant.
type ParticipantJSON struct {
	UserID   int64      `json:"user_id"`
	Name     string     `json:"name"`
	Role     string     `json:"role"`
	JoinedAt time.Time  `json:"joined_at"`
	LeftAt   *time.Time `json:"left_at,omitempty"`
}

// TableName specifies the table name for the CourtSessionSchema model.
func (CourtSessionSchema) TableName() string { return "virtual_court_sessions" }

// PrecedentSchema represents the precedents table.
type PrecedentSchema struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	CaseNumber      string `gorm:"not null;uniqueIndex"`
	CaseTitle       string `gorm:"not null"`
	Court           string
	DecidedOn       time.Time
	Citation        string
	Category        string   `gorm:"index"`
	Subcategories   []string `gorm:"serializer:json"`
	Judge           string
	Summary         string
	Facts           string
	Issues          []string `gorm:"serializer:json"`
	Holding         string
	Reasoning       string
	KeyPoints       []string `gorm:"serializer:json"`
	StatutesCited   []string `gorm:"serializer:json"`
	PrecedentsCited []string `gorm:"serializer:json"`
}

// TableName specifies the table name for the PrecedentSchema model.
func (PrecedentSchema) TableName() string { return "precedents" }

// StatuteSchema represents the statutes table.
type StatuteSchema struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"not null;uniqueIndex"`
	Citation string
	Summary  string
	Sections []SectionJSON `gorm:"serializer:json"`
}

// SectionJSON is the stored form of a statute section.
type SectionJSON struct {
	Section string `json:"section"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// TableName specifies the table name for the StatuteSchema model.
func (StatuteSchema) TableName() string { return "statutes" }

// Models lists every schema for AutoMigrate in tests.
func Models() []any {
	return []any{
		&UserSchema{}, &CaseSchema{}, &DocumentSchema{},
		&TranscriptionSessionSchema{}, &SegmentSchema{}, &JobSchema{},
		&IdentityRecordSchema{}, &CourtOfficialSchema{}, &VerificationAuditSchema{},
		&WarrantSchema{}, &WarrantTransferSchema{}, &CourtSessionSchema{},
		&PrecedentSchema{}, &StatuteSchema{},
	}
}
