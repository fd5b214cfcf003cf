package transcription

import (
	"io"

	"court-service/internal/domain/pagination"
	domain "court-service/internal/domain/transcription"
)

// StartSessionRequest opens a live transcription session.
type StartSessionRequest struct {
	CaseID    *int64 `json:"case_id"`
	Title     string `json:"title" validate:"max=255"`
	CourtRoom string `json:"court_room" validate:"max=128"`
	Language  string `json:"language" validate:"max=16"`
}

// ChunkMetadata is the JSON metadata sent with each audio chunk.
type ChunkMetadata struct {
	SessionID     string           `json:"session_id" validate:"required"`
	SpeakerID     string           `json:"speaker_id"`
	SpeakerName   string           `json:"speaker_name"`
	SpeakerRole   string           `json:"speaker_role"`
	Language      string           `json:"language"`
	OffsetSeconds float64          `json:"offset_seconds" validate:"gte=0"`
	KnownSpeakers []domain.Speaker `json:"known_speakers"`
}

// ChunkRequest is one real-time audio chunk.
type ChunkRequest struct {
	Metadata ChunkMetadata
	FileName string
	Audio    []byte
}

// ChunkResponse is the outcome of a real-time chunk. Segment is nil when the
// provider heard nothing.
type ChunkResponse struct {
	SessionID string          `json:"session_id"`
	Text      string          `json:"text"`
	Segment   *domain.Segment `json:"segment"`
}

// SessionDetail is a session with its segments.
type SessionDetail struct {
	*domain.Session
	Segments []domain.Segment `json:"segments"`
}

// SubmitJobRequest uploads a full recording for offline transcription.
type SubmitJobRequest struct {
	SessionID *string
	CaseID    *int64
	Language  string
	FileName  string `validate:"required"`
	Body      io.Reader
}

// ListJobsResponse is one page of jobs.
type ListJobsResponse struct {
	Jobs       []domain.Job           `json:"jobs"`
	Pagination *pagination.Pagination `json:"pagination"`
}

// JobResult is the transcript of a completed job.
type JobResult struct {
	JobID      string  `json:"job_id"`
	FileName   string  `json:"file_name"`
	Language   string  `json:"language"`
	Duration   float64 `json:"duration_seconds"`
	Transcript string  `json:"transcript"`
}
