package transcription

import (
	"fmt"
	"strings"
	"time"
)

// SessionStatus is the state of a live transcription session.
type SessionStatus string

// Session statuses.
const (
	SessionActive  SessionStatus = "active"
	SessionStopped SessionStatus = "stopped"
)

// UnknownSpeaker labels segments without speaker metadata.
const UnknownSpeaker = "Unknown Speaker"

// Session is a live courtroom transcription.
type Session struct {
	ID           string        `json:"id"`
	CaseID       *int64        `json:"case_id,omitempty"`
	Title        string        `json:"title"`
	CourtRoom    string        `json:"court_room,omitempty"`
	Language     string        `json:"language"`
	Status       SessionStatus `json:"status"`
	StartedBy    int64         `json:"started_by"`
	StartedAt    time.Time     `json:"started_at"`
	StoppedAt    *time.Time    `json:"stopped_at,omitempty"`
	SegmentCount int           `json:"segment_count"`
	Transcript   string        `json:"transcript,omitempty"`
}

// Speaker identifies who is talking, as selected by the client.
type Speaker struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// Segment is one transcribed chunk of a session.
type Segment struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Sequence    int       `json:"sequence"`
	Speaker     Speaker   `json:"speaker"`
	Text        string    `json:"text"`
	Language    string    `json:"language"`
	Confidence  float64   `json:"confidence"`
	StartOffset float64   `json:"start_offset"`
	EndOffset   float64   `json:"end_offset"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// ResolveSpeaker picks the explicit speaker, else the first known speaker, else UnknownSpeaker.
func ResolveSpeaker(explicit Speaker, known []Speaker) Speaker {
	if explicit.Name != "" || explicit.ID != "" {
		if explicit.Name == "" {
			explicit.Name = explicit.ID
		}
		return explicit
	}
	for _, k := range known {
		if k.Name != "" {
			return k
		}
	}
	return Speaker{Name: UnknownSpeaker}
}

// JobStatus is the state of an offline transcription job.
type JobStatus string

// Job statuses.
const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Job transcribes a full uploaded recording in the background.
type Job struct {
	ID          string     `json:"id"`
	SessionID   *string    `json:"session_id,omitempty"`
	CaseID      *int64     `json:"case_id,omitempty"`
	FileName    string     `json:"file_name"`
	AudioPath   string     `json:"-"`
	Language    string     `json:"language"`
	Status      JobStatus  `json:"status"`
	Progress    int        `json:"progress"`
	Error       string     `json:"error,omitempty"`
	Transcript  string     `json:"-"`
	Duration    float64    `json:"duration_seconds,omitempty"`
	SubmittedBy int64      `json:"submitted_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RenderTranscript renders session segments as a markdown transcript.
func RenderTranscript(s *Session, segments []Segment) string {
	var b strings.Builder
	title := s.Title
	if title == "" {
		title = "Court Session Transcript"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if s.CourtRoom != "" {
		fmt.Fprintf(&b, "- Court room: %s\n", s.CourtRoom)
	}
	fmt.Fprintf(&b, "- Language: %s\n", s.Language)
	fmt.Fprintf(&b, "- Started: %s\n", s.StartedAt.UTC().Format(time.RFC3339))
	if s.StoppedAt != nil {
		fmt.Fprintf(&b, "- Stopped: %s\n", s.StoppedAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "- Segments: %d\n", len(segments))
	b.WriteString("\n---\n\n")

	for _, seg := range segments {
		ts := ""
		if seg.EndOffset > 0 {
			ts = fmt.Sprintf("[%s-%s] ", secToTS(seg.StartOffset), secToTS(seg.EndOffset))
		}
		fmt.Fprintf(&b, "%s%s: %s\n\n", ts, seg.Speaker.Name, strings.TrimSpace(seg.Text))
	}
	return b.String()
}

func secToTS(sec float64) string {
	d := time.Duration(sec*1000) * time.Millisecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Options tune a provider transcription call.
type Options struct {
	FileName string
	Language string
	Prompt   string
}

// ResultSegment is a timed span returned by the provider.
type ResultSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result is the provider output for one audio file.
type Result struct {
	Text       string
	Language   string
	Duration   float64
	Confidence float64
	Segments   []ResultSegment
}

// AudioDir is the storage directory holding the audio of job id.
func AudioDir(jobID string) string {
	return "transcription_jobs/" + jobID
}
