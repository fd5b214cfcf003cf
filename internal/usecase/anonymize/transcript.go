package anonymize

import (
	"context"
	"strings"

	"go.uber.org/zap"

	domain "court-service/internal/domain/anonymize"
	"court-service/internal/domain/transcription"
	apperrors "court-service/pkg/errors"
)

// TranscriptSource reads transcription sessions and their segments.
type TranscriptSource interface {
	GetSession(ctx context.Context, id string) (*transcription.Session, error)
	ListSegments(ctx context.Context, sessionID string) ([]transcription.Segment, error)
}

// TranscriptRequest selects a session transcript to redact.
type TranscriptRequest struct {
	SessionID   string   `json:"session_id"`
	EntityTypes []string `json:"entity_types"`
}

// TranscriptResult is a session transcript with every segment redacted.
type TranscriptResult struct {
	SessionID  string                      `json:"session_id"`
	Status     transcription.SessionStatus `json:"status"`
	Segments   []transcription.Segment     `json:"segments"`
	Transcript string                      `json:"anonymized_transcript"`
	Redactions map[domain.EntityType]int   `json:"redactions"`
}

// AnonymizeTranscript redacts the segments of a transcription session, active
// or stopped, and renders the redacted transcript.
func (uc *Usecase) AnonymizeTranscript(ctx context.Context, in TranscriptRequest) (*TranscriptResult, error) {
	id := strings.TrimSpace(in.SessionID)
	if id == "" {
		return nil, apperrors.NewValidationError("session_id", "session_id is required")
	}
	selected, err := entityTypes(in.EntityTypes)
	if err != nil {
		return nil, err
	}

	s, err := uc.transcripts.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	segments, err := uc.transcripts.ListSegments(ctx, id)
	if err != nil {
		return nil, err
	}

	redactions := make(map[domain.EntityType]int)
	for i := range segments {
		res := domain.Text(segments[i].Text, selected)
		segments[i].Text = res.Text
		for t, n := range res.Redactions {
			redactions[t] += n
		}
	}

	uc.log.Info("transcript anonymized",
		zap.String("session_id", id),
		zap.Int("segments", len(segments)),
		zap.Int("entity_types", len(redactions)),
	)
	return &TranscriptResult{
		SessionID:  id,
		Status:     s.Status,
		Segments:   segments,
		Transcript: transcription.RenderTranscript(s, segments),
		Redactions: redactions,
	}, nil
}
