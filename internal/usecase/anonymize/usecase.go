package anonymize

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	domain "court-service/internal/domain/anonymize"
	apperrors "court-service/pkg/errors"
)

const maxTextLength = 1 << 20

// Request is text to redact and the entity types to look for.
type Request struct {
	Text        string   `json:"text"`
	EntityTypes []string `json:"entity_types"`
}

// Usecase redacts sensitive entities from court documents.
type Usecase struct {
	transcripts TranscriptSource
	log         *zap.Logger
}

// New creates an anonymization Usecase. transcripts supplies session segments
// for transcript redaction.
func New(transcripts TranscriptSource, log *zap.Logger) *Usecase {
	return &Usecase{transcripts: transcripts, log: log}
}

// EntityTypes lists the supported entity types.
func (uc *Usecase) EntityTypes() []domain.EntityInfo {
	return domain.Types()
}

// Anonymize redacts the requested entity types, or all of them when none are given.
func (uc *Usecase) Anonymize(_ context.Context, in Request) (*domain.Result, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, apperrors.NewValidationError("text", "text is required")
	}
	if len(in.Text) > maxTextLength {
		return nil, apperrors.NewValidationError("text", fmt.Sprintf("text exceeds %d bytes", maxTextLength))
	}

	selected, err := entityTypes(in.EntityTypes)
	if err != nil {
		return nil, err
	}

	res := domain.Text(in.Text, selected)
	total := 0
	for _, n := range res.Redactions {
		total += n
	}
	uc.log.Debug("text anonymized", zap.Int("length", len(in.Text)), zap.Int("redactions", total))
	return &res, nil
}

func entityTypes(raw []string) ([]domain.EntityType, error) {
	selected := make([]domain.EntityType, 0, len(raw))
	for _, r := range raw {
		t := domain.EntityType(strings.ToUpper(strings.TrimSpace(r)))
		if !domain.Known(t) {
			return nil, apperrors.NewValidationError("entity_types", fmt.Sprintf("unknown entity type %q", r))
		}
		selected = append(selected, t)
	}
	return selected, nil
}
