package judicial

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"court-service/internal/domain/casefile"
	domain "court-service/internal/domain/judicial"
	apperrors "court-service/pkg/errors"
	"court-service/pkg/security"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50

	disclaimer = "Decision support is advisory only. Final decisions rest with the court."
)

// Library reads the precedent and statute library.
type Library interface {
	ListPrecedents(ctx context.Context) ([]domain.Precedent, error)
	SearchPrecedents(ctx context.Context, query, category string, limit int) ([]domain.Precedent, error)
	ListStatutes(ctx context.Context) ([]domain.Statute, error)
}

// CaseReader loads the case under analysis.
type CaseReader interface {
	GetByID(ctx context.Context, id int64) (*casefile.Case, error)
}

// DecisionSupport is the analysis of one case.
type DecisionSupport struct {
	CaseID          int64                   `json:"case_id"`
	CaseNumber      string                  `json:"case_number"`
	Precedents      []domain.Match          `json:"relevant_precedents"`
	Statutes        []domain.StatuteMatch   `json:"applicable_statutes"`
	Recommendations []domain.Recommendation `json:"recommendations"`
	GeneratedAt     time.Time               `json:"generated_at"`
	Disclaimer      string                  `json:"disclaimer"`
}

// SearchRequest filters the precedent library.
type SearchRequest struct {
	Query    string
	Category string
	Limit    int
}

// Usecase implements judicial decision support.
type Usecase struct {
	library Library
	cases   CaseReader
	log     *zap.Logger
	now     func() time.Time
}

// New creates a judicial Usecase.
func New(library Library, cases CaseReader, log *zap.Logger) *Usecase {
	return &Usecase{library: library, cases: cases, log: log, now: time.Now}
}

// DecisionSupport ranks precedents and statutes for a case and derives recommendations.
func (uc *Usecase) DecisionSupport(ctx context.Context, caseID int64) (*DecisionSupport, error) {
	c, err := uc.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	precedents, err := uc.library.ListPrecedents(ctx)
	if err != nil {
		return nil, err
	}
	statutes, err := uc.library.ListStatutes(ctx)
	if err != nil {
		return nil, err
	}

	profile := domain.Profile{
		CaseNumber: c.CaseNumber,
		CaseType:   string(c.Type),
		Charges:    c.Charges,
		Facts:      c.Facts,
		Keywords:   c.Keywords,
	}
	matches := domain.RankPrecedents(profile, precedents, domain.DefaultLimit)
	statuteMatches := domain.FindStatutes(profile, statutes, domain.DefaultLimit)

	res := &DecisionSupport{
		CaseID:          c.ID,
		CaseNumber:      c.CaseNumber,
		Precedents:      matches,
		Statutes:        statuteMatches,
		Recommendations: domain.Recommend(profile, matches, statuteMatches),
		GeneratedAt:     uc.now().UTC(),
		Disclaimer:      disclaimer,
	}
	uc.log.Info("decision support generated",
		zap.Int64("case_id", c.ID),
		zap.Int("precedents", len(matches)),
		zap.Int("statutes", len(statuteMatches)),
	)
	return res, nil
}

// SearchPrecedents searches the precedent library.
func (uc *Usecase) SearchPrecedents(ctx context.Context, in SearchRequest) ([]domain.Precedent, error) {
	query, err := security.ValidateSearchQuery(in.Query)
	if err != nil {
		return nil, apperrors.NewValidationError("query", "invalid search query: "+err.Error())
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	out, err := uc.library.SearchPrecedents(ctx, query, strings.TrimSpace(in.Category), limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Precedent{}
	}
	return out, nil
}
