package judicial

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"court-service/internal/domain/casefile"
	domain "court-service/internal/domain/judicial"
	apperrors "court-service/pkg/errors"
)

type MockLibrary struct {
	mock.Mock
}

func (m *MockLibrary) ListPrecedents(ctx context.Context) ([]domain.Precedent, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Precedent), args.Error(1)
}

func (m *MockLibrary) SearchPrecedents(ctx context.Context, query, category string, limit int) ([]domain.Precedent, error) {
	args := m.Called(ctx, query, category, limit)
	return args.Get(0).([]domain.Precedent), args.Error(1)
}

func (m *MockLibrary) ListStatutes(ctx context.Context) ([]domain.Statute, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Statute), args.Error(1)
}

type MockCases struct {
	mock.Mock
}

func (m *MockCases) GetByID(ctx context.Context, id int64) (*casefile.Case, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*casefile.Case), args.Error(1)
}

func setupTestUsecase(t *testing.T) (*Usecase, *MockLibrary, *MockCases) {
	lib := new(MockLibrary)
	cases := new(MockCases)
	return New(lib, cases, zaptest.NewLogger(t)), lib, cases
}

func TestDecisionSupport(t *testing.T) {
	uc, lib, cases := setupTestUsecase(t)
	ctx := context.Background()

	cases.On("GetByID", ctx, int64(3)).Return(&casefile.Case{
		ID: 3, CaseNumber: "FHC/L/CR/12/2026", Type: casefile.Type("criminal"),
		Charges: []string{"Fraud"}, Keywords: []string{"public funds"},
	}, nil)
	lib.On("ListPrecedents", ctx).Return([]domain.Precedent{
		{CaseNumber: "SC.1/2019", Category: "Criminal Law", Subcategories: []string{"Fraud"},
			Summary: "Misappropriation of public funds.", Date: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)},
		{CaseNumber: "SC.2/2020", Category: "Property Law", Summary: "Land dispute."},
	}, nil)
	lib.On("ListStatutes", ctx).Return([]domain.Statute{
		{Name: "Criminal Code Act", Summary: "Primary criminal statute.",
			Sections: []domain.Section{{Section: "s.419", Title: "False pretences", Content: "misuse of public funds"}}},
	}, nil)

	res, err := uc.DecisionSupport(ctx, 3)
	require.NoError(t, err)
	require.Len(t, res.Precedents, 1)
	assert.Equal(t, "SC.1/2019", res.Precedents[0].CaseNumber)
	assert.InDelta(t, 0.6, res.Precedents[0].RelevanceScore, 1e-9)
	require.Len(t, res.Statutes, 1)
	assert.NotEmpty(t, res.Recommendations)
	assert.NotEmpty(t, res.Disclaimer)
}

func TestDecisionSupport_CaseNotFound(t *testing.T) {
	uc, lib, cases := setupTestUsecase(t)
	ctx := context.Background()
	cases.On("GetByID", ctx, int64(404)).Return(nil, apperrors.NewNotFoundError("case", ""))

	_, err := uc.DecisionSupport(ctx, 404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	lib.AssertNotCalled(t, "ListPrecedents", mock.Anything)
}

func TestSearchPrecedents(t *testing.T) {
	uc, lib, _ := setupTestUsecase(t)
	ctx := context.Background()

	lib.On("SearchPrecedents", ctx, "land", "property law", 10).Return([]domain.Precedent{{CaseNumber: "SC.2/2020"}}, nil)
	lib.On("SearchPrecedents", ctx, "", "", 50).Return([]domain.Precedent(nil), nil)

	out, err := uc.SearchPrecedents(ctx, SearchRequest{Query: "land", Category: " property law "})
	require.NoError(t, err)
	assert.Len(t, out, 1)

	out, err = uc.SearchPrecedents(ctx, SearchRequest{Limit: 500})
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)

	_, err = uc.SearchPrecedents(ctx, SearchRequest{Query: "' OR 1=1 --"})
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}
