package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"court-service/internal/domain/judicial"
)

// JudicialRepoPG reads the precedent and statute library.
type JudicialRepoPG struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewJudicialRepoPG creates a new instance of JudicialRepoPG.
func NewJudicialRepoPG(db *gorm.DB, log *zap.Logger) *JudicialRepoPG {
	return &JudicialRepoPG{db: db, log: log}
}

// ListPrecedents returns the whole precedent library.
func (r *JudicialRepoPG) ListPrecedents(ctx context.Context) ([]judicial.Precedent, error) {
	var models []PrecedentSchema
	if err := r.db.WithContext(ctx).Order("decided_on DESC").Find(&models).Error; err != nil {
		r.log.Error("failed to list precedents", zap.Error(err))
		return nil, translate(err, "precedent")
	}
	return precedentsFromSchema(models), nil
}

// SearchPrecedents matches query against title, summary and holding, optionally within a category.
// query must already be validated.
func (r *JudicialRepoPG) SearchPrecedents(ctx context.Context, query, category string, limit int) ([]judicial.Precedent, error) {
	tx := r.db.WithContext(ctx).Model(&PrecedentSchema{})
	if query != "" {
		p := likePattern(query)
		tx = tx.Where("("+fmt.Sprintf(likeClause, "case_title")+" OR "+fmt.Sprintf(likeClause, "summary")+
			" OR "+fmt.Sprintf(likeClause, "holding")+" OR "+fmt.Sprintf(likeClause, "citation")+")",
			p, p, p, p)
	}
	if category != "" {
		tx = tx.Where("LOWER(category) = LOWER(?)", category)
	}

	var models []PrecedentSchema
	if err := tx.Order("decided_on DESC").Limit(limit).Find(&models).Error; err != nil {
		r.log.Error("failed to search precedents", zap.Error(err), zap.String("category", category))
		return nil, translate(err, "precedent")
	}
	return precedentsFromSchema(models), nil
}

// ListStatutes returns the whole statute library.
func (r *JudicialRepoPG) ListStatutes(ctx context.Context) ([]judicial.Statute, error) {
	var models []StatuteSchema
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&models).Error; err != nil {
		r.log.Error("failed to list statutes", zap.Error(err))
		return nil, translate(err, "statute")
	}

	statutes := make([]judicial.Statute, len(models))
	for i, m := range models {
		sections := make([]judicial.Section, len(m.Sections))
		for j, s := range m.Sections {
			sections[j] = judicial.Section(s)
		}
		statutes[i] = judicial.Statute{
			ID:       m.ID,
			Name:     m.Name,
			Citation: m.Citation,
			Summary:  m.Summary,
			Sections: sections,
		}
	}
	return statutes, nil
}

func precedentsFromSchema(models []PrecedentSchema) []judicial.Precedent {
	out := make([]judicial.Precedent, len(models))
	for i, m := range models {
		out[i] = judicial.Precedent{
			ID:              m.ID,
			CaseNumber:      m.CaseNumber,
			CaseTitle:       m.CaseTitle,
			Court:           m.Court,
			Date:            m.DecidedOn,
			Citation:        m.Citation,
			Category:        m.Category,
			Subcategories:   m.Subcategories,
			Judge:           m.Judge,
			Summary:         m.Summary,
			Facts:           m.Facts,
			Issues:          m.Issues,
			Holding:         m.Holding,
			Reasoning:       m.Reasoning,
			KeyPoints:       m.KeyPoints,
			StatutesCited:   m.StatutesCited,
			PrecedentsCited: m.PrecedentsCited,
		}
	}
	return out
}
