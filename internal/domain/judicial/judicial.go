package judicial

import (
	"sort"
	"strings"
	"time"
)

const (
	categoryWeight = 0.3
	chargeWeight   = 0.2
	keywordWeight  = 0.1
	maxRelevance   = 0.99

	// MinRelevance is the lowest score a precedent needs to be suggested.
	MinRelevance = 0.3
	// DefaultLimit is the number of precedents and statutes returned by decision support.
	DefaultLimit = 5
)

// Precedent is a reported judgment.
type Precedent struct {
	ID              int64     `json:"id"`
	CaseNumber      string    `json:"case_number"`
	CaseTitle       string    `json:"case_title"`
	Court           string    `json:"court"`
	Date            time.Time `json:"date"`
	Citation        string    `json:"citation"`
	Category        string    `json:"category"`
	Subcategories   []string  `json:"subcategories"`
	Judge           string    `json:"judge,omitempty"`
	Summary         string    `json:"summary"`
	Facts           string    `json:"facts"`
	Issues          []string  `json:"issues"`
	Holding         string    `json:"holding"`
	Reasoning       string    `json:"reasoning"`
	KeyPoints       []string  `json:"key_points"`
	StatutesCited   []string  `json:"statutes_cited"`
	PrecedentsCited []string  `json:"precedents_cited"`
}

// Section is a provision of a statute.
type Section struct {
	Section string `json:"section"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Statute is an enactment with its sections.
type Statute struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Citation string    `json:"citation"`
	Summary  string    `json:"summary"`
	Sections []Section `json:"sections"`
}

// Profile is the part of a case that drives decision support.
type Profile struct {
	CaseNumber string
	CaseType   string
	Charges    []string
	Facts      string
	Keywords   []string
}

// Match is a precedent scored against a case.
type Match struct {
	CaseNumber     string   `json:"case_number"`
	CaseTitle      string   `json:"case_title"`
	Court          string   `json:"court"`
	Date           string   `json:"date"`
	Citation       string   `json:"citation"`
	RelevanceScore float64  `json:"relevance_score"`
	KeyPoints      []string `json:"key_points"`
	Summary        string   `json:"summary"`
	Holding        string   `json:"holding"`
	Category       string   `json:"category"`
	Judge          string   `json:"judge,omitempty"`

	date time.Time
}

// StatuteMatch is a statute with the sections relevant to a case.
type StatuteMatch struct {
	Name             string    `json:"name"`
	Citation         string    `json:"citation"`
	Summary          string    `json:"summary"`
	RelevantSections []Section `json:"relevant_sections"`
}

// Recommendation is advisory guidance for the bench.
type Recommendation struct {
	Type                      string   `json:"recommendation_type"`
	Description               string   `json:"description"`
	Justification             string   `json:"justification"`
	ConfidenceScore           float64  `json:"confidence_score"`
	BasedOn                   []string `json:"based_on"`
	AlternativeConsiderations []string `json:"alternative_considerations,omitempty"`
	Caveats                   []string `json:"caveats,omitempty"`
	LegalReferences           []string `json:"legal_references,omitempty"`
}

// caseTypeCategories maps case types to precedent categories.
var caseTypeCategories = map[string]string{
	"criminal":       "criminal law",
	"civil":          "civil law",
	"land":           "property law",
	"commercial":     "commercial law",
	"family":         "family law",
	"constitutional": "constitutional law",
}

func categoryMatches(caseType, category string) bool {
	ct := strings.ToLower(strings.TrimSpace(caseType))
	cat := strings.ToLower(strings.TrimSpace(category))
	if ct == "" {
		return false
	}
	return cat == ct || cat == caseTypeCategories[ct]
}

// Score computes the relevance of a precedent to a case: category match, charges found
// among the precedent's subcategories, and keywords found in its summary or facts.
func Score(p Profile, prec Precedent) float64 {
	score := 0.0
	if categoryMatches(p.CaseType, prec.Category) {
		score += categoryWeight
	}

	subcategories := make(map[string]struct{}, len(prec.Subcategories))
	for _, s := range prec.Subcategories {
		subcategories[strings.ToLower(s)] = struct{}{}
	}
	for _, charge := range p.Charges {
		if _, ok := subcategories[strings.ToLower(charge)]; ok {
			score += chargeWeight
		}
	}

	text := strings.ToLower(prec.Summary + " " + prec.Facts)
	for _, kw := range p.Keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" && strings.Contains(text, kw) {
			score += keywordWeight
		}
	}

	if score > maxRelevance {
		score = maxRelevance
	}
	return score
}

// RankPrecedents returns up to limit precedents scoring at least MinRelevance,
// highest first with newer judgments winning ties.
func RankPrecedents(p Profile, precedents []Precedent, limit int) []Match {
	matches := make([]Match, 0, len(precedents))
	for _, prec := range precedents {
		score := Score(p, prec)
		// round away float drift so 0.1+0.2 counts as 0.3
		if score+1e-9 < MinRelevance {
			continue
		}
		matches = append(matches, Match{
			CaseNumber:     prec.CaseNumber,
			CaseTitle:      prec.CaseTitle,
			Court:          prec.Court,
			Date:           prec.Date.Format("2006-01-02"),
			Citation:       prec.Citation,
			RelevanceScore: score,
			KeyPoints:      prec.KeyPoints,
			Summary:        prec.Summary,
			Holding:        prec.Holding,
			Category:       prec.Category,
			Judge:          prec.Judge,
			date:           prec.Date,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].RelevanceScore != matches[j].RelevanceScore {
			return matches[i].RelevanceScore > matches[j].RelevanceScore
		}
		return matches[i].date.After(matches[j].date)
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func statuteMentions(s Statute, terms []string) bool {
	name := strings.ToLower(s.Name)
	summary := strings.ToLower(s.Summary)
	for _, t := range terms {
		if t = strings.ToLower(strings.TrimSpace(t)); t == "" {
			continue
		}
		if strings.Contains(name, t) || strings.Contains(summary, t) {
			return true
		}
	}
	return false
}

// FindStatutes returns statutes whose name or summary mentions the case type, a charge or
// a keyword, and that have at least one section mentioning a keyword.
func FindStatutes(p Profile, statutes []Statute, limit int) []StatuteMatch {
	terms := append(append([]string{p.CaseType}, p.Charges...), p.Keywords...)

	var out []StatuteMatch
	for _, s := range statutes {
		if !statuteMentions(s, terms) {
			continue
		}
		var sections []Section
		for _, sec := range s.Sections {
			content := strings.ToLower(sec.Content + " " + sec.Title)
			for _, kw := range p.Keywords {
				if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" && strings.Contains(content, kw) {
					sections = append(sections, sec)
					break
				}
			}
		}
		if len(sections) > 0 {
			out = append(out, StatuteMatch{Name: s.Name, Citation: s.Citation, Summary: s.Summary, RelevantSections: sections})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].RelevantSections) > len(out[j].RelevantSections)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
