package judicial

import (
	"fmt"
	"strings"
)

var standardCaveats = []string{
	"This recommendation is based on limited case information",
	"The court should consider any unique circumstances not captured in the case summary",
}

// Recommend builds advisory recommendations for a case: one for its family of
// proceedings when known, and a procedural one always.
func Recommend(p Profile, precedents []Match, statutes []StatuteMatch) []Recommendation {
	var recs []Recommendation

	caseType := strings.ToLower(p.CaseType)
	switch {
	case strings.Contains(caseType, "criminal"):
		recs = append(recs, Recommendation{
			Type:        "Criminal Case Decision",
			Description: "Consider the elements of the offense and the standard of proof",
			Justification: "Based on similar precedents, the court should carefully evaluate whether all elements " +
				"of the alleged offense have been proven beyond reasonable doubt. The evidence presented should be " +
				"scrutinized for reliability and consistency.",
			ConfidenceScore: 0.85,
			AlternativeConsiderations: []string{
				"Consider mitigating factors if guilt is established",
				"Evaluate the credibility of witness testimony",
			},
		})
	case strings.Contains(caseType, "civil"), strings.Contains(caseType, "land"), strings.Contains(caseType, "property"):
		recs = append(recs, Recommendation{
			Type:        "Civil Case Decision",
			Description: "Evaluate preponderance of evidence and applicable legal principles",
			Justification: "Based on similar precedents, the court should determine which party has presented more " +
				"convincing evidence and arguments. The applicable legal principles from precedent cases should guide " +
				"the interpretation of the current dispute.",
			ConfidenceScore: 0.78,
			AlternativeConsiderations: []string{
				"Consider equitable remedies if appropriate",
				"Evaluate potential for settlement or alternative dispute resolution",
			},
		})
	case strings.Contains(caseType, "commercial"), strings.Contains(caseType, "contract"):
		recs = append(recs, Recommendation{
			Type:        "Commercial Case Decision",
			Description: "Evaluate contractual obligations and commercial practices",
			Justification: "Based on similar precedents, the court should carefully interpret the contractual terms " +
				"and evaluate whether parties fulfilled their obligations. Industry standards and commercial practices " +
				"should be considered in the context of the dispute.",
			ConfidenceScore: 0.82,
			AlternativeConsiderations: []string{
				"Consider the potential economic impact of the decision",
				"Evaluate whether specific performance or damages is the appropriate remedy",
			},
		})
	}

	if len(recs) == 1 {
		recs[0].BasedOn, recs[0].LegalReferences = grounds(precedents, statutes)
		recs[0].Caveats = standardCaveats
	}

	return append(recs, Recommendation{
		Type:        "Procedural Consideration",
		Description: "Ensure procedural fairness and due process",
		Justification: "The court should ensure that all parties have had adequate opportunity to present their case " +
			"and that all procedural requirements have been satisfied. This includes proper notice, opportunity to " +
			"be heard, and adherence to court rules.",
		ConfidenceScore: 0.95,
		BasedOn:         []string{"Nigerian Constitution", "Court of Appeal Rules", "High Court Civil Procedure Rules"},
		AlternativeConsiderations: []string{
			"Consider whether additional evidence or submissions are needed",
			"Evaluate whether any procedural irregularities have prejudiced either party",
		},
		Caveats: []string{"Procedural requirements may vary based on court jurisdiction and case type"},
	})
}

// grounds cites the two strongest precedents and up to two sections of each statute.
func grounds(precedents []Match, statutes []StatuteMatch) (basedOn, references []string) {
	basedOn = []string{}
	for i, m := range precedents {
		if i == 2 {
			break
		}
		basedOn = append(basedOn, m.CaseTitle)
		references = append(references, m.Holding)
	}
	for _, s := range statutes {
		for i, sec := range s.RelevantSections {
			if i == 2 {
				break
			}
			basedOn = append(basedOn, fmt.Sprintf("%s %s", s.Name, sec.Section))
		}
	}
	return basedOn, references
}
