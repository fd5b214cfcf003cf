package anonymize

import (
	"fmt"
	"regexp"
	"sort"
)

// EntityType is a category of sensitive information.
type EntityType string

// Entity types in redaction priority order: when matches overlap, the earlier type wins.
const (
	Email     EntityType = "EMAIL"
	Phone     EntityType = "PHONE"
	NIN       EntityType = "NIN"
	Passport  EntityType = "PASSPORT"
	Address   EntityType = "ADDRESS"
	Witness   EntityType = "WITNESS"
	Victim    EntityType = "VICTIM"
	Defendant EntityType = "DEFENDANT"
	Minor     EntityType = "MINOR"
)

// EntityInfo describes an entity type for clients.
type EntityInfo struct {
	Type        EntityType `json:"type"`
	Description string     `json:"description"`
}

type entity struct {
	info     EntityInfo
	patterns []*regexp.Regexp
}

func compile(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

var entities = []entity{
	{EntityInfo{Email, "Email addresses"}, compile(
		`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`,
	)},
	{EntityInfo{Phone, "Telephone numbers"}, compile(
		`(?:\+234|\b0)\d{10}\b`,
		`\b\d{4}[-\s]\d{3}[-\s]?\d{4}\b`,
		`\b\d{4}[-\s]?\d{3}[-\s]\d{4}\b`,
	)},
	{EntityInfo{NIN, "National Identification Numbers"}, compile(
		`\b\d{11}\b`,
	)},
	{EntityInfo{Passport, "Passport numbers"}, compile(
		`\b[A-Z]\d{8}\b`,
	)},
	{EntityInfo{Address, "Street addresses and estates"}, compile(
		`\b\d+\s+[A-Za-z]+\s+(?:Street|Avenue|Road|Lane|Drive|Close|Crescent)\b`,
		`\b(?:Estate|Compound|Quarters)\b`,
	)},
	{EntityInfo{Witness, "Witnesses"}, compile(
		`\b(?:first|second|third|fourth|fifth) witness\b`,
		`\b(?:prosecution|defense) witness\b`,
		`\b(?:witness|eyewitness|bystander)\b`,
	)},
	{EntityInfo{Victim, "Victims and complainants"}, compile(
		`\b(?:victim|complainant|injured party)\b`,
		`\b(?:Adesola|Chioma|Ahmed|Oluwafemi|Fatima)\b`,
	)},
	{EntityInfo{Defendant, "Defendants and suspects"}, compile(
		`\b(?:defendant|accused|perpetrator|suspect)\b`,
		`\b(?:Adebayo|Chukwu|Mohammed|Oluwaseun|Ibrahim)\b`,
	)},
	{EntityInfo{Minor, "Minors and children"}, compile(
		`\b(?:child|minor|juvenile|underage)\b`,
		`\b(?:boy|girl|teenager|infant|baby)\b`,
	)},
}

// Types lists the supported entity types.
func Types() []EntityInfo {
	out := make([]EntityInfo, len(entities))
	for i, e := range entities {
		out[i] = e.info
	}
	return out
}

// Known reports whether t is a supported entity type.
func Known(t EntityType) bool {
	for _, e := range entities {
		if e.info.Type == t {
			return true
		}
	}
	return false
}

// Result is redacted text with per-type counts.
type Result struct {
	Text       string             `json:"anonymized_text"`
	Redactions map[EntityType]int `json:"redactions"`
}

type span struct {
	start, end int
	priority   int
	typ        EntityType
}

// Text replaces every occurrence of the selected entity types with [REDACTED-<TYPE>].
// An empty selection means all types. Overlapping matches are resolved by priority,
// then by earliest start, then by longest match.
func Text(text string, selected []EntityType) Result {
	want := make(map[EntityType]bool, len(selected))
	for _, t := range selected {
		want[t] = true
	}

	var spans []span
	for prio, e := range entities {
		if len(want) > 0 && !want[e.info.Type] {
			continue
		}
		for _, re := range e.patterns {
			for _, loc := range re.FindAllStringIndex(text, -1) {
				spans = append(spans, span{start: loc[0], end: loc[1], priority: prio, typ: e.info.Type})
			}
		}
	}

	sort.SliceStable(spans, func(i, j int) bool {
		a, b := spans[i], spans[j]
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		if a.start != b.start {
			return a.start < b.start
		}
		return a.end-a.start > b.end-b.start
	})

	var accepted []span
	for _, s := range spans {
		overlaps := false
		for _, a := range accepted {
			if s.start < a.end && a.start < s.end {
				overlaps = true
				break
			}
		}
		if !overlaps {
			accepted = append(accepted, s)
		}
	}
	sort.Slice(accepted, func(i, j int) bool { return accepted[i].start < accepted[j].start })

	res := Result{Redactions: map[EntityType]int{}}
	out := make([]byte, 0, len(text))
	last := 0
	for _, s := range accepted {
		out = append(out, text[last:s.start]...)
		out = append(out, fmt.Sprintf("[REDACTED-%s]", s.typ)...)
		last = s.end
		res.Redactions[s.typ]++
	}
	out = append(out, text[last:]...)
	res.Text = string(out)
	return res
}
