package warrant

import "sort"

// TypeSpec describes a warrant type.
type TypeSpec struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	RequiredFields []string `json:"required_fields"`
	ValidityDays   int      `json:"validity_days"`
}

// Agency is a law enforcement or correctional body that receives warrants.
type Agency struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	WarrantTypes []string `json:"warrant_types"`
}

var typeSpecs = map[string]TypeSpec{
	"arrest": {
		ID:             "arrest",
		Name:           "Arrest Warrant",
		Description:    "Authorizes the arrest and detention of a named person",
		RequiredFields: []string{"subject_name", "subject_address", "offence", "issuing_court"},
		ValidityDays:   90,
	},
	"search": {
		ID:             "search",
		Name:           "Search Warrant",
		Description:    "Authorizes the search of premises for specified items",
		RequiredFields: []string{"premises_address", "items_to_search_for", "issuing_court"},
		ValidityDays:   30,
	},
	"remand": {
		ID:             "remand",
		Name:           "Remand Warrant",
		Description:    "Orders the custody of a defendant pending trial",
		RequiredFields: []string{"subject_name", "detention_facility", "case_number", "issuing_court", "remand_period"},
		ValidityDays:   14,
	},
	"execution": {
		ID:             "execution",
		Name:           "Warrant of Execution",
		Description:    "Enforces a court judgment",
		RequiredFields: []string{"subject_name", "case_number", "judgment_details", "issuing_court"},
		ValidityDays:   365,
	},
	"commitment": {
		ID:             "commitment",
		Name:           "Warrant of Commitment",
		Description:    "Commits a convicted person to a correctional facility",
		RequiredFields: []string{"subject_name", "correctional_facility", "sentence_details", "case_number", "issuing_court"},
		ValidityDays:   365,
	},
}

var agencies = map[string]Agency{
	"ncs":  {ID: "ncs", Name: "Nigerian Correctional Service", WarrantTypes: []string{"remand", "commitment", "execution"}},
	"npf":  {ID: "npf", Name: "Nigeria Police Force", WarrantTypes: []string{"arrest", "search"}},
	"efcc": {ID: "efcc", Name: "Economic and Financial Crimes Commission", WarrantTypes: []string{"arrest", "search"}},
	"icpc": {ID: "icpc", Name: "Independent Corrupt Practices Commission", WarrantTypes: []string{"arrest", "search"}},
}

// LookupType returns the spec for a warrant type.
func LookupType(id string) (TypeSpec, bool) {
	t, ok := typeSpecs[id]
	return t, ok
}

// LookupAgency returns an agency by id.
func LookupAgency(id string) (Agency, bool) {
	a, ok := agencies[id]
	return a, ok
}

// Handles reports whether the agency accepts warrants of warrantType.
func (a Agency) Handles(warrantType string) bool {
	for _, t := range a.WarrantTypes {
		if t == warrantType {
			return true
		}
	}
	return false
}

// Types lists warrant types sorted by id.
func Types() []TypeSpec {
	out := make([]TypeSpec, 0, len(typeSpecs))
	for _, t := range typeSpecs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Agencies lists agencies sorted by id.
func Agencies() []Agency {
	out := make([]Agency, 0, len(agencies))
	for _, a := range agencies {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
