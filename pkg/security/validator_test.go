package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSearchQuery_AcceptsCourtTerms(t *testing.T) {
	cases := map[string]string{
		"":                            "",
		"Okafor v. Eze":               "Okafor v. Eze",
		"FHC/L/CS/100/2024":           "FHC/L/CS/100/2024",
		"  Adaeze Nwosu  ":            "Adaeze Nwosu",
		"armed robbery":               "armed robbery",
		"registry@fhc.gov.ng":         "registry@fhc.gov.ng",
		"Lagos State, Ikeja Division": "Lagos State, Ikeja Division",
		"execution of judgment":       "execution of judgment",
		"selection of assessors":      "selection of assessors",
		"Ọba Adéyẹmí":                 "Ọba Adéyẹmí",
		"CA/L/789/2021*":              "CA/L/789/2021*",
		"bench_warrant+remand":        "bench_warrant+remand",
	}

	cases[strings.Repeat("x", MaxSearchQueryLength)] = strings.Repeat("x", MaxSearchQueryLength)

	for query, want := range cases {
		got, err := ValidateSearchQuery(query)
		require.NoError(t, err, "query %q", query)
		assert.Equal(t, want, got, "query %q", query)
	}
}

func TestValidateSearchQuery_RejectsInjection(t *testing.T) {
	tests := []struct {
		query string
		want  error
	}{
		{strings.Repeat("a", MaxSearchQueryLength+1), errQueryTooLong},
		{"Okafor UNION SELECT password FROM users", errQueryInvalidChar},
		{"Eze or 1=1", errQueryInvalidChar},
		{"Eze' OR 'x'='x", errQueryInvalidChar},
		{"armed robbery -- closed", errQueryInvalidChar},
		{"Eze; DROP TABLE court_cases", errQueryInvalidChar},
		{"FHC/L/*", errQueryInvalidChar},
		{"Suit #42", errQueryInvalidChar},
		{"pg_sleep(10)", errQueryInvalidChar},
		{"<script>alert(1)</script>", errQueryInvalidChar},
		{"Okafor & Sons", errQueryInvalidChar},
		{"remand (custody)", errQueryInvalidChar},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := ValidateSearchQuery(tt.query)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, got)
		})
	}
}

func TestSanitizeSearchString_EscapesLikeWildcards(t *testing.T) {
	assert.Equal(t, "", SanitizeSearchString(""))
	assert.Equal(t, "Okafor v. Eze", SanitizeSearchString("Okafor v. Eze"))
	assert.Equal(t, `100\% liability`, SanitizeSearchString("100% liability"))
	assert.Equal(t, `bench\_warrant`, SanitizeSearchString("bench_warrant"))
	assert.Equal(t, `\%FHC\_L\%`, SanitizeSearchString("%FHC_L%"))
}

func TestIsValidSearchChar(t *testing.T) {
	for _, r := range "aZ5 -_.@+/,*ọé" {
		assert.True(t, isValidSearchChar(r), "%q should be allowed", r)
	}
	for _, r := range "#;&<>'\"=()%|\\" {
		assert.False(t, isValidSearchChar(r), "%q should be rejected", r)
	}
}

func TestMask(t *testing.T) {
	// NIN keeps its first four digits
	assert.Equal(t, "1234*******", Mask("12345678901", 4))
	assert.Equal(t, "+23480********", Mask("+2348031234567", 6))
	assert.Equal(t, "Ọb***", Mask("Ọbadé", 2))
	assert.Equal(t, "Eze", Mask("Eze", 4))
	assert.Equal(t, "", Mask("", 4))
}

func BenchmarkValidateSearchQuery(b *testing.B) {
	for b.Loop() {
		_, _ = ValidateSearchQuery("State v. Adebayo land dispute FHC/L/CS/100/2024")
	}
}
