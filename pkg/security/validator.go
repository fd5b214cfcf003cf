package security

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

const (
	// MaxSearchQueryLength defines the maximum allowed length for search queries
	MaxSearchQueryLength = 100
)

var (
	errQueryTooLong     = errors.New("search query too long")
	errQueryInvalidChar = errors.New("search query contains invalid characters")
)

// dangerousPatterns flag SQL injection and script injection attempts.
// Keywords are matched on word boundaries so legal vocabulary such as
// "execution" or "selection" stays searchable.
var dangerousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(union|select|insert|update|delete|drop|create|alter|exec|execute|truncate)\b`),
	regexp.MustCompile(`(?i)\b(or|and)\s+\d+\s*=\s*\d+`),
	regexp.MustCompile(`(?i)\b(or|and)\s+['"].*['"]\s*=\s*['"].*['"]`),
	regexp.MustCompile(`(--|#|/\*|\*/)`),
	regexp.MustCompile(`(?i)\b(waitfor|benchmark|pg_sleep|sleep)\b`),
	regexp.MustCompile(`(?i)(<script|</script|javascript:|vbscript:|onload=|onerror=)`),
}

// ValidateSearchQuery trims a free-text search query and rejects injection attempts.
func ValidateSearchQuery(query string) (string, error) {
	if query == "" {
		return "", nil
	}

	if len(query) > MaxSearchQueryLength {
		return "", errQueryTooLong
	}

	query = strings.TrimSpace(query)

	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(query) {
			return "", errQueryInvalidChar
		}
	}

	for _, char := range query {
		if !isValidSearchChar(char) {
			return "", errQueryInvalidChar
		}
	}

	return query, nil
}

// isValidSearchChar allows letters, digits, spaces and the punctuation found in
// names, emails and case numbers (e.g. "CA/L/789/2021").
func isValidSearchChar(char rune) bool {
	if unicode.IsLetter(char) || unicode.IsNumber(char) {
		return true
	}
	switch char {
	case ' ', '-', '_', '.', '@', '+', '/', ',', '*':
		return true
	}
	return false
}

// SanitizeSearchString escapes LIKE wildcards.
func SanitizeSearchString(query string) string {
	if query == "" {
		return ""
	}

	query = strings.ReplaceAll(query, "%", "\\%")
	query = strings.ReplaceAll(query, "_", "\\_")

	return query
}

// Mask keeps the first visible characters of value and replaces the rest with '*'.
func Mask(value string, visible int) string {
	runes := []rune(value)
	if len(runes) <= visible {
		return value
	}
	return string(runes[:visible]) + strings.Repeat("*", len(runes)-visible)
}
