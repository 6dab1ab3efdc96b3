// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const defaultRegion = "US"

// NormalizeE164 formats a phone number to E.164. If parsing fails, it returns the trimmed input.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}

// Digits strips every non-digit character.
func Digits(input string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, input)
}

// Candidates returns the representations of input that a contact search should try,
// most preferred first. US conventions apply: 10-digit numbers are local and
// 11-digit numbers starting with 1 carry the country code.
// Returns nil when input has no digits.
func Candidates(input string) []string {
	trimmed := strings.TrimSpace(input)
	digits := Digits(trimmed)
	if digits == "" {
		return nil
	}

	candidates := []string{trimmed}

	if e164 := NormalizeE164(trimmed); strings.HasPrefix(e164, "+") {
		candidates = append(candidates, e164)
	}

	if !strings.HasPrefix(trimmed, "+") {
		candidates = append(candidates, "+"+digits)
	}
	candidates = append(candidates, digits)

	switch {
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		local := digits[1:]
		candidates = append(candidates, "+"+digits, local, "+1"+local)
	case len(digits) == 10:
		candidates = append(candidates, "+1"+digits, digits)
	}

	return dedupe(candidates)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
