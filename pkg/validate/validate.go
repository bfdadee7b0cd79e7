// Package validate holds the field-level validation rules shared by the
// request-handling layer and the persisted entity's schema rules. Every
// predicate is total: any input value yields a verdict, never a panic.
package validate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MinAge and MaxAge bound the accepted age range, inclusive.
	MinAge = 1
	MaxAge = 100

	// MinPasswordLength is the minimum trimmed password length.
	MinPasswordLength = 8
)

var (
	digitRe = regexp.MustCompile(`\d`)

	// emailRe is the strict pattern enforced on registration and storage.
	emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// looseEmailRe is the permissive pattern used only by the availability
	// endpoint. Kept deliberately looser than emailRe.
	looseEmailRe = regexp.MustCompile(`^\S+@\S+\.\S+$`)

	lowerRe   = regexp.MustCompile(`[a-z]`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	specialRe = regexp.MustCompile(`[\W_]`)
)

// Name reports whether v is a string whose trimmed form has length >= 2.
// This is the lenient variant; write paths use StrictName.
func Name(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return len(strings.TrimSpace(s)) >= 2
}

// StrictName reports whether v is a non-empty string containing no digit
// characters. This is the rule enforced on registration and update.
func StrictName(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	s = strings.TrimSpace(s)
	return s != "" && !digitRe.MatchString(s)
}

// Age converts v to an integer age. It accepts numeric JSON values and
// numeric strings. ok is false for fractional, out-of-range or non-numeric
// input.
func Age(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return checkAge(float64(n))
	case int64:
		return checkAge(float64(n))
	case float64:
		return checkAge(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return checkAge(f)
	default:
		return 0, false
	}
}

func checkAge(f float64) (int, bool) {
	if f != math.Trunc(f) || f < MinAge || f > MaxAge {
		return 0, false
	}
	return int(f), true
}

// Email reports whether s matches the strict email pattern after
// normalization.
func Email(s string) bool {
	return emailRe.MatchString(NormalizeEmail(s))
}

// LooseEmail reports whether s matches the permissive availability-check
// pattern.
func LooseEmail(s string) bool {
	return looseEmailRe.MatchString(s)
}

// NormalizeEmail trims and lowercases an email for comparison and storage.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Password reports whether s satisfies the strength rule: trimmed length of
// at least MinPasswordLength with at least one lowercase letter, one
// uppercase letter and one character outside [A-Za-z0-9].
func Password(s string) bool {
	if len(strings.TrimSpace(s)) < MinPasswordLength {
		return false
	}
	return lowerRe.MatchString(s) && upperRe.MatchString(s) && specialRe.MatchString(s)
}

// Blank reports whether v is absent for the purposes of the "all fields need
// to be filled" check: nil, or a string that trims to empty. Non-string
// values count as filled; their type is judged by the field validators.
func Blank(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}
