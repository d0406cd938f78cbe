package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goliatone/go-bookingform/pkg/model"
)

// Rule is one predicate/message pair. Test reports whether the raw input
// satisfies the rule. Param carries the rule's bound (length, pattern source,
// date or number) for consumers that describe the schema elsewhere.
type Rule struct {
	Name    string
	Message string
	Param   any
	Test    func(value string) bool
}

// Canonical rule identifiers.
const (
	RuleRequired  = "required"
	RuleMinLength = "minLength"
	RuleMaxLength = "maxLength"
	RuleEmail     = "email"
	RulePattern   = "pattern"
	RuleDate      = "date"
	RuleMinDate   = "minDate"
	RuleNumber    = "number"
	RuleInteger   = "integer"
	RuleMin       = "min"
	RuleMax       = "max"
)

var (
	// PhonePattern accepts North American style numbers with optional
	// country prefix, parentheses and separators.
	PhonePattern = regexp.MustCompile(`^[+]?[(]?[0-9]{3}[)]?[-\s.]?[0-9]{3}[-\s.]?[0-9]{4,6}$`)

	emailPattern = regexp.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)*$")
)

// PhoneMessage is reported when the phone number does not match PhonePattern.
const PhoneMessage = "Phone number must match the following pattern: 123 456 7890"

// Required rejects empty input.
func Required(label string) Rule {
	return Rule{
		Name:    RuleRequired,
		Message: fmt.Sprintf("%s is a required field", label),
		Test: func(value string) bool {
			return value != ""
		},
	}
}

// MinLength rejects input shorter than n characters.
func MinLength(label string, n int) Rule {
	return Rule{
		Name:    RuleMinLength,
		Message: fmt.Sprintf("%s must be at least %d characters", label, n),
		Param:   n,
		Test: func(value string) bool {
			return utf8.RuneCountInString(value) >= n
		},
	}
}

// MaxLength rejects input longer than n characters.
func MaxLength(label string, n int) Rule {
	return Rule{
		Name:    RuleMaxLength,
		Message: fmt.Sprintf("%s must be at most %d characters", label, n),
		Param:   n,
		Test: func(value string) bool {
			return utf8.RuneCountInString(value) <= n
		},
	}
}

// Email requires a syntactically valid address.
func Email(label string) Rule {
	return Rule{
		Name:    RuleEmail,
		Message: fmt.Sprintf("%s must be a valid email", label),
		Test:    emailPattern.MatchString,
	}
}

// Matches requires the input to match pattern, reporting message otherwise.
func Matches(pattern *regexp.Regexp, message string) Rule {
	return Rule{
		Name:    RulePattern,
		Message: message,
		Param:   pattern.String(),
		Test:    pattern.MatchString,
	}
}

// DateType requires an ISO calendar date (YYYY-MM-DD).
func DateType(label string, loc *time.Location) Rule {
	return Rule{
		Name:    RuleDate,
		Message: fmt.Sprintf("%s must be a `date` type", label),
		Test: func(value string) bool {
			_, ok := parseDate(value, loc)
			return ok
		},
	}
}

// MinDate requires the date to fall on or after bound.
func MinDate(label string, bound time.Time, loc *time.Location) Rule {
	return Rule{
		Name:    RuleMinDate,
		Message: fmt.Sprintf("%s field must be later than %s", label, bound.Format(model.ISODate)),
		Param:   bound,
		Test: func(value string) bool {
			date, ok := parseDate(value, loc)
			return ok && !date.Before(bound)
		},
	}
}

// NumberType requires a finite decimal number.
func NumberType(label string) Rule {
	return Rule{
		Name:    RuleNumber,
		Message: fmt.Sprintf("%s must be a `number` type", label),
		Test: func(value string) bool {
			_, ok := parseNumber(value)
			return ok
		},
	}
}

// Integer requires a whole number.
func Integer(label string) Rule {
	return Rule{
		Name:    RuleInteger,
		Message: fmt.Sprintf("%s must be an integer", label),
		Test: func(value string) bool {
			n, ok := parseNumber(value)
			return ok && n == math.Trunc(n)
		},
	}
}

// Min requires a number greater than or equal to n.
func Min(label string, n float64) Rule {
	return Rule{
		Name:    RuleMin,
		Message: fmt.Sprintf("%s must be greater than or equal to %s", label, formatNumber(n)),
		Param:   n,
		Test: func(value string) bool {
			v, ok := parseNumber(value)
			return ok && v >= n
		},
	}
}

// Max requires a number less than or equal to n.
func Max(label string, n float64) Rule {
	return Rule{
		Name:    RuleMax,
		Message: fmt.Sprintf("%s must be less than or equal to %s", label, formatNumber(n)),
		Param:   n,
		Test: func(value string) bool {
			v, ok := parseNumber(value)
			return ok && v <= n
		},
	}
}

func parseDate(value string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	date, err := time.ParseInLocation(model.ISODate, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

func parseNumber(value string) (float64, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
