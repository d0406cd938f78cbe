package validation

import (
	"sort"
	"strings"
)

// Result maps field identifiers to their validation message. A field without
// an entry is valid.
type Result map[string]string

// Valid reports whether no field failed.
func (r Result) Valid() bool {
	return len(r) == 0
}

// For returns the message attached to a field.
func (r Result) For(name string) string {
	if r == nil {
		return ""
	}
	return r[name]
}

// Clone returns an independent copy.
func (r Result) Clone() Result {
	out := make(Result, len(r))
	for key, value := range r {
		out[key] = value
	}
	return out
}

// Issue is a single field failure, shaped for JSON responses.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Issues lists failures following order; fields not named in order are
// appended alphabetically.
func (r Result) Issues(order []string) []Issue {
	if len(r) == 0 {
		return nil
	}

	out := make([]Issue, 0, len(r))
	seen := make(map[string]struct{}, len(r))
	for _, name := range order {
		if message, ok := r[name]; ok {
			out = append(out, Issue{Field: name, Message: message})
			seen[name] = struct{}{}
		}
	}

	var rest []string
	for name := range r {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		out = append(out, Issue{Field: name, Message: r[name]})
	}
	return out
}

// Error wraps a failing Result so Decode can report it through the error
// channel.
type Error struct {
	Result Result
	order  []string
}

func (e *Error) Error() string {
	if e == nil || len(e.Result) == 0 {
		return "validation: invalid input"
	}
	issues := e.Result.Issues(e.order)
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return "validation: " + strings.Join(parts, "; ")
}
