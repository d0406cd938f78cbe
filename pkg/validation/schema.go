package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-bookingform/pkg/model"
)

// ErrUnknownField is returned when rules target a field the schema does not
// declare.
var ErrUnknownField = errors.New("validation: unknown field")

// Name length bounds for the first and last name fields.
const (
	NameMinLength = 1
	NameMaxLength = 32
)

// Group size bounds.
const (
	GroupMin = 1
	GroupMax = 16
)

// Schema is a table of field identifier to ordered rules. Rules for a field are
// evaluated top to bottom and the first failure wins; fields never look at
// each other.
type Schema struct {
	order    []string
	labels   map[string]string
	rules    map[string][]Rule
	location *time.Location
	minDate  time.Time
}

// Option configures the schema before the rule table is built.
type Option func(*schemaConfig)

type schemaConfig struct {
	now      time.Time
	location *time.Location
}

// WithNow pins the instant used to compute the earliest bookable date.
func WithNow(now time.Time) Option {
	return func(cfg *schemaConfig) {
		if !now.IsZero() {
			cfg.now = now
		}
	}
}

// WithLocation sets the time zone used to parse dates and derive "today".
func WithLocation(loc *time.Location) Option {
	return func(cfg *schemaConfig) {
		if loc != nil {
			cfg.location = loc
		}
	}
}

// NewSchema builds the booking schema. The earliest bookable date is midnight
// of the construction day and is not re-evaluated on later Validate calls; a
// long-lived schema keeps accepting the day it was built on.
func NewSchema(options ...Option) *Schema {
	cfg := schemaConfig{
		now:      time.Now(),
		location: time.Local,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	today := cfg.now.In(cfg.location)
	minDate := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, cfg.location)

	s := &Schema{
		labels:   make(map[string]string),
		rules:    make(map[string][]Rule),
		location: cfg.location,
		minDate:  minDate,
	}

	s.add(model.FieldFirstName, "First name",
		Required("First name"),
		MinLength("First name", NameMinLength),
		MaxLength("First name", NameMaxLength),
	)
	s.add(model.FieldLastName, "Last name",
		Required("Last name"),
		MinLength("Last name", NameMinLength),
		MaxLength("Last name", NameMaxLength),
	)
	s.add(model.FieldEmail, "Email",
		Required("Email"),
		Email("Email"),
	)
	s.add(model.FieldPhone, "Phone number",
		Required("Phone number"),
		Matches(PhonePattern, PhoneMessage),
	)
	s.add(model.FieldDate, "Date",
		Required("Date"),
		DateType("Date", cfg.location),
		MinDate("Date", minDate, cfg.location),
	)
	s.add(model.FieldGroup, "Group size",
		Required("Group size"),
		NumberType("Group size"),
		Integer("Group size"),
		Min("Group size", GroupMin),
		Max("Group size", GroupMax),
	)

	return s
}

func (s *Schema) add(name, label string, rules ...Rule) {
	if _, exists := s.rules[name]; !exists {
		s.order = append(s.order, name)
	}
	s.labels[name] = label
	s.rules[name] = append(s.rules[name], rules...)
}

// Extend appends rules to a field already in the schema. Schemas are shared
// by concurrent sessions once built, so Extend must only be called during
// setup, before the schema is handed to a controller.
func (s *Schema) Extend(name string, rules ...Rule) error {
	name = strings.TrimSpace(name)
	if _, ok := s.rules[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	s.add(name, s.labels[name], rules...)
	return nil
}

// Fields returns the identifiers covered by the schema in declaration order.
func (s *Schema) Fields() []string {
	return append([]string(nil), s.order...)
}

// Label returns the label used in generated messages for a field.
func (s *Schema) Label(name string) string {
	return s.labels[name]
}

// Rules returns a copy of the ordered rules for a field.
func (s *Schema) Rules(name string) []Rule {
	return append([]Rule(nil), s.rules[name]...)
}

// MinDate reports the earliest bookable date captured at construction.
func (s *Schema) MinDate() time.Time {
	return s.minDate
}

// ValidateField returns the first failing rule message for a single field, or
// the empty string when the value passes.
func (s *Schema) ValidateField(name, value string) string {
	for _, rule := range s.rules[name] {
		if rule.Test == nil {
			continue
		}
		if !rule.Test(value) {
			return rule.Message
		}
	}
	return ""
}

// Validate evaluates every field and returns the failing ones. Missing keys
// are treated as empty input.
func (s *Schema) Validate(values model.RawValues) Result {
	result := make(Result)
	for _, name := range s.order {
		if message := s.ValidateField(name, values[name]); message != "" {
			result[name] = message
		}
	}
	return result
}

// Decode validates raw input and converts it into typed booking values.
func (s *Schema) Decode(values model.RawValues) (model.Values, error) {
	result := s.Validate(values)
	if !result.Valid() {
		return model.Values{}, &Error{Result: result, order: s.Fields()}
	}

	group, err := strconv.ParseFloat(strings.TrimSpace(values[model.FieldGroup]), 64)
	if err != nil {
		return model.Values{}, fmt.Errorf("validation: decode group: %w", err)
	}
	date, _ := parseDate(values[model.FieldDate], s.location)

	return model.Values{
		FirstName: values[model.FieldFirstName],
		LastName:  values[model.FieldLastName],
		Email:     values[model.FieldEmail],
		Phone:     values[model.FieldPhone],
		Date:      date.Format(model.ISODate),
		Group:     int(group),
	}, nil
}
