package model

import (
	"net/http"
	"time"

	"golang.org/x/text/language"
)

// DefaultFormID identifies the booking form in rendered markup and metrics.
const DefaultFormID = "booking"

// Option configures the booking registry.
type Option func(*config)

type config struct {
	now      time.Time
	location *time.Location
	locale   language.Tag
	action   string
}

// WithNow pins the instant used for the date placeholder.
func WithNow(now time.Time) Option {
	return func(cfg *config) {
		if !now.IsZero() {
			cfg.now = now
		}
	}
}

// WithLocation sets the time zone used to derive "today".
func WithLocation(loc *time.Location) Option {
	return func(cfg *config) {
		if loc != nil {
			cfg.location = loc
		}
	}
}

// WithLocale selects the locale used to format the date placeholder. Unknown
// tags fall back to ISO formatting.
func WithLocale(tag language.Tag) Option {
	return func(cfg *config) {
		cfg.locale = tag
	}
}

// WithAction overrides the form action URL.
func WithAction(action string) Option {
	return func(cfg *config) {
		if action != "" {
			cfg.action = action
		}
	}
}

// NewBookingForm builds the six-field booking registry. The date placeholder
// is fixed at construction time.
func NewBookingForm(options ...Option) FormModel {
	cfg := config{
		now:      time.Now(),
		location: time.Local,
		locale:   language.AmericanEnglish,
		action:   "/",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	today := cfg.now.In(cfg.location)

	return FormModel{
		ID:     DefaultFormID,
		Action: cfg.action,
		Method: http.MethodPost,
		Fields: []Field{
			{Name: FieldFirstName, Label: "First name", Placeholder: "John", Kind: InputText},
			{Name: FieldLastName, Label: "Last name", Placeholder: "Doe", Kind: InputText},
			{Name: FieldEmail, Label: "Email", Placeholder: "john@acme.com", Kind: InputEmail},
			{Name: FieldPhone, Label: "Phone number", Placeholder: "123 456 7890", Kind: InputTel},
			{Name: FieldDate, Label: "Booking date", Placeholder: today.Format(DateLayout(cfg.locale)), Kind: InputDate},
			{Name: FieldGroup, Label: "Group size", Placeholder: "1", Kind: InputNumber},
		},
	}
}

// DefaultValues returns the values the form is mounted with.
func DefaultValues(now time.Time, loc *time.Location) Values {
	if loc == nil {
		loc = time.Local
	}
	return Values{
		FirstName: "Landon",
		LastName:  "Johnson",
		Email:     "thefirebasegod@gmail.com",
		Phone:     "123 456 7890",
		Date:      now.In(loc).Format(ISODate),
		Group:     1,
	}
}

// ISODate is the wire format of the date input.
const ISODate = "2006-01-02"

// DateLayout returns the short date layout conventionally used by the
// locale's region. Regions missing from the table, and tags without a
// region, fall back to ISODate.
func DateLayout(tag language.Tag) string {
	region, _ := tag.Region()
	switch region.String() {
	case "US", "PH":
		return "1/2/2006"
	case "GB", "IE", "FR", "ES", "IT", "PT", "BR", "AU", "NZ", "IN", "GR", "BE", "AR", "MX":
		return "02/01/2006"
	case "DE", "AT", "CH", "RU", "PL", "NO", "FI", "CZ", "TR", "UA":
		return "2.1.2006"
	case "NL":
		return "2-1-2006"
	case "JP", "CN", "TW", "KR":
		return "2006/1/2"
	default:
		return ISODate
	}
}
