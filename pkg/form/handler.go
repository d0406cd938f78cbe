package form

import (
	"context"
	"log/slog"

	"github.com/goliatone/go-bookingform/pkg/model"
)

// LogSubmission returns the default submit handler: it writes the booking to
// logger and finishes the submission immediately.
func LogSubmission(logger *slog.Logger) SubmitFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, values model.Values, actions Actions) error {
		logger.InfoContext(ctx, "success", ValueAttrs(values)...)
		actions.SetSubmitting(false)
		return nil
	}
}

// ValueAttrs flattens booking values into log attributes.
func ValueAttrs(values model.Values) []any {
	return []any{
		slog.String(model.FieldFirstName, values.FirstName),
		slog.String(model.FieldLastName, values.LastName),
		slog.String(model.FieldEmail, values.Email),
		slog.String(model.FieldPhone, values.Phone),
		slog.String(model.FieldDate, values.Date),
		slog.Int(model.FieldGroup, values.Group),
	}
}
