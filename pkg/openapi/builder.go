package openapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-bookingform/pkg/model"
	"github.com/goliatone/go-bookingform/pkg/validation"
)

// Schema component names.
const (
	BookingSchema          = "Booking"
	SubmissionSchema       = "Submission"
	ValidationErrorsSchema = "ValidationErrors"

	SubmitOperationID = "submitBooking"
)

// Media types accepted by the submission endpoint.
var RequestMediaTypes = []string{"application/json", "application/x-www-form-urlencoded"}

// Options tunes the generated document.
type Options struct {
	Title   string
	Version string
	Servers []string
}

// Build returns the OpenAPI document for a POST to the form's action.
func Build(registry model.FormModel, schema *validation.Schema, opts Options) (*openapi3.T, error) {
	if schema == nil {
		return nil, fmt.Errorf("openapi: schema is required")
	}
	if len(registry.Fields) == 0 {
		return nil, fmt.Errorf("openapi: form %q has no fields", registry.ID)
	}

	title := strings.TrimSpace(opts.Title)
	if title == "" {
		title = "Booking form"
	}
	version := strings.TrimSpace(opts.Version)
	if version == "" {
		version = "dev"
	}
	action := registry.Action
	if action == "" {
		action = "/"
	}

	booking := openapi3.NewObjectSchema()
	booking.Properties = make(openapi3.Schemas, len(registry.Fields))
	for _, field := range registry.Fields {
		property, err := fieldSchema(field, schema)
		if err != nil {
			return nil, err
		}
		booking.Properties[field.Name] = openapi3.NewSchemaRef("", property)
		if hasRule(schema.Rules(field.Name), validation.RuleRequired) {
			booking.Required = append(booking.Required, field.Name)
		}
	}

	issue := openapi3.NewObjectSchema().
		WithProperty("field", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema())
	issue.Required = []string{"field", "message"}

	invalid := openapi3.NewObjectSchema().
		WithProperty("errors", openapi3.NewArraySchema().WithItems(issue))
	invalid.Required = []string{"errors"}

	accepted := openapi3.NewObjectSchema().
		WithProperty("status", openapi3.NewStringSchema().WithEnum("accepted", "submitting")).
		WithPropertyRef("values", openapi3.NewSchemaRef(componentRef(BookingSchema), booking))
	accepted.Required = []string{"status"}

	components := openapi3.NewComponents()
	components.Schemas = openapi3.Schemas{
		BookingSchema:          openapi3.NewSchemaRef("", booking),
		SubmissionSchema:       openapi3.NewSchemaRef("", accepted),
		ValidationErrorsSchema: openapi3.NewSchemaRef("", invalid),
	}

	requestBody := openapi3.NewRequestBody().
		WithRequired(true).
		WithDescription("Booking values. Form posts may also carry the _session hidden field.").
		WithContent(openapi3.NewContentWithSchemaRef(
			openapi3.NewSchemaRef(componentRef(BookingSchema), booking),
			RequestMediaTypes,
		))

	operation := openapi3.NewOperation()
	operation.OperationID = SubmitOperationID
	operation.Summary = "Submit a booking"
	operation.Description = "Validates the six booking fields and logs the accepted values."
	operation.RequestBody = &openapi3.RequestBodyRef{Value: requestBody}
	operation.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, jsonResponse("Booking accepted", SubmissionSchema, accepted)),
		openapi3.WithStatus(http.StatusConflict, jsonResponse("A submission is already in flight", ValidationErrorsSchema, invalid)),
		openapi3.WithStatus(http.StatusUnprocessableEntity, jsonResponse("Validation failed", ValidationErrorsSchema, invalid)),
		openapi3.WithStatus(http.StatusInternalServerError, jsonResponse("The submit handler failed", ValidationErrorsSchema, invalid)),
	)

	doc := &openapi3.T{
		OpenAPI:    "3.0.3",
		Info:       &openapi3.Info{Title: title, Version: version},
		Components: &components,
		Paths: openapi3.NewPaths(
			openapi3.WithPath(action, &openapi3.PathItem{Post: operation}),
		),
	}
	for _, url := range opts.Servers {
		if url = strings.TrimSpace(url); url != "" {
			doc.AddServer(&openapi3.Server{URL: url})
		}
	}
	return doc, nil
}

func fieldSchema(field model.Field, schema *validation.Schema) (*openapi3.Schema, error) {
	var out *openapi3.Schema
	switch field.Kind {
	case model.InputNumber:
		out = openapi3.NewIntegerSchema()
	case model.InputEmail:
		out = openapi3.NewStringSchema().WithFormat("email")
	case model.InputDate:
		out = openapi3.NewStringSchema().WithFormat("date")
	case model.InputText, model.InputTel:
		out = openapi3.NewStringSchema()
	default:
		return nil, fmt.Errorf("openapi: field %q has unsupported kind %q", field.Name, field.Kind)
	}
	out.Title = field.Label
	if field.Placeholder != "" {
		out.Description = "e.g. " + field.Placeholder
	}

	for _, rule := range schema.Rules(field.Name) {
		switch rule.Name {
		case validation.RuleRequired:
			if out.Type.Is(openapi3.TypeString) && out.MinLength == 0 {
				out.MinLength = 1
			}
		case validation.RuleMinLength:
			if n, ok := rule.Param.(int); ok {
				out.MinLength = uint64(n)
			}
		case validation.RuleMaxLength:
			if n, ok := rule.Param.(int); ok {
				max := uint64(n)
				out.MaxLength = &max
			}
		case validation.RulePattern:
			if pattern, ok := rule.Param.(string); ok {
				out.Pattern = pattern
			}
		case validation.RuleMin:
			if n, ok := rule.Param.(float64); ok {
				out.Min = &n
			}
		case validation.RuleMax:
			if n, ok := rule.Param.(float64); ok {
				out.Max = &n
			}
		}
	}
	return out, nil
}

func jsonResponse(description, component string, value *openapi3.Schema) *openapi3.ResponseRef {
	response := openapi3.NewResponse().
		WithDescription(description).
		WithContent(openapi3.NewContentWithJSONSchemaRef(openapi3.NewSchemaRef(componentRef(component), value)))
	return &openapi3.ResponseRef{Value: response}
}

func componentRef(name string) string {
	return "#/components/schemas/" + name
}

func hasRule(rules []validation.Rule, name string) bool {
	for _, rule := range rules {
		if rule.Name == name {
			return true
		}
	}
	return false
}
