package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goliatone/go-bookingform/pkg/model"
	"github.com/goliatone/go-bookingform/pkg/validation"
)

// Actions is handed to submit handlers so they can report completion.
type Actions interface {
	SetSubmitting(submitting bool)
}

// SubmitFunc receives validated values. A handler that returns nil without
// calling SetSubmitting(false) leaves the form submitting until it does.
type SubmitFunc func(ctx context.Context, values model.Values, actions Actions) error

// Observer receives controller lifecycle notifications.
type Observer interface {
	Dispatched(kind EventKind)
	SubmitRejected(result validation.Result)
	SubmitAccepted(values model.Values)
	SubmitFailed(err error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithInitialValues mounts the form with values.
func WithInitialValues(values model.Values) Option {
	return func(c *Controller) {
		c.initial = values.Raw()
	}
}

// WithInitialRaw mounts the form with raw input text.
func WithInitialRaw(values model.RawValues) Option {
	return func(c *Controller) {
		if values != nil {
			c.initial = values.Clone()
		}
	}
}

// WithSubmitHandler overrides the default logging handler.
func WithSubmitHandler(fn SubmitFunc) Option {
	return func(c *Controller) {
		if fn != nil {
			c.handler = fn
		}
	}
}

// WithObserver registers an observer. Nil observers are ignored.
func WithObserver(observer Observer) Option {
	return func(c *Controller) {
		if observer != nil {
			c.observers = append(c.observers, observer)
		}
	}
}

// WithLogger sets the logger used by the default handler and for handler
// failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller owns the state of one mounted form.
type Controller struct {
	mu sync.Mutex

	form      model.FormModel
	schema    *validation.Schema
	initial   model.RawValues
	handler   SubmitFunc
	observers []Observer
	logger    *slog.Logger

	state State
}

// New mounts a controller for form validated by schema.
func New(form model.FormModel, schema *validation.Schema, options ...Option) *Controller {
	c := &Controller{
		form:   form,
		schema: schema,
		logger: slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.schema == nil {
		c.schema = validation.NewSchema()
	}
	if c.handler == nil {
		c.handler = LogSubmission(c.logger)
	}
	if c.initial == nil {
		c.initial = make(model.RawValues)
	}

	c.state = NewState(c.initial)
	c.state.Errors = c.schema.Validate(c.state.Values)
	return c
}

// Form returns the registry the controller renders.
func (c *Controller) Form() model.FormModel {
	return c.form
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Values decodes the current raw input. It returns a *validation.Error when
// any field fails.
func (c *Controller) Values() (model.Values, error) {
	c.mu.Lock()
	raw := c.state.Values.Clone()
	c.mu.Unlock()
	return c.schema.Decode(raw)
}

// Schema returns the schema the controller validates against.
func (c *Controller) Schema() *validation.Schema {
	return c.schema
}

// Dispatch applies an event. Submit events run the submit flow.
func (c *Controller) Dispatch(ctx context.Context, e Event) (State, error) {
	if e.Kind == EventSubmit {
		err := c.Submit(ctx)
		return c.State(), err
	}

	c.mu.Lock()
	next, err := Reduce(c.form, c.state, e)
	if err != nil {
		c.mu.Unlock()
		return c.State(), err
	}
	next.Errors = c.schema.Validate(next.Values)
	c.state = next
	snapshot := c.state.Clone()
	c.mu.Unlock()

	c.notify(func(o Observer) { o.Dispatched(e.Kind) })
	return snapshot, nil
}

// Change updates one field value.
func (c *Controller) Change(ctx context.Context, field, value string) error {
	_, err := c.Dispatch(ctx, Change(field, value))
	return err
}

// Blur marks a field touched.
func (c *Controller) Blur(ctx context.Context, field string) error {
	_, err := c.Dispatch(ctx, Blur(field))
	return err
}

// Submit marks every field touched and, when the schema passes, invokes the
// submit handler. Validation failures are returned as *validation.Error and
// leave the form idle.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Submitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}

	next, err := Reduce(c.form, c.state, Submit())
	if err != nil {
		c.mu.Unlock()
		return err
	}
	next.Errors = c.schema.Validate(next.Values)

	values, err := c.schema.Decode(next.Values)
	if err != nil {
		c.state = next
		result := next.Errors.Clone()
		c.mu.Unlock()

		c.notify(func(o Observer) {
			o.Dispatched(EventSubmit)
			o.SubmitRejected(result)
		})
		return err
	}

	next.Submitting = true
	c.state = next
	generation := next.SubmitCount
	handler := c.handler
	c.mu.Unlock()

	c.notify(func(o Observer) {
		o.Dispatched(EventSubmit)
		o.SubmitAccepted(values)
	})

	if err := handler(ctx, values, &actions{c: c, generation: generation}); err != nil {
		c.mu.Lock()
		if c.state.SubmitCount == generation {
			c.state.Submitting = false
			c.state.SubmitError = err.Error()
		}
		c.mu.Unlock()

		c.logger.WarnContext(ctx, "submit handler failed", slog.String("form", c.form.ID), slog.Any("error", err))
		c.notify(func(o Observer) { o.SubmitFailed(err) })
		return fmt.Errorf("form: submit handler: %w", err)
	}
	return nil
}

func (c *Controller) setSubmitting(generation int, submitting bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.SubmitCount != generation || c.state.Submitting == submitting {
		return
	}
	c.state.Submitting = submitting
	if !submitting {
		c.state.Completed++
	}
}

func (c *Controller) notify(fn func(Observer)) {
	for _, observer := range c.observers {
		fn(observer)
	}
}

type actions struct {
	c          *Controller
	generation int
}

func (a *actions) SetSubmitting(submitting bool) {
	a.c.setSubmitting(a.generation, submitting)
}

// IsValidationError reports whether err carries field validation failures.
func IsValidationError(err error) (validation.Result, bool) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return verr.Result, true
	}
	return nil, false
}
