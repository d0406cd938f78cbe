package metrics_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-bookingform/pkg/form"
	"github.com/goliatone/go-bookingform/pkg/metrics"
	"github.com/goliatone/go-bookingform/pkg/model"
	"github.com/goliatone/go-bookingform/pkg/testsupport"
)

func TestMetrics_ObservesController(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(reg))
	logger, _ := testsupport.NewRecordingLogger()

	ctx := testsupport.Context()
	c := form.New(testsupport.BookingForm(), testsupport.Schema(),
		form.WithInitialValues(testsupport.DefaultValues()),
		form.WithObserver(m),
		form.WithLogger(logger),
	)

	if err := c.Change(ctx, "email", ""); err != nil {
		t.Fatalf("change: %v", err)
	}
	if err := c.Change(ctx, "group", "99"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if err := c.Blur(ctx, "email"); err != nil {
		t.Fatalf("blur: %v", err)
	}
	if err := c.Submit(ctx); err == nil {
		t.Fatalf("expected rejected submit")
	}
	if err := c.Change(ctx, "email", "a@b.com"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if err := c.Change(ctx, "group", "3"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if err := c.Submit(ctx); err != nil {
		t.Fatalf("submit: %v", err)
	}

	expected := `
# HELP booking_events_total Total number of form events dispatched
# TYPE booking_events_total counter
booking_events_total{kind="blur"} 1
booking_events_total{kind="change"} 4
booking_events_total{kind="submit"} 2
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "booking_events_total"); err != nil {
		t.Fatalf("events mismatch: %v", err)
	}

	expected = `
# HELP booking_submissions_total Submit attempts by outcome
# TYPE booking_submissions_total counter
booking_submissions_total{result="accepted"} 1
booking_submissions_total{result="rejected"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "booking_submissions_total"); err != nil {
		t.Fatalf("submissions mismatch: %v", err)
	}

	expected = `
# HELP booking_validation_failures_total Fields failing validation on rejected submits
# TYPE booking_validation_failures_total counter
booking_validation_failures_total{field="email"} 1
booking_validation_failures_total{field="group"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "booking_validation_failures_total"); err != nil {
		t.Fatalf("failures mismatch: %v", err)
	}
}

func TestMetrics_HandlerFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(reg), metrics.WithNamespace("test"))
	logger, _ := testsupport.NewRecordingLogger()

	c := form.New(testsupport.BookingForm(), testsupport.Schema(),
		form.WithInitialValues(testsupport.DefaultValues()),
		form.WithObserver(m),
		form.WithLogger(logger),
		form.WithSubmitHandler(func(context.Context, model.Values, form.Actions) error {
			return errors.New("down")
		}),
	)
	if err := c.Submit(testsupport.Context()); err == nil {
		t.Fatalf("expected handler failure")
	}

	expected := `
# HELP test_submissions_total Submit attempts by outcome
# TYPE test_submissions_total counter
test_submissions_total{result="accepted"} 1
test_submissions_total{result="failed"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_submissions_total"); err != nil {
		t.Fatalf("submissions mismatch: %v", err)
	}
}

func TestMetrics_Gauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(metrics.WithRegistry(reg))

	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	m.LiveConnected()
	m.WebsocketError("read")
	m.ObserveRender("fragment", 5*time.Millisecond)

	expected := `
# HELP booking_active_sessions Number of mounted form sessions
# TYPE booking_active_sessions gauge
booking_active_sessions 1
# HELP booking_live_connections Number of open live channel connections
# TYPE booking_live_connections gauge
booking_live_connections 1
# HELP booking_websocket_errors_total Live channel errors by type
# TYPE booking_websocket_errors_total counter
booking_websocket_errors_total{type="read"} 1
`
	if err := testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"booking_active_sessions", "booking_live_connections", "booking_websocket_errors_total"); err != nil {
		t.Fatalf("gauges mismatch: %v", err)
	}
	count, err := testutil.GatherAndCount(reg, "booking_render_duration_seconds")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one render histogram series, got %d", count)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *metrics.Metrics
	m.Dispatched(form.EventChange)
	m.SessionOpened()
	m.ObserveRender("page", time.Second)
}
