package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-bookingform/pkg/form"
	"github.com/goliatone/go-bookingform/pkg/model"
	"github.com/goliatone/go-bookingform/pkg/render"
	"github.com/goliatone/go-bookingform/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	confirm      []bool
	prompts      []InputConfig
	infoMessages []string
	inputPos     int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.prompts = append(s.prompts, cfg)
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func newController(handler form.SubmitFunc) *form.Controller {
	options := []form.Option{form.WithInitialValues(testsupport.DefaultValues())}
	if handler != nil {
		options = append(options, form.WithSubmitHandler(handler))
	}
	return form.New(testsupport.BookingForm(), testsupport.Schema(), options...)
}

func finishing(got *[]model.Values) form.SubmitFunc {
	return func(_ context.Context, values model.Values, actions form.Actions) error {
		*got = append(*got, values)
		actions.SetSubmitting(false)
		return nil
	}
}

func TestRun_AcceptsDefaults(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{"Landon", "Johnson", "thefirebasegod@gmail.com", "123 456 7890", "2026-10-19", "1"},
	}
	r, err := New(WithPromptDriver(driver))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	var submitted []model.Values
	c := newController(finishing(&submitted))
	out, err := r.Run(testsupport.Context(), c)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	want := `{"firstName":"Landon","lastName":"Johnson","email":"thefirebasegod@gmail.com","phone":"123 456 7890","date":"2026-10-19","group":1}`
	if string(out) != want {
		t.Fatalf("unexpected output\nwant %s\ngot  %s", want, out)
	}
	if len(submitted) != 1 {
		t.Fatalf("expected one submission, got %d", len(submitted))
	}
	if c.State().Status() != form.StatusSubmitted {
		t.Fatalf("unexpected status %s", c.State().Status())
	}

	var labels []string
	for _, prompt := range driver.prompts {
		labels = append(labels, prompt.Message)
	}
	wantLabels := []string{"First name", "Last name", "Email", "Phone number", "Booking date", "Group size"}
	if diff := cmp.Diff(wantLabels, labels); diff != "" {
		t.Fatalf("prompt order mismatch (-want +got):\n%s", diff)
	}
	if driver.prompts[0].Default != "Landon" || driver.prompts[0].Help != "e.g. John" {
		t.Fatalf("unexpected first prompt %+v", driver.prompts[0])
	}
}

func TestRun_RepromptsInvalidField(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{"Ada", "Lovelace", "nope", "ada@example.com", "123 456 7890", "2026-12-01", "0", "4"},
	}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatPrettyText))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	var submitted []model.Values
	out, err := r.Run(testsupport.Context(), newController(finishing(&submitted)))
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	var errorsShown []string
	for _, msg := range driver.infoMessages {
		if strings.Contains(msg, "must") {
			errorsShown = append(errorsShown, msg)
		}
	}
	if len(errorsShown) != 2 {
		t.Fatalf("expected two validation messages, got %v", driver.infoMessages)
	}
	if !strings.Contains(errorsShown[0], "Email must be a valid email") {
		t.Fatalf("unexpected first error %q", errorsShown[0])
	}
	if !strings.Contains(errorsShown[1], "Group size must be greater than or equal to 1") {
		t.Fatalf("unexpected second error %q", errorsShown[1])
	}
	if driver.prompts[3].Default != "nope" {
		t.Fatalf("re-prompt should offer the rejected answer, got %q", driver.prompts[3].Default)
	}

	want := "First name: Ada\nLast name: Lovelace\nEmail: ada@example.com\nPhone number: 123 456 7890\nBooking date: 2026-12-01\nGroup size: 4\n"
	if diff := cmp.Diff(want, string(out)); diff != "" {
		t.Fatalf("pretty output mismatch (-want +got):\n%s", diff)
	}
	if len(submitted) != 1 || submitted[0].Group != 4 {
		t.Fatalf("unexpected submissions %v", submitted)
	}
}

func TestRun_TooManyAttempts(t *testing.T) {
	driver := &stubDriver{inputs: []string{"", ""}}
	r, err := New(WithPromptDriver(driver), WithMaxAttempts(2))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	_, err = r.Run(testsupport.Context(), newController(nil))
	if !errors.Is(err, ErrTooManyAttempts) {
		t.Fatalf("expected ErrTooManyAttempts, got %v", err)
	}
}

func TestRun_ConfirmDeclined(t *testing.T) {
	driver := &stubDriver{
		inputs:  []string{"Landon", "Johnson", "thefirebasegod@gmail.com", "123 456 7890", "2026-10-19", "1"},
		confirm: []bool{false},
	}
	r, err := New(WithPromptDriver(driver), WithConfirm(true))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	var submitted []model.Values
	_, err = r.Run(testsupport.Context(), newController(finishing(&submitted)))
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if len(submitted) != 0 {
		t.Fatalf("declined confirmation must not submit")
	}
}

func TestRun_FormEncoded(t *testing.T) {
	driver := &stubDriver{
		inputs: []string{"Landon", "Johnson", "thefirebasegod@gmail.com", "123 456 7890", "2026-10-19", "2"},
	}
	r, err := New(WithPromptDriver(driver), WithOutputFormat(OutputFormatFormURLEncoded))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if r.ContentType() != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type %q", r.ContentType())
	}

	var submitted []model.Values
	out, err := r.Run(testsupport.Context(), newController(finishing(&submitted)))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "date=2026-10-19&email=thefirebasegod%40gmail.com&firstName=Landon&group=2&lastName=Johnson&phone=123+456+7890"
	if string(out) != want {
		t.Fatalf("unexpected output %s", out)
	}
}

func TestRender_Transcript(t *testing.T) {
	r, err := New(WithPromptDriver(&stubDriver{}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	ctx := testsupport.Context()
	c := newController(nil)
	if err := c.Change(ctx, "email", ""); err != nil {
		t.Fatalf("change: %v", err)
	}
	if err := c.Blur(ctx, "email"); err != nil {
		t.Fatalf("blur: %v", err)
	}

	out, err := r.Render(ctx, render.BuildView(c.Form(), c.State()), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := string(out)
	for _, want := range []string{
		"First name: Landon\n",
		"Email: john@acme.com\n",
		"Email is a required field",
		"[Submit]\n",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("transcript missing %q:\n%s", want, text)
		}
	}
}

func TestParseOutputFormat(t *testing.T) {
	cases := map[string]OutputFormat{"": OutputFormatJSON, "JSON": OutputFormatJSON, " pretty ": OutputFormatPrettyText, "form": OutputFormatFormURLEncoded}
	for input, want := range cases {
		got, err := ParseOutputFormat(input)
		if err != nil || got != want {
			t.Fatalf("ParseOutputFormat(%q) = %q, %v", input, got, err)
		}
	}
	if _, err := ParseOutputFormat("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
	if _, err := New(WithOutputFormat("xml")); err == nil {
		t.Fatalf("expected constructor to reject unknown format")
	}
}
