package render_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-bookingform/pkg/form"
	"github.com/goliatone/go-bookingform/pkg/model"
	"github.com/goliatone/go-bookingform/pkg/render"
	"github.com/goliatone/go-bookingform/pkg/testsupport"
	"github.com/goliatone/go-bookingform/pkg/validation"
)

func TestBuildView_FollowsRegistryOrder(t *testing.T) {
	registry := testsupport.BookingForm()
	state := form.NewState(testsupport.DefaultValues().Raw())

	view := render.BuildView(registry, state)

	var ids []string
	for _, field := range view.Fields {
		ids = append(ids, field.ID)
	}
	if diff := cmp.Diff(registry.Names(), ids); diff != "" {
		t.Fatalf("field order mismatch (-want +got):\n%s", diff)
	}
	if view.SubmitLabel != "Submit" {
		t.Fatalf("unexpected submit label %q", view.SubmitLabel)
	}
	if view.Fields[0].Value != "Landon" || view.Fields[0].Placeholder != "John" {
		t.Fatalf("unexpected first field %+v", view.Fields[0])
	}
}

func TestBuildView_ErrorVisibility(t *testing.T) {
	registry := testsupport.BookingForm()

	state := form.NewState(model.RawValues{})
	state.Errors = validation.Result{
		"email": "Email must be a valid email",
		"phone": "Phone number is a required field",
	}
	state.Touched["email"] = true
	state.Touched["lastName"] = true

	view := render.BuildView(registry, state)
	want := map[string]string{"email": "Email must be a valid email"}
	if diff := cmp.Diff(want, view.VisibleErrors()); diff != "" {
		t.Fatalf("visible errors mismatch (-want +got):\n%s", diff)
	}

	for _, field := range view.Fields {
		if field.ID == "phone" && (!field.Invalid || field.Error != "") {
			t.Fatalf("untouched invalid phone should be invalid but hidden: %+v", field)
		}
		if field.ID == "lastName" && (field.Invalid || !field.Touched) {
			t.Fatalf("touched valid lastName should show nothing: %+v", field)
		}
	}
}

func TestBuildView_SubmittingLabel(t *testing.T) {
	state := form.NewState(nil)
	state.Submitting = true
	state.SubmitError = ""

	view := render.BuildView(testsupport.BookingForm(), state)
	if view.SubmitLabel != "Submitting" || view.Status != form.StatusSubmitting {
		t.Fatalf("unexpected submitting view: %q / %s", view.SubmitLabel, view.Status)
	}

	state.Submitting = false
	state.SubmitError = "upstream unavailable"
	view = render.BuildView(testsupport.BookingForm(), state)
	if view.SubmitLabel != "Submit" {
		t.Fatalf("unexpected label %q", view.SubmitLabel)
	}
	if diff := cmp.Diff([]string{"upstream unavailable"}, view.FormErrors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}
