package model_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-bookingform/pkg/model"
)

func TestDecorate_PlaceholderOverrides(t *testing.T) {
	base := model.NewBookingForm(model.WithNow(time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)), model.WithLocation(time.UTC))

	got, err := model.Decorate(base,
		model.PlaceholderOverrides(map[string]string{model.FieldFirstName: "Jane"}),
		model.WithMetadata(map[string]string{"title": "Tours"}),
	)
	if err != nil {
		t.Fatalf("decorate: %v", err)
	}

	first, _ := got.Field(model.FieldFirstName)
	if first.Placeholder != "Jane" {
		t.Fatalf("placeholder not applied: %q", first.Placeholder)
	}
	if orig, _ := base.Field(model.FieldFirstName); orig.Placeholder != "John" {
		t.Fatalf("input registry mutated: %q", orig.Placeholder)
	}
	if diff := cmp.Diff(map[string]string{"title": "Tours"}, got.Metadata); diff != "" {
		t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(base.Names(), got.Names()); diff != "" {
		t.Fatalf("field order changed (-want +got):\n%s", diff)
	}
}

func TestDecorate_Rejections(t *testing.T) {
	base := model.NewBookingForm()

	if _, err := model.Decorate(base, model.PlaceholderOverrides(map[string]string{"nickname": "x"})); err == nil {
		t.Fatalf("expected unknown field to fail")
	}

	drop := model.DecoratorFunc(func(form *model.FormModel) error {
		form.Fields = form.Fields[1:]
		return nil
	})
	if _, err := model.Decorate(base, drop); err == nil {
		t.Fatalf("expected registry change to fail")
	}
}
