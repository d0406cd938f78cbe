package model

import (
	"fmt"
	"strings"
)

// Decorator adjusts presentation metadata on a built registry. Decorators
// must not add, remove or reorder fields.
type Decorator interface {
	Decorate(*FormModel) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormModel) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(form *FormModel) error {
	return fn(form)
}

// Decorate applies decorators to a copy of form. The input is left untouched.
func Decorate(form FormModel, decorators ...Decorator) (FormModel, error) {
	out := form.clone()
	names := strings.Join(form.Names(), ",")
	for _, decorator := range decorators {
		if decorator == nil {
			continue
		}
		if err := decorator.Decorate(&out); err != nil {
			return FormModel{}, err
		}
		if strings.Join(out.Names(), ",") != names {
			return FormModel{}, fmt.Errorf("model: decorator changed the field registry")
		}
	}
	return out, nil
}

// PlaceholderOverrides replaces input placeholders by field name. Unknown
// field names are an error.
func PlaceholderOverrides(placeholders map[string]string) Decorator {
	return DecoratorFunc(func(form *FormModel) error {
		for name, placeholder := range placeholders {
			index := form.index(name)
			if index < 0 {
				return fmt.Errorf("model: placeholder for unknown field %q", name)
			}
			form.Fields[index].Placeholder = placeholder
		}
		return nil
	})
}

// WithMetadata merges presentation metadata into the registry.
func WithMetadata(metadata map[string]string) Decorator {
	return DecoratorFunc(func(form *FormModel) error {
		if len(metadata) == 0 {
			return nil
		}
		if form.Metadata == nil {
			form.Metadata = make(map[string]string, len(metadata))
		}
		for key, value := range metadata {
			form.Metadata[key] = value
		}
		return nil
	})
}

func (m FormModel) index(name string) int {
	for i, field := range m.Fields {
		if field.Name == name {
			return i
		}
	}
	return -1
}

func (m FormModel) clone() FormModel {
	out := m
	out.Fields = append([]Field(nil), m.Fields...)
	if m.Metadata != nil {
		out.Metadata = make(map[string]string, len(m.Metadata))
		for key, value := range m.Metadata {
			out.Metadata[key] = value
		}
	}
	return out
}
