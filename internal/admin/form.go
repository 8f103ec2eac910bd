// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package admin

import "fmt"

// WidgetKind selects how a field is rendered.
type WidgetKind string

const (
	WidgetSelect        WidgetKind = "select"
	WidgetHidden        WidgetKind = "hidden"
	WidgetRawGenericKey WidgetKind = "raw_generic_key"
)

// Widget is the presentation of a form field.
type Widget struct {
	Kind  WidgetKind
	Attrs map[string]string
}

// IsHidden reports whether the field renders as a hidden input.
func (w Widget) IsHidden() bool {
	return w.Kind == WidgetHidden
}

// RawGenericKeyWidget renders an object ID input paired with the select
// holding its content type, so the client-side lookup knows where to search.
func RawGenericKeyWidget(objectIDName, contentTypeName string) Widget {
	return Widget{
		Kind: WidgetRawGenericKey,
		Attrs: map[string]string{
			"object_id_name":    objectIDName,
			"content_type_name": contentTypeName,
		},
	}
}

// Choice is one selectable option of a choice field.
type Choice struct {
	Value string
	Label string
}

// Field is a single form field definition.
type Field struct {
	Name     string
	Label    string
	Widget   Widget
	Choices  []Choice // nil for free-input fields
	Initial  string
	Required bool
}

// IsChoice reports whether the field offers a fixed set of choices.
func (f *Field) IsChoice() bool {
	return f.Choices != nil
}

// HasChoice reports whether value is one of the field's choices.
func (f *Field) HasChoice(value string) bool {
	for _, c := range f.Choices {
		if c.Value == value {
			return true
		}
	}
	return false
}

// ChoiceLabel returns the label of the choice with the given value.
func (f *Field) ChoiceLabel(value string) string {
	for _, c := range f.Choices {
		if c.Value == value {
			return c.Label
		}
	}
	return ""
}

// newChoiceField builds a choice field. With exactly one candidate the
// field is preselected and hidden since there is nothing to choose.
func newChoiceField(name, label string, choices []Choice) *Field {
	f := &Field{
		Name:     name,
		Label:    label,
		Widget:   Widget{Kind: WidgetSelect},
		Choices:  choices,
		Required: true,
	}
	if len(choices) == 1 {
		f.Initial = choices[0].Value
		f.Widget = Widget{Kind: WidgetHidden}
	}
	return f
}

// Media lists the static assets a form needs on the page.
type Media struct {
	JS  []string
	CSS []string
}

// Form is an ordered set of field definitions plus its media.
type Form struct {
	Fields []*Field
	Media  Media
}

// Field returns the field with the given name, or nil.
func (f *Form) Field(name string) *Field {
	for _, fld := range f.Fields {
		if fld.Name == name {
			return fld
		}
	}
	return nil
}

// VisibleFields returns the fields that render as table columns.
func (f *Form) VisibleFields() []*Field {
	var out []*Field
	for _, fld := range f.Fields {
		if !fld.Widget.IsHidden() {
			out = append(out, fld)
		}
	}
	return out
}

// HiddenFields returns the fields rendered as hidden inputs.
func (f *Form) HiddenFields() []*Field {
	var out []*Field
	for _, fld := range f.Fields {
		if fld.Widget.IsHidden() {
			out = append(out, fld)
		}
	}
	return out
}

// withField returns a copy of the form with fld replacing the field of the
// same name, or appended if there is none.
func (f *Form) withField(fld *Field) *Form {
	out := &Form{Media: f.Media, Fields: make([]*Field, 0, len(f.Fields)+1)}
	replaced := false
	for _, existing := range f.Fields {
		if existing.Name == fld.Name {
			out.Fields = append(out.Fields, fld)
			replaced = true
			continue
		}
		out.Fields = append(out.Fields, existing)
	}
	if !replaced {
		out.Fields = append(out.Fields, fld)
	}
	return out
}

// inputName returns the HTML input name of a field in formset row i.
func inputName(prefix string, i int, field string) string {
	return fmt.Sprintf("%s-%d-%s", prefix, i, field)
}
