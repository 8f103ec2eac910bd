// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package admin

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"relatedcontent/internal/models"
)

const (
	// InlineTemplate is the template that renders a related content inline.
	InlineTemplate = "admin/edit_inline/related_content.html"

	// jqueryUI is loaded by the inline for drag-and-drop row ordering.
	jqueryUI = "hatband/js/jquery-ui-1.8.16.min.js"
)

// RelatedTypeRepository is the read access the factory needs to
// relationship types.
type RelatedTypeRepository interface {
	RelatedTypeGetter
	Filter(ctx context.Context, titles []string) ([]models.RelatedType, error)
}

// ContentTypeRepository is the read access the factory needs to the
// content type registry.
type ContentTypeRepository interface {
	Filter(ctx context.Context, names []string) ([]models.ContentType, error)
}

// Inline describes how related content is edited on a source object's
// admin page: links grouped by the source generic reference, rendered with
// Template using Form.
type Inline struct {
	Model     string
	CTField   string // field holding the source content type
	CTFKField string // field holding the source object ID
	Template  string
	Extra     int // blank rows appended to the formset
	Form      *Form

	// Restrictions the inline was built with; nil means unrestricted.
	AllowedTypes        []string
	AllowedContentTypes []string
}

// baseForm returns the fields every related content form carries, before
// the relationship type and destination type choices are attached.
func baseForm() *Form {
	return &Form{
		Fields: []*Field{
			{
				Name:     DestinationIDField,
				Label:    "Destination",
				Widget:   RawGenericKeyWidget(DestinationIDField, DestinationTypeField),
				Required: true,
			},
			{
				Name:   OrderField,
				Label:  "Order",
				Widget: Widget{Kind: WidgetHidden},
			},
		},
		Media: Media{JS: []string{jqueryUI}},
	}
}

// newInline wraps form in the inline settings shared by every variant.
func newInline(form *Form) *Inline {
	return &Inline{
		Model:     RelatedContentModel,
		CTField:   SourceTypeField,
		CTFKField: SourceIDField,
		Template:  InlineTemplate,
		Extra:     0,
		Form:      form,
	}
}

// Factory builds related content inlines from the current relationship
// types and content types.
type Factory struct {
	types        RelatedTypeRepository
	contentTypes ContentTypeRepository
	resolver     *Resolver
}

// NewFactory returns a Factory reading from types and contentTypes. The
// base inline preselects its relationship type from settings.
func NewFactory(types RelatedTypeRepository, contentTypes ContentTypeRepository, settings Settings) *Factory {
	return &Factory{
		types:        types,
		contentTypes: contentTypes,
		resolver:     NewResolver(settings, types),
	}
}

// BaseInline returns the unrestricted inline. Every relationship type and
// content type is selectable, and the relationship type field is
// preselected through the InitialFilterSetting lookup.
func (f *Factory) BaseInline(ctx context.Context) (*Inline, error) {
	types, err := f.types.Filter(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("base inline: %w", err)
	}
	contentTypes, err := f.contentTypes.Filter(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("base inline: %w", err)
	}

	relatedType, err := f.foreignKeyField(ctx, RelatedTypeField, "Related Type", typeChoices(types))
	if err != nil {
		return nil, err
	}
	destinationType, err := f.foreignKeyField(ctx, DestinationTypeField, "Destination Type", contentTypeChoices(contentTypes))
	if err != nil {
		return nil, err
	}

	form := baseForm().withField(relatedType).withField(destinationType)
	return newInline(orderFields(form)), nil
}

// foreignKeyField builds a plain select for a foreign key, running the
// form-field hook so configured initial values are applied.
func (f *Factory) foreignKeyField(ctx context.Context, name, label string, choices []Choice) (*Field, error) {
	dbField, err := LookupField(name)
	if err != nil {
		return nil, err
	}

	_, kwargs, err := f.resolver.FormfieldForForeignKey(ctx, dbField, nil, Kwargs{"label": label})
	if err != nil {
		return nil, err
	}

	fld := &Field{
		Name:     name,
		Label:    label,
		Widget:   Widget{Kind: WidgetSelect},
		Choices:  choices,
		Required: true,
	}
	if l, ok := kwargs["label"].(string); ok {
		fld.Label = l
	}
	switch v := kwargs["initial"].(type) {
	case uuid.UUID:
		fld.Initial = v.String()
	case string:
		fld.Initial = v
	}
	return fld, nil
}

// RelatedContentInline returns an inline restricted to the relationship
// types titled in allowedTypes and the content types named in
// allowedContentTypes. A nil list leaves that field unrestricted; an empty
// list allows nothing. A field left with a single candidate is preselected
// and hidden.
func (f *Factory) RelatedContentInline(ctx context.Context, allowedTypes, allowedContentTypes []string) (*Inline, error) {
	types, err := f.types.Filter(ctx, allowedTypes)
	if err != nil {
		return nil, fmt.Errorf("related content inline: %w", err)
	}
	contentTypes, err := f.contentTypes.Filter(ctx, allowedContentTypes)
	if err != nil {
		return nil, fmt.Errorf("related content inline: %w", err)
	}

	form := baseForm().
		withField(newChoiceField(RelatedTypeField, "Related Type", typeChoices(types))).
		withField(newChoiceField(DestinationTypeField, "Destination Type", contentTypeChoices(contentTypes)))

	in := newInline(orderFields(form))
	in.AllowedTypes = allowedTypes
	in.AllowedContentTypes = allowedContentTypes
	return in, nil
}

// fieldOrder is the column order of the inline table.
var fieldOrder = []string{RelatedTypeField, DestinationTypeField, DestinationIDField, OrderField}

func orderFields(form *Form) *Form {
	out := &Form{Media: form.Media}
	for _, name := range fieldOrder {
		if fld := form.Field(name); fld != nil {
			out.Fields = append(out.Fields, fld)
		}
	}
	return out
}

func typeChoices(types []models.RelatedType) []Choice {
	choices := make([]Choice, 0, len(types))
	for _, t := range types {
		choices = append(choices, Choice{Value: t.ID.String(), Label: t.String()})
	}
	return choices
}

func contentTypeChoices(cts []models.ContentType) []Choice {
	choices := make([]Choice, 0, len(cts))
	for _, ct := range cts {
		choices = append(choices, Choice{Value: ct.ID.String(), Label: ct.String()})
	}
	return choices
}
