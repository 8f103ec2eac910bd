// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
)

// InlineOptions restricts the inline of one source model. Nil lists leave
// the field unrestricted.
type InlineOptions struct {
	AllowedTypes        []string
	AllowedContentTypes []string
}

// InlineRegistry picks the related content inline for a source model.
// Models with declared options get a restricted inline, every other model
// gets the base inline. Inlines are built on each call so choices reflect
// the current relationship types.
type InlineRegistry struct {
	factory *Factory
	options map[string]InlineOptions
}

// NewInlineRegistry returns a registry using options keyed by source model.
func NewInlineRegistry(factory *Factory, options map[string]InlineOptions) *InlineRegistry {
	if options == nil {
		options = map[string]InlineOptions{}
	}
	return &InlineRegistry{factory: factory, options: options}
}

// Inline returns the inline for sourceModel.
func (r *InlineRegistry) Inline(ctx context.Context, sourceModel string) (*Inline, error) {
	opts, ok := r.options[sourceModel]
	if !ok {
		return r.factory.BaseInline(ctx)
	}
	in, err := r.factory.RelatedContentInline(ctx, opts.AllowedTypes, opts.AllowedContentTypes)
	if err != nil {
		return nil, fmt.Errorf("inline for %s: %w", sourceModel, err)
	}
	return in, nil
}

// Models returns the source models with declared options, sorted.
func (r *InlineRegistry) Models() []string {
	names := make([]string, 0, len(r.options))
	for name := range r.options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate builds the base inline and every declared inline once so
// configuration errors surface at startup. It reports every failure.
func (r *InlineRegistry) Validate(ctx context.Context) error {
	var errs []error
	if _, err := r.factory.BaseInline(ctx); err != nil {
		errs = append(errs, fmt.Errorf("base inline: %w", err))
	}
	for _, model := range r.Models() {
		in, err := r.Inline(ctx, model)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, name := range []string{RelatedTypeField, DestinationTypeField} {
			if f := in.Form.Field(name); f != nil && len(f.Choices) == 0 {
				slog.Warn("inline field has no choices", "source", model, "field", name)
			}
		}
	}
	return errors.Join(errs...)
}
