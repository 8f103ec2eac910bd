// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package admin

import (
	"context"
	"fmt"
	"log/slog"

	"relatedcontent/internal/models"
)

// InitialFilterSetting names the setting with the lookup criteria of the
// relationship type preselected on new links.
const InitialFilterSetting = "RELATED_TYPE_INITIAL_FILTER"

// Settings gives read access to named lookup-criteria settings.
type Settings interface {
	Criteria(name string) map[string]string
}

// SettingsFunc adapts a plain function to Settings.
type SettingsFunc func(name string) map[string]string

// Criteria calls f(name).
func (f SettingsFunc) Criteria(name string) map[string]string {
	return f(name)
}

// RelatedTypeGetter looks up exactly one relationship type by criteria.
type RelatedTypeGetter interface {
	Get(ctx context.Context, criteria map[string]string) (*models.RelatedType, error)
}

// ConfigError reports that a configured lookup could not be resolved to a
// single record.
type ConfigError struct {
	Setting  string
	Criteria map[string]string
	Err      error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("setting %s %v: %v", e.Setting, e.Criteria, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// FormfieldForForeignKey prepares the arguments used to build the form
// field of a foreign key. For the relationship type field it injects the
// ID of the relationship type matched by the InitialFilterSetting criteria
// as kwargs["initial"], unless the caller already supplied one. Every other
// field passes through untouched.
//
// A lookup matching zero or several records is returned as a *ConfigError.
func FormfieldForForeignKey(ctx context.Context, settings Settings, types RelatedTypeGetter, field DBField, args []any, kwargs Kwargs) ([]any, Kwargs, error) {
	if field.Name != RelatedTypeField {
		return args, kwargs, nil
	}

	criteria := settings.Criteria(InitialFilterSetting)
	if len(criteria) == 0 {
		return args, kwargs, nil
	}

	if _, ok := kwargs["initial"]; ok {
		return args, kwargs, nil
	}

	rt, err := types.Get(ctx, criteria)
	if err != nil {
		return args, kwargs, &ConfigError{Setting: InitialFilterSetting, Criteria: criteria, Err: err}
	}

	if kwargs == nil {
		kwargs = Kwargs{}
	}
	kwargs["initial"] = rt.ID
	slog.Debug("related type initial resolved", "criteria", criteria, "id", rt.ID)
	return args, kwargs, nil
}

// Resolver binds FormfieldForForeignKey to its dependencies.
type Resolver struct {
	settings Settings
	types    RelatedTypeGetter
}

// NewResolver returns a Resolver reading criteria from settings and
// looking them up in types.
func NewResolver(settings Settings, types RelatedTypeGetter) *Resolver {
	return &Resolver{settings: settings, types: types}
}

// FormfieldForForeignKey runs the package-level FormfieldForForeignKey
// with the resolver's dependencies.
func (r *Resolver) FormfieldForForeignKey(ctx context.Context, field DBField, args []any, kwargs Kwargs) ([]any, Kwargs, error) {
	return FormfieldForForeignKey(ctx, r.settings, r.types, field, args, kwargs)
}
