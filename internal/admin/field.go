// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package admin builds the admin forms used to edit related content inline
// on a source object's page. It decides which relationship types and
// destination content types are selectable, which fields are hidden, and
// which relationship type is preselected.
package admin

import (
	"errors"
	"fmt"
)

// Field names of the related content model.
const (
	RelatedTypeField     = "related_type"
	SourceTypeField      = "source_type"
	SourceIDField        = "source_id"
	DestinationTypeField = "destination_type"
	DestinationIDField   = "destination_id"
	OrderField           = "order"
)

// RelatedContentModel is the model name of related content links.
const RelatedContentModel = "related_content"

// ErrFieldNotFound is returned when a model has no field with the
// requested name.
var ErrFieldNotFound = errors.New("field not found")

// DBField describes a model column handed to form-field hooks.
type DBField struct {
	Name         string
	Model        string
	RelatedModel string // target model of a foreign key, empty otherwise
}

// IsForeignKey reports whether the field points at another model.
func (f DBField) IsForeignKey() bool {
	return f.RelatedModel != ""
}

// Kwargs carries keyword options used to build a form field, such as
// "initial" or "label".
type Kwargs map[string]any

// relatedContentFields lists the columns of the related content model.
var relatedContentFields = []DBField{
	{Name: RelatedTypeField, Model: RelatedContentModel, RelatedModel: "related_type"},
	{Name: SourceTypeField, Model: RelatedContentModel, RelatedModel: "content_type"},
	{Name: SourceIDField, Model: RelatedContentModel},
	{Name: DestinationTypeField, Model: RelatedContentModel, RelatedModel: "content_type"},
	{Name: DestinationIDField, Model: RelatedContentModel},
	{Name: OrderField, Model: RelatedContentModel},
}

// LookupField returns the related content field with the given name.
func LookupField(name string) (DBField, error) {
	for _, f := range relatedContentFields {
		if f.Name == name {
			return f, nil
		}
	}
	return DBField{}, fmt.Errorf("%s has no field %q: %w", RelatedContentModel, name, ErrFieldNotFound)
}
