// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// RelatedType is a named category of relationship between two content
// objects, e.g. "articles" or "images".
type RelatedType struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Virtual field populated by RelatedTypeStore.List.
	LinkCount int `json:"link_count"`
}

// String returns the title, which is what choice lists display.
func (t RelatedType) String() string {
	return t.Title
}

// ContentType is a registry entry identifying the type of a content object.
// Objects of the type live in TableName.
type ContentType struct {
	ID        uuid.UUID `json:"id"`
	AppLabel  string    `json:"app_label"`
	Model     string    `json:"model"`
	Name      string    `json:"name"`
	TableName string    `json:"table_name"`
}

// String returns the human-readable name of the content type.
func (c ContentType) String() string {
	return c.Name
}

// NaturalKey returns "app_label.model", the stable identifier used in URLs
// and logs.
func (c ContentType) NaturalKey() string {
	return c.AppLabel + "." + c.Model
}

// GenericRef points at an object of any registered content type.
type GenericRef struct {
	TypeID   uuid.UUID `json:"type_id"`
	ObjectID uuid.UUID `json:"object_id"`
}

// IsZero reports whether the reference points at nothing.
func (g GenericRef) IsZero() bool {
	return g.TypeID == uuid.Nil && g.ObjectID == uuid.Nil
}

// RelatedContent links a source object to a destination object, tagged
// with a RelatedType. Links of one source are displayed by Order.
type RelatedContent struct {
	ID            uuid.UUID  `json:"id"`
	RelatedTypeID uuid.UUID  `json:"related_type_id"`
	Source        GenericRef `json:"source"`
	Destination   GenericRef `json:"destination"`
	Order         int        `json:"order"`
	CreatedAt     time.Time  `json:"created_at"`

	// Virtual fields populated by RelatedContentStore.ListBySource.
	RelatedTypeTitle    string `json:"related_type_title,omitempty"`
	DestinationTypeName string `json:"destination_type_name,omitempty"`
	DestinationTitle    string `json:"destination_title,omitempty"`
}
