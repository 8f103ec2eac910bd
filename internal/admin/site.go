// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package admin

import (
	"errors"
	"fmt"
)

// ErrAlreadyRegistered is returned when a model is registered twice.
var ErrAlreadyRegistered = errors.New("model already registered")

// ModelAdmin describes a model exposed in the admin UI.
type ModelAdmin struct {
	Name        string // model name, e.g. "related_type"
	VerboseName string // plural label shown in navigation
	URL         string // list page
}

// Site holds the model admins shown in the admin navigation. Registration
// happens during startup; Site is read-only afterwards.
type Site struct {
	models []ModelAdmin
}

// NewSite returns an empty admin site.
func NewSite() *Site {
	return &Site{}
}

// Register adds a model admin.
func (s *Site) Register(m ModelAdmin) error {
	if m.Name == "" {
		return errors.New("register model admin: empty name")
	}
	for _, existing := range s.models {
		if existing.Name == m.Name {
			return fmt.Errorf("register %s: %w", m.Name, ErrAlreadyRegistered)
		}
	}
	s.models = append(s.models, m)
	return nil
}

// Registered returns the model admins in registration order.
func (s *Site) Registered() []ModelAdmin {
	out := make([]ModelAdmin, len(s.models))
	copy(out, s.models)
	return out
}

// IsRegistered reports whether a model admin named name exists.
func (s *Site) IsRegistered(name string) bool {
	for _, m := range s.models {
		if m.Name == name {
			return true
		}
	}
	return false
}
