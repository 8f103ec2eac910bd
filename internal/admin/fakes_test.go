// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package admin

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"relatedcontent/internal/models"
	"relatedcontent/internal/store"
)

// fakeTypes is an in-memory relationship type repository with the same
// lookup semantics as store.RelatedTypeStore.
type fakeTypes struct {
	items    []models.RelatedType
	gets     int
	filterFn func(titles []string) error
}

func newFakeTypes(titles ...string) *fakeTypes {
	f := &fakeTypes{}
	for _, t := range titles {
		f.items = append(f.items, models.RelatedType{ID: uuid.New(), Title: t})
	}
	return f
}

func (f *fakeTypes) byTitle(title string) models.RelatedType {
	for _, t := range f.items {
		if t.Title == title {
			return t
		}
	}
	panic("no related type " + title)
}

func (f *fakeTypes) Get(_ context.Context, criteria map[string]string) (*models.RelatedType, error) {
	f.gets++
	var matches []models.RelatedType
	for _, t := range f.items {
		ok := true
		for k, v := range criteria {
			switch k {
			case "title":
				ok = ok && t.Title == v
			case "id":
				ok = ok && t.ID.String() == v
			default:
				return nil, fmt.Errorf("lookup %q: %w", k, store.ErrUnknownField)
			}
		}
		if ok {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return nil, store.ErrNotFound
	case 1:
		return &matches[0], nil
	default:
		return nil, store.ErrMultipleResults
	}
}

func (f *fakeTypes) Filter(_ context.Context, titles []string) ([]models.RelatedType, error) {
	if f.filterFn != nil {
		if err := f.filterFn(titles); err != nil {
			return nil, err
		}
	}
	out := []models.RelatedType{}
	for _, t := range f.items {
		if titles == nil || slices.Contains(titles, t.Title) {
			out = append(out, t)
		}
	}
	return out, nil
}

// fakeContentTypes is an in-memory content type registry.
type fakeContentTypes struct {
	items []models.ContentType
}

func newFakeContentTypes(names ...string) *fakeContentTypes {
	f := &fakeContentTypes{}
	for _, n := range names {
		f.items = append(f.items, models.ContentType{
			ID: uuid.New(), AppLabel: "cms", Model: n, Name: n, TableName: n + "s",
		})
	}
	return f
}

func (f *fakeContentTypes) byName(name string) models.ContentType {
	for _, c := range f.items {
		if c.Name == name {
			return c
		}
	}
	panic("no content type " + name)
}

func (f *fakeContentTypes) Filter(_ context.Context, names []string) ([]models.ContentType, error) {
	out := []models.ContentType{}
	for _, c := range f.items {
		if names == nil || slices.Contains(names, c.Name) {
			out = append(out, c)
		}
	}
	return out, nil
}

// fakeDestinations resolves only the references it was given.
type fakeDestinations struct {
	refs map[models.GenericRef]bool
	err  error
}

func (f *fakeDestinations) add(ref models.GenericRef) {
	if f.refs == nil {
		f.refs = map[models.GenericRef]bool{}
	}
	f.refs[ref] = true
}

func (f *fakeDestinations) RefExists(_ context.Context, ref models.GenericRef) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.refs[ref], nil
}

// noSettings disables the initial filter.
var noSettings = SettingsFunc(func(string) map[string]string { return nil })

// filterSettings returns criteria for InitialFilterSetting only.
func filterSettings(criteria map[string]string) Settings {
	return SettingsFunc(func(name string) map[string]string {
		if name == InitialFilterSetting {
			return criteria
		}
		return nil
	})
}

var errBoom = errors.New("boom")
