// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package admin

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"relatedcontent/internal/models"
)

const (
	// FormsetPrefix prefixes every input name of the related content formset.
	FormsetPrefix = "related"

	// maxForms is the most rows a submission may carry.
	maxForms = 1000

	// absoluteMaxForms bounds how many rows are read from an oversized
	// submission before it is rejected.
	absoluteMaxForms = 2 * maxForms
)

// DestinationChecker verifies that a generic reference points at an
// existing object of the stated type.
type DestinationChecker interface {
	RefExists(ctx context.Context, ref models.GenericRef) (bool, error)
}

// Row is one link in a formset, holding raw string values keyed by field.
type Row struct {
	Index  int
	Values map[string]string
	Delete bool
	Errors []string

	// DestinationTitle is display-only and filled by the caller.
	DestinationTitle string
}

// Value returns the raw value of a field.
func (r *Row) Value(field string) string {
	return r.Values[field]
}

// Formset is the set of rows an inline renders or receives.
type Formset struct {
	Prefix string
	Inline *Inline
	Rows   []*Row

	// InitialForms counts the leading rows that hold existing links.
	InitialForms int

	// Errors are problems with the submission as a whole.
	Errors []string
}

// emptyIndex names the template row cloned client-side to add links.
const emptyIndex = "__prefix__"

// InputName returns the input name of field in row i. A negative i names
// the empty template row.
func (fs *Formset) InputName(i int, field string) string {
	if i < 0 {
		return fs.Prefix + "-" + emptyIndex + "-" + field
	}
	return inputName(fs.Prefix, i, field)
}

// EmptyRow returns the template row the page clones when a link is added.
func (fs *Formset) EmptyRow() *Row {
	row := fs.Inline.blankRow(0)
	row.Index = -1
	row.Values[OrderField] = ""
	return row
}

// TotalFormsName is the name of the input carrying the row count.
func (fs *Formset) TotalFormsName() string {
	return fs.Prefix + "-TOTAL_FORMS"
}

// InitialFormsName is the name of the input carrying the number of
// existing links.
func (fs *Formset) InitialFormsName() string {
	return fs.Prefix + "-INITIAL_FORMS"
}

// TotalForms returns the number of rows.
func (fs *Formset) TotalForms() int {
	return len(fs.Rows)
}

// Valid reports whether neither the formset nor any row has errors.
func (fs *Formset) Valid() bool {
	if len(fs.Errors) > 0 {
		return false
	}
	for _, r := range fs.Rows {
		if len(r.Errors) > 0 {
			return false
		}
	}
	return true
}

// Formset returns the rows for the existing links followed by Extra blank
// rows prefilled with each field's initial value.
func (in *Inline) Formset(links []models.RelatedContent) *Formset {
	fs := &Formset{Prefix: FormsetPrefix, Inline: in, InitialForms: len(links)}
	for i, l := range links {
		fs.Rows = append(fs.Rows, &Row{
			Index: i,
			Values: map[string]string{
				RelatedTypeField:     l.RelatedTypeID.String(),
				DestinationTypeField: l.Destination.TypeID.String(),
				DestinationIDField:   l.Destination.ObjectID.String(),
				OrderField:           strconv.Itoa(l.Order),
			},
			DestinationTitle: l.DestinationTitle,
		})
	}
	for i := 0; i < in.Extra; i++ {
		fs.Rows = append(fs.Rows, in.blankRow(len(fs.Rows)))
	}
	return fs
}

func (in *Inline) blankRow(i int) *Row {
	values := make(map[string]string, len(in.Form.Fields))
	for _, f := range in.Form.Fields {
		values[f.Name] = f.Initial
	}
	values[OrderField] = strconv.Itoa(i)
	return &Row{Index: i, Values: values}
}

// Bind reads a submitted formset and validates every row against the
// inline's form. It returns the formset for re-rendering and the links of
// the valid, non-deleted rows. Row problems are reported on the rows and
// submission problems on the formset; the error is reserved for failures
// of dest.
func (in *Inline) Bind(ctx context.Context, values url.Values, dest DestinationChecker) (*Formset, []models.RelatedContent, error) {
	fs := &Formset{Prefix: FormsetPrefix, Inline: in}

	total, err := strconv.Atoi(values.Get(fs.TotalFormsName()))
	if err != nil || total < 0 {
		total = 0
	}
	if total > maxForms {
		fs.Errors = append(fs.Errors, fmt.Sprintf("Please submit at most %d related content forms.", maxForms))
		total = min(total, absoluteMaxForms)
	}

	initial, err := strconv.Atoi(values.Get(fs.InitialFormsName()))
	if err != nil || initial < 0 {
		initial = 0
	}
	fs.InitialForms = min(initial, total)

	var links []models.RelatedContent
	for i := 0; i < total; i++ {
		row := &Row{Index: i, Values: map[string]string{}}
		for _, f := range in.Form.Fields {
			row.Values[f.Name] = strings.TrimSpace(values.Get(fs.InputName(i, f.Name)))
		}
		row.Delete = values.Get(fs.InputName(i, "DELETE")) != ""
		fs.Rows = append(fs.Rows, row)

		if row.Delete {
			continue
		}
		// Only new rows may be left blank. An existing link whose
		// destination was cleared must fail rather than vanish.
		if i >= fs.InitialForms && in.isBlank(row) {
			continue
		}

		link, ok := in.cleanRow(row)
		if !ok {
			continue
		}

		exists, err := dest.RefExists(ctx, link.Destination)
		if err != nil {
			return fs, nil, fmt.Errorf("check destination of row %d: %w", i, err)
		}
		if !exists {
			row.Errors = append(row.Errors, "Destination does not exist.")
			continue
		}
		links = append(links, link)
	}

	if len(fs.Errors) > 0 {
		return fs, nil, nil
	}
	return fs, links, nil
}

// isBlank reports whether a submitted row was left untouched: no
// destination and every choice still at its initial value.
func (in *Inline) isBlank(row *Row) bool {
	if row.Values[DestinationIDField] != "" {
		return false
	}
	for _, f := range in.Form.Fields {
		if !f.IsChoice() {
			continue
		}
		if v := row.Values[f.Name]; v != "" && v != f.Initial {
			return false
		}
	}
	return true
}

// cleanRow validates a row and converts it to a link.
func (in *Inline) cleanRow(row *Row) (models.RelatedContent, bool) {
	var link models.RelatedContent

	typeID, ok := in.cleanChoice(row, RelatedTypeField)
	if ok {
		link.RelatedTypeID = typeID
	}
	destTypeID, ok := in.cleanChoice(row, DestinationTypeField)
	if ok {
		link.Destination.TypeID = destTypeID
	}

	if raw := row.Values[DestinationIDField]; raw == "" {
		row.Errors = append(row.Errors, "Destination is required.")
	} else if id, err := uuid.Parse(raw); err != nil {
		row.Errors = append(row.Errors, "Destination must be a valid object ID.")
	} else {
		link.Destination.ObjectID = id
	}

	if raw := row.Values[OrderField]; raw == "" {
		link.Order = row.Index
	} else if n, err := strconv.Atoi(raw); err != nil {
		row.Errors = append(row.Errors, "Order must be a whole number.")
	} else {
		link.Order = n
	}

	return link, len(row.Errors) == 0
}

// cleanChoice validates a choice field value against the field's choices.
// An empty value falls back to the field's initial value.
func (in *Inline) cleanChoice(row *Row, name string) (uuid.UUID, bool) {
	f := in.Form.Field(name)
	if f == nil {
		row.Errors = append(row.Errors, fmt.Sprintf("%s is not configured.", name))
		return uuid.Nil, false
	}

	v := row.Values[name]
	if v == "" {
		v = f.Initial
		row.Values[name] = v
	}
	if v == "" {
		row.Errors = append(row.Errors, f.Label+" is required.")
		return uuid.Nil, false
	}
	if !f.HasChoice(v) {
		row.Errors = append(row.Errors, "Select a valid "+strings.ToLower(f.Label)+".")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(v)
	if err != nil {
		row.Errors = append(row.Errors, "Select a valid "+strings.ToLower(f.Label)+".")
		return uuid.Nil, false
	}
	return id, true
}
