// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"relatedcontent/internal/models"
)

// RelatedTypeStore manages relationship types in the database.
type RelatedTypeStore struct {
	db *sql.DB
}

// NewRelatedTypeStore returns a new RelatedTypeStore.
func NewRelatedTypeStore(db *sql.DB) *RelatedTypeStore {
	return &RelatedTypeStore{db: db}
}

const relatedTypeColumns = `id, title, created_at, updated_at`

// relatedTypeLookupFields lists the columns Get accepts as criteria.
var relatedTypeLookupFields = map[string]bool{
	"id":    true,
	"title": true,
}

// scanRelatedType scans a row into a RelatedType struct.
func scanRelatedType(scanner interface{ Scan(...any) error }) (*models.RelatedType, error) {
	var t models.RelatedType
	if err := scanner.Scan(&t.ID, &t.Title, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all related types ordered by title, with the number of
// links using each.
func (s *RelatedTypeStore) List(ctx context.Context) ([]models.RelatedType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.title, t.created_at, t.updated_at, COUNT(rc.id) AS link_count
		FROM related_types t
		LEFT JOIN related_content rc ON rc.related_type_id = t.id
		GROUP BY t.id
		ORDER BY t.title
	`)
	if err != nil {
		return nil, fmt.Errorf("list related types: %w", err)
	}
	defer rows.Close()

	var items []models.RelatedType
	for rows.Next() {
		var t models.RelatedType
		if err := rows.Scan(&t.ID, &t.Title, &t.CreatedAt, &t.UpdatedAt, &t.LinkCount); err != nil {
			return nil, fmt.Errorf("scan related type: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}

// Filter returns the related types whose title is in titles, ordered by
// title. A nil slice returns every type; an empty non-nil slice returns none.
func (s *RelatedTypeStore) Filter(ctx context.Context, titles []string) ([]models.RelatedType, error) {
	if titles != nil && len(titles) == 0 {
		return []models.RelatedType{}, nil
	}

	query := `SELECT ` + relatedTypeColumns + ` FROM related_types`
	var args []any
	if titles != nil {
		query += ` WHERE title = ANY($1)`
		args = append(args, titles)
	}
	query += ` ORDER BY title`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filter related types: %w", err)
	}
	defer rows.Close()

	items := []models.RelatedType{}
	for rows.Next() {
		t, err := scanRelatedType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan related type: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// Get returns the single related type matching every criterion, e.g.
// {"title": "articles"}. It fails with ErrNotFound, ErrMultipleResults or
// ErrUnknownField.
func (s *RelatedTypeStore) Get(ctx context.Context, criteria map[string]string) (*models.RelatedType, error) {
	if len(criteria) == 0 {
		return nil, fmt.Errorf("get related type: empty criteria: %w", ErrNotFound)
	}

	keys := make([]string, 0, len(criteria))
	for k := range criteria {
		if !relatedTypeLookupFields[k] {
			return nil, fmt.Errorf("get related type: %q: %w", k, ErrUnknownField)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	conds := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		conds[i] = fmt.Sprintf("%s::text = $%d", k, i+1)
		args[i] = criteria[k]
	}

	// Two rows are enough to tell "exactly one" from "several".
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+relatedTypeColumns+` FROM related_types WHERE `+strings.Join(conds, " AND ")+` LIMIT 2`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("get related type: %w", err)
	}
	defer rows.Close()

	var found []*models.RelatedType
	for rows.Next() {
		t, err := scanRelatedType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan related type: %w", err)
		}
		found = append(found, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get related type: %w", err)
	}

	switch len(found) {
	case 0:
		return nil, fmt.Errorf("get related type %v: %w", criteria, ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("get related type %v: %w", criteria, ErrMultipleResults)
	}
}

// FindByID retrieves a related type by ID. Returns nil if not found.
func (s *RelatedTypeStore) FindByID(ctx context.Context, id uuid.UUID) (*models.RelatedType, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+relatedTypeColumns+` FROM related_types WHERE id = $1`, id)
	t, err := scanRelatedType(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find related type by id: %w", err)
	}
	return t, nil
}

// Create inserts a new related type and returns it.
func (s *RelatedTypeStore) Create(ctx context.Context, title string) (*models.RelatedType, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO related_types (title) VALUES ($1)
		RETURNING `+relatedTypeColumns,
		title,
	)
	t, err := scanRelatedType(row)
	if err != nil {
		return nil, fmt.Errorf("create related type: %w", translatePgError(err))
	}
	return t, nil
}

// Update renames an existing related type.
func (s *RelatedTypeStore) Update(ctx context.Context, id uuid.UUID, title string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE related_types SET title = $1, updated_at = NOW() WHERE id = $2
	`, title, id)
	if err != nil {
		return fmt.Errorf("update related type: %w", translatePgError(err))
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update related type %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a related type. It fails with ErrInUse while links still
// reference it.
func (s *RelatedTypeStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM related_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete related type: %w", translatePgError(err))
	}
	return nil
}
