// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"relatedcontent/internal/models"
)

// ContentTypeStore reads the content type registry and resolves generic
// references against the tables it points at. It never writes.
type ContentTypeStore struct {
	db *sql.DB
}

// NewContentTypeStore returns a new ContentTypeStore.
func NewContentTypeStore(db *sql.DB) *ContentTypeStore {
	return &ContentTypeStore{db: db}
}

const contentTypeColumns = `id, app_label, model, name, table_name`

func scanContentType(scanner interface{ Scan(...any) error }) (*models.ContentType, error) {
	var c models.ContentType
	if err := scanner.Scan(&c.ID, &c.AppLabel, &c.Model, &c.Name, &c.TableName); err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns every registered content type ordered by name.
func (s *ContentTypeStore) List(ctx context.Context) ([]models.ContentType, error) {
	return s.Filter(ctx, nil)
}

// Filter returns the content types whose name is in names, ordered by name.
// A nil slice returns every type; an empty non-nil slice returns none.
func (s *ContentTypeStore) Filter(ctx context.Context, names []string) ([]models.ContentType, error) {
	if names != nil && len(names) == 0 {
		return []models.ContentType{}, nil
	}

	query := `SELECT ` + contentTypeColumns + ` FROM content_types`
	var args []any
	if names != nil {
		query += ` WHERE name = ANY($1)`
		args = append(args, names)
	}
	query += ` ORDER BY name, app_label`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("filter content types: %w", err)
	}
	defer rows.Close()

	items := []models.ContentType{}
	for rows.Next() {
		c, err := scanContentType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content type: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// FindByID retrieves a content type by ID. Returns nil if not found.
func (s *ContentTypeStore) FindByID(ctx context.Context, id uuid.UUID) (*models.ContentType, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+contentTypeColumns+` FROM content_types WHERE id = $1`, id)
	c, err := scanContentType(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content type by id: %w", err)
	}
	return c, nil
}

// FindByModel retrieves a content type by its model name (e.g. "article").
// Returns nil if not found.
func (s *ContentTypeStore) FindByModel(ctx context.Context, model string) (*models.ContentType, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+contentTypeColumns+` FROM content_types
		WHERE model = $1
		ORDER BY app_label
		LIMIT 1`, model)
	c, err := scanContentType(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content type by model: %w", err)
	}
	return c, nil
}

// ObjectExists reports whether an object with the given ID exists in the
// table of content type ct.
func (s *ContentTypeStore) ObjectExists(ctx context.Context, ct *models.ContentType, id uuid.UUID) (bool, error) {
	table := pgx.Identifier{ct.TableName}.Sanitize()

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM `+table+` WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check %s object %s: %w", ct.NaturalKey(), id, err)
	}
	return exists, nil
}

// ObjectTitle returns the title of an object of content type ct, or an
// empty string if it does not exist.
func (s *ContentTypeStore) ObjectTitle(ctx context.Context, ct *models.ContentType, id uuid.UUID) (string, error) {
	table := pgx.Identifier{ct.TableName}.Sanitize()

	var title string
	err := s.db.QueryRowContext(ctx, `SELECT title FROM `+table+` WHERE id = $1`, id).Scan(&title)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("title of %s object %s: %w", ct.NaturalKey(), id, err)
	}
	return title, nil
}

// RefExists reports whether a generic reference resolves to an existing
// object. An unknown content type resolves to false.
func (s *ContentTypeStore) RefExists(ctx context.Context, ref models.GenericRef) (bool, error) {
	ct, err := s.FindByID(ctx, ref.TypeID)
	if err != nil {
		return false, err
	}
	if ct == nil {
		return false, nil
	}
	return s.ObjectExists(ctx, ct, ref.ObjectID)
}
