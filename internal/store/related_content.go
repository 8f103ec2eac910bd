// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"relatedcontent/internal/models"
)

// RelatedContentStore manages links between content objects.
type RelatedContentStore struct {
	db *sql.DB
}

// NewRelatedContentStore returns a new RelatedContentStore.
func NewRelatedContentStore(db *sql.DB) *RelatedContentStore {
	return &RelatedContentStore{db: db}
}

// ListBySource returns the links of one source object ordered for display,
// with the related type title and destination type name filled in.
func (s *RelatedContentStore) ListBySource(ctx context.Context, source models.GenericRef) ([]models.RelatedContent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT rc.id, rc.related_type_id, rc.source_type_id, rc.source_id,
		       rc.destination_type_id, rc.destination_id, rc."order", rc.created_at,
		       t.title, ct.name
		FROM related_content rc
		JOIN related_types t ON t.id = rc.related_type_id
		JOIN content_types ct ON ct.id = rc.destination_type_id
		WHERE rc.source_type_id = $1 AND rc.source_id = $2
		ORDER BY rc."order", rc.created_at
	`, source.TypeID, source.ObjectID)
	if err != nil {
		return nil, fmt.Errorf("list related content: %w", err)
	}
	defer rows.Close()

	var items []models.RelatedContent
	for rows.Next() {
		var rc models.RelatedContent
		if err := rows.Scan(
			&rc.ID, &rc.RelatedTypeID, &rc.Source.TypeID, &rc.Source.ObjectID,
			&rc.Destination.TypeID, &rc.Destination.ObjectID, &rc.Order, &rc.CreatedAt,
			&rc.RelatedTypeTitle, &rc.DestinationTypeName,
		); err != nil {
			return nil, fmt.Errorf("scan related content: %w", err)
		}
		items = append(items, rc)
	}
	return items, rows.Err()
}

// Create inserts a single link and returns it.
func (s *RelatedContentStore) Create(ctx context.Context, rc *models.RelatedContent) (*models.RelatedContent, error) {
	out := *rc
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO related_content
			(related_type_id, source_type_id, source_id, destination_type_id, destination_id, "order")
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, rc.RelatedTypeID, rc.Source.TypeID, rc.Source.ObjectID,
		rc.Destination.TypeID, rc.Destination.ObjectID, rc.Order,
	).Scan(&out.ID, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create related content: %w", translateInsertError(err))
	}
	return &out, nil
}

// ReplaceForSource swaps the full set of links of a source object for
// links in a single transaction. The Source of every link is overwritten.
func (s *RelatedContentStore) ReplaceForSource(ctx context.Context, source models.GenericRef, links []models.RelatedContent) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM related_content WHERE source_type_id = $1 AND source_id = $2
	`, source.TypeID, source.ObjectID); err != nil {
		return fmt.Errorf("clear related content: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO related_content
			(related_type_id, source_type_id, source_id, destination_type_id, destination_id, "order")
		VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return fmt.Errorf("prepare related content insert: %w", err)
	}
	defer stmt.Close()

	for _, l := range links {
		if _, err := stmt.ExecContext(ctx,
			l.RelatedTypeID, source.TypeID, source.ObjectID,
			l.Destination.TypeID, l.Destination.ObjectID, l.Order,
		); err != nil {
			return fmt.Errorf("insert related content: %w", translateInsertError(err))
		}
	}

	return tx.Commit()
}

// DeleteBySource removes every link of a source object. Called when the
// source object itself is deleted.
func (s *RelatedContentStore) DeleteBySource(ctx context.Context, source models.GenericRef) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM related_content WHERE source_type_id = $1 AND source_id = $2
	`, source.TypeID, source.ObjectID)
	if err != nil {
		return 0, fmt.Errorf("delete related content by source: %w", err)
	}
	return res.RowsAffected()
}
