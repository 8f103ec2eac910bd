// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned by exact lookups that match no row.
	ErrNotFound = errors.New("no matching record")

	// ErrMultipleResults is returned by exact lookups that match more than one row.
	ErrMultipleResults = errors.New("more than one matching record")

	// ErrUnknownField is returned when lookup criteria name a column that
	// cannot be filtered on.
	ErrUnknownField = errors.New("unknown lookup field")

	// ErrInUse is returned when deleting a record that is still referenced.
	ErrInUse = errors.New("record is still referenced")

	// ErrMissingReference is returned when an insert points at a row that
	// does not exist.
	ErrMissingReference = errors.New("referenced record does not exist")

	// ErrDuplicate is returned when an insert or update violates a unique constraint.
	ErrDuplicate = errors.New("record already exists")
)

// PostgreSQL error codes mapped onto the sentinels above.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// translatePgError maps constraint violations onto store sentinels and
// returns any other error unchanged.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgForeignKeyViolation:
		return ErrInUse
	case pgUniqueViolation:
		return ErrDuplicate
	}
	return err
}

// translateInsertError is translatePgError for inserts, where a foreign key
// violation means the referenced row is missing.
func translateInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return ErrMissingReference
	}
	return translatePgError(err)
}
