package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes translated by ErrorMap.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// ErrorMap translates driver errors into domain errors for one table.
// A nil entry leaves the matching driver error unchanged.
type ErrorMap struct {
	// NotFound replaces sql.ErrNoRows.
	NotFound error
	// Duplicate replaces unique violations.
	Duplicate error
	// Reference replaces foreign key violations.
	Reference error
	// Constraint replaces check constraint violations.
	Constraint error
}

// Map returns the domain error for err, or err itself when no entry applies.
func (m ErrorMap) Map(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return or(m.NotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return or(m.Duplicate, err)
	case codeForeignKeyViolation:
		return or(m.Reference, err)
	case codeCheckViolation:
		return or(m.Constraint, err)
	}
	return err
}

func or(mapped, err error) error {
	if mapped != nil {
		return mapped
	}
	return err
}
