package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// IsForeignKeyViolation reports whether err was raised by a foreign key
// constraint, either from Postgres or from the sqlite driver used in tests.
func IsForeignKeyViolation(err error) bool {
	return matchesPGCode(err, pgForeignKeyViolation, "FOREIGN KEY constraint failed")
}

// IsCheckViolation reports whether err was raised by a CHECK constraint.
func IsCheckViolation(err error) bool {
	return matchesPGCode(err, pgCheckViolation, "CHECK constraint failed")
}

func matchesPGCode(err error, code, sqliteText string) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return strings.Contains(err.Error(), sqliteText)
}
