// Package postgres implements the outbound persistence ports on
// PostgreSQL via pgxpool. Guarded writes use row locks or
// compare-and-swap UPDATEs so the invariants hold under concurrent
// callers with no in-process coordination.
package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
