package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"chef/internal/repository"
)

const uniqueViolation = "23505"

// mapError translates driver errors into repository errors. Other errors pass through untouched.
func mapError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
