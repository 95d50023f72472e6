package app

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned by storage methods. Handlers map these to HTTP
// status codes; everything else is a 500.
var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")
	ErrConflict  = errors.New("conflict")

	// ErrInvalidInput marks caller mistakes detected below the handler layer.
	ErrInvalidInput = errors.New("invalid input")
)

// mapUniqueViolation converts a postgres unique-violation into ErrConflict so
// write paths that race past an existence pre-check still surface a 409.
func mapUniqueViolation(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s already in use: %w", what, ErrConflict)
	}
	return err
}
