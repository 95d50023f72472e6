package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapUniqueViolation(t *testing.T) {
	unique := &pgconn.PgError{Code: "23505", ConstraintName: "meeting_types_user_id_slug_key"}

	err := mapUniqueViolation(unique, "slug")
	assert.ErrorIs(t, err, ErrConflict)

	wrapped := mapUniqueViolation(fmt.Errorf("exec: %w", unique), "slug")
	assert.ErrorIs(t, wrapped, ErrConflict)

	other := &pgconn.PgError{Code: "23503"}
	assert.False(t, errors.Is(mapUniqueViolation(other, "slug"), ErrConflict))
	assert.Equal(t, other, mapUniqueViolation(other, "slug"))

	plain := errors.New("connection reset")
	assert.Equal(t, plain, mapUniqueViolation(plain, "slug"))

	assert.NoError(t, mapUniqueViolation(nil, "slug"))
}
