package repository

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorUniqueViolation(t *testing.T) {
	err := mapError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "tasks_pkey"})

	assert.ErrorIs(t, err, ErrDuplicateID)
	assert.Contains(t, err.Error(), "tasks_pkey")
}

func TestMapErrorKeepsOtherErrors(t *testing.T) {
	cause := errors.New("connection reset")

	err := mapError(cause)

	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrDuplicateID)
	assert.NoError(t, mapError(nil))
}
