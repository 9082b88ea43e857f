package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/catalog-service/internal/repository"
)

func TestMapPgError(t *testing.T) {
	cases := []struct {
		code string
		want error
	}{
		{pgerrcode.UniqueViolation, repository.ErrAlreadyExists},
		{pgerrcode.ForeignKeyViolation, repository.ErrConflict},
		{pgerrcode.SerializationFailure, repository.ErrConflict},
		{pgerrcode.CheckViolation, repository.ErrConstraint},
		{pgerrcode.NotNullViolation, repository.ErrConstraint},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			err := repository.MapPgError(&pgconn.PgError{Code: tc.code, ConstraintName: "ux_products_code"})
			assert.ErrorIs(t, err, tc.want)
			assert.Contains(t, err.Error(), "ux_products_code")
		})
	}
}

func TestMapPgError_PassThrough(t *testing.T) {
	assert.NoError(t, repository.MapPgError(nil))
	assert.ErrorIs(t, repository.MapPgError(context.Canceled), context.Canceled)

	syntax := &pgconn.PgError{Code: pgerrcode.SyntaxError}
	var pgErr *pgconn.PgError
	assert.True(t, errors.As(repository.MapPgError(syntax), &pgErr))
}
