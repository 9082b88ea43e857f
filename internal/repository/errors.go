package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Domain-level errors I prefer to bubble up from repository implementations.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrConflict      = errors.New("conflict")
	// ErrConstraint is a row the schema rejects (check, not-null, length),
	// i.e. input that slipped past service validation.
	ErrConstraint = errors.New("constraint violation")
)

// MapPgError translates common Postgres error codes to domain errors, keeping
// the constraint name in the message. Everything else passes through.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	var kind error
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		kind = ErrAlreadyExists
	case pgerrcode.ForeignKeyViolation, pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
		kind = ErrConflict
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation, pgerrcode.StringDataRightTruncationDataException:
		kind = ErrConstraint
	default:
		return err
	}
	if pgErr.ConstraintName != "" {
		return fmt.Errorf("%w: %s", kind, pgErr.ConstraintName)
	}
	return kind
}
