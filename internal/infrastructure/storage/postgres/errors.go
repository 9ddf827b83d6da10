package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"stockdesk/internal/core/apperror"
)

// SQLSTATE codes the repositories translate.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// MapError translates constraint violations into AppErrors. Anything else is
// returned unchanged for the caller to wrap.
func MapError(table string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation:
		return apperror.NewDuplicate(table, pgErr.ConstraintName, pgErr.Detail).WithCause(err)
	case codeForeignKeyViolation:
		return apperror.NewConflict("record is referenced by, or references, another record").
			WithDetail("entity", table).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	case codeCheckViolation:
		return apperror.NewValidation("value rejected by store constraint").
			WithDetail("entity", table).
			WithDetail("constraint", pgErr.ConstraintName).
			WithCause(err)
	}
	return err
}
