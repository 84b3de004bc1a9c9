package repository

import (
	"database/sql"
	"strings"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// classify maps driver errors onto the service sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return errors.Wrap(errs.ErrConflict, constraintField(pgErr, "_key"))
	case pgerrcode.CheckViolation:
		return errors.Wrap(errs.ErrValidation, constraintField(pgErr, "_check"))
	case pgerrcode.ForeignKeyViolation:
		return errors.Wrap(errs.ErrNotFound, strings.TrimSuffix(constraintField(pgErr, "_fkey"), "_id"))
	default:
		return err
	}
}

// constraintField turns "members_email_key" into "email".
func constraintField(pgErr *pgconn.PgError, suffix string) string {
	name := strings.TrimPrefix(pgErr.ConstraintName, pgErr.TableName+"_")
	return strings.TrimSuffix(name, suffix)
}
