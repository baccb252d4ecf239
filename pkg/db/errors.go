package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	pkgerrors "github.com/Varun984/Sparkathon-by-Walmart/pkg/errors"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
	pgInvalidTextRep      = "22P02"
)

// IsUniqueViolation reports whether the provided error references a unique
// constraint. When constraintName is provided, the helper looks for the
// constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if constraintName != "" {
		return strings.Contains(err.Error(), constraintName)
	}
	return sqlState(err) == pgUniqueViolation ||
		containsAny(err.Error(), "duplicate key value", "UNIQUE constraint failed")
}

// IsForeignKeyViolation reports whether err references a missing or still
// referenced parent row.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return sqlState(err) == pgForeignKeyViolation ||
		containsAny(err.Error(), "violates foreign key constraint", "FOREIGN KEY constraint failed")
}

// IsCheckViolation covers CHECK constraints, NOT NULL columns and enum input
// the store refused to parse.
func IsCheckViolation(err error) bool {
	if err == nil {
		return false
	}
	switch sqlState(err) {
	case pgCheckViolation, pgNotNullViolation, pgInvalidTextRep:
		return true
	}
	return containsAny(err.Error(),
		"CHECK constraint failed",
		"NOT NULL constraint failed",
		"invalid input value for enum",
	)
}

// Classify attaches an error code to a raw store failure. Already typed
// errors pass through untouched.
func Classify(err error, message string) error {
	if err == nil {
		return nil
	}
	if pkgerrors.As(err) != nil {
		return err
	}
	switch {
	case IsUniqueViolation(err, ""):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, message)
	case IsForeignKeyViolation(err), IsCheckViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, message)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
	}
}

func sqlState(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func containsAny(msg string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}
