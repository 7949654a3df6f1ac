// Package dberror classifies driver errors that services turn into API errors.
package dberror

import (
	"errors"
	"net/http"
	"strings"

	"go-workforce/internal/shared/apperror"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

var ErrDuplicate = apperror.New(apperror.CodeConflict, "Record already exists", http.StatusConflict)

func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation reports a postgres unique constraint failure. constraint,
// when set, must appear in the violated constraint's name.
func IsUniqueViolation(err error, constraint ...string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	for _, c := range constraint {
		if !containsFold(pgErr.ConstraintName, c) {
			return false
		}
	}
	return true
}

// Map turns a missing row into notFound and a unique violation into
// ErrDuplicate. Other errors pass through.
func Map(err error, notFound error) error {
	switch {
	case err == nil:
		return nil
	case notFound != nil && IsNotFound(err):
		return notFound
	case IsUniqueViolation(err):
		return ErrDuplicate
	default:
		return err
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
