package dberror_test

import (
	"errors"
	"fmt"
	"testing"

	"go-workforce/internal/shared/apperror"
	"go-workforce/internal/shared/dberror"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMap(t *testing.T) {
	notFound := apperror.ErrNotFound
	dup := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "employees_user_id_key"})
	other := errors.New("connection reset")

	assert.NoError(t, dberror.Map(nil, notFound))
	assert.ErrorIs(t, dberror.Map(gorm.ErrRecordNotFound, notFound), notFound)
	assert.ErrorIs(t, dberror.Map(gorm.ErrRecordNotFound, nil), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, dberror.Map(dup, notFound), dberror.ErrDuplicate)
	assert.Equal(t, other, dberror.Map(other, notFound))
}

func TestIsUniqueViolation(t *testing.T) {
	err := &pgconn.PgError{Code: "23505", ConstraintName: "employees_user_id_key"}

	assert.True(t, dberror.IsUniqueViolation(err))
	assert.True(t, dberror.IsUniqueViolation(err, "USER_ID"))
	assert.False(t, dberror.IsUniqueViolation(err, "phone"))
	assert.False(t, dberror.IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}
