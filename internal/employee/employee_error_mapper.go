package employee

import (
	employeeerrors "go-workforce/internal/employee/errors"
	"go-workforce/internal/shared/dberror"
)

func mapRepositoryError(err error) error {
	if dberror.IsUniqueViolation(err, "user_id") {
		return employeeerrors.ErrEmployeeAlreadyLinked
	}
	return dberror.Map(err, employeeerrors.ErrEmployeeNotFound)
}
