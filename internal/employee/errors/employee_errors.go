package employeeerrors

import (
	"go-workforce/internal/shared/apperror"
	"net/http"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"Employee not found",
		http.StatusNotFound,
	)
	// ErrEmployeeNotLinked is returned when an authenticated principal has no
	// employee record.
	ErrEmployeeNotLinked = apperror.New(
		apperror.CodeNotFound,
		"Employee not found for the current user",
		http.StatusNotFound,
	)
	ErrEmployeeInactive = apperror.New(
		apperror.CodeForbidden,
		"Employee is not active",
		http.StatusForbidden,
	)
	ErrEmployeeAlreadyLinked = apperror.New(
		apperror.CodeConflict,
		"User is already linked to another employee",
		http.StatusConflict,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid employee ID",
		http.StatusBadRequest,
	)
	ErrProjectInOtherCompany = apperror.New(
		apperror.CodeInvalidInput,
		"Project does not belong to this company",
		http.StatusBadRequest,
	)
)
