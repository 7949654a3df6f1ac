package projecterrors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrProjectNotFound = apperror.New(
		apperror.CodeNotFound,
		"Project not found",
		http.StatusNotFound,
	)
	ErrInvalidProjectID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid project ID",
		http.StatusBadRequest,
	)
	ErrSupervisorNotFound = apperror.New(
		apperror.CodeInvalidInput,
		"Supervisor is not an employee of this company",
		http.StatusBadRequest,
	)
	ErrSupervisorInactive = apperror.New(
		apperror.CodeInvalidInput,
		"Supervisor must be an active employee",
		http.StatusBadRequest,
	)
)
