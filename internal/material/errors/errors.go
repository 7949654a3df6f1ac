package materialerrors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrInvalidMaterialID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid material request id",
		http.StatusBadRequest,
	)
	ErrApprovedQuantityTooHigh = apperror.New(
		apperror.CodeInvalidInput,
		"approved_quantity cannot exceed the requested quantity",
		http.StatusBadRequest,
	)
	ErrFulfilledQuantityTooHigh = apperror.New(
		apperror.CodeInvalidInput,
		"fulfilled_quantity cannot exceed the approved quantity",
		http.StatusBadRequest,
	)
	ErrRequiredDateInPast = apperror.New(
		apperror.CodeInvalidInput,
		"required_date cannot be in the past",
		http.StatusBadRequest,
	)
	ErrMaterialNotFound = apperror.New(
		apperror.CodeNotFound,
		"material request not found",
		http.StatusNotFound,
	)
)
