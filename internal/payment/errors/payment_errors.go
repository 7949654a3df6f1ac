package paymenterrors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrInvalidPaymentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payment request id",
		http.StatusBadRequest,
	)
	ErrApprovedAmountTooHigh = apperror.New(
		apperror.CodeInvalidInput,
		"approved_amount cannot exceed the requested amount",
		http.StatusBadRequest,
	)
	ErrPaymentNotFound = apperror.New(
		apperror.CodeNotFound,
		"payment request not found",
		http.StatusNotFound,
	)
)
