package medicalerrors

import (
	"net/http"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrInvalidClaimID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid medical claim id",
		http.StatusBadRequest,
	)
	ErrTreatmentInFuture = apperror.New(
		apperror.CodeInvalidInput,
		"treatment_date cannot be in the future",
		http.StatusBadRequest,
	)
	ErrApprovedAmountTooHigh = apperror.New(
		apperror.CodeInvalidInput,
		"approved_amount cannot exceed the claimed amount",
		http.StatusBadRequest,
	)
	ErrClaimNotFound = apperror.New(
		apperror.CodeNotFound,
		"medical claim not found",
		http.StatusNotFound,
	)
	ErrReceiptsLocked = apperror.Conflict("receipts can only be added while the claim is pending")
)
