package workflowerrors

import (
	"net/http"
	"strings"

	"go-workforce/internal/shared/apperror"
)

var (
	ErrInvalidFamily = apperror.New(
		apperror.CodeInvalidInput,
		"unknown request family",
		http.StatusBadRequest,
	)
	ErrInvalidDecision = apperror.New(
		apperror.CodeInvalidInput,
		"action must be approve or reject",
		http.StatusBadRequest,
	)
	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid request id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"from must be on or before to",
		http.StatusBadRequest,
	)
	ErrInvalidStatusFilter = apperror.New(
		apperror.CodeInvalidInput,
		"invalid status filter",
		http.StatusBadRequest,
	)
	ErrRemarksRequired = apperror.New(
		apperror.CodeInvalidInput,
		"remarks are required when rejecting a request",
		http.StatusBadRequest,
	)
	ErrNotSupervisor = apperror.New(
		apperror.CodeForbidden,
		"request is outside your supervised projects",
		http.StatusForbidden,
	)
	ErrNotSubmitter = apperror.New(
		apperror.CodeForbidden,
		"only the submitter can change this request",
		http.StatusForbidden,
	)
	ErrRequestNotVisible = apperror.New(
		apperror.CodeForbidden,
		"you do not have access to this request",
		http.StatusForbidden,
	)
	ErrAlreadyDecided = apperror.New(
		apperror.CodeConflict,
		"request was already decided",
		http.StatusConflict,
	)
	ErrNotApproved = apperror.New(
		apperror.CodeConflict,
		"request must be APPROVED before it can be completed",
		http.StatusConflict,
	)
	ErrInvalidTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid request status transition",
		http.StatusBadRequest,
	)
)

// AlreadyDecided reports the status a request already holds. The result
// matches ErrAlreadyDecided under errors.Is.
func AlreadyDecided(status string) *apperror.AppError {
	return apperror.Wrap(
		ErrAlreadyDecided,
		apperror.CodeConflict,
		"request already "+strings.ToLower(status),
		http.StatusConflict,
	)
}
