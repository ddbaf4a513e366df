package payrollrunerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"period_start must be before or equal period_end",
		http.StatusBadRequest,
	)
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run not found",
		http.StatusNotFound,
	)
	ErrRunOverlap = apperror.New(
		apperror.CodeConflict,
		"payroll run already exists in overlapping period",
		http.StatusConflict,
	)
	ErrRunClosed = apperror.New(
		apperror.CodeInvalidState,
		"payroll run is closed",
		http.StatusConflict,
	)
	ErrRunAlreadyClosed = apperror.New(
		apperror.CodeInvalidState,
		"payroll run is already closed",
		http.StatusConflict,
	)
)
