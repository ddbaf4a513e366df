package payrollerrors

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
	ErrRunNotFound = apperror.New(
		apperror.CodeNotFound,
		"payroll run not found",
		http.StatusNotFound,
	)
	ErrRunClosed = apperror.New(
		apperror.CodeInvalidState,
		"payroll run is closed and cannot be recomputed",
		http.StatusConflict,
	)
	ErrPayslipNotFound = apperror.New(
		apperror.CodeNotFound,
		"payslip not found",
		http.StatusNotFound,
	)

	// No brackets for the requested tax year. This is a tenant setup failure,
	// not a zero-tax outcome, and must never be silently treated as one.
	ErrNoTaxBrackets = apperror.New(
		apperror.CodeConfiguration,
		"no tax brackets configured for the requested tax year",
		http.StatusUnprocessableEntity,
	)
	ErrNoWorkingHoursConfig = apperror.New(
		apperror.CodeConfiguration,
		"no active working hours configuration",
		http.StatusUnprocessableEntity,
	)
	ErrNoHourlyRate = apperror.New(
		apperror.CodeConfiguration,
		"employee has neither an hourly rate nor a salary to derive one from",
		http.StatusUnprocessableEntity,
	)
)
