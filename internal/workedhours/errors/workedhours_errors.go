package workedhourserrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidRunID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid payroll run id",
		http.StatusBadRequest,
	)
	ErrInvalidHours = apperror.New(
		apperror.CodeValidationError,
		"hours must be non-negative numbers",
		http.StatusBadRequest,
	)
	ErrNotHourlyEmployee = apperror.New(
		apperror.CodeValidationError,
		"worked hours can only be recorded for hourly employees",
		http.StatusBadRequest,
	)
	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not belong to this company",
		http.StatusBadRequest,
	)
	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"worked hours record not found",
		http.StatusNotFound,
	)
)
