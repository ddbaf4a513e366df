package employeeerrors

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
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrInvalidIDNumber = apperror.New(
		apperror.CodeValidationError,
		"id_number does not encode a valid birthdate",
		http.StatusBadRequest,
	)
	ErrInvalidClassification = apperror.New(
		apperror.CodeValidationError,
		"classification must be salaried or hourly",
		http.StatusBadRequest,
	)
	ErrSalaryRequired = apperror.New(
		apperror.CodeValidationError,
		"salary is required for salaried employees",
		http.StatusBadRequest,
	)
	ErrHourlyRateRequired = apperror.New(
		apperror.CodeValidationError,
		"hourly_rate is required for hourly employees",
		http.StatusBadRequest,
	)
	ErrInvalidStatus = apperror.New(
		apperror.CodeValidationError,
		"unknown employee status",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
