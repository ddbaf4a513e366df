package leaveerrors

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
	ErrInvalidActorID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid actor id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidInput,
		"employee does not belong to this company",
		http.StatusBadRequest,
	)
	ErrUnknownLeaveType = apperror.New(
		apperror.CodeValidationError,
		"unknown leave type",
		http.StatusBadRequest,
	)
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"leave already requested in overlapping period",
		http.StatusConflict,
	)

	ErrNoBusinessDays = apperror.New(
		apperror.CodeValidationError,
		"requested period contains no business days",
		http.StatusBadRequest,
	)
	ErrInsufficientBalance = apperror.New(
		apperror.CodeValidationError,
		"requested days exceed remaining leave balance",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeValidationError,
		"family responsibility leave requires a reason",
		http.StatusBadRequest,
	)
	ErrEventDateRequired = apperror.New(
		apperror.CodeValidationError,
		"a birth reference date is required for this leave type",
		http.StatusBadRequest,
	)
	ErrEventDateBeforeStart = apperror.New(
		apperror.CodeValidationError,
		"expected birth date must not precede the leave start",
		http.StatusBadRequest,
	)
	ErrParentalWindowExceeded = apperror.New(
		apperror.CodeValidationError,
		"parental leave must start within 120 days of the birth reference date",
		http.StatusBadRequest,
	)

	ErrAlreadyDecided = apperror.New(
		apperror.CodeInvalidState,
		"leave request has already been decided",
		http.StatusConflict,
	)
)
