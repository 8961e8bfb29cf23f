package service

import (
	"errors"
	"net/http"

	commonerrors "github.com/AlibekovAA/storefront/internal/common/errors"
)

var (
	ErrDuplicateAccount = commonerrors.NewDomainError(
		"DUPLICATE_ACCOUNT",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"email already registered",
	)

	ErrAccountNotFound = commonerrors.NewDomainError(
		"ACCOUNT_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"account not found",
	)

	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid email or password",
	)

	// ErrStore wraps any unexpected repository failure; the cause is kept and
	// reachable through errors.Unwrap.
	ErrStore = commonerrors.NewDomainError(
		"STORE_ERROR",
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		"store operation failed",
	)

	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"validation failed",
	)

	ErrServiceUnavailable = commonerrors.NewDomainError(
		"SERVICE_UNAVAILABLE",
		commonerrors.CategoryExternal,
		http.StatusServiceUnavailable,
		"service temporarily unavailable",
	)
)

func storeError(err error) error {
	if errors.Is(err, commonerrors.ErrCircuitOpen) {
		return ErrServiceUnavailable.WithCause(err)
	}
	return ErrStore.WithCause(err)
}

func newInternalError(code, message string, cause error) commonerrors.DomainError {
	err := commonerrors.NewDomainError(
		code,
		commonerrors.CategoryInternal,
		http.StatusInternalServerError,
		message,
	)
	if cause != nil {
		err = err.WithCause(cause)
	}
	return err
}
