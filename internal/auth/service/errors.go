package service

import (
	"net/http"

	commonerrors "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/errors"
)

var (
	ErrDuplicateEmail = commonerrors.NewDomainError(
		"DUPLICATE_EMAIL",
		commonerrors.CategoryConflict,
		http.StatusBadRequest,
		"Email is already in use.",
	)

	ErrDuplicateUsername = commonerrors.NewDomainError(
		"DUPLICATE_USERNAME",
		commonerrors.CategoryConflict,
		http.StatusBadRequest,
		"Username is already in use.",
	)

	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryAuth,
		http.StatusUnauthorized,
		"Invalid credentials",
	)

	ErrUnauthorized = commonerrors.NewDomainError(
		"UNAUTHORIZED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"Invalid token.",
	)

	// ErrMissingSession shares the UNAUTHORIZED code, so errors.Is matches it
	// against ErrUnauthorized.
	ErrMissingSession = commonerrors.NewDomainError(
		"UNAUTHORIZED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"No JWT token found in cookies.",
	)

	ErrForbidden = commonerrors.NewDomainError(
		"FORBIDDEN",
		commonerrors.CategoryForbidden,
		http.StatusForbidden,
		"You can only modify your own profile.",
	)

	ErrNotFound = commonerrors.NewDomainError(
		"USER_NOT_FOUND",
		commonerrors.CategoryNotFound,
		http.StatusNotFound,
		"User not found.",
	)

	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"validation failed",
	)

	ErrInvalidResetToken = commonerrors.NewDomainError(
		"INVALID_RESET_TOKEN",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"Invalid or expired reset token.",
	)

	ErrServiceUnavailable = commonerrors.NewDomainError(
		"SERVICE_UNAVAILABLE",
		commonerrors.CategoryExternal,
		http.StatusServiceUnavailable,
		"service temporarily unavailable",
	)
)
