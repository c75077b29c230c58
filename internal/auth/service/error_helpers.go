package service

import (
	"errors"
	"net/http"

	authrepo "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/auth/repository"
	commonerrors "github.com/Akshay022024/AI-Disaster-Management-and-Response-System/internal/common/errors"
)

func handleCircuitBreakerError(err error) error {
	if errors.Is(err, commonerrors.ErrCircuitOpen) {
		return ErrServiceUnavailable.WithCause(err)
	}
	return err
}

// handleDuplicateError maps a unique constraint violation reported by the
// repository to the matching domain error.
func handleDuplicateError(err error) (error, bool) {
	switch {
	case errors.Is(err, authrepo.ErrEmailAlreadyExists):
		return ErrDuplicateEmail, true
	case errors.Is(err, authrepo.ErrUsernameAlreadyExists):
		return ErrDuplicateUsername, true
	default:
		return nil, false
	}
}

// IsRepositoryFailure reports whether a repository error should count towards
// opening the database circuit. Lookups that find nothing and constraint
// violations are normal answers.
func IsRepositoryFailure(err error) bool {
	return !errors.Is(err, authrepo.ErrUserNotFound) &&
		!errors.Is(err, authrepo.ErrEmailAlreadyExists) &&
		!errors.Is(err, authrepo.ErrUsernameAlreadyExists) &&
		!errors.Is(err, authrepo.ErrResetTokenNotFound)
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
