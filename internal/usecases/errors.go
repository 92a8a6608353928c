package usecases

import (
	"errors"

	domainerrors "teamhub.backend/internal/domain/errors"
)

// normalizeError turns whatever a unit of work returned into a typed outcome.
// Typed errors pass through, bare ErrNotFound gets notFoundMessage, and
// everything else is a persistence failure.
func normalizeError(err error, notFoundMessage string) error {
	if err == nil {
		return nil
	}
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) && errors.Is(err, domainerrors.ErrNotFound) {
		return domainerrors.NotFound(notFoundMessage)
	}
	return domainerrors.AsAppError(err)
}

func isNotFound(err error) bool {
	return errors.Is(err, domainerrors.ErrNotFound)
}
