package v1

import (
	"errors"
	"net/http"

	"github.com/famplan/backend/internal/auth"
	"github.com/famplan/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"there is no plan matching your query"`
}

// status returns the appropriate HTTP status for an error.
//
// Closed months and duplicate resolutions are conflicts, not bad
// requests: the input was fine, the state disagrees.
func status(err error) int {
	switch {
	case errors.Is(err, models.ErrGeneral):
		return http.StatusInternalServerError

	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound

	case errors.Is(err, models.ErrMonthClosed),
		errors.Is(err, models.ErrPlanAlreadyResolved),
		errors.Is(err, models.ErrVersionOverlap),
		errors.Is(err, models.ErrMonthNotUnique),
		errors.Is(err, models.ErrEmailNotUnique),
		errors.Is(err, models.ErrCategoryNameNotUnique):
		return http.StatusConflict

	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	}

	return http.StatusBadRequest
}

var (
	errYearMonthRequired = errors.New("the year and month parameters must be set")
	errMonthOutOfRange   = errors.New("the month must be between 1 and 12")
	errCannotReopenMonth = errors.New("a closed month cannot be reopened")
	errKindParameter     = errors.New("the kind parameter must be EXPENSE or INCOME")
	errInviteCodeInvalid = errors.New("the invitation code is invalid or already used")
)
