package library

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/cookbook/internal/recipes"
	"github.com/JaimeStill/cookbook/internal/transfer"
)

var (
	// ErrDispatch wraps a failure to hand an applied recipe to the dispatcher.
	ErrDispatch = errors.New("recipe dispatch failed")
	// ErrApplyInProgress rejects an apply while the previous one is still
	// being dispatched.
	ErrApplyInProgress = errors.New("recipe apply already in progress")
	// ErrReservedOwner rejects requests made as the system owner.
	ErrReservedOwner = errors.New("owner id is reserved")
)

// MapHTTPStatus maps library, import, and recipe errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, transfer.ErrInvalidEnvelope):
		return http.StatusBadRequest
	case errors.Is(err, ErrDispatch):
		return http.StatusBadGateway
	case errors.Is(err, ErrApplyInProgress):
		return http.StatusConflict
	case errors.Is(err, ErrReservedOwner):
		return http.StatusForbidden
	}
	return recipes.MapHTTPStatus(err)
}
