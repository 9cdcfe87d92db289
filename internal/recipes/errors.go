package recipes

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/cookbook/internal/template"
)

// Domain errors for recipe operations.
var (
	ErrNotFound          = errors.New("recipe not found")
	ErrDuplicate         = errors.New("recipe already exists")
	ErrInvalidName       = errors.New("recipe name is required and must not exceed 100 characters")
	ErrSystemRecipe      = errors.New("system recipes are read-only; duplicate to edit")
	ErrQuickAccessLabel  = errors.New("quick access requires a label of at most 12 characters")
	ErrShelfFull         = errors.New("quick access shelf is full")
	ErrAlreadyOnShelf    = errors.New("recipe is already on the quick access shelf")
	ErrShelfItemNotFound = errors.New("quick access item not found")
	ErrInvalidOrder      = errors.New("order must list every quick access item exactly once")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrDefaultCategory   = errors.New("default categories cannot be deleted")
	ErrInvalidCategory   = errors.New("category name is required")
	ErrNoActiveSession   = errors.New("no recipe is active")
	ErrPersistence       = errors.New("recipe store unavailable")
)

// MapHTTPStatus maps recipe domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrShelfItemNotFound),
		errors.Is(err, ErrCategoryNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrShelfFull),
		errors.Is(err, ErrAlreadyOnShelf),
		errors.Is(err, ErrNoActiveSession):
		return http.StatusConflict
	case errors.Is(err, ErrSystemRecipe),
		errors.Is(err, ErrDefaultCategory):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidName),
		errors.Is(err, ErrQuickAccessLabel),
		errors.Is(err, ErrInvalidOrder),
		errors.Is(err, ErrInvalidCategory),
		errors.Is(err, template.ErrInvalidStageType),
		errors.Is(err, template.ErrNoStages),
		errors.Is(err, template.ErrEmptyStage),
		errors.Is(err, template.ErrMissingTool),
		errors.Is(err, template.ErrStageIndex):
		return http.StatusBadRequest
	case errors.Is(err, ErrPersistence):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
