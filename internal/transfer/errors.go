package transfer

import "errors"

var (
	// ErrInvalidEnvelope rejects an entire import before any recipe is read.
	ErrInvalidEnvelope = errors.New("invalid import file: expected an object with a recipes array")
	// ErrMalformedRecipe marks a candidate missing its basic shape.
	ErrMalformedRecipe = errors.New("malformed recipe")
	// ErrInvalidRecipe marks a well-shaped candidate that breaks a recipe rule.
	ErrInvalidRecipe = errors.New("invalid recipe")
	// ErrDuplicateRecipe marks a candidate matching an existing recipe.
	ErrDuplicateRecipe = errors.New("duplicate recipe")
)
