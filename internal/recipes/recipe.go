// Package recipes implements the recipe domain: reusable multi-stage prompt
// recipes, their categories, and the quick-access shelf. It defines the
// persistence collaborator contract and its Postgres, Supabase, and
// in-memory implementations.
package recipes

import (
	"github.com/google/uuid"

	"github.com/JaimeStill/cookbook/internal/template"
)

// Domain limits.
const (
	ShelfCapacity       = 9
	MaxQuickAccessLabel = 12
	MinNameLength       = 2
	MaxNameLength       = 100
)

// SystemOwner owns the built-in recipes shared by every user.
const SystemOwner = "system"

// Recipe is a reusable multi-stage prompt artifact.
// Timestamps are epoch milliseconds.
type Recipe struct {
	ID                   uuid.UUID        `json:"id"`
	Name                 string           `json:"name"`
	Description          *string          `json:"description,omitempty"`
	RecipeNote           *string          `json:"recipeNote,omitempty"`
	Stages               []template.Stage `json:"stages"`
	SuggestedAspectRatio *string          `json:"suggestedAspectRatio,omitempty"`
	SuggestedModel       *string          `json:"suggestedModel,omitempty"`
	QuickAccessLabel     *string          `json:"quickAccessLabel,omitempty"`
	IsQuickAccess        bool             `json:"isQuickAccess"`
	CategoryID           *string          `json:"categoryId,omitempty"`
	IsSystem             bool             `json:"isSystem"`
	IsSystemOnly         bool             `json:"isSystemOnly"`
	UserID               string           `json:"userId,omitempty"`
	CreatedAt            int64            `json:"createdAt"`
	UpdatedAt            int64            `json:"updatedAt"`
}

// Fields returns one descriptor per logical field across the recipe's stages.
func (r *Recipe) Fields() []template.Field {
	return template.AllFields(r.Stages)
}

// InCategory reports whether the recipe belongs to category id.
func (r *Recipe) InCategory(id string) bool {
	return r.CategoryID != nil && *r.CategoryID == id
}

// CreateCommand carries the data needed to create a recipe.
// Stage fields are re-derived and never taken from input.
type CreateCommand struct {
	Name                 string           `json:"name"`
	Description          *string          `json:"description"`
	RecipeNote           *string          `json:"recipeNote"`
	Stages               []template.Stage `json:"stages"`
	SuggestedAspectRatio *string          `json:"suggestedAspectRatio"`
	SuggestedModel       *string          `json:"suggestedModel"`
	QuickAccessLabel     *string          `json:"quickAccessLabel"`
	IsQuickAccess        bool             `json:"isQuickAccess"`
	CategoryID           *string          `json:"categoryId"`
	IsSystemOnly         bool             `json:"isSystemOnly"`
}

// UpdateCommand carries a partial recipe update. Nil fields are left
// unchanged; an empty string clears an optional text field.
type UpdateCommand struct {
	Name                 *string           `json:"name"`
	Description          *string           `json:"description"`
	RecipeNote           *string           `json:"recipeNote"`
	Stages               *[]template.Stage `json:"stages"`
	SuggestedAspectRatio *string           `json:"suggestedAspectRatio"`
	SuggestedModel       *string           `json:"suggestedModel"`
	QuickAccessLabel     *string           `json:"quickAccessLabel"`
	IsQuickAccess        *bool             `json:"isQuickAccess"`
	CategoryID           *string           `json:"categoryId"`
	IsSystemOnly         *bool             `json:"isSystemOnly"`
}

// Apply returns a copy of r with the command's non-nil fields applied.
// Stages are normalized when present.
func (c UpdateCommand) Apply(r Recipe) Recipe {
	if c.Name != nil {
		r.Name = *c.Name
	}
	if c.Description != nil {
		r.Description = optional(*c.Description)
	}
	if c.RecipeNote != nil {
		r.RecipeNote = optional(*c.RecipeNote)
	}
	if c.Stages != nil {
		r.Stages = template.Normalize(*c.Stages)
	}
	if c.SuggestedAspectRatio != nil {
		r.SuggestedAspectRatio = optional(*c.SuggestedAspectRatio)
	}
	if c.SuggestedModel != nil {
		r.SuggestedModel = optional(*c.SuggestedModel)
	}
	if c.QuickAccessLabel != nil {
		r.QuickAccessLabel = optional(*c.QuickAccessLabel)
	}
	if c.IsQuickAccess != nil {
		r.IsQuickAccess = *c.IsQuickAccess
	}
	if c.CategoryID != nil {
		r.CategoryID = optional(*c.CategoryID)
	}
	if c.IsSystemOnly != nil {
		r.IsSystemOnly = *c.IsSystemOnly
	}
	return r
}

// Recipe builds an unsaved recipe from the command with normalized stages.
func (c CreateCommand) Recipe() Recipe {
	return Recipe{
		Name:                 c.Name,
		Description:          nonEmpty(c.Description),
		RecipeNote:           nonEmpty(c.RecipeNote),
		Stages:               template.Normalize(c.Stages),
		SuggestedAspectRatio: nonEmpty(c.SuggestedAspectRatio),
		SuggestedModel:       nonEmpty(c.SuggestedModel),
		QuickAccessLabel:     nonEmpty(c.QuickAccessLabel),
		IsQuickAccess:        c.IsQuickAccess,
		CategoryID:           nonEmpty(c.CategoryID),
		IsSystemOnly:         c.IsSystemOnly,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	return optional(*s)
}
