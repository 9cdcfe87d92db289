package recipes

import (
	"slices"

	"github.com/google/uuid"
)

// FallbackCategoryID receives recipes whose category is deleted.
const FallbackCategoryID = "custom"

// Category groups recipes. Default categories cannot be deleted.
type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Icon         string `json:"icon"`
	IsDefault    bool   `json:"isDefault"`
	IsSystemOnly bool   `json:"isSystemOnly"`
}

// CategoryCommand carries the data needed to create a category.
type CategoryCommand struct {
	Name         string `json:"name"`
	Icon         string `json:"icon"`
	IsSystemOnly bool   `json:"isSystemOnly"`
}

var defaultCategories = []Category{
	{ID: "character", Name: "Character", Icon: "user", IsDefault: true},
	{ID: "scene", Name: "Scene", Icon: "image", IsDefault: true},
	{ID: "product", Name: "Product", Icon: "package", IsDefault: true},
	{ID: "style", Name: "Style", Icon: "palette", IsDefault: true},
	{ID: FallbackCategoryID, Name: "Custom", Icon: "sparkles", IsDefault: true},
}

// DefaultCategories returns a copy of the built-in categories.
func DefaultCategories() []Category {
	return slices.Clone(defaultCategories)
}

// IsDefaultCategory reports whether id names a built-in category.
func IsDefaultCategory(id string) bool {
	return slices.ContainsFunc(defaultCategories, func(c Category) bool {
		return c.ID == id
	})
}

// QuickAccessItem points at a recipe on the bounded quick-access shelf.
type QuickAccessItem struct {
	ID       uuid.UUID `json:"id"`
	RecipeID uuid.UUID `json:"recipeId"`
	Label    string    `json:"label"`
	Order    int       `json:"order"`
}
