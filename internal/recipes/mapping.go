package recipes

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/JaimeStill/cookbook/pkg/query"
	"github.com/JaimeStill/cookbook/pkg/repository"
)

var recipeProjection = query.
	NewProjectionMap("public", "recipes", "r").
	Project("id", "ID").
	Project("owner", "Owner").
	Project("name", "Name").
	Project("description", "Description").
	Project("recipe_note", "RecipeNote").
	Project("stages", "Stages").
	Project("suggested_aspect_ratio", "SuggestedAspectRatio").
	Project("suggested_model", "SuggestedModel").
	Project("quick_access_label", "QuickAccessLabel").
	Project("is_quick_access", "IsQuickAccess").
	Project("category_id", "CategoryID").
	Project("is_system", "IsSystem").
	Project("is_system_only", "IsSystemOnly").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var recipeSort = query.SortField{
	Field: "CreatedAt",
}

var shelfProjection = query.
	NewProjectionMap("public", "quick_access_items", "q").
	Project("id", "ID").
	Project("recipe_id", "RecipeID").
	Project("label", "Label").
	Project("sort_order", "Order").
	Project("owner", "Owner")

var shelfSort = query.SortField{
	Field: "Order",
}

var categoryProjection = query.
	NewProjectionMap("public", "categories", "c").
	Project("id", "ID").
	Project("name", "Name").
	Project("icon", "Icon").
	Project("is_system_only", "IsSystemOnly").
	Project("owner", "Owner")

var categorySort = query.SortField{
	Field: "Name",
}

// Filters narrows a recipe listing. Nil fields are ignored.
// Search matches name or description case-insensitively.
type Filters struct {
	CategoryID    *string `json:"categoryId,omitempty"`
	IsQuickAccess *bool   `json:"isQuickAccess,omitempty"`
	IsSystem      *bool   `json:"isSystem,omitempty"`
	Search        *string `json:"search,omitempty"`
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if c := values.Get("category"); c != "" {
		f.CategoryID = &c
	}

	if q := values.Get("quick_access"); q != "" {
		if v, err := strconv.ParseBool(q); err == nil {
			f.IsQuickAccess = &v
		}
	}

	if s := values.Get("system"); s != "" {
		if v, err := strconv.ParseBool(s); err == nil {
			f.IsSystem = &v
		}
	}

	if s := values.Get("search"); s != "" {
		f.Search = &s
	}

	return f
}

// Match reports whether r satisfies every set filter.
func (f Filters) Match(r *Recipe) bool {
	if f.CategoryID != nil && !r.InCategory(*f.CategoryID) {
		return false
	}
	if f.IsQuickAccess != nil && r.IsQuickAccess != *f.IsQuickAccess {
		return false
	}
	if f.IsSystem != nil && r.IsSystem != *f.IsSystem {
		return false
	}
	if f.Search != nil && *f.Search != "" {
		needle := strings.ToLower(*f.Search)
		inName := strings.Contains(strings.ToLower(r.Name), needle)
		inDesc := r.Description != nil && strings.Contains(strings.ToLower(*r.Description), needle)
		if !inName && !inDesc {
			return false
		}
	}
	return true
}

func scanRecipe(s repository.Scanner) (Recipe, error) {
	var (
		r      Recipe
		stages []byte
	)

	err := s.Scan(
		&r.ID,
		&r.UserID,
		&r.Name,
		&r.Description,
		&r.RecipeNote,
		&stages,
		&r.SuggestedAspectRatio,
		&r.SuggestedModel,
		&r.QuickAccessLabel,
		&r.IsQuickAccess,
		&r.CategoryID,
		&r.IsSystem,
		&r.IsSystemOnly,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return r, err
	}

	r.Stages, err = decodeStages(stages)
	return r, err
}

func scanShelfItem(s repository.Scanner) (QuickAccessItem, error) {
	var (
		item  QuickAccessItem
		owner string
	)
	err := s.Scan(
		&item.ID,
		&item.RecipeID,
		&item.Label,
		&item.Order,
		&owner,
	)
	return item, err
}

func scanCategory(s repository.Scanner) (Category, error) {
	var (
		c     Category
		owner string
	)
	err := s.Scan(
		&c.ID,
		&c.Name,
		&c.Icon,
		&c.IsSystemOnly,
		&owner,
	)
	return c, err
}
