package recipes

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence collaborator behind the recipe library.
// Every operation is scoped to an owner. Implementations return ErrNotFound,
// ErrShelfItemNotFound, or ErrCategoryNotFound for missing rows and never
// persist parsed stage fields; reads re-derive them from the templates.
type Store interface {
	Recipes(ctx context.Context, owner string) ([]Recipe, error)
	CreateRecipe(ctx context.Context, r Recipe, owner string) (*Recipe, error)
	UpdateRecipe(ctx context.Context, r Recipe, owner string) (*Recipe, error)
	DeleteRecipe(ctx context.Context, id uuid.UUID, owner string) error

	QuickAccess(ctx context.Context, owner string) ([]QuickAccessItem, error)
	CreateQuickAccess(ctx context.Context, item QuickAccessItem, owner string) (*QuickAccessItem, error)
	UpdateQuickAccessLabel(ctx context.Context, id uuid.UUID, label, owner string) (*QuickAccessItem, error)
	DeleteQuickAccess(ctx context.Context, id uuid.UUID, owner string) error
	// ReorderQuickAccess rewrites the order of every listed item as one
	// atomic change; readers never observe a partial renumbering.
	ReorderQuickAccess(ctx context.Context, items []QuickAccessItem, owner string) error

	Categories(ctx context.Context, owner string) ([]Category, error)
	CreateCategory(ctx context.Context, c Category, owner string) (*Category, error)
	DeleteCategory(ctx context.Context, id, owner string) error
	// ReassignCategory moves every recipe in category from to category to.
	ReassignCategory(ctx context.Context, from, to, owner string) error
}
