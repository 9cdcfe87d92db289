package library

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/cookbook/internal/recipes"
)

// Catalog holds the system recipes. A Registry shares one Catalog across
// every library it caches, so a privileged change to a system recipe is
// seen by all owners at once.
type Catalog struct {
	mu      sync.RWMutex
	recipes []recipes.Recipe
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// Load replaces the catalog with the stored system recipes.
func (c *Catalog) Load(ctx context.Context, store recipes.Store) error {
	system, err := store.Recipes(ctx, recipes.SystemOwner)
	if err != nil {
		return persistence("load system recipes", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.recipes = system
	return nil
}

// Recipes returns a copy of the system recipes in creation order.
func (c *Catalog) Recipes() []recipes.Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.recipes)
}

// Len reports the number of system recipes.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.recipes)
}

func (c *Catalog) find(id uuid.UUID) (recipes.Recipe, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := slices.IndexFunc(c.recipes, func(r recipes.Recipe) bool { return r.ID == id })
	if i < 0 {
		return recipes.Recipe{}, false
	}
	return c.recipes[i], true
}

func (c *Catalog) put(r recipes.Recipe) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := slices.IndexFunc(c.recipes, func(x recipes.Recipe) bool { return x.ID == r.ID }); i >= 0 {
		c.recipes[i] = r
		return
	}
	c.recipes = append(c.recipes, r)
}

func (c *Catalog) remove(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.recipes = slices.DeleteFunc(c.recipes, func(r recipes.Recipe) bool { return r.ID == id })
}
