package library

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/cookbook/internal/recipes"
)

// Categories returns the default categories followed by the owner's
// custom categories.
func (l *Library) Categories() []recipes.Category {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := recipes.DefaultCategories()
	for _, c := range l.categories {
		if c.IsSystemOnly && !l.opts.ShowSystemOnly {
			continue
		}
		out = append(out, c)
	}
	return out
}

// AddCategory creates a custom category.
func (l *Library) AddCategory(ctx context.Context, cmd recipes.CategoryCommand) (*recipes.Category, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, recipes.ErrInvalidCategory
	}

	c := recipes.Category{
		ID:           uuid.NewString(),
		Name:         name,
		Icon:         strings.TrimSpace(cmd.Icon),
		IsSystemOnly: cmd.IsSystemOnly && l.opts.Privileged,
	}

	created, err := l.store.CreateCategory(ctx, c, l.owner)
	if err != nil {
		return nil, persistence("create category", err)
	}

	l.categories = append(l.categories, *created)
	l.logger.Info("category created", "id", created.ID, "name", created.Name)

	out := *created
	return &out, nil
}

// DeleteCategory removes custom category id and moves its recipes to the
// fallback category. Default categories cannot be deleted.
func (l *Library) DeleteCategory(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if recipes.IsDefaultCategory(id) {
		return recipes.ErrDefaultCategory
	}
	if !slices.ContainsFunc(l.categories, func(c recipes.Category) bool { return c.ID == id }) {
		return recipes.ErrCategoryNotFound
	}

	if err := l.store.ReassignCategory(ctx, id, recipes.FallbackCategoryID, l.owner); err != nil {
		return persistence("reassign category", err)
	}

	moved := 0
	for i := range l.own {
		if l.own[i].InCategory(id) {
			fallback := recipes.FallbackCategoryID
			l.own[i].CategoryID = &fallback
			moved++
		}
	}

	if err := l.store.DeleteCategory(ctx, id, l.owner); err != nil {
		return persistence("delete category", err)
	}

	l.categories = slices.DeleteFunc(l.categories, func(c recipes.Category) bool { return c.ID == id })
	l.logger.Info("category deleted", "id", id, "reassigned", moved)
	return nil
}
