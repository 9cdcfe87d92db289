package library

import (
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/cookbook/internal/recipes"
)

// AddToQuickAccess places recipe id on the shelf. An empty label falls back
// to the recipe's quick-access label, then to its shortened name.
func (l *Library) AddToQuickAccess(ctx context.Context, recipeID uuid.UUID, label string) (*recipes.QuickAccessItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, _, ok := l.find(recipeID)
	if !ok {
		return nil, recipes.ErrNotFound
	}

	label = strings.TrimSpace(label)
	if label == "" {
		if r.QuickAccessLabel != nil {
			label = *r.QuickAccessLabel
		} else {
			label = recipes.ShortLabel(r.Name)
		}
	}

	return l.addToShelf(ctx, recipeID, label)
}

func (l *Library) addToShelf(ctx context.Context, recipeID uuid.UUID, label string) (*recipes.QuickAccessItem, error) {
	label = strings.TrimSpace(label)
	if err := recipes.ValidateLabel(label); err != nil {
		return nil, err
	}
	if slices.ContainsFunc(l.shelf, func(q recipes.QuickAccessItem) bool {
		return q.RecipeID == recipeID
	}) {
		return nil, recipes.ErrAlreadyOnShelf
	}
	if len(l.shelf) >= recipes.ShelfCapacity {
		return nil, recipes.ErrShelfFull
	}

	item := recipes.QuickAccessItem{
		ID:       uuid.New(),
		RecipeID: recipeID,
		Label:    label,
		Order:    len(l.shelf),
	}

	created, err := l.store.CreateQuickAccess(ctx, item, l.owner)
	if err != nil {
		return nil, persistence("create quick access", err)
	}

	l.shelf = append(l.shelf, *created)
	l.logger.Info("quick access added", "recipe_id", recipeID, "label", label)

	out := *created
	return &out, nil
}

// RemoveFromQuickAccess deletes shelf item id and closes the gap it leaves
// in the ordering. On error the shelf may hold the item at the tail, but the
// ordering stays dense.
func (l *Library) RemoveFromQuickAccess(ctx context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.removeFromShelf(ctx, id)
}

func (l *Library) removeFromShelf(ctx context.Context, id uuid.UUID) error {
	i := slices.IndexFunc(l.shelf, func(q recipes.QuickAccessItem) bool { return q.ID == id })
	if i < 0 {
		return recipes.ErrShelfItemNotFound
	}

	// The item moves to the tail in one reorder before it is deleted, so a
	// failure at either step leaves a dense 0..n-1 ordering in the store
	// and in memory.
	if last := len(l.shelf) - 1; i != last {
		staged := slices.Clone(l.shelf)
		item := staged[i]
		staged = append(slices.Delete(staged, i, i+1), item)
		staged = renumber(staged)

		if err := l.store.ReorderQuickAccess(ctx, staged, l.owner); err != nil {
			return persistence("reorder quick access", err)
		}
		l.shelf = staged
	}

	if err := l.store.DeleteQuickAccess(ctx, id, l.owner); err != nil {
		return persistence("delete quick access", err)
	}

	l.shelf = l.shelf[:len(l.shelf)-1]
	l.logger.Info("quick access removed", "id", id)
	return nil
}

// RenameQuickAccess changes the label of shelf item id.
func (l *Library) RenameQuickAccess(ctx context.Context, id uuid.UUID, label string) (*recipes.QuickAccessItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	label = strings.TrimSpace(label)
	if err := recipes.ValidateLabel(label); err != nil {
		return nil, err
	}

	i := slices.IndexFunc(l.shelf, func(q recipes.QuickAccessItem) bool { return q.ID == id })
	if i < 0 {
		return nil, recipes.ErrShelfItemNotFound
	}

	updated, err := l.store.UpdateQuickAccessLabel(ctx, id, label, l.owner)
	if err != nil {
		return nil, persistence("rename quick access", err)
	}

	l.shelf[i].Label = updated.Label
	out := l.shelf[i]
	return &out, nil
}

// ReorderQuickAccess sets the shelf order to ids, which must name every
// shelf item exactly once. The full order is committed as one change.
func (l *Library) ReorderQuickAccess(ctx context.Context, ids []uuid.UUID) ([]recipes.QuickAccessItem, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(ids) != len(l.shelf) {
		return nil, recipes.ErrInvalidOrder
	}

	byID := make(map[uuid.UUID]recipes.QuickAccessItem, len(l.shelf))
	for _, q := range l.shelf {
		byID[q.ID] = q
	}

	staged := make([]recipes.QuickAccessItem, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, recipes.ErrInvalidOrder
		}
		delete(byID, id)
		staged = append(staged, q)
	}

	staged = renumber(staged)

	if err := l.store.ReorderQuickAccess(ctx, staged, l.owner); err != nil {
		return nil, persistence("reorder quick access", err)
	}

	l.shelf = staged
	return slices.Clone(staged), nil
}

// renumber returns a copy of items with dense 0..N-1 order values.
func renumber(items []recipes.QuickAccessItem) []recipes.QuickAccessItem {
	out := slices.Clone(items)
	for i := range out {
		out[i].Order = i
	}
	return out
}
