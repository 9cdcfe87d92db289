package recipes

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/cookbook/internal/template"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is an in-process Store. It backs the CLI, tests, and the
// "memory" store backend.
type MemoryStore struct {
	mu         sync.RWMutex
	recipes    map[string]map[uuid.UUID]Recipe
	shelf      map[string]map[uuid.UUID]QuickAccessItem
	categories map[string]map[string]Category
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		recipes:    make(map[string]map[uuid.UUID]Recipe),
		shelf:      make(map[string]map[uuid.UUID]QuickAccessItem),
		categories: make(map[string]map[string]Category),
	}
}

func (m *MemoryStore) Recipes(ctx context.Context, owner string) ([]Recipe, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Recipe, 0, len(m.recipes[owner]))
	for _, r := range m.recipes[owner] {
		out = append(out, snapshot(r))
	}

	slices.SortFunc(out, func(a, b Recipe) int {
		return cmp.Or(
			cmp.Compare(a.CreatedAt, b.CreatedAt),
			cmp.Compare(a.ID.String(), b.ID.String()),
		)
	})
	return out, nil
}

func (m *MemoryStore) CreateRecipe(ctx context.Context, r Recipe, owner string) (*Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.recipes[owner] == nil {
		m.recipes[owner] = make(map[uuid.UUID]Recipe)
	}
	if _, exists := m.recipes[owner][r.ID]; exists {
		return nil, ErrDuplicate
	}

	r.UserID = owner
	m.recipes[owner][r.ID] = snapshot(r)

	out := snapshot(r)
	return &out, nil
}

func (m *MemoryStore) UpdateRecipe(ctx context.Context, r Recipe, owner string) (*Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.recipes[owner][r.ID]
	if !ok {
		return nil, ErrNotFound
	}

	r.UserID = owner
	r.CreatedAt = existing.CreatedAt
	m.recipes[owner][r.ID] = snapshot(r)

	out := snapshot(r)
	return &out, nil
}

func (m *MemoryStore) DeleteRecipe(ctx context.Context, id uuid.UUID, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.recipes[owner][id]; !ok {
		return ErrNotFound
	}
	delete(m.recipes[owner], id)
	return nil
}

func (m *MemoryStore) QuickAccess(ctx context.Context, owner string) ([]QuickAccessItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]QuickAccessItem, 0, len(m.shelf[owner]))
	for _, item := range m.shelf[owner] {
		out = append(out, item)
	}

	slices.SortFunc(out, func(a, b QuickAccessItem) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return out, nil
}

func (m *MemoryStore) CreateQuickAccess(ctx context.Context, item QuickAccessItem, owner string) (*QuickAccessItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shelf[owner] == nil {
		m.shelf[owner] = make(map[uuid.UUID]QuickAccessItem)
	}
	for _, existing := range m.shelf[owner] {
		if existing.RecipeID == item.RecipeID {
			return nil, ErrAlreadyOnShelf
		}
	}

	m.shelf[owner][item.ID] = item
	return &item, nil
}

func (m *MemoryStore) UpdateQuickAccessLabel(ctx context.Context, id uuid.UUID, label, owner string) (*QuickAccessItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.shelf[owner][id]
	if !ok {
		return nil, ErrShelfItemNotFound
	}

	item.Label = label
	m.shelf[owner][id] = item
	return &item, nil
}

func (m *MemoryStore) DeleteQuickAccess(ctx context.Context, id uuid.UUID, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.shelf[owner][id]; !ok {
		return ErrShelfItemNotFound
	}
	delete(m.shelf[owner], id)
	return nil
}

func (m *MemoryStore) ReorderQuickAccess(ctx context.Context, items []QuickAccessItem, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, item := range items {
		if _, ok := m.shelf[owner][item.ID]; !ok {
			return ErrShelfItemNotFound
		}
	}

	for _, item := range items {
		current := m.shelf[owner][item.ID]
		current.Order = item.Order
		m.shelf[owner][item.ID] = current
	}
	return nil
}

func (m *MemoryStore) Categories(ctx context.Context, owner string) ([]Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Category, 0, len(m.categories[owner]))
	for _, c := range m.categories[owner] {
		out = append(out, c)
	}

	slices.SortFunc(out, func(a, b Category) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (m *MemoryStore) CreateCategory(ctx context.Context, c Category, owner string) (*Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.categories[owner] == nil {
		m.categories[owner] = make(map[string]Category)
	}
	if _, exists := m.categories[owner][c.ID]; exists {
		return nil, ErrDuplicate
	}

	m.categories[owner][c.ID] = c
	return &c, nil
}

func (m *MemoryStore) DeleteCategory(ctx context.Context, id, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.categories[owner][id]; !ok {
		return ErrCategoryNotFound
	}
	delete(m.categories[owner], id)
	return nil
}

func (m *MemoryStore) ReassignCategory(ctx context.Context, from, to, owner string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, r := range m.recipes[owner] {
		if r.InCategory(from) {
			target := to
			r.CategoryID = &target
			m.recipes[owner][id] = r
		}
	}
	return nil
}

// snapshot copies r with stages re-derived so callers never share slices
// with stored state.
func snapshot(r Recipe) Recipe {
	r.Stages = template.Normalize(r.Stages)
	return r
}
