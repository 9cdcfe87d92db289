package recipes

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

var _ Store = (*supabaseStore)(nil)

type supabaseStore struct {
	client *supabase.Client
	logger *slog.Logger
}

type recipeRow struct {
	ID                   uuid.UUID       `json:"id"`
	Owner                string          `json:"owner"`
	Name                 string          `json:"name"`
	Description          *string         `json:"description"`
	RecipeNote           *string         `json:"recipe_note"`
	Stages               json.RawMessage `json:"stages"`
	SuggestedAspectRatio *string         `json:"suggested_aspect_ratio"`
	SuggestedModel       *string         `json:"suggested_model"`
	QuickAccessLabel     *string         `json:"quick_access_label"`
	IsQuickAccess        bool            `json:"is_quick_access"`
	CategoryID           *string         `json:"category_id"`
	IsSystem             bool            `json:"is_system"`
	IsSystemOnly         bool            `json:"is_system_only"`
	CreatedAt            int64           `json:"created_at"`
	UpdatedAt            int64           `json:"updated_at"`
}

type shelfRow struct {
	ID        uuid.UUID `json:"id"`
	RecipeID  uuid.UUID `json:"recipe_id"`
	Label     string    `json:"label"`
	SortOrder int       `json:"sort_order"`
	Owner     string    `json:"owner"`
}

type categoryRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Icon         string `json:"icon"`
	IsSystemOnly bool   `json:"is_system_only"`
	Owner        string `json:"owner"`
}

// NewSupabase creates a Store that talks to the same tables through the
// Supabase REST API.
func NewSupabase(url, key string, logger *slog.Logger) (Store, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("create supabase client: %w", err)
	}

	return &supabaseStore{
		client: client,
		logger: logger.With("system", "recipes", "store", "supabase"),
	}, nil
}

func (s *supabaseStore) Recipes(ctx context.Context, owner string) ([]Recipe, error) {
	data, _, err := s.client.From("recipes").
		Select("*", "exact", false).
		Eq("owner", owner).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("query recipes: %w", err)
	}

	var rows []recipeRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse recipes: %w", err)
	}

	out := make([]Recipe, 0, len(rows))
	for _, row := range rows {
		r, err := row.recipe()
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}

	slices.SortFunc(out, func(a, b Recipe) int {
		return cmp.Compare(a.CreatedAt, b.CreatedAt)
	})
	return out, nil
}

func (s *supabaseStore) CreateRecipe(ctx context.Context, r Recipe, owner string) (*Recipe, error) {
	row, err := newRecipeRow(r, owner)
	if err != nil {
		return nil, err
	}

	data, _, err := s.client.From("recipes").
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, mapSupabaseError(err, ErrDuplicate)
	}

	created, err := firstRecipe(data, ErrNotFound)
	if err != nil {
		return nil, err
	}

	s.logger.Info("recipe created", "id", created.ID, "name", created.Name, "owner", owner)
	return created, nil
}

func (s *supabaseStore) UpdateRecipe(ctx context.Context, r Recipe, owner string) (*Recipe, error) {
	row, err := newRecipeRow(r, owner)
	if err != nil {
		return nil, err
	}

	update := map[string]any{
		"name":                   row.Name,
		"description":            row.Description,
		"recipe_note":            row.RecipeNote,
		"stages":                 row.Stages,
		"suggested_aspect_ratio": row.SuggestedAspectRatio,
		"suggested_model":        row.SuggestedModel,
		"quick_access_label":     row.QuickAccessLabel,
		"is_quick_access":        row.IsQuickAccess,
		"category_id":            row.CategoryID,
		"is_system":              row.IsSystem,
		"is_system_only":         row.IsSystemOnly,
		"updated_at":             row.UpdatedAt,
	}

	data, _, err := s.client.From("recipes").
		Update(update, "representation", "").
		Eq("id", r.ID.String()).
		Eq("owner", owner).
		Execute()
	if err != nil {
		return nil, mapSupabaseError(err, ErrDuplicate)
	}

	updated, err := firstRecipe(data, ErrNotFound)
	if err != nil {
		return nil, err
	}

	s.logger.Info("recipe updated", "id", updated.ID, "owner", owner)
	return updated, nil
}

func (s *supabaseStore) DeleteRecipe(ctx context.Context, id uuid.UUID, owner string) error {
	data, _, err := s.client.From("recipes").
		Delete("representation", "").
		Eq("id", id.String()).
		Eq("owner", owner).
		Execute()
	if err != nil {
		return fmt.Errorf("delete recipe: %w", err)
	}

	if err := expectRows(data, ErrNotFound); err != nil {
		return err
	}

	s.logger.Info("recipe deleted", "id", id, "owner", owner)
	return nil
}

func (s *supabaseStore) QuickAccess(ctx context.Context, owner string) ([]QuickAccessItem, error) {
	data, _, err := s.client.From("quick_access_items").
		Select("*", "exact", false).
		Eq("owner", owner).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("query quick access: %w", err)
	}

	var rows []shelfRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse quick access: %w", err)
	}

	out := make([]QuickAccessItem, len(rows))
	for i, row := range rows {
		out[i] = row.item()
	}

	slices.SortFunc(out, func(a, b QuickAccessItem) int {
		return cmp.Compare(a.Order, b.Order)
	})
	return out, nil
}

func (s *supabaseStore) CreateQuickAccess(ctx context.Context, item QuickAccessItem, owner string) (*QuickAccessItem, error) {
	row := shelfRow{
		ID:        item.ID,
		RecipeID:  item.RecipeID,
		Label:     item.Label,
		SortOrder: item.Order,
		Owner:     owner,
	}

	data, _, err := s.client.From("quick_access_items").
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, mapSupabaseError(err, ErrAlreadyOnShelf)
	}

	return firstShelfItem(data)
}

func (s *supabaseStore) UpdateQuickAccessLabel(ctx context.Context, id uuid.UUID, label, owner string) (*QuickAccessItem, error) {
	data, _, err := s.client.From("quick_access_items").
		Update(map[string]any{"label": label}, "representation", "").
		Eq("id", id.String()).
		Eq("owner", owner).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("update quick access label: %w", err)
	}

	return firstShelfItem(data)
}

func (s *supabaseStore) DeleteQuickAccess(ctx context.Context, id uuid.UUID, owner string) error {
	data, _, err := s.client.From("quick_access_items").
		Delete("representation", "").
		Eq("id", id.String()).
		Eq("owner", owner).
		Execute()
	if err != nil {
		return fmt.Errorf("delete quick access: %w", err)
	}

	return expectRows(data, ErrShelfItemNotFound)
}

// ReorderQuickAccess sends every item in one bulk upsert, which PostgREST
// executes as a single statement.
func (s *supabaseStore) ReorderQuickAccess(ctx context.Context, items []QuickAccessItem, owner string) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]shelfRow, len(items))
	for i, item := range items {
		rows[i] = shelfRow{
			ID:        item.ID,
			RecipeID:  item.RecipeID,
			Label:     item.Label,
			SortOrder: item.Order,
			Owner:     owner,
		}
	}

	_, _, err := s.client.From("quick_access_items").
		Insert(rows, true, "id", "minimal", "").
		Execute()
	if err != nil {
		return fmt.Errorf("reorder quick access: %w", err)
	}

	s.logger.Info("quick access reordered", "owner", owner, "items", len(items))
	return nil
}

func (s *supabaseStore) Categories(ctx context.Context, owner string) ([]Category, error) {
	data, _, err := s.client.From("categories").
		Select("*", "exact", false).
		Eq("owner", owner).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}

	var rows []categoryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse categories: %w", err)
	}

	out := make([]Category, len(rows))
	for i, row := range rows {
		out[i] = row.category()
	}

	slices.SortFunc(out, func(a, b Category) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (s *supabaseStore) CreateCategory(ctx context.Context, c Category, owner string) (*Category, error) {
	row := categoryRow{
		ID:           c.ID,
		Name:         c.Name,
		Icon:         c.Icon,
		IsSystemOnly: c.IsSystemOnly,
		Owner:        owner,
	}

	data, _, err := s.client.From("categories").
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, mapSupabaseError(err, ErrDuplicate)
	}

	var rows []categoryRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse category: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrCategoryNotFound
	}

	created := rows[0].category()
	return &created, nil
}

func (s *supabaseStore) DeleteCategory(ctx context.Context, id, owner string) error {
	data, _, err := s.client.From("categories").
		Delete("representation", "").
		Eq("id", id).
		Eq("owner", owner).
		Execute()
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	return expectRows(data, ErrCategoryNotFound)
}

func (s *supabaseStore) ReassignCategory(ctx context.Context, from, to, owner string) error {
	_, _, err := s.client.From("recipes").
		Update(map[string]any{"category_id": to}, "minimal", "").
		Eq("owner", owner).
		Eq("category_id", from).
		Execute()
	if err != nil {
		return fmt.Errorf("reassign category: %w", err)
	}
	return nil
}

func newRecipeRow(r Recipe, owner string) (recipeRow, error) {
	stages, err := encodeStages(r.Stages)
	if err != nil {
		return recipeRow{}, err
	}

	return recipeRow{
		ID:                   r.ID,
		Owner:                owner,
		Name:                 r.Name,
		Description:          r.Description,
		RecipeNote:           r.RecipeNote,
		Stages:               stages,
		SuggestedAspectRatio: r.SuggestedAspectRatio,
		SuggestedModel:       r.SuggestedModel,
		QuickAccessLabel:     r.QuickAccessLabel,
		IsQuickAccess:        r.IsQuickAccess,
		CategoryID:           r.CategoryID,
		IsSystem:             r.IsSystem,
		IsSystemOnly:         r.IsSystemOnly,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}, nil
}

func (row recipeRow) recipe() (Recipe, error) {
	stages, err := decodeStages(row.Stages)
	if err != nil {
		return Recipe{}, err
	}

	return Recipe{
		ID:                   row.ID,
		Name:                 row.Name,
		Description:          row.Description,
		RecipeNote:           row.RecipeNote,
		Stages:               stages,
		SuggestedAspectRatio: row.SuggestedAspectRatio,
		SuggestedModel:       row.SuggestedModel,
		QuickAccessLabel:     row.QuickAccessLabel,
		IsQuickAccess:        row.IsQuickAccess,
		CategoryID:           row.CategoryID,
		IsSystem:             row.IsSystem,
		IsSystemOnly:         row.IsSystemOnly,
		UserID:               row.Owner,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}, nil
}

func (row shelfRow) item() QuickAccessItem {
	return QuickAccessItem{
		ID:       row.ID,
		RecipeID: row.RecipeID,
		Label:    row.Label,
		Order:    row.SortOrder,
	}
}

func (row categoryRow) category() Category {
	return Category{
		ID:           row.ID,
		Name:         row.Name,
		Icon:         row.Icon,
		IsSystemOnly: row.IsSystemOnly,
	}
}

func firstRecipe(data []byte, notFound error) (*Recipe, error) {
	var rows []recipeRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse recipe: %w", err)
	}
	if len(rows) == 0 {
		return nil, notFound
	}

	r, err := rows[0].recipe()
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func firstShelfItem(data []byte) (*QuickAccessItem, error) {
	var rows []shelfRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("parse quick access item: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrShelfItemNotFound
	}

	item := rows[0].item()
	return &item, nil
}

func expectRows(data []byte, notFound error) error {
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if len(rows) == 0 {
		return notFound
	}
	return nil
}

// mapSupabaseError surfaces unique violations reported through PostgREST.
func mapSupabaseError(err error, duplicate error) error {
	msg := err.Error()
	if strings.Contains(msg, "23505") || strings.Contains(msg, "duplicate key") {
		return duplicate
	}
	return err
}
