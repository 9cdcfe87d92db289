package recipes_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cookbook/internal/recipes"
	"github.com/JaimeStill/cookbook/internal/template"
)

func strPtr(s string) *string { return &s }

func validRecipe() recipes.Recipe {
	return recipes.CreateCommand{
		Name:   "Portrait",
		Stages: []template.Stage{{Template: "<<SUBJECT:text!>> portrait"}},
	}.Recipe()
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *recipes.Recipe)
		want   error
	}{
		{"valid", func(r *recipes.Recipe) {}, nil},
		{"blank name", func(r *recipes.Recipe) { r.Name = "   " }, recipes.ErrInvalidName},
		{"long name", func(r *recipes.Recipe) { r.Name = strings.Repeat("x", 101) }, recipes.ErrInvalidName},
		{"no stages", func(r *recipes.Recipe) { r.Stages = nil }, template.ErrNoStages},
		{"quick access without label", func(r *recipes.Recipe) { r.IsQuickAccess = true }, recipes.ErrQuickAccessLabel},
		{
			"quick access label too long",
			func(r *recipes.Recipe) {
				r.IsQuickAccess = true
				r.QuickAccessLabel = strPtr("thirteen char")
			},
			recipes.ErrQuickAccessLabel,
		},
		{
			"quick access with label",
			func(r *recipes.Recipe) {
				r.IsQuickAccess = true
				r.QuickAccessLabel = strPtr("Portrait")
			},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecipe()
			tt.modify(&r)
			if err := recipes.Validate(&r); !errors.Is(err, tt.want) {
				t.Errorf("error: got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestShortLabel(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Short", "Short"},
		{"Character Turnaround", "Character Tu"},
		{"  padded  ", "padded"},
		{"Ünïcödé Ñämès Here", "Ünïcödé Ñämè"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := recipes.ShortLabel(tt.name); got != tt.want {
				t.Errorf("label: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreateCommandDerivesFields(t *testing.T) {
	r := recipes.CreateCommand{
		Name: "Forged",
		Stages: []template.Stage{
			{
				Template: "<<REAL:text>>",
				Fields:   []template.Field{{ID: "fake", Name: "FAKE"}},
			},
		},
		Description: strPtr(""),
	}.Recipe()

	if len(r.Stages[0].Fields) != 1 || r.Stages[0].Fields[0].Name != "REAL" {
		t.Errorf("fields should be derived from template, got %+v", r.Stages[0].Fields)
	}
	if r.Description != nil {
		t.Error("empty description should be stored as nil")
	}
}

func TestUpdateCommandApply(t *testing.T) {
	original := validRecipe()
	original.Description = strPtr("keep me")
	original.CategoryID = strPtr("scene")

	stages := []template.Stage{
		{Template: "<<A:text>>"},
		{Template: "<<B:text!>>"},
	}

	updated := recipes.UpdateCommand{
		Name:       strPtr("Renamed"),
		CategoryID: strPtr(""),
		Stages:     &stages,
	}.Apply(original)

	if updated.Name != "Renamed" {
		t.Errorf("name: got %s", updated.Name)
	}
	if updated.Description == nil || *updated.Description != "keep me" {
		t.Error("nil update field should leave description unchanged")
	}
	if updated.CategoryID != nil {
		t.Error("empty category should clear the field")
	}
	if len(updated.Stages) != 2 || updated.Stages[1].Fields[0].ID != "stage1_field0_B" {
		t.Errorf("stages should be normalized, got %+v", updated.Stages)
	}
	if original.Name != "Portrait" {
		t.Error("apply must not modify the original")
	}
}

func TestFiltersMatch(t *testing.T) {
	r := validRecipe()
	r.Description = strPtr("Moody studio light")
	r.CategoryID = strPtr("character")
	r.IsQuickAccess = true

	yes, no := true, false

	tests := []struct {
		name    string
		filters recipes.Filters
		want    bool
	}{
		{"empty", recipes.Filters{}, true},
		{"category match", recipes.Filters{CategoryID: strPtr("character")}, true},
		{"category mismatch", recipes.Filters{CategoryID: strPtr("scene")}, false},
		{"quick access", recipes.Filters{IsQuickAccess: &yes}, true},
		{"not system", recipes.Filters{IsSystem: &no}, true},
		{"search name", recipes.Filters{Search: strPtr("PORT")}, true},
		{"search description", recipes.Filters{Search: strPtr("studio")}, true},
		{"search miss", recipes.Filters{Search: strPtr("dragon")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filters.Match(&r); got != tt.want {
				t.Errorf("match: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{
		"category":     {"scene"},
		"quick_access": {"true"},
		"system":       {"nope"},
		"search":       {"castle"},
	}

	f := recipes.FiltersFromQuery(values)

	if f.CategoryID == nil || *f.CategoryID != "scene" {
		t.Errorf("category: got %v", f.CategoryID)
	}
	if f.IsQuickAccess == nil || !*f.IsQuickAccess {
		t.Errorf("quick access: got %v", f.IsQuickAccess)
	}
	if f.IsSystem != nil {
		t.Error("invalid bool should be ignored")
	}
	if f.Search == nil || *f.Search != "castle" {
		t.Errorf("search: got %v", f.Search)
	}
}

func TestDefaultCategories(t *testing.T) {
	if !recipes.IsDefaultCategory(recipes.FallbackCategoryID) {
		t.Error("fallback category must be a default category")
	}
	if recipes.IsDefaultCategory("mine") {
		t.Error("custom id should not be a default category")
	}

	cats := recipes.DefaultCategories()
	cats[0].Name = "changed"
	if recipes.DefaultCategories()[0].Name == "changed" {
		t.Error("DefaultCategories must return a copy")
	}
}

func TestSystemRecipes(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)

	system, err := recipes.SystemRecipes(now)
	if err != nil {
		t.Fatalf("system recipes: %v", err)
	}
	if len(system) == 0 {
		t.Fatal("expected built-in recipes")
	}

	for _, r := range system {
		if !r.IsSystem {
			t.Errorf("%s: should be a system recipe", r.Name)
		}
		if r.UserID != recipes.SystemOwner {
			t.Errorf("%s: owner got %s", r.Name, r.UserID)
		}
		if r.CreatedAt != now.UnixMilli() {
			t.Errorf("%s: created at got %d", r.Name, r.CreatedAt)
		}
		for i, s := range r.Stages {
			if s.Order != i {
				t.Errorf("%s stage %d: order got %d", r.Name, i, s.Order)
			}
			if !s.IsTool() && len(s.Fields) == 0 {
				t.Errorf("%s stage %d: generation stage has no fields", r.Name, i)
			}
		}
	}
}

func TestSeedSystemOnce(t *testing.T) {
	ctx := context.Background()
	store := recipes.NewMemoryStore()
	now := time.Now()

	n, err := recipes.SeedSystem(ctx, store, now)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n == 0 {
		t.Fatal("expected recipes to be seeded")
	}

	again, err := recipes.SeedSystem(ctx, store, now)
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if again != 0 {
		t.Errorf("reseed inserted %d, want 0", again)
	}

	stored, _ := store.Recipes(ctx, recipes.SystemOwner)
	if len(stored) != n {
		t.Errorf("stored: got %d, want %d", len(stored), n)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", recipes.ErrNotFound, http.StatusNotFound},
		{"shelf item", recipes.ErrShelfItemNotFound, http.StatusNotFound},
		{"shelf full", recipes.ErrShelfFull, http.StatusConflict},
		{"already on shelf", recipes.ErrAlreadyOnShelf, http.StatusConflict},
		{"system recipe", recipes.ErrSystemRecipe, http.StatusForbidden},
		{"default category", recipes.ErrDefaultCategory, http.StatusForbidden},
		{"invalid name", recipes.ErrInvalidName, http.StatusBadRequest},
		{"stage error", template.ErrMissingTool, http.StatusBadRequest},
		{"persistence", recipes.ErrPersistence, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := recipes.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("status: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMemoryStoreRecipes(t *testing.T) {
	ctx := context.Background()
	store := recipes.NewMemoryStore()

	r := validRecipe()
	r.ID = uuid.New()
	r.CreatedAt = 10

	created, err := store.CreateRecipe(ctx, r, "alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.UserID != "alice" {
		t.Errorf("owner: got %s", created.UserID)
	}

	if _, err := store.CreateRecipe(ctx, r, "alice"); !errors.Is(err, recipes.ErrDuplicate) {
		t.Errorf("duplicate id: got %v", err)
	}

	others, _ := store.Recipes(ctx, "bob")
	if len(others) != 0 {
		t.Error("recipes must be scoped to their owner")
	}

	created.Name = "Changed"
	created.CreatedAt = 999
	updated, err := store.UpdateRecipe(ctx, *created, "alice")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.CreatedAt != 10 {
		t.Error("update must preserve creation time")
	}

	if _, err := store.UpdateRecipe(ctx, *created, "bob"); !errors.Is(err, recipes.ErrNotFound) {
		t.Errorf("cross-owner update: got %v", err)
	}

	if err := store.DeleteRecipe(ctx, r.ID, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteRecipe(ctx, r.ID, "alice"); !errors.Is(err, recipes.ErrNotFound) {
		t.Errorf("second delete: got %v", err)
	}
}

func TestMemoryStoreShelf(t *testing.T) {
	ctx := context.Background()
	store := recipes.NewMemoryStore()

	recipeID := uuid.New()
	a := recipes.QuickAccessItem{ID: uuid.New(), RecipeID: recipeID, Label: "A", Order: 0}
	b := recipes.QuickAccessItem{ID: uuid.New(), RecipeID: uuid.New(), Label: "B", Order: 1}

	if _, err := store.CreateQuickAccess(ctx, a, "alice"); err != nil {
		t.Fatalf("create a: %v", err)
	}
	if _, err := store.CreateQuickAccess(ctx, b, "alice"); err != nil {
		t.Fatalf("create b: %v", err)
	}

	dup := recipes.QuickAccessItem{ID: uuid.New(), RecipeID: recipeID, Label: "dup"}
	if _, err := store.CreateQuickAccess(ctx, dup, "alice"); !errors.Is(err, recipes.ErrAlreadyOnShelf) {
		t.Errorf("duplicate recipe: got %v", err)
	}

	a.Order, b.Order = 1, 0
	if err := store.ReorderQuickAccess(ctx, []recipes.QuickAccessItem{a, b}, "alice"); err != nil {
		t.Fatalf("reorder: %v", err)
	}

	items, _ := store.QuickAccess(ctx, "alice")
	if items[0].ID != b.ID || items[1].ID != a.ID {
		t.Errorf("order: got %v", items)
	}

	ghost := recipes.QuickAccessItem{ID: uuid.New(), Order: 0}
	a.Order = 5
	err := store.ReorderQuickAccess(ctx, []recipes.QuickAccessItem{a, ghost}, "alice")
	if !errors.Is(err, recipes.ErrShelfItemNotFound) {
		t.Errorf("reorder with unknown item: got %v", err)
	}

	items, _ = store.QuickAccess(ctx, "alice")
	for _, item := range items {
		if item.ID == a.ID && item.Order != 1 {
			t.Error("failed reorder must not apply partially")
		}
	}
}

func TestMemoryStoreReassignCategory(t *testing.T) {
	ctx := context.Background()
	store := recipes.NewMemoryStore()

	for _, cat := range []string{"mine", "mine", "scene"} {
		r := validRecipe()
		r.ID = uuid.New()
		r.CategoryID = strPtr(cat)
		if _, err := store.CreateRecipe(ctx, r, "alice"); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if err := store.ReassignCategory(ctx, "mine", recipes.FallbackCategoryID, "alice"); err != nil {
		t.Fatalf("reassign: %v", err)
	}

	all, _ := store.Recipes(ctx, "alice")
	counts := map[string]int{}
	for _, r := range all {
		counts[*r.CategoryID]++
	}

	if counts["mine"] != 0 || counts[recipes.FallbackCategoryID] != 2 || counts["scene"] != 1 {
		t.Errorf("categories after reassign: got %v", counts)
	}
}
