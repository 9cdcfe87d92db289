package recipes

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/cookbook/pkg/query"
	"github.com/JaimeStill/cookbook/pkg/repository"
)

var (
	recipeErrors = repository.ErrorMap{
		NotFound:   ErrNotFound,
		Duplicate:  ErrDuplicate,
		Constraint: ErrInvalidName,
	}
	shelfErrors = repository.ErrorMap{
		NotFound:   ErrShelfItemNotFound,
		Duplicate:  ErrAlreadyOnShelf,
		Reference:  ErrNotFound,
		Constraint: ErrQuickAccessLabel,
	}
	categoryErrors = repository.ErrorMap{
		NotFound:  ErrCategoryNotFound,
		Duplicate: ErrDuplicate,
	}
)

var _ Store = (*postgres)(nil)

type postgres struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgres creates a Store backed by the recipes, categories, and
// quick_access_items tables.
func NewPostgres(db *sql.DB, logger *slog.Logger) Store {
	return &postgres{
		db:     db,
		logger: logger.With("system", "recipes", "store", "postgres"),
	}
}

func (p *postgres) Recipes(ctx context.Context, owner string) ([]Recipe, error) {
	q, args := query.
		NewBuilder(recipeProjection, recipeSort).
		WhereEquals("Owner", owner).
		Build()

	return repository.QueryMany(ctx, p.db, q, args, scanRecipe)
}

func (p *postgres) CreateRecipe(ctx context.Context, r Recipe, owner string) (*Recipe, error) {
	values, err := recipeValues(r)
	if err != nil {
		return nil, err
	}

	q, args := query.
		NewBuilder(recipeProjection).
		BuildInsert(append(
			[]query.Assignment{
				query.Set("ID", r.ID),
				query.Set("Owner", owner),
				query.Set("CreatedAt", r.CreatedAt),
			},
			values...,
		)...)

	created, err := repository.WithTx(ctx, p.db, func(tx *sql.Tx) (Recipe, error) {
		return repository.QueryOne(ctx, tx, q, args, scanRecipe)
	})
	if err != nil {
		return nil, recipeErrors.Map(err)
	}

	p.logger.Info("recipe created", "id", created.ID, "name", created.Name, "owner", owner)
	return &created, nil
}

func (p *postgres) UpdateRecipe(ctx context.Context, r Recipe, owner string) (*Recipe, error) {
	values, err := recipeValues(r)
	if err != nil {
		return nil, err
	}

	q, args := query.
		NewBuilder(recipeProjection).
		WhereEquals("ID", r.ID).
		WhereEquals("Owner", owner).
		BuildUpdate(values...)

	updated, err := repository.WithTx(ctx, p.db, func(tx *sql.Tx) (Recipe, error) {
		return repository.QueryOne(ctx, tx, q, args, scanRecipe)
	})
	if err != nil {
		return nil, recipeErrors.Map(err)
	}

	p.logger.Info("recipe updated", "id", updated.ID, "name", updated.Name, "owner", owner)
	return &updated, nil
}

func (p *postgres) DeleteRecipe(ctx context.Context, id uuid.UUID, owner string) error {
	q, args := query.
		NewBuilder(recipeProjection).
		WhereEquals("ID", id).
		WhereEquals("Owner", owner).
		BuildDelete()

	err := repository.InTx(ctx, p.db, func(tx *sql.Tx) error {
		return repository.ExecExpectOne(ctx, tx, q, args)
	})
	if err != nil {
		return recipeErrors.Map(err)
	}

	p.logger.Info("recipe deleted", "id", id, "owner", owner)
	return nil
}

func (p *postgres) QuickAccess(ctx context.Context, owner string) ([]QuickAccessItem, error) {
	q, args := query.
		NewBuilder(shelfProjection, shelfSort).
		WhereEquals("Owner", owner).
		Build()

	return repository.QueryMany(ctx, p.db, q, args, scanShelfItem)
}

func (p *postgres) CreateQuickAccess(ctx context.Context, item QuickAccessItem, owner string) (*QuickAccessItem, error) {
	q, args := query.
		NewBuilder(shelfProjection).
		BuildInsert(
			query.Set("ID", item.ID),
			query.Set("RecipeID", item.RecipeID),
			query.Set("Label", item.Label),
			query.Set("Order", item.Order),
			query.Set("Owner", owner),
		)

	created, err := repository.QueryOne(ctx, p.db, q, args, scanShelfItem)
	if err != nil {
		return nil, shelfErrors.Map(err)
	}

	return &created, nil
}

func (p *postgres) UpdateQuickAccessLabel(ctx context.Context, id uuid.UUID, label, owner string) (*QuickAccessItem, error) {
	q, args := query.
		NewBuilder(shelfProjection).
		WhereEquals("ID", id).
		WhereEquals("Owner", owner).
		BuildUpdate(query.Set("Label", label))

	updated, err := repository.QueryOne(ctx, p.db, q, args, scanShelfItem)
	if err != nil {
		return nil, shelfErrors.Map(err)
	}

	return &updated, nil
}

func (p *postgres) DeleteQuickAccess(ctx context.Context, id uuid.UUID, owner string) error {
	q, args := query.
		NewBuilder(shelfProjection).
		WhereEquals("ID", id).
		WhereEquals("Owner", owner).
		BuildDelete()

	if err := repository.ExecExpectOne(ctx, p.db, q, args); err != nil {
		return shelfErrors.Map(err)
	}
	return nil
}

func (p *postgres) ReorderQuickAccess(ctx context.Context, items []QuickAccessItem, owner string) error {
	err := repository.InTx(ctx, p.db, func(tx *sql.Tx) error {
		for _, item := range items {
			q, args := query.
				NewBuilder(shelfProjection).
				WhereEquals("ID", item.ID).
				WhereEquals("Owner", owner).
				BuildUpdate(query.Set("Order", item.Order))

			if _, err := repository.QueryOne(ctx, tx, q, args, scanShelfItem); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return shelfErrors.Map(err)
	}

	p.logger.Info("quick access reordered", "owner", owner, "items", len(items))
	return nil
}

func (p *postgres) Categories(ctx context.Context, owner string) ([]Category, error) {
	q, args := query.
		NewBuilder(categoryProjection, categorySort).
		WhereEquals("Owner", owner).
		Build()

	return repository.QueryMany(ctx, p.db, q, args, scanCategory)
}

func (p *postgres) CreateCategory(ctx context.Context, c Category, owner string) (*Category, error) {
	q, args := query.
		NewBuilder(categoryProjection).
		BuildInsert(
			query.Set("ID", c.ID),
			query.Set("Name", c.Name),
			query.Set("Icon", c.Icon),
			query.Set("IsSystemOnly", c.IsSystemOnly),
			query.Set("Owner", owner),
		)

	created, err := repository.QueryOne(ctx, p.db, q, args, scanCategory)
	if err != nil {
		return nil, categoryErrors.Map(err)
	}

	p.logger.Info("category created", "id", created.ID, "owner", owner)
	return &created, nil
}

func (p *postgres) DeleteCategory(ctx context.Context, id, owner string) error {
	q, args := query.
		NewBuilder(categoryProjection).
		WhereEquals("ID", id).
		WhereEquals("Owner", owner).
		BuildDelete()

	if err := repository.ExecExpectOne(ctx, p.db, q, args); err != nil {
		return categoryErrors.Map(err)
	}

	p.logger.Info("category deleted", "id", id, "owner", owner)
	return nil
}

func (p *postgres) ReassignCategory(ctx context.Context, from, to, owner string) error {
	q, args := query.
		NewBuilder(recipeProjection).
		WhereEquals("Owner", owner).
		WhereEquals("CategoryID", from).
		BuildUpdate(query.Set("CategoryID", to))

	moved, err := repository.Exec(ctx, p.db, q, args)
	if err != nil {
		return recipeErrors.Map(err)
	}

	p.logger.Info("recipes reassigned", "from", from, "to", to, "owner", owner, "count", moved)
	return nil
}

// recipeValues lists the mutable recipe columns. Parsed stage fields are
// stripped by encodeStages.
func recipeValues(r Recipe) ([]query.Assignment, error) {
	stages, err := encodeStages(r.Stages)
	if err != nil {
		return nil, err
	}

	return []query.Assignment{
		query.Set("Name", r.Name),
		query.Set("Description", r.Description),
		query.Set("RecipeNote", r.RecipeNote),
		query.Set("Stages", stages),
		query.Set("SuggestedAspectRatio", r.SuggestedAspectRatio),
		query.Set("SuggestedModel", r.SuggestedModel),
		query.Set("QuickAccessLabel", r.QuickAccessLabel),
		query.Set("IsQuickAccess", r.IsQuickAccess),
		query.Set("CategoryID", r.CategoryID),
		query.Set("IsSystem", r.IsSystem),
		query.Set("IsSystemOnly", r.IsSystemOnly),
		query.Set("UpdatedAt", r.UpdatedAt),
	}, nil
}
