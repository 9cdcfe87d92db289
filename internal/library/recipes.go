package library

import (
	"context"
	"errors"
	"slices"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JaimeStill/cookbook/internal/recipes"
	"github.com/JaimeStill/cookbook/internal/template"
)

const copySuffix = " (Copy)"

// AddRecipe stores a new recipe built from cmd. Stage fields are always
// re-derived from the templates. A quick-access recipe with a label is
// also placed on the shelf when there is room.
func (l *Library) AddRecipe(ctx context.Context, cmd recipes.CreateCommand) (*recipes.Recipe, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.addRecipe(ctx, cmd)
}

func (l *Library) addRecipe(ctx context.Context, cmd recipes.CreateCommand) (*recipes.Recipe, error) {
	r := cmd.Recipe()
	now := l.now().UnixMilli()

	r.ID = uuid.New()
	r.CreatedAt = now
	r.UpdatedAt = now
	r.IsSystem = l.owner == recipes.SystemOwner
	if !l.opts.Privileged {
		r.IsSystemOnly = false
	}

	if err := recipes.Validate(&r); err != nil {
		return nil, err
	}

	created, err := l.store.CreateRecipe(ctx, r, l.owner)
	if err != nil {
		return nil, persistence("create recipe", err)
	}

	l.own = append(l.own, *created)
	l.logger.Info("recipe created", "id", created.ID, "name", created.Name)

	if created.IsQuickAccess && created.QuickAccessLabel != nil {
		_, err := l.addToShelf(ctx, created.ID, *created.QuickAccessLabel)
		switch {
		case err == nil,
			errors.Is(err, recipes.ErrShelfFull),
			errors.Is(err, recipes.ErrAlreadyOnShelf):
		default:
			l.logger.Warn("quick access placement failed", "id", created.ID, "error", err)
		}
	}

	out := *created
	return &out, nil
}

// UpdateRecipe applies cmd to recipe id. System recipes can only be
// changed by privileged owners.
func (l *Library) UpdateRecipe(ctx context.Context, id uuid.UUID, cmd recipes.UpdateCommand) (*recipes.Recipe, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, isSystem, ok := l.find(id)
	if !ok {
		return nil, recipes.ErrNotFound
	}
	if current.IsSystem && !l.opts.Privileged {
		return nil, recipes.ErrSystemRecipe
	}

	next := cmd.Apply(*current)
	next.UpdatedAt = l.now().UnixMilli()
	if !l.opts.Privileged {
		next.IsSystemOnly = current.IsSystemOnly
	}

	if err := recipes.Validate(&next); err != nil {
		return nil, err
	}

	owner := l.owner
	if isSystem {
		owner = recipes.SystemOwner
	}

	updated, err := l.store.UpdateRecipe(ctx, next, owner)
	if err != nil {
		return nil, persistence("update recipe", err)
	}

	*current = *updated
	if isSystem {
		l.system.put(*updated)
	}
	l.logger.Info("recipe updated", "id", id)

	out := *updated
	return &out, nil
}

// DeleteRecipe removes recipe id together with its shelf entry, and ends
// the active session when it targets the recipe.
func (l *Library) DeleteRecipe(ctx context.Context, id uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	r, isSystem, ok := l.find(id)
	if !ok {
		return recipes.ErrNotFound
	}
	if r.IsSystem && !l.opts.Privileged {
		return recipes.ErrSystemRecipe
	}

	if i := slices.IndexFunc(l.shelf, func(q recipes.QuickAccessItem) bool {
		return q.RecipeID == id
	}); i >= 0 {
		if err := l.removeFromShelf(ctx, l.shelf[i].ID); err != nil {
			return err
		}
	}

	if l.session.active(id) {
		l.resetSession(idleSession())
		l.logger.Info("session cleared by recipe deletion", "id", id)
	}

	owner := l.owner
	if isSystem {
		owner = recipes.SystemOwner
	}

	if err := l.store.DeleteRecipe(ctx, id, owner); err != nil {
		return persistence("delete recipe", err)
	}

	if isSystem {
		l.system.remove(id)
	} else {
		l.own = slices.DeleteFunc(l.own, func(r recipes.Recipe) bool { return r.ID == id })
	}

	l.logger.Info("recipe deleted", "id", id)
	return nil
}

// DuplicateRecipe copies recipe id into the owner's library as an editable
// recipe. This is how system recipes are customized.
func (l *Library) DuplicateRecipe(ctx context.Context, id uuid.UUID) (*recipes.Recipe, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	src, _, ok := l.find(id)
	if !ok {
		return nil, recipes.ErrNotFound
	}

	stages := make([]template.Stage, len(src.Stages))
	for i, s := range src.Stages {
		s.ID = ""
		stages[i] = s
	}

	cmd := recipes.CreateCommand{
		Name:                 copyName(src.Name),
		Description:          src.Description,
		RecipeNote:           src.RecipeNote,
		Stages:               stages,
		SuggestedAspectRatio: src.SuggestedAspectRatio,
		SuggestedModel:       src.SuggestedModel,
		QuickAccessLabel:     src.QuickAccessLabel,
		CategoryID:           src.CategoryID,
	}

	return l.addRecipe(ctx, cmd)
}

func copyName(name string) string {
	limit := recipes.MaxNameLength - utf8.RuneCountInString(copySuffix)
	if runes := []rune(name); len(runes) > limit {
		name = string(runes[:limit])
	}
	return name + copySuffix
}
