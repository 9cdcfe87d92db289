// Package library implements the per-user recipe aggregate. A Library owns
// one user's recipes, categories, and quick-access shelf, layers the
// shared system recipes on top, and runs the single active recipe session
// that turns filled-in field values into dispatched prompts.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/cookbook/internal/dispatch"
	"github.com/JaimeStill/cookbook/internal/recipes"
	"github.com/JaimeStill/cookbook/internal/template"
)

// Options adjust what a library owner may see and change.
type Options struct {
	// Privileged owners may edit and delete system recipes.
	Privileged bool
	// ShowSystemOnly reveals recipes and categories flagged system-only.
	ShowSystemOnly bool
	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
	// Catalog supplies the system recipes. Defaults to a private catalog
	// filled by Load.
	Catalog *Catalog
}

// Library is the recipe aggregate for a single owner. It is safe for
// concurrent use. Changes for one owner are serialized, including their
// store calls, so a slow store delays that owner's reads. Apply hands the
// job to the dispatcher without holding the lock.
type Library struct {
	store      recipes.Store
	dispatcher dispatch.Dispatcher
	owner      string
	opts       Options
	logger     *slog.Logger

	system *Catalog

	mu         sync.RWMutex
	own        []recipes.Recipe
	shelf      []recipes.QuickAccessItem
	categories []recipes.Category
	session    Session
	sessionGen uint64
	applying   bool
}

// New creates an empty library for owner. Call Load before use.
func New(
	store recipes.Store,
	dispatcher dispatch.Dispatcher,
	owner string,
	opts Options,
	logger *slog.Logger,
) *Library {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if dispatcher == nil {
		dispatcher = dispatch.Noop{}
	}
	if opts.Catalog == nil {
		opts.Catalog = NewCatalog()
	}

	return &Library{
		store:      store,
		dispatcher: dispatcher,
		owner:      owner,
		opts:       opts,
		system:     opts.Catalog,
		logger:     logger.With("system", "library", "owner", owner),
		session:    idleSession(),
	}
}

// Owner returns the id of the library owner.
func (l *Library) Owner() string {
	return l.owner
}

// Load replaces the in-memory state with the owner's stored recipes,
// the system recipes, the shelf, and custom categories.
func (l *Library) Load(ctx context.Context) error {
	var (
		own        []recipes.Recipe
		shelf      []recipes.QuickAccessItem
		categories []recipes.Category
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		own, err = l.store.Recipes(gctx, l.owner)
		return persistence("load recipes", err)
	})

	if l.owner != recipes.SystemOwner {
		g.Go(func() error {
			return l.system.Load(gctx, l.store)
		})
	}

	g.Go(func() error {
		var err error
		shelf, err = l.store.QuickAccess(gctx, l.owner)
		return persistence("load quick access", err)
	})

	g.Go(func() error {
		var err error
		categories, err = l.store.Categories(gctx, l.owner)
		return persistence("load categories", err)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.own = own
	l.shelf = shelf
	l.categories = categories
	l.resetSession(idleSession())

	l.logger.Info(
		"library loaded",
		"recipes", len(own),
		"system_recipes", l.system.Len(),
		"shelf", len(shelf),
		"categories", len(categories),
	)
	return nil
}

// Recipes returns every visible recipe matching filters: system recipes
// first, then the owner's recipes in creation order.
func (l *Library) Recipes(filters recipes.Filters) []recipes.Recipe {
	l.mu.RLock()
	defer l.mu.RUnlock()

	visible := l.visible()
	out := make([]recipes.Recipe, 0, len(visible))
	for _, r := range visible {
		if filters.Match(&r) {
			out = append(out, r)
		}
	}
	return out
}

// Recipe returns the visible recipe with id.
func (l *Library) Recipe(id uuid.UUID) (*recipes.Recipe, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	r, _, ok := l.find(id)
	if !ok {
		return nil, recipes.ErrNotFound
	}
	out := *r
	return &out, nil
}

// Fields returns the deduplicated input fields of recipe id, one per
// logical field name.
func (l *Library) Fields(id uuid.UUID) ([]template.Field, error) {
	r, err := l.Recipe(id)
	if err != nil {
		return nil, err
	}
	return r.Fields(), nil
}

// Shelf returns the quick-access items in order.
func (l *Library) Shelf() []recipes.QuickAccessItem {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return slices.Clone(l.shelf)
}

func (l *Library) now() time.Time {
	return l.opts.Now()
}

// visible returns system then owned recipes, hiding system-only recipes
// unless the owner may see them.
func (l *Library) visible() []recipes.Recipe {
	system := l.system.Recipes()
	out := make([]recipes.Recipe, 0, len(system)+len(l.own))
	for _, r := range system {
		if r.IsSystemOnly && !l.opts.ShowSystemOnly {
			continue
		}
		out = append(out, r)
	}
	for _, r := range l.own {
		if r.IsSystemOnly && !l.opts.ShowSystemOnly {
			continue
		}
		out = append(out, r)
	}
	return out
}

// find locates a visible recipe. The bool reports whether it is held in
// the system catalog, in which case the result is a copy.
func (l *Library) find(id uuid.UUID) (*recipes.Recipe, bool, bool) {
	for i := range l.own {
		if l.own[i].ID == id {
			if l.own[i].IsSystemOnly && !l.opts.ShowSystemOnly {
				return nil, false, false
			}
			return &l.own[i], false, true
		}
	}
	r, ok := l.system.find(id)
	if !ok || (r.IsSystemOnly && !l.opts.ShowSystemOnly) {
		return nil, false, false
	}
	return &r, true, true
}

var storeErrors = []error{
	recipes.ErrNotFound,
	recipes.ErrDuplicate,
	recipes.ErrAlreadyOnShelf,
	recipes.ErrShelfItemNotFound,
	recipes.ErrCategoryNotFound,
}

// persistence keeps the store's domain errors and converts anything else
// into ErrPersistence carrying only the collaborator's message.
func persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range storeErrors {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %v", recipes.ErrPersistence, op, err)
}
