package library

import (
	"context"
	"time"

	"github.com/JaimeStill/cookbook/internal/recipes"
	"github.com/JaimeStill/cookbook/internal/transfer"
)

// ImportResult tallies an import. Skipped records carry the reason each
// candidate was rejected.
type ImportResult struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Recipes  []recipes.Recipe `json:"recipes"`
	Skips    []transfer.Skip  `json:"skips"`
}

// Export returns an envelope of the owner's own recipes. System recipes
// are not exported.
func (l *Library) Export(now time.Time) transfer.Envelope {
	l.mu.RLock()
	defer l.mu.RUnlock()

	own := make([]recipes.Recipe, 0, len(l.own))
	for _, r := range l.own {
		if r.IsSystem && l.owner != recipes.SystemOwner {
			continue
		}
		own = append(own, r)
	}

	return transfer.Export(own, now)
}

// Import adds every valid, non-duplicate recipe in data to the library.
// A payload without a recipes array is rejected before any recipe is
// read; individual failures are skipped and counted.
func (l *Library) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	payload, err := transfer.Decode(data)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	plan := transfer.Check(payload, l.visible())

	result := &ImportResult{
		Recipes: []recipes.Recipe{},
		Skips:   plan.Skipped,
	}

	for _, s := range plan.Skipped {
		l.logger.Info("import candidate skipped", "index", s.Index, "name", s.Name, "reason", s.Reason)
	}

	for _, a := range plan.Accepted {
		created, err := l.addRecipe(ctx, a.Command)
		if err != nil {
			l.logger.Warn("import candidate failed", "name", a.Command.Name, "error", err)
			result.Skips = append(result.Skips, transfer.Skip{
				Index:  a.Index,
				Name:   a.Command.Name,
				Reason: err.Error(),
			})
			continue
		}
		result.Recipes = append(result.Recipes, *created)
	}

	result.Imported = len(result.Recipes)
	result.Skipped = len(result.Skips)

	l.logger.Info("import complete", "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}
