package recipes

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/JaimeStill/cookbook/internal/template"
)

//go:embed seed/system.yaml
var systemSeed []byte

type seedFile struct {
	Recipes []seedRecipe `yaml:"recipes"`
}

type seedRecipe struct {
	ID                   uuid.UUID   `yaml:"id"`
	Name                 string      `yaml:"name"`
	Description          string      `yaml:"description"`
	RecipeNote           string      `yaml:"recipeNote"`
	CategoryID           string      `yaml:"categoryId"`
	SuggestedAspectRatio string      `yaml:"suggestedAspectRatio"`
	SuggestedModel       string      `yaml:"suggestedModel"`
	QuickAccessLabel     string      `yaml:"quickAccessLabel"`
	IsQuickAccess        bool        `yaml:"isQuickAccess"`
	IsSystemOnly         bool        `yaml:"isSystemOnly"`
	Stages               []seedStage `yaml:"stages"`
}

type seedStage struct {
	Type     string `yaml:"type"`
	Template string `yaml:"template"`
	ToolID   string `yaml:"toolId"`
}

// SystemRecipes decodes the built-in recipes shipped with the binary.
func SystemRecipes(now time.Time) ([]Recipe, error) {
	var file seedFile
	if err := yaml.Unmarshal(systemSeed, &file); err != nil {
		return nil, fmt.Errorf("parse system recipes: %w", err)
	}

	ms := now.UnixMilli()
	out := make([]Recipe, 0, len(file.Recipes))

	for _, sr := range file.Recipes {
		stages := make([]template.Stage, len(sr.Stages))
		for i, ss := range sr.Stages {
			stages[i] = template.Stage{
				ID:       fmt.Sprintf("%s-stage%d", sr.ID, i),
				Type:     template.StageType(ss.Type),
				Template: ss.Template,
				ToolID:   ss.ToolID,
			}
		}

		r := Recipe{
			ID:                   sr.ID,
			Name:                 sr.Name,
			Description:          optional(sr.Description),
			RecipeNote:           optional(sr.RecipeNote),
			Stages:               template.Normalize(stages),
			SuggestedAspectRatio: optional(sr.SuggestedAspectRatio),
			SuggestedModel:       optional(sr.SuggestedModel),
			QuickAccessLabel:     optional(sr.QuickAccessLabel),
			IsQuickAccess:        sr.IsQuickAccess,
			CategoryID:           optional(sr.CategoryID),
			IsSystem:             true,
			IsSystemOnly:         sr.IsSystemOnly,
			UserID:               SystemOwner,
			CreatedAt:            ms,
			UpdatedAt:            ms,
		}

		if err := Validate(&r); err != nil {
			return nil, fmt.Errorf("system recipe %q: %w", sr.Name, err)
		}

		out = append(out, r)
	}

	return out, nil
}

// SeedSystem inserts the built-in recipes when the system owner has none.
// It returns the number of recipes inserted.
func SeedSystem(ctx context.Context, store Store, now time.Time) (int, error) {
	existing, err := store.Recipes(ctx, SystemOwner)
	if err != nil {
		return 0, fmt.Errorf("list system recipes: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	system, err := SystemRecipes(now)
	if err != nil {
		return 0, err
	}

	for _, r := range system {
		if _, err := store.CreateRecipe(ctx, r, SystemOwner); err != nil {
			return 0, fmt.Errorf("seed %q: %w", r.Name, err)
		}
	}

	return len(system), nil
}
