package transfer

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/cookbook/internal/recipes"
)

// Skip records why one import candidate was not accepted.
type Skip struct {
	Index  int    `json:"index"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
	err    error
}

// Err returns the validation error behind the skip.
func (s Skip) Err() error {
	return s.err
}

// Accepted is a sanitized candidate and its position in the payload.
type Accepted struct {
	Index   int
	Command recipes.CreateCommand
}

// Plan is the outcome of checking every candidate in a payload.
type Plan struct {
	Accepted []Accepted
	Skipped  []Skip
}

// IsDuplicate reports whether a recipe named name in categoryID already
// exists. Names compare trimmed and case-insensitively; categories compare
// exactly, with two absent categories counting as equal. The recipe with
// id exclude is ignored.
func IsDuplicate(name string, categoryID *string, existing []recipes.Recipe, exclude *uuid.UUID) bool {
	key := strings.ToLower(strings.TrimSpace(name))

	for i := range existing {
		r := &existing[i]
		if exclude != nil && r.ID == *exclude {
			continue
		}
		if strings.ToLower(strings.TrimSpace(r.Name)) != key {
			continue
		}
		if sameCategory(r.CategoryID, categoryID) {
			return true
		}
	}
	return false
}

// Sanitize converts a validated candidate into a create command. Imported
// recipes are never system recipes, and the quick-access flag is dropped
// when the file carries no usable label.
func Sanitize(c *Candidate) recipes.CreateCommand {
	cmd := recipes.CreateCommand{
		Name:                 c.Name,
		Description:          c.Description,
		RecipeNote:           c.RecipeNote,
		Stages:               c.Stages,
		SuggestedAspectRatio: c.SuggestedAspectRatio,
		SuggestedModel:       c.SuggestedModel,
		QuickAccessLabel:     c.QuickAccessLabel,
		IsQuickAccess:        c.IsQuickAccess,
		CategoryID:           c.CategoryID,
		IsSystemOnly:         false,
	}

	if cmd.IsQuickAccess {
		if cmd.QuickAccessLabel == nil || recipes.ValidateLabel(*cmd.QuickAccessLabel) != nil {
			cmd.IsQuickAccess = false
		}
	}

	return cmd
}

// Check validates, deduplicates, and sanitizes every recipe in payload
// against existing. A failing candidate is skipped, never fatal, and
// candidates accepted earlier in the same payload count as existing.
func Check(payload *Payload, existing []recipes.Recipe) Plan {
	plan := Plan{
		Accepted: []Accepted{},
		Skipped:  []Skip{},
	}

	known := make([]recipes.Recipe, len(existing), len(existing)+len(payload.Recipes))
	copy(known, existing)

	for i, raw := range payload.Recipes {
		c, err := ValidateCandidate(raw)
		if err != nil {
			plan.Skipped = append(plan.Skipped, newSkip(i, rawName(raw), err))
			continue
		}

		if IsDuplicate(c.Name, c.CategoryID, known, nil) {
			plan.Skipped = append(plan.Skipped, newSkip(i, c.Name, ErrDuplicateRecipe))
			continue
		}

		cmd := Sanitize(c)
		r := cmd.Recipe()
		if err := recipes.Validate(&r); err != nil {
			plan.Skipped = append(plan.Skipped, newSkip(i, c.Name, fmt.Errorf("%w: %v", ErrInvalidRecipe, err)))
			continue
		}

		plan.Accepted = append(plan.Accepted, Accepted{Index: i, Command: cmd})
		known = append(known, r)
	}

	return plan
}

func newSkip(index int, name string, err error) Skip {
	return Skip{
		Index:  index,
		Name:   name,
		Reason: err.Error(),
		err:    err,
	}
}

func rawName(raw any) string {
	if obj, ok := raw.(map[string]any); ok {
		name, _ := obj["name"].(string)
		return name
	}
	return ""
}

func sameCategory(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
