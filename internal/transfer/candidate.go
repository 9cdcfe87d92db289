package transfer

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/JaimeStill/cookbook/internal/recipes"
	"github.com/JaimeStill/cookbook/internal/template"
)

// Candidate is an import record that passed structural and semantic
// validation. Only portable recipe data survives; ids, timestamps, and
// protection flags from the file are never read.
type Candidate struct {
	Name                 string
	Description          *string
	RecipeNote           *string
	Stages               []template.Stage
	SuggestedAspectRatio *string
	SuggestedModel       *string
	QuickAccessLabel     *string
	IsQuickAccess        bool
	CategoryID           *string
}

// ValidateCandidate turns one raw recipe from an import file into a
// Candidate. Shape failures return ErrMalformedRecipe; rule failures
// return ErrInvalidRecipe. Checks stop at the first failure.
func ValidateCandidate(raw any) (*Candidate, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: not an object", ErrMalformedRecipe)
	}

	name, ok := obj["name"].(string)
	if !ok {
		return nil, fmt.Errorf("%w: name must be a string", ErrMalformedRecipe)
	}

	rawStages, ok := obj["stages"].([]any)
	if !ok {
		return nil, fmt.Errorf("%w: stages must be an array", ErrMalformedRecipe)
	}

	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n < recipes.MinNameLength || n > recipes.MaxNameLength {
		return nil, fmt.Errorf(
			"%w: name must be %d-%d characters",
			ErrInvalidRecipe, recipes.MinNameLength, recipes.MaxNameLength,
		)
	}

	if len(rawStages) == 0 {
		return nil, fmt.Errorf("%w: at least one stage is required", ErrInvalidRecipe)
	}

	stages := make([]template.Stage, len(rawStages))
	for i, rs := range rawStages {
		s, err := candidateStage(rs)
		if err != nil {
			return nil, fmt.Errorf("%w: stage %d: %v", ErrInvalidRecipe, i, err)
		}
		stages[i] = s
	}

	c := &Candidate{
		Name:   name,
		Stages: stages,
	}

	var err error
	if c.Description, err = optionalString(obj, "description"); err != nil {
		return nil, err
	}
	if c.CategoryID, err = optionalString(obj, "categoryId"); err != nil {
		return nil, err
	}

	c.RecipeNote = looseString(obj, "recipeNote")
	c.SuggestedAspectRatio = looseString(obj, "suggestedAspectRatio")
	c.SuggestedModel = looseString(obj, "suggestedModel")
	c.QuickAccessLabel = looseString(obj, "quickAccessLabel")
	c.IsQuickAccess, _ = obj["isQuickAccess"].(bool)

	return c, nil
}

func candidateStage(raw any) (template.Stage, error) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return template.Stage{}, errors.New("not an object")
	}

	tmpl, hasTemplate := obj["template"].(string)
	toolID, hasTool := obj["toolId"].(string)
	if !hasTemplate && !hasTool {
		return template.Stage{}, errors.New("template or toolId is required")
	}

	declared, _ := obj["type"].(string)
	isTool := declared == string(template.StageTool)

	if isTool && !hasTool {
		return template.Stage{}, errors.New("tool stage requires a toolId")
	}

	images := []template.ReferenceImage{}
	if ri, present := obj["referenceImages"]; present && ri != nil {
		list, ok := ri.([]any)
		if !ok {
			return template.Stage{}, errors.New("referenceImages must be an array")
		}
		images = referenceImages(list)
	}

	stage := template.Stage{
		Template:        tmpl,
		ToolID:          toolID,
		ReferenceImages: images,
	}
	if isTool {
		stage.Type = template.StageTool
	}
	if id, ok := obj["id"].(string); ok {
		stage.ID = id
	}

	return stage, nil
}

func referenceImages(list []any) []template.ReferenceImage {
	out := make([]template.ReferenceImage, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		url, ok := obj["url"].(string)
		if !ok || url == "" {
			continue
		}
		img := template.ReferenceImage{URL: url}
		img.ID, _ = obj["id"].(string)
		if img.ID == "" {
			img.ID = uuid.NewString()
		}
		img.Name, _ = obj["name"].(string)
		out = append(out, img)
	}
	return out
}

// optionalString reads a field that must be a string when present.
func optionalString(obj map[string]any, key string) (*string, error) {
	v, present := obj[key]
	if !present || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidRecipe, key)
	}
	if s == "" {
		return nil, nil
	}
	return &s, nil
}

// looseString reads a field that is dropped when it is not a string.
func looseString(obj map[string]any, key string) *string {
	s, ok := obj[key].(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}
