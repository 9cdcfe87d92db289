package recipes

import (
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/cookbook/internal/template"
)

// Validate checks the recipe invariants: a usable name, a valid stage
// pipeline, and a short label whenever the recipe is marked quick-access.
func Validate(r *Recipe) error {
	name := strings.TrimSpace(r.Name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return ErrInvalidName
	}

	if err := template.ValidateStages(r.Stages); err != nil {
		return err
	}

	if r.IsQuickAccess {
		if r.QuickAccessLabel == nil {
			return ErrQuickAccessLabel
		}
		if err := ValidateLabel(*r.QuickAccessLabel); err != nil {
			return err
		}
	}

	return nil
}

// ValidateLabel checks a quick-access label is non-blank and at most 12 characters.
func ValidateLabel(label string) error {
	label = strings.TrimSpace(label)
	if label == "" || utf8.RuneCountInString(label) > MaxQuickAccessLabel {
		return ErrQuickAccessLabel
	}
	return nil
}

// ShortLabel derives a shelf label from name, truncated to fit the shelf.
func ShortLabel(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) <= MaxQuickAccessLabel {
		return name
	}
	return strings.TrimSpace(string([]rune(name)[:MaxQuickAccessLabel]))
}
