// Package template implements the recipe template mini-language.
// It parses <<NAME:type!>> field tokens out of stage templates, merges
// fields that share a name across stages, resolves user-supplied values,
// renders final prompt strings, and validates that required fields are filled.
package template

import (
	"encoding/json"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldType determines which input a field is rendered with.
type FieldType string

// Recognized field types. Unknown type strings parse as FieldText.
const (
	FieldName   FieldType = "name"
	FieldText   FieldType = "text"
	FieldSelect FieldType = "select"
)

var fieldTypes = []FieldType{
	FieldName,
	FieldText,
	FieldSelect,
}

// UnmarshalJSON decodes a field type, downgrading unknown values to FieldText.
func (t *FieldType) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := FieldType(raw)
	if !slices.Contains(fieldTypes, v) {
		v = FieldText
	}
	*t = v
	return nil
}

// Field describes a single token occurrence parsed from a stage template.
// Name is the logical identity shared across stages; ID identifies the occurrence.
type Field struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Label       string    `json:"label"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Options     []string  `json:"options,omitempty"`
	Placeholder string    `json:"placeholder"`
}

// Label converts a token name such as CHARACTER_NAME into "Character Name".
// A Caser carries state, so one is created per call.
func Label(name string) string {
	words := strings.ReplaceAll(strings.ToLower(name), "_", " ")
	return cases.Title(language.English).String(words)
}

// Placeholder returns label, suffixed with "!" when the field is required.
func Placeholder(label string, required bool) string {
	if required {
		return label + "!"
	}
	return label
}
