package template

import "fmt"

// Validation is the outcome of checking required fields against values.
type Validation struct {
	IsValid       bool     `json:"isValid"`
	MissingFields []string `json:"missingFields"`
	Errors        []string `json:"errors"`
}

// ValidateRecipe checks every required deduplicated field for a non-blank
// value. A field repeated across stages is satisfied once.
func ValidateRecipe(stages []Stage, values Values) Validation {
	unique := AllFields(stages)

	result := Validation{
		MissingFields: []string{},
		Errors:        []string{},
	}

	for _, f := range unique {
		if !f.Required {
			continue
		}
		if _, how := Resolve(f, values, unique); how != Unresolved {
			continue
		}
		result.MissingFields = append(result.MissingFields, f.Label)
		result.Errors = append(result.Errors, fmt.Sprintf("%s is required", f.Label))
	}

	result.IsValid = len(result.MissingFields) == 0
	return result
}
