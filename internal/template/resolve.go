package template

import (
	"slices"
	"strings"
)

// Values maps field ids to user-supplied input.
type Values map[string]string

// Resolution reports how a field value was found.
type Resolution int

// Resolution outcomes, in lookup order.
const (
	Unresolved Resolution = iota
	ByID
	ByCanonicalID
	ByFallback
)

// Resolve finds the non-blank value for field. Lookup order is the
// occurrence's own id, then the id of the deduplicated field with the same
// name, then a fallback scan for any key containing the lowercased name.
//
// The fallback is best-effort: NAME also matches CHARACTER_NAME keys.
// Keys are scanned in sorted order so the first match is deterministic.
// Builder and validator both resolve through this function so they can
// never disagree about whether a field is filled.
func Resolve(field Field, values Values, unique []Field) (string, Resolution) {
	if v := strings.TrimSpace(values[field.ID]); v != "" {
		return v, ByID
	}

	if c, ok := canonical(field.Name, unique); ok && c.ID != field.ID {
		if v := strings.TrimSpace(values[c.ID]); v != "" {
			return v, ByCanonicalID
		}
	}

	name := strings.ToLower(field.Name)
	if name == "" {
		return "", Unresolved
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		if !strings.Contains(strings.ToLower(k), name) {
			continue
		}
		if v := strings.TrimSpace(values[k]); v != "" {
			return v, ByFallback
		}
	}

	return "", Unresolved
}
