// Package transfer implements the portable recipe library file: export
// envelopes, and the import pipeline that checks the envelope, validates
// each candidate recipe, detects duplicates, and sanitizes accepted
// records before they reach the library.
package transfer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/JaimeStill/cookbook/internal/recipes"
)

// Version is the envelope format written by Export.
const Version = "1.0"

const exportDateLayout = "2006-01-02T15:04:05.000Z"

// Envelope is the top-level shape of an export file.
type Envelope struct {
	Version    string           `json:"version"`
	ExportDate string           `json:"exportDate"`
	Recipes    []recipes.Recipe `json:"recipes"`
}

// Export wraps rs in an envelope stamped with now. Ownership is stripped
// from every recipe so the file can be imported into any library.
func Export(rs []recipes.Recipe, now time.Time) Envelope {
	out := make([]recipes.Recipe, len(rs))
	for i, r := range rs {
		r.UserID = ""
		out[i] = r
	}

	return Envelope{
		Version:    Version,
		ExportDate: now.UTC().Format(exportDateLayout),
		Recipes:    out,
	}
}

// Filename returns the download name for an export taken at now.
func Filename(now time.Time) string {
	return fmt.Sprintf("recipe-library-%d.json", now.UnixMilli())
}

// Encode renders the envelope as indented JSON.
func Encode(e Envelope) ([]byte, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return data, nil
}
