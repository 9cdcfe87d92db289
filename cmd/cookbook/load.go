package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/JaimeStill/cookbook/internal/dispatch"
	"github.com/JaimeStill/cookbook/internal/library"
	"github.com/JaimeStill/cookbook/internal/recipes"
	"github.com/JaimeStill/cookbook/internal/template"
)

const cliOwner = "cli"

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadLibrary builds an in-memory library holding either the built-in
// recipes or the recipes imported from path.
func loadLibrary(ctx context.Context, path string) (*library.Library, *library.ImportResult, error) {
	store := recipes.NewMemoryStore()
	logger := newLogger()

	if path == "" {
		if _, err := recipes.SeedSystem(ctx, store, time.Now()); err != nil {
			return nil, nil, err
		}
	}

	lib := library.New(store, dispatch.Noop{}, cliOwner, library.Options{
		ShowSystemOnly: showAll,
	}, logger)
	if err := lib.Load(ctx); err != nil {
		return nil, nil, err
	}

	if path == "" {
		return lib, nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read library file: %w", err)
	}

	result, err := lib.Import(ctx, data)
	if err != nil {
		return nil, nil, err
	}
	return lib, result, nil
}

// findRecipe resolves ref as a recipe id or a case-insensitive name.
func findRecipe(lib *library.Library, ref string) (*recipes.Recipe, error) {
	key := strings.ToLower(strings.TrimSpace(ref))

	for _, r := range lib.Recipes(recipes.Filters{}) {
		if r.ID.String() == key || strings.ToLower(strings.TrimSpace(r.Name)) == key {
			return &r, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", recipes.ErrNotFound, ref)
}

// parseValues turns NAME=value pairs into field values. A key naming a
// logical field is mapped to that field's id; any other key is taken as
// a field id.
func parseValues(pairs []string, fields []template.Field) (template.Values, error) {
	values := template.Values{}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("invalid value %q, want NAME=value", pair)
		}

		key = strings.TrimSpace(key)
		for _, f := range fields {
			if strings.EqualFold(f.Name, key) {
				key = f.ID
				break
			}
		}
		values[key] = value
	}

	return values, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
