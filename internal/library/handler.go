package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/cookbook/internal/recipes"
	"github.com/JaimeStill/cookbook/internal/template"
	"github.com/JaimeStill/cookbook/internal/transfer"
	"github.com/JaimeStill/cookbook/pkg/formatting"
	"github.com/JaimeStill/cookbook/pkg/handlers"
	"github.com/JaimeStill/cookbook/pkg/pagination"
	"github.com/JaimeStill/cookbook/pkg/routes"
	"github.com/JaimeStill/cookbook/pkg/storage"
)

// OwnerHeader carries the id of the library owner on every request.
const OwnerHeader = "X-Owner-ID"

// DefaultOwner is used when a request carries no owner header.
const DefaultOwner = "local"

// RequestOwner returns the owner named by the request's owner header.
func RequestOwner(r *http.Request) string {
	if owner := strings.TrimSpace(r.Header.Get(OwnerHeader)); owner != "" {
		return owner
	}
	return DefaultOwner
}

// ArchivePrefix is the storage prefix holding owner's archived exports.
func ArchivePrefix(owner string) string {
	return "exports/" + owner + "/"
}

// ArchiveKey is the storage key of an archived export file.
func ArchiveKey(owner, filename string) string {
	return ArchivePrefix(owner) + filename
}

// Handler provides HTTP endpoints for the recipe library.
type Handler struct {
	registry      *Registry
	logger        *slog.Logger
	pagination    pagination.Config
	maxImportSize int64
	archive       storage.System
}

// ShelfRequest adds a recipe to the quick-access shelf.
type ShelfRequest struct {
	RecipeID uuid.UUID `json:"recipeId"`
	Label    string    `json:"label"`
}

// LabelRequest renames a shelf item.
type LabelRequest struct {
	Label string `json:"label"`
}

// OrderRequest lists every shelf item id in the desired order.
type OrderRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

// SelectRequest starts a session for a recipe.
type SelectRequest struct {
	RecipeID uuid.UUID `json:"recipeId"`
}

// ArchiveResult reports where an export was archived.
type ArchiveResult struct {
	Key      string `json:"key"`
	Filename string `json:"filename"`
	Recipes  int    `json:"recipes"`
}

// NewHandler creates a Handler. archive may be nil, which disables
// export archiving.
func NewHandler(
	registry *Registry,
	logger *slog.Logger,
	pagination pagination.Config,
	maxImportSize int64,
	archive storage.System,
) *Handler {
	return &Handler{
		registry:      registry,
		logger:        logger.With("handler", "library"),
		pagination:    pagination,
		maxImportSize: maxImportSize,
		archive:       archive,
	}
}

// Routes returns the route group definition for library endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Children: []routes.Group{
			{
				Prefix: "/recipes",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Summary: "List visible recipes", Handler: h.List},
					{Method: "GET", Pattern: "/{id}", Summary: "Resolve a recipe by id or name", Handler: h.Find},
					{Method: "GET", Pattern: "/{id}/fields", Summary: "Extract a recipe's input fields", Handler: h.Fields},
					{Method: "POST", Pattern: "", Summary: "Create a recipe", Handler: h.Create},
					{Method: "PUT", Pattern: "/{id}", Summary: "Update an owned recipe", Handler: h.Update},
					{Method: "DELETE", Pattern: "/{id}", Summary: "Delete an owned recipe", Handler: h.Delete},
					{Method: "POST", Pattern: "/{id}/duplicate", Summary: "Copy a recipe into the caller's library", Handler: h.Duplicate},
					{Method: "POST", Pattern: "/{id}/preview", Summary: "Render a recipe with supplied values", Handler: h.Preview},
				},
			},
			{
				Prefix: "/categories",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Summary: "List categories", Handler: h.Categories},
					{Method: "POST", Pattern: "", Summary: "Create a category", Handler: h.CreateCategory},
					{Method: "DELETE", Pattern: "/{id}", Summary: "Delete a category and reassign its recipes", Handler: h.DeleteCategory},
				},
			},
			{
				Prefix: "/shelf",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Summary: "List quick access items", Handler: h.Shelf},
					{Method: "POST", Pattern: "", Summary: "Add a recipe to quick access", Handler: h.AddToShelf},
					{Method: "PUT", Pattern: "/order", Summary: "Reorder quick access items", Handler: h.ReorderShelf},
					{Method: "PUT", Pattern: "/{id}", Summary: "Relabel a quick access item", Handler: h.RenameShelfItem},
					{Method: "DELETE", Pattern: "/{id}", Summary: "Remove a quick access item", Handler: h.RemoveFromShelf},
				},
			},
			{
				Prefix: "/session",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Summary: "Show the editing session", Handler: h.Session},
					{Method: "POST", Pattern: "/select", Summary: "Select a recipe for editing", Handler: h.Select},
					{Method: "PUT", Pattern: "/values", Summary: "Set field values", Handler: h.SetValues},
					{Method: "POST", Pattern: "/validate", Summary: "Validate the current values", Handler: h.Validate},
					{Method: "POST", Pattern: "/apply", Summary: "Render and dispatch the recipe", Handler: h.Apply},
					{Method: "POST", Pattern: "/cancel", Summary: "Discard the editing session", Handler: h.Cancel},
				},
			},
			{
				Prefix: "/library",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/export", Summary: "Export the caller's recipes", Handler: h.Export},
					{Method: "POST", Pattern: "/import", Summary: "Import a library export", Handler: h.Import},
				},
			},
			{
				Prefix: "/tools",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Summary: "List recipe tool types", Handler: h.Tools},
				},
			},
		},
	}
}

// List returns a page of visible recipes matching the query filters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}

	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := recipes.FiltersFromQuery(r.URL.Query())

	handlers.RespondJSON(w, http.StatusOK, pagination.Paginate(lib.Recipes(filters), page))
}

// Find returns a single recipe by its UUID path parameter.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	lib, id, ok := h.libraryAndID(w, r)
	if !ok {
		return
	}

	recipe, err := lib.Recipe(id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, recipe)
}

// Fields returns the deduplicated input fields of a recipe.
func (h *Handler) Fields(w http.ResponseWriter, r *http.Request) {
	lib, id, ok := h.libraryAndID(w, r)
	if !ok {
		return
	}

	fields, err := lib.Fields(id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, fields)
}

// Create processes a JSON body to create a recipe.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}

	var cmd recipes.CreateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	recipe, err := lib.AddRecipe(r.Context(), cmd)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, recipe)
}

// Update applies a partial JSON update to a recipe.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	lib, id, ok := h.libraryAndID(w, r)
	if !ok {
		return
	}

	var cmd recipes.UpdateCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	recipe, err := lib.UpdateRecipe(r.Context(), id, cmd)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, recipe)
}

// Delete removes a recipe and its shelf entry.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	lib, id, ok := h.libraryAndID(w, r)
	if !ok {
		return
	}

	if err := lib.DeleteRecipe(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Duplicate copies a recipe into the owner's library.
func (h *Handler) Duplicate(w http.ResponseWriter, r *http.Request) {
	lib, id, ok := h.libraryAndID(w, r)
	if !ok {
		return
	}

	recipe, err := lib.DuplicateRecipe(r.Context(), id)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, recipe)
}

// Preview renders a recipe with the posted values without dispatching.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	lib, id, ok := h.libraryAndID(w, r)
	if !ok {
		return
	}

	var values template.Values
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := lib.Preview(id, values)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Categories returns default and custom categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}

	handlers.RespondJSON(w, http.StatusOK, lib.Categories())
}

// CreateCategory processes a JSON body to create a custom category.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}

	var cmd recipes.CategoryCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	category, err := lib.AddCategory(r.Context(), cmd)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, category)
}

// DeleteCategory removes a custom category.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}

	if err := lib.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Shelf returns the quick-access items in order.
func (h *Handler) Shelf(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}

	handlers.RespondJSON(w, http.StatusOK, lib.Shelf())
}

// AddToShelf places a recipe on the quick-access shelf.
func (h *Handler) AddToShelf(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}

	var req ShelfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	item, err := lib.AddToQuickAccess(r.Context(), req.RecipeID, req.Label)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, item)
}

// RenameShelfItem changes a shelf item's label.
func (h *Handler) RenameShelfItem(w http.ResponseWriter, r *http.Request) {
	lib, id, ok := h.libraryAndID(w, r)
	if !ok {
		return
	}

	var req LabelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	item, err := lib.RenameQuickAccess(r.Context(), id, req.Label)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, item)
}

// RemoveFromShelf deletes a shelf item.
func (h *Handler) RemoveFromShelf(w http.ResponseWriter, r *http.Request) {
	lib, id, ok := h.libraryAndID(w, r)
	if !ok {
		return
	}

	if err := lib.RemoveFromQuickAccess(r.Context(), id); err != nil {
		h.respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReorderShelf sets the order of every shelf item.
func (h *Handler) ReorderShelf(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}

	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	items, err := lib.ReorderQuickAccess(r.Context(), req.IDs)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, items)
}

// Session returns the active session.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}

	handlers.RespondJSON(w, http.StatusOK, lib.Session())
}

// Select starts a session for a recipe.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}

	var req SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	session, err := lib.SelectRecipe(req.RecipeID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, session)
}

// SetValues records field values in the active session.
func (h *Handler) SetValues(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}

	var values template.Values
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := lib.SetFieldValues(values); err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, lib.Session())
}

// Validate checks the active session's values.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}

	result, err := lib.Validate()
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Apply renders and dispatches the active session. A blocked apply
// responds 422 with the validation result.
func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}

	result, err := lib.Apply(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}

	status := http.StatusOK
	if !result.Validation.IsValid {
		status = http.StatusUnprocessableEntity
	}

	handlers.RespondJSON(w, status, result)
}

// Cancel discards the active session.
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}

	lib.Cancel()
	handlers.RespondJSON(w, http.StatusOK, lib.Session())
}

// Export downloads the owner's recipes as an export file. With
// ?archive=true the file is stored in blob storage instead.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}

	now := time.Now()
	env := lib.Export(now)
	filename := transfer.Filename(now)

	data, err := transfer.Encode(env)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	if archive, _ := strconv.ParseBool(r.URL.Query().Get("archive")); archive {
		h.archiveExport(w, r, lib.Owner(), filename, data, len(env.Recipes))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Import adds the recipes of an uploaded export file.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	lib, ok := h.library(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxImportSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			handlers.RespondError(
				w, h.logger, http.StatusRequestEntityTooLarge,
				fmt.Errorf("import exceeds maximum size of %s", formatting.FormatBytes(h.maxImportSize, 1)),
			)
			return
		}
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := lib.Import(r.Context(), data)
	if err != nil {
		h.respondError(w, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Tools returns the catalog of tool stage operations.
func (h *Handler) Tools(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, template.Tools())
}

func (h *Handler) archiveExport(w http.ResponseWriter, r *http.Request, owner, filename string, data []byte, count int) {
	if h.archive == nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(storage.ErrUnavailable), storage.ErrUnavailable)
		return
	}

	key := ArchiveKey(owner, filename)
	if err := h.archive.Put(r.Context(), key, data, "application/json"); err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	h.logger.Info("export archived", "owner", owner, "key", key, "recipes", count)
	handlers.RespondJSON(w, http.StatusCreated, ArchiveResult{
		Key:      key,
		Filename: filename,
		Recipes:  count,
	})
}

func (h *Handler) library(w http.ResponseWriter, r *http.Request) (*Library, bool) {
	lib, err := h.registry.Get(r.Context(), RequestOwner(r))
	if err != nil {
		h.respondError(w, err)
		return nil, false
	}
	return lib, true
}

func (h *Handler) libraryAndID(w http.ResponseWriter, r *http.Request) (*Library, uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, fmt.Errorf("invalid id: %w", err))
		return nil, uuid.Nil, false
	}

	lib, ok := h.library(w, r)
	if !ok {
		return nil, uuid.Nil, false
	}
	return lib, id, true
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
}
