package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/JaimeStill/cookbook/internal/library"
	"github.com/JaimeStill/cookbook/pkg/handlers"
	"github.com/JaimeStill/cookbook/pkg/routes"
	"github.com/JaimeStill/cookbook/pkg/storage"
)

// ArchivedExport describes one export file in the owner's archive.
type ArchivedExport struct {
	Name string `json:"name"`
	storage.Object
}

// archiveHandler serves export files previously archived to blob storage.
// Owners can only reach blobs under their own archive prefix.
type archiveHandler struct {
	store  storage.System
	logger *slog.Logger
}

func newArchiveHandler(store storage.System, logger *slog.Logger) *archiveHandler {
	return &archiveHandler{
		store:  store,
		logger: logger.With("handler", "archive"),
	}
}

func (h *archiveHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/archive",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Summary: "List archived exports", Handler: h.list},
			{Method: "GET", Pattern: "/{name}", Summary: "Download an archived export", Handler: h.download},
			{Method: "DELETE", Pattern: "/{name}", Summary: "Delete an archived export", Handler: h.delete},
		},
	}
}

func (h *archiveHandler) list(w http.ResponseWriter, r *http.Request) {
	objects, err := h.store.List(r.Context(), library.ArchivePrefix(library.RequestOwner(r)))
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	exports := make([]ArchivedExport, 0, len(objects))
	for _, o := range objects {
		exports = append(exports, ArchivedExport{
			Name:   path.Base(o.Key),
			Object: o,
		})
	}

	handlers.RespondJSON(w, http.StatusOK, exports)
}

func (h *archiveHandler) download(w http.ResponseWriter, r *http.Request) {
	key, ok := h.archiveKey(w, r)
	if !ok {
		return
	}

	data, err := h.store.Get(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *archiveHandler) delete(w http.ResponseWriter, r *http.Request) {
	key, ok := h.archiveKey(w, r)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), key); err != nil {
		handlers.RespondError(w, h.logger, storage.MapHTTPStatus(err), err)
		return
	}

	h.logger.Info("archived export deleted", "key", key)
	w.WriteHeader(http.StatusNoContent)
}

// archiveKey rejects names that would escape the owner's prefix.
func (h *archiveHandler) archiveKey(w http.ResponseWriter, r *http.Request) (string, bool) {
	name := strings.TrimSpace(r.PathValue("name"))
	if name == "" || strings.ContainsAny(name, `/\`) {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, storage.ErrInvalidKey)
		return "", false
	}
	return library.ArchiveKey(library.RequestOwner(r), name), true
}
