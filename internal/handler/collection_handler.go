package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kovzhu/mysite/internal/middleware"
	"github.com/kovzhu/mysite/internal/repository"
	"github.com/kovzhu/mysite/internal/storage"
)

// Collection serves any of the themed side galleries; the collection
// name in the path selects the namespace.
func (h *Handlers) Collection(w http.ResponseWriter, r *http.Request) {
	ns, ok := storage.CollectionByName(mux.Vars(r)["name"])
	if !ok {
		writeError(w, http.StatusNotFound, "unknown collection")
		return
	}

	result, err := h.Service.Asset.List(r.Context(), ns, repository.AssetFilter{}, pageParam(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) UploadToCollection(w http.ResponseWriter, r *http.Request) {
	ns, ok := storage.CollectionByName(mux.Vars(r)["name"])
	if !ok {
		writeError(w, http.StatusNotFound, "unknown collection")
		return
	}

	h.handleUpload(w, r, ns, "file")
}

func (h *Handlers) DeleteFromCollection(w http.ResponseWriter, r *http.Request) {
	if _, ok := storage.CollectionByName(mux.Vars(r)["name"]); !ok {
		writeError(w, http.StatusNotFound, "unknown collection")
		return
	}

	caller := middleware.CallerFrom(r.Context())
	if err := h.Service.Asset.Delete(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
