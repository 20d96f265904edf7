package handler

import (
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/gorilla/mux"

	"github.com/kovzhu/mysite/internal/apperr"
	"github.com/kovzhu/mysite/internal/middleware"
	"github.com/kovzhu/mysite/internal/repository"
	"github.com/kovzhu/mysite/internal/service"
	"github.com/kovzhu/mysite/internal/storage"
)

// LibraryIndex lists the book categories. The library itself is for
// signed-in readers; anonymous visitors are sent to login.
func (h *Handlers) LibraryIndex(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())
	if caller.Anonymous() {
		h.respondError(w, r, fmt.Errorf("%w: login required for the library", apperr.ErrUnauthenticated))
		return
	}

	categories, err := h.Service.Category.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (h *Handlers) LibraryCategory(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())
	if caller.Anonymous() {
		h.respondError(w, r, fmt.Errorf("%w: login required for the library", apperr.ErrUnauthenticated))
		return
	}

	category, err := h.Service.Category.GetByName(r.Context(), mux.Vars(r)["category"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	filter := repository.AssetFilter{Category: category.Name}
	result, err := h.Service.Asset.List(r.Context(), storage.Library, filter, pageParam(r))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"books":    result,
	})
}

func (h *Handlers) UploadBook(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	category, err := h.Service.Category.GetByName(r.Context(), mux.Vars(r)["category"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	file, header, err := h.formFile(r, "file")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	defer file.Close()

	// An absent public field means the default (visible); only an
	// explicit value overrides it.
	var public *bool
	if r.Form.Has("public") {
		v := r.FormValue("public") == "on" || r.FormValue("public") == "true"
		public = &v
	}

	asset, err := h.Service.Upload.Upload(r.Context(), caller, storage.Library.Sub(category.Name), service.UploadRequest{
		Filename:    header.Filename,
		File:        file,
		Size:        header.Size,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Category:    category.Name,
		Public:      public,
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, asset)
}

// DownloadBook streams a library document. Visibility is enforced in
// the service: public books need a signed-in reader, private ones a
// member.
func (h *Handlers) DownloadBook(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	reader, asset, err := h.Service.Asset.Download(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(filepath.Ext(asset.OriginalFilename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", asset.OriginalFilename))

	if _, err := io.Copy(w, reader); err != nil {
		h.Logger.Error("download interrupted", "asset", asset.AssetID, "error", err)
	}
}

func (h *Handlers) DeleteBook(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	if err := h.Service.Asset.Delete(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
