package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kovzhu/mysite/internal/apperr"
	"github.com/kovzhu/mysite/internal/middleware"
	"github.com/kovzhu/mysite/internal/models"
	"github.com/kovzhu/mysite/internal/repository"
	"github.com/kovzhu/mysite/internal/service"
	"github.com/kovzhu/mysite/internal/storage"
)

// Gallery lists photos newest year first, optionally narrowed to one
// year via ?year=.
func (h *Handlers) Gallery(w http.ResponseWriter, r *http.Request) {
	// "all" and anything unparseable mean no filter, never a failed
	// request.
	filter := repository.AssetFilter{OrderByYear: true}
	if yearParam := r.URL.Query().Get("year"); yearParam != "" && yearParam != "all" {
		if year, err := strconv.Atoi(yearParam); err == nil {
			filter.Year = year
		}
	}

	page := pageParam(r)
	result, err := h.Service.Asset.List(r.Context(), storage.Gallery, filter, page)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, storage.Gallery, "photo")
}

func (h *Handlers) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())
	assetID := mux.Vars(r)["id"]

	if err := h.Service.Asset.Delete(r.Context(), caller, assetID); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handlers) LikePhoto(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())
	assetID := mux.Vars(r)["id"]

	liked, count, err := h.Service.Engagement.ToggleLike(r.Context(), caller, models.ContentPhoto, assetID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"liked": liked, "likes": count})
}

// handleUpload is the shared multipart ingestion path for the gallery
// and the collection galleries.
func (h *Handlers) handleUpload(w http.ResponseWriter, r *http.Request, ns storage.Namespace, field string) {
	caller := middleware.CallerFrom(r.Context())

	file, header, err := h.formFile(r, field)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	defer file.Close()

	asset, err := h.Service.Upload.Upload(r.Context(), caller, ns, service.UploadRequest{
		Filename:    header.Filename,
		File:        file,
		Size:        header.Size,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
	})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, asset)
}

func (h *Handlers) formFile(r *http.Request, field string) (multipart.File, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, h.Cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		return nil, nil, fmt.Errorf("%w: could not parse upload form", apperr.ErrValidation)
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: no file selected", apperr.ErrValidation)
	}
	return file, header, nil
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
