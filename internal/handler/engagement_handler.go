package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/kovzhu/mysite/internal/middleware"
	"github.com/kovzhu/mysite/internal/models"
)

type commentRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func (h *Handlers) AddPostComment(w http.ResponseWriter, r *http.Request) {
	h.addComment(w, r, models.ContentPost)
}

func (h *Handlers) AddPhotoComment(w http.ResponseWriter, r *http.Request) {
	h.addComment(w, r, models.ContentPhoto)
}

func (h *Handlers) addComment(w http.ResponseWriter, r *http.Request, contentType string) {
	caller := middleware.CallerFrom(r.Context())

	var req commentRequest
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		req.Content = r.FormValue("content")
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "comment content is required")
		return
	}

	comment, err := h.Service.Engagement.AddComment(r.Context(), caller, contentType, mux.Vars(r)["id"], req.Content)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	if err := h.Service.Engagement.DeleteComment(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handlers) LikePost(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	liked, count, err := h.Service.Engagement.ToggleLike(r.Context(), caller, models.ContentPost, mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"liked": liked, "likes": count})
}
