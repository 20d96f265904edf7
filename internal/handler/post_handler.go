package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kovzhu/mysite/internal/middleware"
	"github.com/kovzhu/mysite/internal/service"
)

// postRequest reads a multipart post form. The media part is optional;
// everything else comes from the plain form fields.
func (h *Handlers) postRequest(r *http.Request) (service.CreatePostRequest, func()) {
	req := service.CreatePostRequest{}
	cleanup := func() {}

	file, header, err := h.formFile(r, "media")
	if err == nil {
		cleanup = func() { file.Close() }
		req.Media = &service.MediaUpload{
			Filename: header.Filename,
			File:     file,
			Size:     header.Size,
		}
	}
	req.Title = r.FormValue("title")
	req.Content = r.FormValue("content")
	req.Labels = r.FormValue("labels")
	return req, cleanup
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	req, cleanup := h.postRequest(r)
	defer cleanup()

	post, err := h.Service.Post.Create(r.Context(), caller, req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.Service.Post.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	comments, err := h.Service.Engagement.ListComments(r.Context(), "post", post.PostID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"post":     post,
		"comments": comments,
	})
}

// ListPosts returns all posts, optionally narrowed by ?label=.
func (h *Handlers) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.Service.Post.List(r.Context(), r.URL.Query().Get("label"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	labels, err := h.Service.Post.ListLabels(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"posts":  posts,
		"labels": labels,
	})
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	req, cleanup := h.postRequest(r)
	defer cleanup()

	post, err := h.Service.Post.Update(r.Context(), caller, mux.Vars(r)["id"], req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	if err := h.Service.Post.Delete(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
