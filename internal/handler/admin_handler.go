package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kovzhu/mysite/internal/middleware"
)

func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	users, err := h.Service.User.ListUsers(r.Context(), caller)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

type roleRequest struct {
	Role string `json:"role" validate:"required"`
}

func (h *Handlers) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.Role = r.FormValue("role")
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "role is required")
		return
	}

	if err := h.Service.User.UpdateRole(r.Context(), caller, mux.Vars(r)["id"], req.Role); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *Handlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	if err := h.Service.User.DeleteUser(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handlers) ListMessages(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	messages, err := h.Service.Site.ListMessages(r.Context(), caller)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Service.Category.List(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

type categoryRequest struct {
	Name         string `json:"name" validate:"required,max=64"`
	Icon         string `json:"icon"`
	DisplayOrder int    `json:"displayOrder"`
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	category, err := h.Service.Category.Create(r.Context(), caller, req.Name, req.Icon, req.DisplayOrder)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, category)
}

func (h *Handlers) RenameCategory(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		req.Name = r.FormValue("name")
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := h.Service.Category.Rename(r.Context(), caller, mux.Vars(r)["id"], req.Name); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "renamed"})
}

func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	if err := h.Service.Category.Delete(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
