package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/kovzhu/mysite/internal/middleware"
	"github.com/kovzhu/mysite/internal/models"
	"github.com/kovzhu/mysite/internal/service"
	"github.com/kovzhu/mysite/internal/storage"
)

const teaserCount = 6

// Home serves the landing page data: a handful of recent photos,
// recent posts, and the project showcase.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	photos, err := h.Service.Asset.Recent(r.Context(), storage.Gallery, teaserCount)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	posts, err := h.Service.Post.List(r.Context(), "")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if len(posts) > teaserCount {
		posts = posts[:teaserCount]
	}

	projects, err := h.Service.Site.ListProjects(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"photos":   photos,
		"posts":    posts,
		"projects": projects,
	})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.HealthCheck(); err != nil {
		h.Logger.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}

	tables, err := h.DB.TableCount()
	if err != nil {
		h.Logger.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "tables": tables})
}

type contactRequest struct {
	Name    string `json:"name" validate:"required,max=128"`
	Email   string `json:"email" validate:"omitempty,email"`
	Content string `json:"content" validate:"required,max=4000"`
}

func (h *Handlers) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	} else {
		req.Name = r.FormValue("name")
		req.Email = r.FormValue("email")
		req.Content = r.FormValue("content")
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	caller := middleware.CallerFrom(r.Context())
	message, err := h.Service.Site.SubmitMessage(r.Context(), caller, req.Name, req.Email, req.Content)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, message)
}

// AddProject records a showcase project; an optional image goes through
// the usual upload pipeline first.
func (h *Handlers) AddProject(w http.ResponseWriter, r *http.Request) {
	caller := middleware.CallerFrom(r.Context())

	project := &models.Project{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		URL:         r.FormValue("url"),
	}
	if yearValue := r.FormValue("year"); yearValue != "" {
		year, err := strconv.Atoi(yearValue)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		project.Year = year
	}

	if file, header, err := h.formFile(r, "project_image"); err == nil {
		defer file.Close()
		asset, err := h.Service.Upload.Upload(r.Context(), caller, storage.ProjectImages, service.UploadRequest{
			Filename: header.Filename,
			File:     file,
			Size:     header.Size,
			Title:    project.Title,
		})
		if err != nil {
			h.respondError(w, r, err)
			return
		}
		project.ImageFilename = asset.StoredPath
	}

	if err := h.Service.Site.AddProject(r.Context(), caller, project); err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, project)
}
