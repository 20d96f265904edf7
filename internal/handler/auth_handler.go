package handler

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/kovzhu/mysite/internal/middleware"
)

type registerRequest struct {
	Username        string `json:"username" validate:"required,min=3,max=32"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	// Next is the URL to resume after a login that interrupted a
	// browser action.
	Next string `json:"next"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	Username     string `json:"username"`
	Role         string `json:"role"`
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.Service.Auth.Register(r.Context(), req.Username, req.Password, req.ConfirmPassword)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, account)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, accessToken, refreshToken, err := h.Service.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.setSessionCookie(w, accessToken)

	if req.Next != "" && safeRedirect(req.Next) {
		http.Redirect(w, r, req.Next, http.StatusSeeOther)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Username:     account.Username,
		Role:         account.Role,
	})
}

func (h *Handlers) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	account, accessToken, refreshToken, err := h.Service.Auth.RefreshTokens(r.Context(), req.RefreshToken)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.setSessionCookie(w, accessToken)

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Username:     account.Username,
		Role:         account.Role,
	})
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// LoginPage exists so unauthenticated redirects land somewhere
// meaningful for API clients without a frontend.
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "authenticate via POST /api/auth/login",
		"next":    r.URL.Query().Get("next"),
	})
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, accessToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    accessToken,
		Path:     "/",
		Expires:  time.Now().Add(h.Cfg.AccessTokenDuration),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeRedirect rejects targets that would leave the site.
func safeRedirect(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == "" && len(target) > 0 && target[0] == '/'
}
