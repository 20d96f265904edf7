package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/kovzhu/mysite/cmd/app"
	"github.com/kovzhu/mysite/internal/config"
	"github.com/kovzhu/mysite/internal/handler"
	"github.com/kovzhu/mysite/internal/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.LoadConfig()
	if cfg.JWTSecretKey == "" {
		logger.Error("JWT_SECRET_KEY is not set")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	h := handler.NewHandlers(application.Service, application.DB, cfg, logger)
	router := newRouter(h)

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: middleware.Chain(router,
			middleware.Identity(application.Service.Auth, logger),
			middleware.CORS,
			middleware.Logging(logger),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func newRouter(h *handler.Handlers) *mux.Router {
	r := mux.NewRouter()

	// Auth.
	r.HandleFunc("/api/auth/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/refresh-token", h.RefreshToken).Methods(http.MethodPost)
	r.HandleFunc("/login", h.LoginPage).Methods(http.MethodGet)
	r.HandleFunc("/logout", h.Logout).Methods(http.MethodGet)

	// Site.
	r.HandleFunc("/", h.Home).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/contact", h.Contact).Methods(http.MethodPost)
	r.HandleFunc("/api/projects", h.AddProject).Methods(http.MethodPost)

	// Photo gallery.
	r.HandleFunc("/gallery", h.Gallery).Methods(http.MethodGet)
	r.HandleFunc("/upload_photo", h.UploadPhoto).Methods(http.MethodPost)
	r.HandleFunc("/photos/{id}/delete", h.DeletePhoto).Methods(http.MethodPost)
	r.HandleFunc("/photos/{id}/like", h.LikePhoto).Methods(http.MethodPost)
	r.HandleFunc("/photos/{id}/comment", h.AddPhotoComment).Methods(http.MethodPost)

	// Themed collections.
	r.HandleFunc("/collections/{name}", h.Collection).Methods(http.MethodGet)
	r.HandleFunc("/collections/{name}/upload", h.UploadToCollection).Methods(http.MethodPost)
	r.HandleFunc("/collections/{name}/{id}/delete", h.DeleteFromCollection).Methods(http.MethodPost)

	// Library.
	r.HandleFunc("/library", h.LibraryIndex).Methods(http.MethodGet)
	r.HandleFunc("/library/download/{id}", h.DownloadBook).Methods(http.MethodGet)
	r.HandleFunc("/library/{id}/delete", h.DeleteBook).Methods(http.MethodPost)
	r.HandleFunc("/library/{category}", h.LibraryCategory).Methods(http.MethodGet)
	r.HandleFunc("/library/{category}/upload", h.UploadBook).Methods(http.MethodPost)

	// Blog.
	r.HandleFunc("/api/posts", h.ListPosts).Methods(http.MethodGet)
	r.HandleFunc("/api/posts", h.CreatePost).Methods(http.MethodPost)
	r.HandleFunc("/api/posts/{id}", h.GetPost).Methods(http.MethodGet)
	r.HandleFunc("/api/posts/{id}", h.UpdatePost).Methods(http.MethodPut)
	r.HandleFunc("/api/posts/{id}/delete", h.DeletePost).Methods(http.MethodPost)
	r.HandleFunc("/api/posts/{id}/comment", h.AddPostComment).Methods(http.MethodPost)
	r.HandleFunc("/api/posts/{id}/like", h.LikePost).Methods(http.MethodPost)
	r.HandleFunc("/comments/{id}/delete", h.DeleteComment).Methods(http.MethodPost)

	// Admin.
	r.HandleFunc("/admin/users", h.ListUsers).Methods(http.MethodGet)
	r.HandleFunc("/admin/users/{id}/role", h.UpdateUserRole).Methods(http.MethodPost)
	r.HandleFunc("/admin/users/{id}/delete", h.DeleteUser).Methods(http.MethodPost)
	r.HandleFunc("/admin/messages", h.ListMessages).Methods(http.MethodGet)
	r.HandleFunc("/admin/categories", h.ListCategories).Methods(http.MethodGet)
	r.HandleFunc("/admin/categories", h.CreateCategory).Methods(http.MethodPost)
	r.HandleFunc("/admin/categories/{id}/rename", h.RenameCategory).Methods(http.MethodPost)
	r.HandleFunc("/admin/categories/{id}/delete", h.DeleteCategory).Methods(http.MethodPost)

	return r
}
