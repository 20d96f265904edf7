package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kovzhu/mysite/internal/auth"
	"github.com/kovzhu/mysite/internal/service"
)

type Middleware func(http.Handler) http.Handler

type contextKey struct{ name string }

var callerKey = contextKey{"caller"}

// SessionCookie carries the access token for browser requests; API
// clients use the Authorization header instead.
const SessionCookie = "session"

// Identity resolves the current caller from a bearer token or the
// session cookie and stores it in the request context. It never rejects:
// requests without (or with invalid) credentials continue as anonymous,
// and the access policy decides downstream.
func Identity(authService service.AuthService, logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := bearerToken(r)
			if tokenString == "" {
				if cookie, err := r.Cookie(SessionCookie); err == nil {
					tokenString = cookie.Value
				}
			}

			if tokenString != "" {
				caller, err := authService.CallerFromToken(tokenString)
				if err == nil {
					r = r.WithContext(WithCaller(r.Context(), caller))
				} else {
					logger.Debug("ignoring invalid token", "error", err)
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func WithCaller(ctx context.Context, caller auth.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFrom returns the request's caller; anonymous when none was
// resolved.
func CallerFrom(ctx context.Context) auth.Caller {
	caller, _ := ctx.Value(callerKey).(auth.Caller)
	return caller
}

func Logging(logger *slog.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start),
			)
		})
	}
}

func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		h = m(h)
	}
	return h
}
