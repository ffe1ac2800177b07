package middleware

import (
	"context"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const adminContextKey contextKey = "admin"

// AdminChecker reads the persisted admin flag.
type AdminChecker interface {
	IsAdmin(ctx context.Context) bool
}

// Admin returns middleware that reads the admin flag once per request and
// stores it in the context. It does NOT block; use RequireAdmin for that.
func Admin(flags AdminChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") || r.URL.Path == "/healthz" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := ContextWithAdmin(r.Context(), flags.IsAdmin(r.Context()))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin blocks requests while the admin flag is off. Pages redirect
// to the password form; JSON endpoints get 403.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsAdmin(r.Context()) {
			next.ServeHTTP(w, r)
			return
		}
		if strings.HasPrefix(r.URL.Path, "/api/") {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
	})
}

// IsAdmin reports the flag stored by Admin.
func IsAdmin(ctx context.Context) bool {
	active, _ := ctx.Value(adminContextKey).(bool)
	return active
}

// ContextWithAdmin returns a context carrying the admin flag.
// Intended for use in tests and by Admin.
func ContextWithAdmin(ctx context.Context, active bool) context.Context {
	return context.WithValue(ctx, adminContextKey, active)
}
