package auth

import (
	"net/http"
	"os"
	"strings"
)

// AdminAuthMiddleware guards the admin subrouter with the bearer token from
// ADMIN_TOKEN. Session handling for patients and doctors lives in the
// frontend gateway, not here.
func AdminAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		expected := os.Getenv("ADMIN_TOKEN")
		token := r.Header.Get("Authorization")
		if expected == "" || !strings.HasPrefix(token, "Bearer ") || strings.TrimPrefix(token, "Bearer ") != expected {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
