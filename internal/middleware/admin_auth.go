package middleware

import (
	"net/http"
)

// AdminMiddleware gates the administrative CRUD routes behind a static
// token. An empty configured token disables the gate (local development).
func AdminMiddleware(adminToken string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if adminToken == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get("X-Admin-Token")
			if token == "" || token != adminToken {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
