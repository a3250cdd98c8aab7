// Package api implements the resource REST API using chi.
package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORSMiddleware allows the configured origins. An empty list or "*" allows
// any origin. Credentials are only allowed for an explicit origin list,
// since browsers refuse them alongside a wildcard.
func CORSMiddleware(origins []string) func(http.Handler) http.Handler {
	allowed := make([]string, 0, len(origins))
	wildcard := false
	for _, o := range origins {
		if o = strings.TrimSpace(o); o != "" {
			allowed = append(allowed, o)
			wildcard = wildcard || o == "*"
		}
	}
	if len(allowed) == 0 {
		allowed = []string{"*"}
		wildcard = true
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowed,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: !wildcard,
		MaxAge:           300,
	})
}
