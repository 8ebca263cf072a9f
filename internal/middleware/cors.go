// Package middleware is the HTTP middleware stack for the travel warnings
// API: CORS for browser clients, structured request logging, and request
// body limits.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// NewCORSHandler restricts browser access to the configured origins. Entries
// must be full origins (scheme + host, no trailing slash). The method list
// covers trip CRUD plus the manual refresh trigger.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
