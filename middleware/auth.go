package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"studyquiz/services"
)

type contextKey string

const userIDKey contextKey = "userID"

// Auth validates the Bearer token on every request and stores the
// authenticated user's ID in the request context.
func Auth(authService *services.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeUnauthorized(w, "Authorization header is required")
				return
			}

			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				writeUnauthorized(w, "Authorization header must use the Bearer scheme")
				return
			}

			userID, err := authService.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user's ID set by Auth, or "" when the
// request did not pass through the middleware.
func UserID(r *http.Request) string {
	if userID, ok := r.Context().Value(userIDKey).(string); ok {
		return userID
	}
	return ""
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
