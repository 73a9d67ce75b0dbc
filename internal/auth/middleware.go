package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
)

type contextKey string

// userIDKey is the context key under which the gate stores the acting
// user's id.
const userIDKey = contextKey("userID")

// UserID returns the authenticated user's id from the request context.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// Middleware returns the auth gate: it extracts the bearer token from the
// Authorization header, verifies it, and stores the acting user id in the
// request context. Every failure gets the same 401 response; the failure
// kind only shows up in the log.
func (ts *TokenService) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				log.Warn().
					Str("reason", "missing_token").
					Str("path", r.URL.Path).
					Msg("Request rejected by auth gate")
				writeUnauthorized(w)
				return
			}

			userID, err := ts.Verify(tokenStr)
			if err != nil {
				log.Warn().
					Err(err).
					Str("path", r.URL.Path).
					Msg("Request rejected by auth gate")
				writeUnauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": "Invalid or missing token"})
}
