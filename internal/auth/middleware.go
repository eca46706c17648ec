package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const (
	userIDKey  contextKey = "user_id"
	isStaffKey contextKey = "is_staff"
)

// Middleware guards routes with JWT bearer authentication
type Middleware struct {
	jwt *JWTService
}

// NewMiddleware creates an auth middleware over the given JWT service
func NewMiddleware(jwt *JWTService) *Middleware {
	return &Middleware{jwt: jwt}
}

// RequireAuth rejects requests without a valid access token and
// stores the caller's identity in the request context
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := m.authenticate(w, r)
		if !ok {
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, isStaffKey, claims.IsStaff)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireStaff additionally rejects callers without the staff flag.
// Catalog mutations go through this.
func (m *Middleware) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := m.authenticate(w, r)
		if !ok {
			return
		}
		if !claims.IsStaff {
			respondAuthError(w, http.StatusForbidden, "insufficient permissions")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, isStaffKey, claims.IsStaff)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) authenticate(w http.ResponseWriter, r *http.Request) (*Claims, bool) {
	token := extractBearerToken(r)
	if token == "" {
		respondAuthError(w, http.StatusUnauthorized, "authorization token required")
		return nil, false
	}

	claims, err := m.jwt.ValidateToken(token)
	if err != nil {
		respondAuthError(w, http.StatusUnauthorized, "invalid token")
		return nil, false
	}
	if claims.Type != TokenTypeAccess {
		respondAuthError(w, http.StatusUnauthorized, "invalid token type")
		return nil, false
	}
	return claims, true
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

func respondAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// UserID returns the authenticated user's id from the request context
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// IsStaff reports whether the authenticated user carries the staff flag
func IsStaff(ctx context.Context) bool {
	staff, _ := ctx.Value(isStaffKey).(bool)
	return staff
}
