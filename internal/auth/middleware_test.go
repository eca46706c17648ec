package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	jwtService := NewJWTService("test-secret", 15*time.Minute, time.Hour)
	middleware := NewMiddleware(jwtService)

	access, refresh, err := jwtService.GenerateTokenPair(42, false)
	require.NoError(t, err)

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectNext     bool
	}{
		{name: "valid token", header: "Bearer " + access, expectedStatus: http.StatusOK, expectNext: true},
		{name: "missing header", header: "", expectedStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Token " + access, expectedStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer nonsense", expectedStatus: http.StatusUnauthorized},
		{name: "refresh token rejected", header: "Bearer " + refresh, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true

				userID, ok := UserID(r.Context())
				assert.True(t, ok)
				assert.Equal(t, int64(42), userID)
				assert.False(t, IsStaff(r.Context()))
			})

			req := httptest.NewRequest(http.MethodGet, "/api/stations", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			middleware.RequireAuth(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectNext, nextCalled)
		})
	}
}

func TestRequireStaff(t *testing.T) {
	jwtService := NewJWTService("test-secret", 15*time.Minute, time.Hour)
	middleware := NewMiddleware(jwtService)

	tests := []struct {
		name           string
		isStaff        bool
		expectedStatus int
		expectNext     bool
	}{
		{name: "staff passes", isStaff: true, expectedStatus: http.StatusOK, expectNext: true},
		{name: "regular user forbidden", isStaff: false, expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access, _, err := jwtService.GenerateTokenPair(7, tt.isStaff)
			require.NoError(t, err)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				assert.True(t, IsStaff(r.Context()))
			})

			req := httptest.NewRequest(http.MethodPost, "/api/stations", nil)
			req.Header.Set("Authorization", "Bearer "+access)
			rec := httptest.NewRecorder()

			middleware.RequireStaff(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectNext, nextCalled)
		})
	}
}

func TestUserID_MissingFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := UserID(req.Context())
	assert.False(t, ok)
	assert.False(t, IsStaff(req.Context()))
}
