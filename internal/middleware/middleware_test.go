package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"infinite-experiment/engagesync/internal/auth"
	"infinite-experiment/engagesync/internal/common"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestHookAuthMiddleware(t *testing.T) {
	signer := common.NewHookTokenSigner([]byte("test-secret"))
	token, err := signer.Generate("lead-trigger", time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	var seenHook string
	handler := HookAuthMiddleware(signer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims := auth.GetHookClaims(r.Context()); claims != nil {
			seenHook = claims.HookName
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/records/dispatch", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	assert.Equal(t, "lead-trigger", seenHook)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2, "10.0.0.9")
	handler := rl.Middleware(http.HandlerFunc(okHandler))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1:5000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:5001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:5002"))

	// other clients have their own bucket
	assert.Equal(t, http.StatusOK, call("10.0.0.2:5000"))

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, call("10.0.0.9:5000"))
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, rec.Header().Get("X-Request-ID"), seen)
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "/api/v1/sync-definitions/{id}/mappings",
		NormalizeEndpoint("/api/v1/sync-definitions/6f1c2a8e-3b5d-4c1e-9a7f-2d4e6b8c0a11/mappings"))
	assert.Equal(t, "/api/v1/items/{id}", NormalizeEndpoint("/api/v1/items/42"))
	assert.Equal(t, "/api/v1/sync-logs", NormalizeEndpoint("/api/v1/sync-logs"))
}
