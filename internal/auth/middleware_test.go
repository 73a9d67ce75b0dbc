package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func gateTestHandler(t *testing.T, wantUserID string) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := UserID(r.Context())
		if !ok {
			t.Error("user id missing from context behind the gate")
		}
		if userID != wantUserID {
			t.Errorf("user id mismatch: got %q want %q", userID, wantUserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_ValidToken(t *testing.T) {
	t.Parallel()

	ts := NewTokenService([]byte("secret"), time.Hour)
	tok, err := ts.Issue("user-42")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	handler := ts.Middleware()(gateTestHandler(t, "user-42"))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestMiddleware_Rejections(t *testing.T) {
	t.Parallel()

	ts := NewTokenService([]byte("secret"), time.Hour)
	expired := NewTokenService([]byte("secret"), -time.Minute)
	foreign := NewTokenService([]byte("other-secret"), time.Hour)

	expiredTok, err := expired.Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	foreignTok, err := foreign.Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"expired token", "Bearer " + expiredTok},
		{"foreign signature", "Bearer " + foreignTok},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := ts.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Error("gate let the request through")
			}))

			req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			// Every rejection looks the same to the client.
			if body := rec.Body.String(); body != "{\"message\":\"Invalid or missing token\"}\n" {
				t.Fatalf("unexpected body: %s", body)
			}
		})
	}
}
