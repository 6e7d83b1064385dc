package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func preflight(t *testing.T, requestHeaders string) *httptest.ResponseRecorder {
	t.Helper()

	handler := CORSMiddleware(nil, true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", requestHeaders)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORSPreflightAllowsContentType(t *testing.T) {
	rec := preflight(t, "Content-Type")

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected wildcard allow origin, got %q", got)
	}
	if allowed := rec.Header().Get("Access-Control-Allow-Headers"); !strings.Contains(allowed, "Content-Type") {
		t.Errorf("Expected Content-Type to be allowed, got %q", allowed)
	}
}

func TestCORSPreflightRejectsAuthorizationHeader(t *testing.T) {
	rec := preflight(t, "Authorization")

	if allowed := rec.Header().Get("Access-Control-Allow-Headers"); strings.Contains(allowed, "Authorization") {
		t.Errorf("Authorization must not be an allowed header, got %q", allowed)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected preflight with disallowed header to be refused, got allow origin %q", got)
	}
}
