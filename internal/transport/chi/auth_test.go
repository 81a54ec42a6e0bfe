package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serveAuth(p AuthPolicy, method, path, authorization string) *httptest.ResponseRecorder {
	handler := BearerAuthMiddleware(p)(okHandler())
	req := httptest.NewRequest(method, path, http.NoBody)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	for _, keys := range [][]string{nil, {"", ""}} {
		if rr := serveAuth(AuthPolicy{APIKeys: keys}, http.MethodDelete, "/v1/cache", ""); rr.Code != http.StatusOK {
			t.Errorf("keys %q: got %d, want %d", keys, rr.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	tests := []struct {
		name          string
		authorization string
	}{
		{"missing header", ""},
		{"basic scheme", "Basic dXNlcjpwYXNz"},
		{"empty token", "Bearer "},
		{"invalid token", "Bearer wrong-key"},
		{"key prefix", "Bearer secre"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveAuth(AuthPolicy{APIKeys: []string{"secret"}}, http.MethodGet, "/v1/procedures", tt.authorization)
			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("got %d, want %d", rr.Code, http.StatusUnauthorized)
			}
			if rr.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != ErrorCodeUnauthorized {
				t.Errorf("error code: got %s, want %s", errResp.Code, ErrorCodeUnauthorized)
			}
		})
	}
}

func TestAuthMiddleware_ValidKeys(t *testing.T) {
	p := AuthPolicy{APIKeys: []string{"key1", "key2"}}
	for _, header := range []string{"Bearer key1", "Bearer key2", "bearer key1"} {
		if rr := serveAuth(p, http.MethodGet, "/v1/cache", header); rr.Code != http.StatusOK {
			t.Errorf("%q: got %d, want %d", header, rr.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware_ExemptPaths(t *testing.T) {
	for _, path := range []string{"/health", "/metrics"} {
		if rr := serveAuth(AuthPolicy{APIKeys: []string{"secret"}}, http.MethodGet, path, ""); rr.Code != http.StatusOK {
			t.Errorf("exempt path %s: got %d, want %d", path, rr.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware_PublicReads(t *testing.T) {
	p := AuthPolicy{APIKeys: []string{"secret"}, PublicReads: true}
	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/v1/charts/OAK", http.StatusOK},
		{http.MethodHead, "/v1/procedures", http.StatusOK},
		{http.MethodDelete, "/v1/cache", http.StatusUnauthorized},
		{http.MethodDelete, "/v1/cache/OAK", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		if rr := serveAuth(p, tt.method, tt.path, ""); rr.Code != tt.want {
			t.Errorf("%s %s: got %d, want %d", tt.method, tt.path, rr.Code, tt.want)
		}
	}
}
