package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/allisson/fieldcrypt/internal/config"
)

func TestNewCORSMiddleware_NotInstalled(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{name: "disabled", cfg: &config.Config{CORSAllowOrigins: "https://app.example.com"}},
		{name: "no origins", cfg: &config.Config{CORSEnabled: true}},
		{name: "only unusable origins", cfg: &config.Config{CORSEnabled: true, CORSAllowOrigins: " , app.example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, newCORSMiddleware(tt.cfg, discardLogger()))
		})
	}
}

func TestSplitOrigins(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "empty", raw: "", want: nil},
		{
			name: "trims whitespace and trailing slash",
			raw:  " https://app.example.com/ , http://localhost:3000 ",
			want: []string{"https://app.example.com", "http://localhost:3000"},
		},
		{
			name: "drops duplicates and blanks",
			raw:  "https://app.example.com,,https://app.example.com/",
			want: []string{"https://app.example.com"},
		},
		{
			name: "skips origins without scheme",
			raw:  "app.example.com,https://admin.example.com",
			want: []string{"https://admin.example.com"},
		},
		{name: "wildcard", raw: "*", want: []string{"*"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, splitOrigins(tt.raw, discardLogger()))
		})
	}
}

func TestServer_CORS(t *testing.T) {
	cfg := &config.Config{CORSEnabled: true, CORSAllowOrigins: "https://app.example.com"}
	server, _ := createTestServer(t, context.Background(), cfg, nil)
	handler := server.GetHandler()

	preflight := func(origin, method string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodOptions, "/v1/customers", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", method)
		handler.ServeHTTP(w, req)
		return w
	}

	t.Run("preflight for creating customers", func(t *testing.T) {
		w := preflight("https://app.example.com", http.MethodPost)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "GET,POST,OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight from an unknown origin", func(t *testing.T) {
		w := preflight("https://evil.example.com", http.MethodPost)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("simple request exposes the request id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://app.example.com")
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Request-Id")
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
	})

	t.Run("disabled", func(t *testing.T) {
		server, _ := createTestServer(t, context.Background(), &config.Config{}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.Header.Set("Origin", "https://app.example.com")
		server.GetHandler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}
