package auth

import (
	"net/http"
	"strings"
	"testing"

	"github.com/saturnines/catalog-export/pkg/errors"
)

// Helper functions for tests
func assertHeader(t *testing.T, req *http.Request, header, expected string) {
	t.Helper()
	if value := req.Header.Get(header); value != expected {
		t.Errorf("Expected %s header '%s', got '%s'", header, expected, value)
	}
}

func assertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	if err == nil {
		t.Errorf("Expected error containing '%s', got nil", expected)
		return
	}
	if !strings.Contains(err.Error(), expected) {
		t.Errorf("Expected error containing '%s', got '%s'", expected, err.Error())
	}
}

func TestAPIKeyAuth(t *testing.T) {
	t.Run("AccessTokenHeader", func(t *testing.T) {
		auth := NewAccessTokenAuth("shpat_123")
		req, _ := http.NewRequest("GET", "https://example.myshopify.com/admin/api/2024-04/products.json", nil)

		if err := auth.ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth failed: %v", err)
		}

		assertHeader(t, req, "X-Shopify-Access-Token", "shpat_123")
		if req.URL.RawQuery != "" {
			t.Errorf("Token must not leak into the query string, got %q", req.URL.RawQuery)
		}
	})

	t.Run("QueryBased", func(t *testing.T) {
		auth := NewAPIKeyAuth("", "api_key", "test-api-key")
		req, _ := http.NewRequest("GET", "https://api.example.com/data?limit=5", nil)

		if err := auth.ApplyAuth(req); err != nil {
			t.Fatalf("ApplyAuth failed: %v", err)
		}

		if got := req.URL.Query().Get("api_key"); got != "test-api-key" {
			t.Errorf("Expected api_key query param, got %q", got)
		}
		if got := req.URL.Query().Get("limit"); got != "5" {
			t.Errorf("Existing query params should survive, got limit=%q", got)
		}
	})

	t.Run("MissingValue", func(t *testing.T) {
		auth := NewAccessTokenAuth("")
		req, _ := http.NewRequest("GET", "https://api.example.com/data", nil)

		err := auth.ApplyAuth(req)
		assertErrorContains(t, err, "API key value is required")
		if !errors.Is(err, errors.ErrConfiguration) {
			t.Errorf("Expected ErrConfiguration, got %v", err)
		}
	})

	t.Run("MissingHeaderAndQuery", func(t *testing.T) {
		auth := NewAPIKeyAuth("", "", "test-api-key")
		req, _ := http.NewRequest("GET", "https://api.example.com/data", nil)

		assertErrorContains(t, auth.ApplyAuth(req), "requires either header name or query parameter name")
	})

	t.Run("Clear", func(t *testing.T) {
		auth := NewAccessTokenAuth("shpat_123")
		auth.Clear()
		req, _ := http.NewRequest("GET", "https://api.example.com/data", nil)

		assertErrorContains(t, auth.ApplyAuth(req), "API key value is required")
		assertHeader(t, req, AccessTokenHeader, "")
	})

	t.Run("StringMethod", func(t *testing.T) {
		str := NewAccessTokenAuth("shpat_123").String()
		if !strings.Contains(str, AccessTokenHeader) {
			t.Errorf("String() should contain header name, got: %s", str)
		}
		if strings.Contains(str, "shpat_123") {
			t.Errorf("String() should not contain the token, got: %s", str)
		}
	})
}
