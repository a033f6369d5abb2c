package shopify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/saturnines/catalog-export/pkg/errors"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	sess, err := NewSession("example.myshopify.com", "2024-04", "shpat_test")
	if err != nil {
		t.Fatal(err)
	}
	return sess
}

func TestClient_Products_Pagination(t *testing.T) {
	var calls int32
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)

		if r.URL.Path != "/admin/api/2024-04/products.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("X-Shopify-Access-Token"); got != "shpat_test" {
			t.Errorf("expected access token header, got %q", got)
		}
		if got := r.URL.Query().Get("limit"); got != "2" {
			t.Errorf("expected limit=2, got %q", got)
		}
		if got := r.URL.Query().Get("fields"); got != "id,title,handle" {
			t.Errorf("expected fields projection, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page_info") {
		case "":
			w.Header().Set("Link", fmt.Sprintf(`<%s/admin/api/2024-04/products.json?limit=2&fields=id,title,handle&page_info=p2>; rel="next"`, server.URL))
			fmt.Fprint(w, `{"products":[{"id":1,"title":"A","handle":"a"},{"id":2,"title":"B","handle":"b"}]}`)
		case "p2":
			w.Header().Set("Link", fmt.Sprintf(`<%s/admin/api/2024-04/products.json?limit=2&fields=id,title,handle&page_info=p1>; rel="previous"`, server.URL))
			fmt.Fprint(w, `{"products":[{"id":3,"title":"Ç","handle":"c","variants":[{"id":30,"price":"9.99","sku":null}]}]}`)
		default:
			t.Errorf("unexpected page_info %q", r.URL.Query().Get("page_info"))
		}
	}))
	defer server.Close()

	client := NewClient(
		WithBaseURL(server.URL),
		WithFields("id", "title", "handle"),
		WithPageSize(2),
	)

	products, err := client.Products(context.Background(), newTestSession(t))
	if err != nil {
		t.Fatalf("Products failed: %v", err)
	}

	if len(products) != 3 {
		t.Fatalf("expected 3 products across pages, got %d", len(products))
	}
	if calls != 2 {
		t.Errorf("expected 2 requests, got %d", calls)
	}
	if products[2].ID != 3 || *products[2].Title != "Ç" {
		t.Errorf("unexpected third product: %+v", products[2])
	}
	v := products[2].Variants[0]
	if v.SKU != nil || v.InventoryQuantity != nil || *v.Price != "9.99" {
		t.Errorf("unexpected variant decoding: %+v", v)
	}
}

func TestClient_Products_Empty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"products":[]}`)
	}))
	defer server.Close()

	products, err := NewClient(WithBaseURL(server.URL)).Products(context.Background(), newTestSession(t))
	if err != nil {
		t.Fatalf("Products failed: %v", err)
	}
	if products == nil || len(products) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", products)
	}
}

func TestClient_Products_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    error
		message string
	}{
		{"unauthorized", 401, `{"errors":"[API] Invalid API key or access token"}`, errors.ErrUnauthorized, "Unauthorized access"},
		{"forbidden", 403, `{"errors":"[API] This action requires merchant approval"}`, errors.ErrForbidden, "insufficient permissions"},
		{"not found", 404, `{"errors":"Not Found"}`, errors.ErrNotFound, "Resource not found"},
		{"server", 500, `{"errors":"Internal Server Error"}`, errors.ErrServer, "Shopify server error: Internal Server Error"},
		{"bad json", 200, `{"products":[`, errors.ErrHTTPResponse, "Unexpected error"},
		{"no envelope", 200, `{"shop":{}}`, errors.ErrExtraction, "Unexpected error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			products, err := NewClient(WithBaseURL(server.URL)).Products(context.Background(), newTestSession(t))
			if products != nil {
				t.Errorf("expected nil products on failure, got %v", products)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if got := errors.Classify(err); !strings.Contains(got, tt.message) {
				t.Errorf("expected classification containing %q, got %q", tt.message, got)
			}
		})
	}
}

func TestClient_Products_FailureOnLaterPageDiscardsAll(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page_info") == "" {
			w.Header().Set("Link", fmt.Sprintf(`<%s/admin/api/2024-04/products.json?page_info=p2>; rel="next"`, server.URL))
			fmt.Fprint(w, `{"products":[{"id":1,"handle":"a"}]}`)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	products, err := NewClient(WithBaseURL(server.URL)).Products(context.Background(), newTestSession(t))
	if products != nil {
		t.Errorf("expected partial results to be discarded, got %v", products)
	}
	if !errors.Is(err, errors.ErrServer) {
		t.Errorf("expected server error, got %v", err)
	}
}

func TestClient_Products_ClosedSession(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	sess := newTestSession(t)
	sess.Close()

	_, err := NewClient(WithBaseURL(server.URL)).Products(context.Background(), sess)
	if !errors.Is(err, errors.ErrAuthentication) {
		t.Errorf("expected authentication error, got %v", err)
	}
	if calls != 0 {
		t.Errorf("closed session must not reach the network, got %d calls", calls)
	}
}

func TestClient_Products_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(WithBaseURL(url)).Products(context.Background(), newTestSession(t))
	if !errors.Is(err, errors.ErrHTTPRequest) {
		t.Errorf("expected request error, got %v", err)
	}
}
