package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pthm/listctl"
)

func setupServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := &Config{Manifest: "testdata/missing.json"}
	cfg.defaults()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv, views, err := newServer(cfg, setupStore(t), logger)
	if err != nil {
		t.Fatal(err)
	}
	return srv.routes(views)
}

func get(t *testing.T, h http.Handler, target string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestProductsPage(t *testing.T) {
	h := setupServer(t)

	tests := []struct {
		name    string
		target  string
		want    []string
		notWant []string
	}{
		{
			name:   "default grid",
			target: "/products",
			want:   []string{`<ul class="grid">`, "Trail boots", `id="admin-list-controls"`, "window.admin_list_controls_initial_state"},
		},
		{
			name:    "name filter",
			target:  "/products?name=boots",
			want:    []string{"Trail boots"},
			notWant: []string{"Wool socks"},
		},
		{
			name:    "table layout and categories",
			target:  "/products?layout=table&category=outerwear",
			want:    []string{"<table>", "Rain jacket", "Down parka"},
			notWant: []string{"Trail boots", `<ul class="grid">`},
		},
		{
			name:    "in stock",
			target:  "/products?in_stock=1",
			notWant: []string{"Canvas sneakers", "Down parka"},
		},
		{
			name:   "no results",
			target: "/products?name=zzz",
			want:   []string{"No products match."},
		},
		{
			name:    "declared catalog",
			target:  "/catalog?category=shoes",
			want:    []string{"Canvas sneakers", "Trail boots"},
			notWant: []string{"Wool socks"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, tt.target)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			body := rec.Body.String()
			for _, s := range tt.want {
				if !strings.Contains(body, s) {
					t.Errorf("body missing %q", s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(body, s) {
					t.Errorf("body contains %q", s)
				}
			}
		})
	}
}

func TestProductsSortOrder(t *testing.T) {
	h := setupServer(t)
	body := get(t, h, "/products?sort=price-asc").Body.String()

	socks := strings.Index(body, "Wool socks")
	parka := strings.Index(body, "Down parka")
	if socks < 0 || parka < 0 || socks > parka {
		t.Errorf("expected cheapest first (socks at %d, parka at %d)", socks, parka)
	}
}

func TestProductsStateJSON(t *testing.T) {
	h := setupServer(t)
	rec := get(t, h, "/products?layout=table", "Accept", "application/json")

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"admin_list_controls"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRegistryEndpoint(t *testing.T) {
	h := setupServer(t)

	rec := get(t, h, "/_lc/catalog/?sort=price-desc")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get(listctl.StateHeader) == "" {
		t.Error("missing state token header")
	}

	if rec := get(t, h, "/_lc/nope/"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown view status = %d", rec.Code)
	}
}

func TestMetrics(t *testing.T) {
	h := setupServer(t)
	get(t, h, "/products?layout=table")
	get(t, h, "/products")

	body := get(t, h, "/metrics").Body.String()
	for _, want := range []string{
		`listctl_binds_total{layout="table",view="products"} 1`,
		`listctl_binds_total{layout="grid",view="products"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestIndexRedirects(t *testing.T) {
	rec := get(t, setupServer(t), "/")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/products" {
		t.Errorf("status = %d, location = %q", rec.Code, rec.Header().Get("Location"))
	}
}
