package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/siamstore/storefront/internal/backend"
	"github.com/siamstore/storefront/internal/handlers"
)

func TestCategoryProductsNumericIDSingleCall(t *testing.T) {
	env := newTestEnv(t)

	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"products":[{"id":1}]}`))
	}))
	t.Cleanup(srv.Close)

	h := &handlers.CatalogHandler{Backend: backend.New(srv.URL, 5*time.Second)}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/categories/12/products", nil)
	c.SetParamNames("slug")
	c.SetParamValues("12")

	require.NoError(t, h.GetCategoryProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"products":[{"id":1}]}`, rec.Body.String())
	require.Equal(t, []string{"/categories/12/products"}, paths)
}

func TestCategoryProductsNumericIDRelays404(t *testing.T) {
	env := newTestEnv(t)

	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false}`))
	}))
	t.Cleanup(srv.Close)

	h := &handlers.CatalogHandler{Backend: backend.New(srv.URL, 5*time.Second)}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/categories/99/products", nil)
	c.SetParamNames("slug")
	c.SetParamValues("99")

	require.NoError(t, h.GetCategoryProducts(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	// relayed as-is, no tree search
	require.Equal(t, []string{"/categories/99/products"}, paths)
}

func TestCategoryProductsNameFallback(t *testing.T) {
	env := newTestEnv(t)

	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/categories":
			w.Write([]byte(`[
				{"id": 1, "name": "Electronics", "children": [
					{"id": 4, "name": "  Gaming Gear  "}
				]},
				{"id": 2, "name": "Fashion"}
			]`))
		case "/categories/4/products":
			w.Write([]byte(`{"products":[{"id":7}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"success":false}`))
		}
	}))
	t.Cleanup(srv.Close)

	h := &handlers.CatalogHandler{Backend: backend.New(srv.URL, 5*time.Second)}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/categories/gaming%20gear/products", nil)
	c.SetParamNames("slug")
	c.SetParamValues("gaming%20gear")

	require.NoError(t, h.GetCategoryProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"products":[{"id":7}]}`, rec.Body.String())
	require.Len(t, paths, 3)
	require.Equal(t, "/categories", paths[1])
	require.Equal(t, "/categories/4/products", paths[2])
}

func TestCategoryProductsUnknownName(t *testing.T) {
	env := newTestEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/categories" {
			w.Write([]byte(`{"data":[{"id":1,"name":"Electronics"}]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false}`))
	}))
	t.Cleanup(srv.Close)

	h := &handlers.CatalogHandler{Backend: backend.New(srv.URL, 5*time.Second)}

	rec, c := env.doJSONRequest(http.MethodGet, "/api/categories/nosuch/products", nil)
	c.SetParamNames("slug")
	c.SetParamValues("nosuch")

	require.NoError(t, h.GetCategoryProducts(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), `"success":false`)
	require.Contains(t, rec.Body.String(), `"input":"nosuch"`)
	require.Contains(t, rec.Body.String(), `"attempts"`)
}
