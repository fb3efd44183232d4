package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/siamstore/storefront/internal/backend"
	"github.com/siamstore/storefront/internal/logging"
)

type CatalogHandler struct {
	Backend *backend.Client
}

func (h *CatalogHandler) GetProducts(c echo.Context) error {
	path := "/products"
	if qs := c.QueryString(); qs != "" {
		path += "?" + qs
	}
	res, err := h.Backend.Forward(c.Request().Context(), http.MethodGet, path, nil, c.Request().Header)
	if err != nil {
		return backend.UpstreamError(err)
	}
	return backend.Relay(c, res)
}

func (h *CatalogHandler) GetProduct(c echo.Context) error {
	res, err := h.Backend.Forward(c.Request().Context(), http.MethodGet, "/products/"+url.PathEscape(c.Param("id")), nil, c.Request().Header)
	if err != nil {
		return backend.UpstreamError(err)
	}
	return backend.Relay(c, res)
}

func (h *CatalogHandler) GetCategories(c echo.Context) error {
	res, err := h.Backend.Forward(c.Request().Context(), http.MethodGet, "/categories", nil, c.Request().Header)
	if err != nil {
		return backend.UpstreamError(err)
	}
	return backend.Relay(c, res)
}

type categoryNode struct {
	ID       uint           `json:"id"`
	Name     string         `json:"name"`
	Title    string         `json:"title"`
	Children []categoryNode `json:"children"`
}

// GetCategoryProducts resolves a category reference that may be a numeric id
// or a free-text name. Numeric ids go straight through, one call, response
// relayed unchanged. Otherwise the direct lookup is tried first and on 404
// the full category tree is searched by normalized name/title before
// retrying with the discovered id.
func (h *CatalogHandler) GetCategoryProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.category_products")
	slug := c.Param("slug")

	if _, err := strconv.Atoi(slug); err == nil {
		res, err := h.Backend.Forward(ctx, http.MethodGet, "/categories/"+slug+"/products", nil, c.Request().Header)
		if err != nil {
			return backend.UpstreamError(err)
		}
		return backend.Relay(c, res)
	}

	attempts := []string{slug}
	res, err := h.Backend.Forward(ctx, http.MethodGet, "/categories/"+url.PathEscape(slug)+"/products", nil, c.Request().Header)
	if err != nil {
		return backend.UpstreamError(err)
	}
	if res.StatusCode() != http.StatusNotFound {
		return backend.Relay(c, res)
	}

	treeRes, err := h.Backend.Forward(ctx, http.MethodGet, "/categories", nil, c.Request().Header)
	if err != nil {
		return backend.UpstreamError(err)
	}

	id, ok := findCategoryID(parseCategoryTree(treeRes.Body()), normalizeName(slug))
	if !ok {
		l.Warn("category_not_found", "input", slug, "attempts", attempts)
		return c.JSON(http.StatusNotFound, echo.Map{
			"success":  false,
			"message":  "ไม่พบหมวดหมู่สินค้าที่ระบุ",
			"input":    slug,
			"attempts": attempts,
		})
	}

	attempts = append(attempts, strconv.FormatUint(uint64(id), 10))
	res, err = h.Backend.Forward(ctx, http.MethodGet, "/categories/"+strconv.FormatUint(uint64(id), 10)+"/products", nil, c.Request().Header)
	if err != nil {
		return backend.UpstreamError(err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return c.JSON(http.StatusNotFound, echo.Map{
			"success":  false,
			"message":  "ไม่พบหมวดหมู่สินค้าที่ระบุ",
			"input":    slug,
			"attempts": attempts,
		})
	}
	return backend.Relay(c, res)
}

// parseCategoryTree accepts either a bare array or a {data: [...]} wrapper.
func parseCategoryTree(body []byte) []categoryNode {
	var tree []categoryNode
	if err := json.Unmarshal(body, &tree); err == nil {
		return tree
	}
	var wrapped struct {
		Data []categoryNode `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err == nil {
		return wrapped.Data
	}
	return nil
}

func findCategoryID(nodes []categoryNode, want string) (uint, bool) {
	for _, n := range nodes {
		if normalizeName(n.Name) == want || normalizeName(n.Title) == want {
			return n.ID, true
		}
		if id, ok := findCategoryID(n.Children, want); ok {
			return id, true
		}
	}
	return 0, false
}

func normalizeName(s string) string {
	if decoded, err := url.QueryUnescape(s); err == nil {
		s = decoded
	}
	return strings.ToLower(strings.TrimSpace(s))
}
