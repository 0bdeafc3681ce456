package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/catalog"
	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/domain"
	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/matcher"
	"github.com/ridwaanalimubasheer/Rapid-Volt/pkg/httputil"
	"github.com/ridwaanalimubasheer/Rapid-Volt/pkg/pagination"
)

// CatalogHandler handles HTTP requests for product catalog endpoints.
type CatalogHandler struct {
	catalog *catalog.Catalog
	matcher *matcher.Matcher
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(cat *catalog.Catalog, m *matcher.Matcher, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: cat,
		matcher: m,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := pagination.FromRequest(r)

	products := h.catalog.List()
	total := len(products)

	start := params.Offset
	if start > total {
		start = total
	}
	end := start + params.PerPage
	if end > total {
		end = total
	}

	result := pagination.NewResult(products[start:end], total, params)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// GetProduct handles GET /api/v1/products/{id}. The id is tried both as a
// catalog ID and as a URL slug, which backs the ?product= highlight link.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, ok := h.catalog.Find(id)
	if !ok {
		product, ok = h.catalog.FindBySlug(id)
	}
	if !ok {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "NOT_FOUND", Message: "product not found"},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// MatchProduct handles GET /api/v1/products/match?q=...
// It runs the free-text query through the fuzzy matcher and returns the best
// matching product, or an empty result when nothing clears the threshold.
func (h *CatalogHandler) MatchProduct(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "query parameter q is required"},
		})
		return
	}

	type matchResult struct {
		Product *domain.Product `json:"product,omitempty"`
		Matched bool            `json:"matched"`
	}

	product, ok := h.matcher.FindClosest(query, h.catalog.List())
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: matchResult{Product: product, Matched: ok}})
}
