package catalog

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/domain"
	"github.com/ridwaanalimubasheer/Rapid-Volt/pkg/slug"
)

// Catalog is the ordered, read-only product list the storefront sells.
// It is built once at startup and never mutated afterwards, so lookups
// need no locking.
type Catalog struct {
	products []domain.Product
	byID     map[string]int
	bySlug   map[string]int
}

// New builds a catalog from the given product list, preserving order.
// Products without a slug get one derived from their title. Duplicate IDs
// keep the first occurrence.
func New(products []domain.Product) *Catalog {
	c := &Catalog{
		products: make([]domain.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
		bySlug:   make(map[string]int, len(products)),
	}

	for _, p := range products {
		if _, exists := c.byID[p.ID]; exists {
			continue
		}
		if p.Slug == "" {
			p.Slug = slug.Generate(p.Title)
		}
		idx := len(c.products)
		c.products = append(c.products, p)
		c.byID[p.ID] = idx
		if _, exists := c.bySlug[p.Slug]; !exists {
			c.bySlug[p.Slug] = idx
		}
	}

	return c
}

// Load reads the catalog from the JSON file at path. A missing or
// unparseable file is not an error: the built-in default list is used
// instead, mirroring how the storefront page falls back when it carries no
// product markup.
func Load(path string, logger *slog.Logger) *Catalog {
	if path == "" {
		return New(Default())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("catalog file unreadable, using built-in products",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return New(Default())
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		logger.Warn("catalog file unparseable, using built-in products",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return New(Default())
	}

	if len(products) == 0 {
		logger.Warn("catalog file empty, using built-in products",
			slog.String("path", path),
		)
		return New(Default())
	}

	logger.Info("catalog loaded",
		slog.String("path", path),
		slog.Int("products", len(products)),
	)
	return New(products)
}

// List returns the products in catalog order. The returned slice is a copy;
// callers cannot mutate the catalog through it.
func (c *Catalog) List() []domain.Product {
	out := make([]domain.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Find returns the product with the given ID.
func (c *Catalog) Find(id string) (*domain.Product, bool) {
	idx, ok := c.byID[id]
	if !ok {
		return nil, false
	}
	p := c.products[idx]
	return &p, true
}

// FindBySlug returns the product with the given URL slug. This backs the
// highlight-on-load lookup (?product=lighting-control-system).
func (c *Catalog) FindBySlug(s string) (*domain.Product, bool) {
	idx, ok := c.bySlug[s]
	if !ok {
		return nil, false
	}
	p := c.products[idx]
	return &p, true
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Default returns the built-in RapidVolt product list, used when no catalog
// file is configured or the configured file cannot be read.
func Default() []domain.Product {
	return []domain.Product{
		{
			ID:          "lighting",
			Title:       "Lighting Control System",
			Price:       45000,
			Description: "Centralized smart lighting control for villas and offices.",
		},
		{
			ID:          "motion",
			Title:       "Motion Sensor Switch",
			Price:       12500,
			Description: "PIR occupancy sensor switch with adjustable timeout.",
		},
		{
			ID:          "smart-plug",
			Title:       "Smart Plug 16A",
			Price:       9900,
			Description: "Wi-Fi smart plug with energy monitoring, 16 ampere rated.",
		},
		{
			ID:          "breaker-panel",
			Title:       "Smart Circuit Breaker Panel",
			Price:       89900,
			Description: "Connected distribution panel with per-circuit monitoring.",
		},
		{
			ID:          "dimmer",
			Title:       "Wireless Dimmer Kit",
			Price:       15750,
			Description: "Two-gang wireless dimmer with remote and scene support.",
		},
		{
			ID:          "surge",
			Title:       "Surge Protection Unit",
			Price:       22000,
			Description: "Type 2 surge protection device for residential boards.",
		},
	}
}
