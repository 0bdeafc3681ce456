package domain

// Currency is the display currency for all prices.
const Currency = "AED"

// WebsiteDesc is the site strapline included in every dispatched email.
const WebsiteDesc = "Smart electrical & power solutions — supply, control and automation."

// Product represents a catalog product. Products are read-only: the catalog
// is loaded once at startup and never mutated afterwards.
type Product struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Price       int64  `json:"price"` // minor currency units (fils)
	Description string `json:"desc"`
	Slug        string `json:"slug,omitempty"`
}
