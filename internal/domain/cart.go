package domain

import "fmt"

// CartLine represents a single line item in the cart. Title and Price are a
// snapshot of the product at the time it was first added; they are never
// refreshed from the catalog, so later catalog price changes do not affect
// existing lines.
type CartLine struct {
	ProductID string `json:"id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"` // minor currency units (fils)
	Qty       int    `json:"qty"`
}

// Cart is an ordered sequence of cart lines. Insertion order defines display
// order, and product IDs are unique within the sequence (enforced by the
// service mutators, not by the storage format).
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Total returns the sum of price * qty over all lines, exact in minor units.
func (c *Cart) Total() int64 {
	var total int64
	for _, line := range c.Lines {
		total += line.Price * int64(line.Qty)
	}
	return total
}

// ItemCount returns the total quantity across all lines, used for the cart
// badge display.
func (c *Cart) ItemCount() int {
	var count int
	for _, line := range c.Lines {
		count += line.Qty
	}
	return count
}

// FindLineIndex returns the index of the line matching the given product ID,
// or -1 if not found.
func (c *Cart) FindLineIndex(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// FormatAmount renders an amount in minor units with two decimal places,
// e.g. 2550 → "25.50". Rounding happens only at render time; stored amounts
// stay exact.
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}
