package domain

import (
	"fmt"
	"strings"
	"time"
)

// CustomerInfo holds the checkout form fields supplied by the customer.
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Order is the acknowledged result of a checkout submission. It exists only
// in the confirmation response and the dispatched email; there is no order
// storage.
type Order struct {
	ID        string       `json:"id"`
	Customer  CustomerInfo `json:"customer"`
	Lines     []CartLine   `json:"lines"`
	Total     int64        `json:"total"`
	CreatedAt time.Time    `json:"created_at"`
}

// ItemizedText renders the order lines as plain text for the email template,
// one "Title x qty - AED xx.xx" line per cart line.
func (o *Order) ItemizedText() string {
	lines := make([]string, 0, len(o.Lines))
	for _, line := range o.Lines {
		lines = append(lines, fmt.Sprintf("%s x %d - %s %s",
			line.Title, line.Qty, Currency, FormatAmount(line.Price*int64(line.Qty))))
	}
	return strings.Join(lines, "\n")
}

// FormattedTotal renders the order total with the currency prefix,
// e.g. "AED 25.50".
func (o *Order) FormattedTotal() string {
	return Currency + " " + FormatAmount(o.Total)
}
