package mailer

import "context"

// Email carries the template fields for a single transactional email. The
// field names mirror the template parameters the email provider expects.
type Email struct {
	ToEmail         string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
	OrderDetails    string
	OrderTotal      string
	ChatTranscript  string
	WebsiteDesc     string
}

// Mailer defines the interface for dispatching a templated email through an
// external provider.
type Mailer interface {
	Name() string
	Send(ctx context.Context, email Email) error
}
