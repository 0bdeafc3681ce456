package mock

import (
	"context"
	"log/slog"
	"time"

	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/mailer"
)

// MockMailer is a mailer implementation that logs emails and always
// succeeds. It simulates a 10ms delay to mimic real dispatch latency, and is
// used in local development where no EmailJS account is configured.
type MockMailer struct {
	logger *slog.Logger
}

// NewMockMailer creates a new mock mailer.
func NewMockMailer(logger *slog.Logger) *MockMailer {
	return &MockMailer{logger: logger}
}

// Name returns the name of this mailer.
func (m *MockMailer) Name() string {
	return "mock"
}

// Send logs the email fields and simulates a 10ms dispatch delay.
func (m *MockMailer) Send(ctx context.Context, email mailer.Email) error {
	// Simulate dispatch delay.
	time.Sleep(10 * time.Millisecond)

	m.logger.InfoContext(ctx, "mock mailer: email sent",
		slog.String("to", email.ToEmail),
		slog.String("customer_name", email.CustomerName),
		slog.String("customer_email", email.CustomerEmail),
		slog.String("order_total", email.OrderTotal),
	)

	return nil
}
