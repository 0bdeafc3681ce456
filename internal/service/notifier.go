package service

import (
	"context"
	"log/slog"

	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/domain"
)

// LogNotifier is the default CartNotifier. It records every cart state
// change as a structured log line with the totals the storefront badge and
// summary row display.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier that logs cart updates.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// CartUpdated logs the cart's line count, item count and total.
func (n *LogNotifier) CartUpdated(ctx context.Context, sessionID string, cart *domain.Cart) {
	n.logger.InfoContext(ctx, "cart updated",
		slog.String("session_id", sessionID),
		slog.Int("lines", len(cart.Lines)),
		slog.Int("item_count", cart.ItemCount()),
		slog.String("total", domain.Currency+" "+domain.FormatAmount(cart.Total())),
	)
}
