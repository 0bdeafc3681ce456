package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/domain"
	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/mailer"
	apperrors "github.com/ridwaanalimubasheer/Rapid-Volt/pkg/errors"
)

// CheckoutInput holds the checkout form fields.
type CheckoutInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"max=50"`
	Address string `json:"address" validate:"max=500"`
}

// CheckoutService turns the session's cart into an order email. The cart is
// cleared only after the dispatch succeeds, so a failed send leaves the cart
// intact and the customer can retry.
type CheckoutService struct {
	cart      *CartService
	chat      *ChatService
	mailer    mailer.Mailer
	logger    *slog.Logger
	recipient string
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(cart *CartService, chat *ChatService, mail mailer.Mailer, logger *slog.Logger, recipient string) *CheckoutService {
	return &CheckoutService{
		cart:      cart,
		chat:      chat,
		mailer:    mail,
		logger:    logger,
		recipient: recipient,
	}
}

// Submit places an order for the session's current cart. An empty cart is
// refused. On success the order email has been dispatched and the cart
// cleared.
func (s *CheckoutService) Submit(ctx context.Context, sessionID string, input CheckoutInput) (*domain.Order, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.cart.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, apperrors.InvalidInput("cart is empty")
	}

	order := &domain.Order{
		ID: uuid.New().String(),
		Customer: domain.CustomerInfo{
			Name:    input.Name,
			Email:   input.Email,
			Phone:   input.Phone,
			Address: input.Address,
		},
		Lines:     cart.Lines,
		Total:     cart.Total(),
		CreatedAt: time.Now().UTC(),
	}

	transcript, err := s.chat.Transcript(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	email := mailer.Email{
		ToEmail:         s.recipient,
		CustomerName:    order.Customer.Name,
		CustomerEmail:   order.Customer.Email,
		CustomerPhone:   order.Customer.Phone,
		CustomerAddress: order.Customer.Address,
		OrderDetails:    order.ItemizedText(),
		OrderTotal:      order.FormattedTotal(),
		ChatTranscript:  transcript.Render(),
		WebsiteDesc:     domain.WebsiteDesc,
	}

	if err := s.mailer.Send(ctx, email); err != nil {
		s.logger.ErrorContext(ctx, "order email dispatch failed",
			slog.String("session_id", sessionID),
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("dispatch order email: %w", err)
	}

	if err := s.cart.Clear(ctx, sessionID); err != nil {
		// The order email is already out; log and report success anyway.
		s.logger.ErrorContext(ctx, "failed to clear cart after checkout",
			slog.String("session_id", sessionID),
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "order placed",
		slog.String("session_id", sessionID),
		slog.String("order_id", order.ID),
		slog.Int("lines", len(order.Lines)),
		slog.String("total", order.FormattedTotal()),
	)

	return order, nil
}
