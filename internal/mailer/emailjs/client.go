package emailjs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/ridwaanalimubasheer/Rapid-Volt/internal/mailer"
	"github.com/ridwaanalimubasheer/Rapid-Volt/pkg/httpclient"
)

const defaultBaseURL = "https://api.emailjs.com"

const sendPath = "/api/v1.0/email/send"

// Config holds the EmailJS account parameters.
type Config struct {
	BaseURL    string
	ServiceID  string
	TemplateID string
	PublicKey  string
}

// Client dispatches templated emails through the EmailJS REST API. Requests
// go through a circuit-breaker-wrapped HTTP client so a failing provider
// stops receiving traffic instead of stacking up timeouts.
type Client struct {
	http   *httpclient.CircuitBreakerClient
	cfg    Config
	logger *slog.Logger
}

// sendRequest is the EmailJS send payload.
type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams templateParams `json:"template_params"`
}

// templateParams carries the template fields by their EmailJS parameter
// names.
type templateParams struct {
	ToEmail         string `json:"to_email"`
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`
	OrderDetails    string `json:"order_details"`
	OrderTotal      string `json:"order_total"`
	ChatTranscript  string `json:"chat_transcript,omitempty"`
	WebsiteDesc     string `json:"website_desc"`
}

// New creates an EmailJS client.
func New(client *httpclient.CircuitBreakerClient, cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{
		http:   client,
		cfg:    cfg,
		logger: logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "emailjs"
}

// Send posts the email to the EmailJS send endpoint. Any non-2xx response
// is returned as an error; the caller decides whether the failure is
// user-visible.
func (c *Client) Send(ctx context.Context, email mailer.Email) error {
	payload := sendRequest{
		ServiceID:  c.cfg.ServiceID,
		TemplateID: c.cfg.TemplateID,
		UserID:     c.cfg.PublicKey,
		TemplateParams: templateParams{
			ToEmail:         email.ToEmail,
			CustomerName:    email.CustomerName,
			CustomerEmail:   email.CustomerEmail,
			CustomerPhone:   email.CustomerPhone,
			CustomerAddress: email.CustomerAddress,
			OrderDetails:    email.OrderDetails,
			OrderTotal:      email.OrderTotal,
			ChatTranscript:  email.ChatTranscript,
			WebsiteDesc:     email.WebsiteDesc,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal emailjs payload: %w", err)
	}

	resp, err := c.http.Post(ctx, c.cfg.BaseURL+sendPath, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("emailjs send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return httpclient.ParseResponseError(resp, c.Name())
	}

	c.logger.InfoContext(ctx, "email dispatched",
		slog.String("provider", c.Name()),
		slog.String("to", email.ToEmail),
	)

	return nil
}
