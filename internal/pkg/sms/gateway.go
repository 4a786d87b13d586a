package sms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrGatewayBaseURLRequired is returned when the submit URL is missing.
	ErrGatewayBaseURLRequired = errors.New("sms gateway base url is required")
	// ErrGatewayNoRecipient is returned when Message.To is empty.
	ErrGatewayNoRecipient = errors.New("no recipient provided")
	// ErrGatewayNoSender is returned when both Message.From and the configured default From are empty.
	ErrGatewayNoSender = errors.New("no sender provided")
)

const defaultGatewayTimeout = 10 * time.Second

// Gateway is an SMS implementation backed by an HTTP form endpoint.
//
// Aggregator gateways accept an application/x-www-form-urlencoded POST
// carrying the recipient, the sender id and the message text; delivery
// acceptance is judged by the HTTP status code.
type Gateway struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	defaultFrom string
}

// GatewayConfig configures the Gateway implementation.
type GatewayConfig struct {
	// BaseURL is the gateway submit endpoint.
	BaseURL string
	// APIKey authenticates requests against the gateway.
	APIKey string
	// From is the default sender id when Message.From is empty.
	From string
	// Timeout bounds a single submit call; defaults to 10s.
	Timeout time.Duration
}

// NewGateway constructs an HTTP gateway SMS sender.
func NewGateway(cfg GatewayConfig) (*Gateway, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrGatewayBaseURLRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultGatewayTimeout
	}

	return &Gateway{
		client:      &http.Client{Timeout: timeout},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		defaultFrom: cfg.From,
	}, nil
}

// Send submits a message to the gateway. The message text goes into the form
// body only; it never ends up in the returned error.
func (g *Gateway) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrGatewayNoRecipient
	}

	from := msg.From
	if from == "" {
		from = g.defaultFrom
	}
	if from == "" {
		return ErrGatewayNoSender
	}

	form := url.Values{
		"to":      {msg.To},
		"from":    {from},
		"message": {msg.Body},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("submit request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 512))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("gateway replied %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return nil
}

// Close releases idle connections held by the underlying client.
func (g *Gateway) Close() error {
	g.client.CloseIdleConnections()
	return nil
}
