// Package notify delivers push notifications through an HTTP gateway.
package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cenkalti/backoff/v4"
	"github.com/smokefree-kz/backend/internal/setup/config"
	"github.com/smokefree-kz/backend/pkg/utils"
	"go.uber.org/zap"
)

// ErrGatewayStatus is returned when the gateway responds with a non-2xx status.
var ErrGatewayStatus = errors.New("push gateway returned unexpected status")

const defaultRequestTimeout = 5 * time.Second

// pushRequest is the gateway wire format.
type pushRequest struct {
	Token string `json:"token"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Client sends push notifications with retries. A nil or disabled client is
// replaced by a no-op sender, so callers never branch on configuration.
type Client struct {
	http     *http.Client
	endpoint string
	apiKey   string
	logger   *zap.Logger
}

// NewClient creates a push client from the notification config. When delivery
// is disabled or no endpoint is configured, it returns a no-op sender.
func NewClient(cfg *config.Notifications, logger *zap.Logger) *Client {
	if cfg == nil || !cfg.Enabled || cfg.Endpoint == "" {
		logger.Info("Push notifications disabled")
		return nil
	}

	timeout := defaultRequestTimeout
	if cfg.RequestTimeout > 0 {
		timeout = time.Duration(cfg.RequestTimeout) * time.Millisecond
	}

	return &Client{
		http:     &http.Client{Timeout: timeout},
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		logger:   logger.Named("notify"),
	}
}

// Send delivers one notification to the given device token. The request is
// retried on transient failures within a short window.
func (c *Client) Send(ctx context.Context, token, title, body string) error {
	if c == nil {
		return nil
	}

	payload, err := sonic.Marshal(pushRequest{Token: token, Title: title, Body: body})
	if err != nil {
		return fmt.Errorf("failed to marshal push request: %w", err)
	}

	_, err = utils.WithRetry(ctx, func() (struct{}, error) {
		return struct{}{}, c.post(ctx, payload)
	}, utils.GetPushRetryOptions())
	if err != nil {
		return fmt.Errorf("failed to deliver push notification: %w", err)
	}

	c.logger.Debug("Delivered push notification", zap.String("title", title))

	return nil
}

func (c *Client) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return backoffPermanent(fmt.Errorf("failed to build push request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	err = fmt.Errorf("%w: %d", ErrGatewayStatus, resp.StatusCode)

	// Client errors will not succeed on retry.
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return backoffPermanent(err)
	}

	return err
}

// backoffPermanent marks an error as not worth retrying.
func backoffPermanent(err error) error {
	return backoff.Permanent(err)
}
