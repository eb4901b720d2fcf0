// Package checkout talks to the external checkout gateway. The gateway is
// an opaque collaborator: the storefront hands the full cart over and
// either gets a redirect target back or surfaces a recoverable error.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/greenbean/storefront-backend/internal/app/model"
	"resty.dev/v3"
)

// Client represents a checkout gateway client
type Client struct {
	config     Config
	httpClient *resty.Client
}

// NewClient creates a new gateway client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// SyncCart hands the full cart to the gateway. A transport failure or a
// non-2xx status is returned as an error; a parsed response with
// Success false is returned as-is for the caller to surface.
func (c *Client) SyncCart(ctx context.Context, items []model.LineItem) (*SyncResponse, error) {
	var syncResp SyncResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(SyncRequest{CartItems: items}).
		SetResult(&syncResp).
		Post(c.config.SyncPath)
	if err != nil {
		return nil, fmt.Errorf("failed to sync cart to gateway: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode())
	}

	return &syncResp, nil
}

// Close releases the underlying HTTP client resources.
func (c *Client) Close() error {
	return c.httpClient.Close()
}
