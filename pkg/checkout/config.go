package checkout

import (
	"errors"
	"time"
)

var ErrInvalidConfig = errors.New("invalid checkout gateway config")

// Config represents the configuration for the checkout gateway client
type Config struct {
	// BaseURL is the gateway base URL
	BaseURL string

	// SyncPath is the cart handoff endpoint, POSTed before checkout
	SyncPath string

	// Timeout bounds a single handoff request
	Timeout time.Duration

	// SettleDelay is how long clients must wait after a successful
	// handoff before navigating; the gateway needs it to settle session
	// state on its side.
	SettleDelay time.Duration
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	if c.SyncPath == "" {
		return ErrInvalidConfig
	}
	return nil
}
