package asaas

import (
	"fmt"
	"net/url"
)

// Config holds configuration for the Asaas API client.
type Config struct {
	// BaseURL is the API root including the version segment.
	BaseURL string `mapstructure:"base_url" default:"https://api.asaas.com/v3"`
	// APIKey is sent in the access_token header.
	APIKey string `mapstructure:"api_key" default:""`
	// TimeoutSeconds bounds a single HTTP attempt.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// ForbiddenDelayMs is the wait before retrying a 403.
	ForbiddenDelayMs int `mapstructure:"forbidden_delay_ms" default:"300"`
	// TooManyRequestsDelayMs is the wait before retrying a 429.
	TooManyRequestsDelayMs int `mapstructure:"too_many_requests_delay_ms" default:"500"`
	// TransportDelayMs is the wait before retrying a network failure or 5xx.
	TransportDelayMs int `mapstructure:"transport_delay_ms" default:"500"`
	// PageSize is the limit requested on collection endpoints.
	PageSize int `mapstructure:"page_size" default:"100"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent" default:"payment-sync"`
	// BreakerEnabled wraps every logical call in a circuit breaker.
	BreakerEnabled bool `mapstructure:"breaker_enabled" default:"false"`
	// BreakerFailures is the consecutive failures that open the circuit.
	BreakerFailures int `mapstructure:"breaker_failures" default:"5"`
	// BreakerTimeoutSeconds is how long the circuit stays open.
	BreakerTimeoutSeconds int `mapstructure:"breaker_timeout_seconds" default:"60"`
}

// Validate checks that the client can be built.
func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("asaas: api_key is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("asaas: invalid base_url %q", c.BaseURL)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("asaas: max_retries must not be negative")
	}
	return nil
}
