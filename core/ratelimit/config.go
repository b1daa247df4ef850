package ratelimit

import "fmt"

// Check policies.
const (
	PolicyEveryCall = "every_call"
	PolicyEveryN    = "every_n"
)

// Config holds configuration for the rate limit governor.
type Config struct {
	// Threshold is the low-water mark on remaining calls that triggers a wait.
	Threshold int `mapstructure:"threshold" default:"10"`
	// SafetyMarginSeconds is added to the reset window when waiting.
	SafetyMarginSeconds int `mapstructure:"safety_margin_seconds" default:"2"`
	// Policy is either every_call or every_n.
	Policy string `mapstructure:"policy" default:"every_call"`
	// CheckEvery is N for the every_n policy.
	CheckEvery int `mapstructure:"check_every" default:"20"`
	// InitialRemaining, InitialLimit and InitialResetSeconds seed the state at startup.
	InitialRemaining    int `mapstructure:"initial_remaining" default:"999"`
	InitialLimit        int `mapstructure:"initial_limit" default:"140"`
	InitialResetSeconds int `mapstructure:"initial_reset_seconds" default:"60"`
	// PaceRPS enables a steady token bucket when greater than zero.
	PaceRPS float64 `mapstructure:"pace_rps" default:"0"`
	// PaceBurst is the token bucket burst size.
	PaceBurst int `mapstructure:"pace_burst" default:"1"`
	// RedisAddr enables the shared state store when set (host:port).
	RedisAddr string `mapstructure:"redis_addr" default:""`
	// RedisPassword is the Redis password.
	RedisPassword string `mapstructure:"redis_password" default:""`
	// RedisDB is the Redis database number.
	RedisDB int `mapstructure:"redis_db" default:"0"`
	// RedisKey is the hash key holding the shared state.
	RedisKey string `mapstructure:"redis_key" default:"payment-sync:ratelimit"`
}

// Validate checks the policy settings.
func (c Config) Validate() error {
	switch c.Policy {
	case PolicyEveryCall:
	case PolicyEveryN:
		if c.CheckEvery <= 0 {
			return fmt.Errorf("ratelimit: check_every must be positive for policy %s", PolicyEveryN)
		}
	default:
		return fmt.Errorf("ratelimit: unknown policy %q", c.Policy)
	}
	if c.Threshold < 0 {
		return fmt.Errorf("ratelimit: threshold must not be negative")
	}
	return nil
}

// DefaultConfig mirrors the struct tag defaults.
func DefaultConfig() Config {
	return Config{
		Threshold:           10,
		SafetyMarginSeconds: 2,
		Policy:              PolicyEveryCall,
		CheckEvery:          20,
		InitialRemaining:    999,
		InitialLimit:        140,
		InitialResetSeconds: 60,
		PaceBurst:           1,
		RedisKey:            "payment-sync:ratelimit",
	}
}
