package asaas

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"payment-sync/core/metrics"
	"payment-sync/core/retry"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 512

// Governor is the subset of the rate limit governor used by the client.
type Governor interface {
	ThrottleIfNeeded(ctx context.Context) error
	Observe(ctx context.Context, h http.Header)
}

type noopGovernor struct{}

func (noopGovernor) ThrottleIfNeeded(context.Context) error { return nil }
func (noopGovernor) Observe(context.Context, http.Header)   {}

// Client calls the Asaas API. It is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	gov     Governor
	logger  *zap.Logger
	breaker *breaker
	sleep   func(ctx context.Context, d time.Duration) error
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithSleep replaces the wait between retries.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) { c.sleep = fn }
}

// New creates a client. A nil governor disables throttling.
func New(cfg Config, gov Governor, opts ...Option) *Client {
	if gov == nil {
		gov = noopGovernor{}
	}
	c := &Client{
		cfg:    cfg,
		gov:    gov,
		logger: zap.NewNop(),
		http:   &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		sleep:  retry.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	if cfg.BreakerEnabled {
		c.breaker = newBreaker("asaas-api", cfg, c.logger)
	}
	return c
}

// get performs a logical GET call decoding the body into out.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	call := func() error {
		attempts, err := retry.Do(ctx, c.policy(op), func(ctx context.Context, attempt int) error {
			return c.attempt(ctx, op, path, query, out)
		})
		if err != nil && attempts > 1 {
			c.logger.Warn("Provider call failed after retries",
				zap.String("operation", op),
				zap.Int("attempts", attempts),
				zap.Error(err))
		}
		return err
	}

	if c.breaker == nil {
		return call()
	}
	return c.breaker.execute(op, call)
}

// policy builds the retry policy of one logical call.
func (c *Client) policy(op string) retry.Policy {
	return retry.Policy{
		MaxRetries: c.cfg.MaxRetries,
		Retryable:  Retryable,
		Delay:      c.retryDelay,
		Sleep:      c.sleep,
		OnRetry: func(attempt int, delay time.Duration, err error) {
			reason := "transport"
			if errors.Is(err, ErrThrottled) {
				reason = "throttled"
			}
			metrics.RemoteRetries.WithLabelValues(reason).Inc()
			c.logger.Info("Retrying provider call",
				zap.String("operation", op),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
				zap.Error(err))
		},
	}
}

func (c *Client) retryDelay(_ int, err error) time.Duration {
	var te *ThrottleError
	if errors.As(err, &te) {
		if te.StatusCode == http.StatusForbidden {
			return time.Duration(c.cfg.ForbiddenDelayMs) * time.Millisecond
		}
		return time.Duration(c.cfg.TooManyRequestsDelayMs) * time.Millisecond
	}
	return time.Duration(c.cfg.TransportDelayMs) * time.Millisecond
}

// attempt performs exactly one HTTP request.
func (c *Client) attempt(ctx context.Context, op, path string, query url.Values, out any) error {
	if err := c.gov.ThrottleIfNeeded(ctx); err != nil {
		return err
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &ValidationError{Op: op, Err: err}
	}
	req.Header.Set("access_token", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		metrics.RemoteRequests.WithLabelValues(op, "transport").Inc()
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.gov.Observe(ctx, resp.Header)

	if err := classify(op, path, resp); err != nil {
		metrics.RemoteRequests.WithLabelValues(op, resultLabel(err)).Inc()
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			metrics.RemoteRequests.WithLabelValues(op, "validation").Inc()
			return &ValidationError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
		}
	}
	metrics.RemoteRequests.WithLabelValues(op, "ok").Inc()
	return nil
}

// classify maps a non-2xx response to its error kind.
func classify(op, path string, resp *http.Response) error {
	code := resp.StatusCode
	if code >= 200 && code < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	switch {
	case code == http.StatusForbidden || code == http.StatusTooManyRequests:
		return &ThrottleError{Op: op, StatusCode: code, Body: strings.TrimSpace(string(body))}
	case code == http.StatusNotFound:
		return &NotFoundError{Op: op, Path: path}
	case code >= 500:
		return &TransportError{Op: op, StatusCode: code, Err: errors.New(http.StatusText(code))}
	default:
		return &ValidationError{Op: op, StatusCode: code, Messages: errorMessages(body)}
	}
}

func errorMessages(body []byte) []string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Errors) == 0 {
		if s := strings.TrimSpace(string(body)); s != "" {
			return []string{s}
		}
		return nil
	}
	msgs := make([]string, 0, len(eb.Errors))
	for _, e := range eb.Errors {
		msgs = append(msgs, e.Code+": "+e.Description)
	}
	return msgs
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, ErrThrottled):
		return "throttled"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "validation"
	}
}

// listQuery encodes paging and filters.
func listQuery(p ListParams) url.Values {
	q := url.Values{}
	q.Set("offset", strconv.Itoa(p.Offset))
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	for k, v := range p.Filters {
		q.Set(k, v)
	}
	return q
}
