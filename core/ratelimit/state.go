package ratelimit

import (
	"context"
	"net/http"
	"strings"
	"time"

	"payment-sync/core/utils"
)

// Response headers carrying the provider budget.
const (
	HeaderLimit     = "RateLimit-Limit"
	HeaderRemaining = "RateLimit-Remaining"
	HeaderReset     = "RateLimit-Reset"
)

// State is the last observed provider budget.
type State struct {
	Remaining    int       `json:"remaining"`
	Limit        int       `json:"limit"`
	ResetSeconds int       `json:"reset_seconds"`
	LastUpdated  time.Time `json:"last_updated"`
}

// Same reports whether s and o describe the same observation.
func (s State) Same(o State) bool {
	return s.Remaining == o.Remaining &&
		s.Limit == o.Limit &&
		s.ResetSeconds == o.ResetSeconds &&
		s.LastUpdated.Equal(o.LastUpdated)
}

// StateStore shares State between processes.
// Load returns ok=false when nothing has been stored yet.
type StateStore interface {
	Load(ctx context.Context) (State, bool, error)
	Save(ctx context.Context, s State) error
}

// ParseHeaders reads the budget headers observed at now. Missing limit or reset
// headers keep the values from prev. ok is false when the remaining header is
// absent, in which case the response carries no budget information.
func ParseHeaders(h http.Header, prev State, now time.Time) (State, bool) {
	remaining := strings.TrimSpace(h.Get(HeaderRemaining))
	if remaining == "" {
		return prev, false
	}

	next := prev
	next.LastUpdated = now
	next.Remaining = utils.ToInt(remaining)
	if v := strings.TrimSpace(h.Get(HeaderLimit)); v != "" {
		next.Limit = utils.ToInt(v)
	}
	if v := strings.TrimSpace(h.Get(HeaderReset)); v != "" {
		next.ResetSeconds = utils.ToInt(v)
	}
	return next, true
}
