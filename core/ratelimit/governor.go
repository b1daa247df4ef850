package ratelimit

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"payment-sync/core/metrics"
	"payment-sync/core/retry"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Governor tracks the provider budget and suspends callers when it runs low.
// It is safe for concurrent use.
type Governor struct {
	cfg    Config
	logger *zap.Logger

	mu      sync.Mutex
	state   State
	version uint64

	calls atomic.Int64
	pacer *rate.Limiter
	store StateStore

	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

// Option configures a Governor.
type Option func(*Governor)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Governor) { g.logger = l }
}

// WithStateStore shares the observed state through s.
func WithStateStore(s StateStore) Option {
	return func(g *Governor) { g.store = s }
}

// WithSleep replaces the wait function, mainly for tests.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(g *Governor) { g.sleep = fn }
}

// WithClock replaces the time source.
func WithClock(fn func() time.Time) Option {
	return func(g *Governor) { g.now = fn }
}

// New creates a Governor seeded with the configured initial state.
func New(cfg Config, opts ...Option) *Governor {
	g := &Governor{
		cfg:    cfg,
		logger: zap.NewNop(),
		sleep:  retry.Sleep,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	if cfg.PaceRPS > 0 {
		burst := cfg.PaceBurst
		if burst < 1 {
			burst = 1
		}
		g.pacer = rate.NewLimiter(rate.Limit(cfg.PaceRPS), burst)
	}
	g.state = State{
		Remaining:    cfg.InitialRemaining,
		Limit:        cfg.InitialLimit,
		ResetSeconds: cfg.InitialResetSeconds,
		LastUpdated:  g.now(),
	}
	metrics.GovernorRemaining.Set(float64(g.state.Remaining))
	return g
}

// Snapshot returns a copy of the current state.
func (g *Governor) Snapshot() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Observe records the budget carried by response headers.
// Responses without the remaining header leave the state untouched.
func (g *Governor) Observe(ctx context.Context, h http.Header) {
	g.mu.Lock()
	next, ok := ParseHeaders(h, g.state, g.now())
	g.mu.Unlock()
	if !ok {
		return
	}
	g.Record(ctx, next)
}

// Record replaces the state with s. The last writer wins.
func (g *Governor) Record(ctx context.Context, s State) {
	if s.LastUpdated.IsZero() {
		s.LastUpdated = g.now()
	}

	g.mu.Lock()
	g.state = s
	g.version++
	g.mu.Unlock()

	metrics.GovernorRemaining.Set(float64(s.Remaining))

	if g.store != nil {
		if err := g.store.Save(ctx, s); err != nil {
			g.logger.Warn("Failed to publish rate limit state", zap.Error(err))
		}
	}
}

// ThrottleIfNeeded blocks while the budget is at or below the threshold.
// It returns early only when ctx is done.
func (g *Governor) ThrottleIfNeeded(ctx context.Context) error {
	if g.pacer != nil {
		if err := g.pacer.Wait(ctx); err != nil {
			return err
		}
	}

	n := g.calls.Add(1)
	if g.cfg.Policy == PolicyEveryN && g.cfg.CheckEvery > 0 && (n-1)%int64(g.cfg.CheckEvery) != 0 {
		return nil
	}

	st, version := g.current(ctx)
	if st.Remaining > g.cfg.Threshold {
		return nil
	}

	wait := time.Duration(st.ResetSeconds+g.cfg.SafetyMarginSeconds) * time.Second
	g.logger.Warn("Rate limit budget low, waiting for window reset",
		zap.Int("remaining", st.Remaining),
		zap.Int("limit", st.Limit),
		zap.Int("reset_seconds", st.ResetSeconds),
		zap.Duration("wait", wait))

	metrics.GovernorWaits.Inc()
	metrics.GovernorWaitSeconds.Add(wait.Seconds())

	if err := g.sleep(ctx, wait); err != nil {
		return err
	}

	g.refill(version)
	return nil
}

// current returns the local state and its version, adopting the shared state
// unless it is older than the local one.
func (g *Governor) current(ctx context.Context) (State, uint64) {
	var (
		shared State
		ok     bool
	)
	if g.store != nil {
		var err error
		shared, ok, err = g.store.Load(ctx)
		if err != nil {
			g.logger.Debug("Failed to load shared rate limit state", zap.Error(err))
			ok = false
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if ok && !shared.LastUpdated.Before(g.state.LastUpdated) && !shared.Same(g.state) {
		g.state = shared
		g.version++
		metrics.GovernorRemaining.Set(float64(shared.Remaining))
	}
	return g.state, g.version
}

// refill assumes the window reset during the wait. An observation recorded
// by another caller meanwhile is kept as is.
func (g *Governor) refill(seen uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.version != seen {
		return
	}
	g.state.Remaining = g.state.Limit
	g.state.LastUpdated = g.now()
	metrics.GovernorRemaining.Set(float64(g.state.Remaining))
}
