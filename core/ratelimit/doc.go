// Package ratelimit implements the governor that keeps outbound provider calls
// inside the budget the provider advertises in its response headers.
//
// # State
//
// The provider reports its budget on every response through the RateLimit-Limit,
// RateLimit-Remaining and RateLimit-Reset headers. The Governor keeps the most
// recently observed values in a mutex-guarded State. Concurrent observers race
// and the last one wins; the provider's own counters are authoritative and the
// governor is only a conservative local cache of them.
//
// # Throttling
//
// Before every call the client asks ThrottleIfNeeded. When the remaining budget
// is at or below the configured threshold the caller is suspended for the reset
// window plus a safety margin. After the wait the call always proceeds.
//
// Two check policies are supported:
//   - every_call: the state is consulted before each call
//   - every_n: the state is consulted on the first call and every Nth call after it
//
// # Optional layers
//
//   - A steady token-bucket pacer (golang.org/x/time/rate) applied to every call.
//   - A shared StateStore (Redis) so several processes observe one budget.
//
// # Usage
//
//	gov := ratelimit.New(cfg.RateLimit, ratelimit.WithLogger(log))
//	if err := gov.ThrottleIfNeeded(ctx); err != nil {
//	    return err
//	}
//	resp, err := http.DefaultClient.Do(req)
//	gov.Observe(ctx, resp.Header)
package ratelimit
