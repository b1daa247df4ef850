// Package batch runs per-item work over a list in fixed-width concurrent chunks.
//
// Chunks are processed one after another; items inside a chunk run concurrently
// and the chunk finishes when every item has settled. One item failing never
// cancels its siblings, and every input item produces exactly one outcome.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"payment-sync/core/retry"
)

// DefaultWidth is the chunk width used when Options.Width is not positive.
const DefaultWidth = 10

// Status classifies an item outcome.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusIgnored   Status = "ignored"
	StatusFailed    Status = "failed"
)

// ErrIgnored marks an item that was deliberately skipped.
var ErrIgnored = errors.New("ignored")

type ignoreError struct{ reason string }

func (e *ignoreError) Error() string        { return "ignored: " + e.reason }
func (e *ignoreError) Is(target error) bool { return target == ErrIgnored }

// Ignore returns an error classifying the item as ignored instead of failed.
func Ignore(reason string) error {
	return &ignoreError{reason: reason}
}

// Outcome is the settled result of one item.
type Outcome[R any] struct {
	Index  int
	Status Status
	Value  R
	Err    error
}

// Result holds every outcome in input order plus per-status buckets.
type Result[R any] struct {
	Outcomes  []Outcome[R]
	Succeeded []Outcome[R]
	Ignored   []Outcome[R]
	Failed    []Outcome[R]
}

// Options controls chunking.
type Options struct {
	// Width is the number of items run concurrently.
	Width int
	// Delay is waited between chunks. Zero disables it.
	Delay time.Duration
	// OnChunk is called after each chunk settles with the number of items done so far.
	OnChunk func(done, total int)
}

// Run applies work to every item. It returns early only when ctx is cancelled
// between chunks; items not started then are reported as failed with ctx.Err().
func Run[T, R any](ctx context.Context, items []T, work func(ctx context.Context, item T) (R, error), opts Options) Result[R] {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}

	outcomes := make([]Outcome[R], len(items))
	for start := 0; start < len(items); start += width {
		end := start + width
		if end > len(items) {
			end = len(items)
		}

		if err := ctx.Err(); err != nil {
			for i := start; i < len(items); i++ {
				outcomes[i] = Outcome[R]{Index: i, Status: StatusFailed, Err: err}
			}
			break
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				outcomes[i] = runOne(ctx, i, items[i], work)
			}(i)
		}
		wg.Wait()

		if opts.OnChunk != nil {
			opts.OnChunk(end, len(items))
		}

		if opts.Delay > 0 && end < len(items) {
			// Cancellation is picked up by the check at the top of the loop.
			_ = retry.Sleep(ctx, opts.Delay)
		}
	}

	res := Result[R]{Outcomes: outcomes}
	for _, o := range outcomes {
		switch o.Status {
		case StatusSucceeded:
			res.Succeeded = append(res.Succeeded, o)
		case StatusIgnored:
			res.Ignored = append(res.Ignored, o)
		default:
			res.Failed = append(res.Failed, o)
		}
	}
	return res
}

func runOne[T, R any](ctx context.Context, i int, item T, work func(context.Context, T) (R, error)) (out Outcome[R]) {
	out.Index = i
	defer func() {
		if r := recover(); r != nil {
			out.Status = StatusFailed
			out.Err = fmt.Errorf("panic: %v", r)
		}
	}()

	v, err := work(ctx, item)
	out.Value = v
	switch {
	case err == nil:
		out.Status = StatusSucceeded
	case errors.Is(err, ErrIgnored):
		out.Status = StatusIgnored
		out.Err = err
	default:
		out.Status = StatusFailed
		out.Err = err
	}
	return out
}
