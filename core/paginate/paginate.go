// Package paginate walks offset-paged collections until the provider reports
// there is nothing left.
//
// Enumeration always restarts at offset zero. Concurrent modification upstream
// may shift records across page boundaries, so a record can be seen twice or
// missed within one enumeration; downstream reconciliation is idempotent and a
// later run converges.
package paginate

import (
	"context"
	"fmt"
	"iter"
	"time"

	"payment-sync/core/asaas"
	"payment-sync/core/retry"

	"go.uber.org/zap"
)

// DefaultPageSize is used when Fetcher.PageSize is not positive.
const DefaultPageSize = 100

// PageFunc fetches one page starting at offset.
type PageFunc[T any] func(ctx context.Context, offset, limit int) (asaas.Page[T], error)

// Fetcher enumerates a paged collection.
type Fetcher[T any] struct {
	// Name labels log entries.
	Name string
	// PageSize is the limit requested per page.
	PageSize int
	// Fetch retrieves a page.
	Fetch PageFunc[T]
	// Delay is waited between pages. Zero disables it.
	Delay time.Duration
	// Logger receives progress and drift warnings.
	Logger *zap.Logger
}

// Pages yields each non-empty page in order. Iteration stops after the first
// error, which is yielded with a nil page.
func (f Fetcher[T]) Pages(ctx context.Context) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		log := f.Logger
		if log == nil {
			log = zap.NewNop()
		}
		limit := f.PageSize
		if limit <= 0 {
			limit = DefaultPageSize
		}

		offset := 0
		firstTotal := -1
		for {
			page, err := f.Fetch(ctx, offset, limit)
			if err != nil {
				yield(nil, fmt.Errorf("fetch %s page at offset %d: %w", f.Name, offset, err))
				return
			}

			if firstTotal < 0 {
				firstTotal = page.TotalCount
			} else if page.TotalCount != firstTotal {
				log.Warn("Collection size changed during enumeration",
					zap.String("collection", f.Name),
					zap.Int("first_total", firstTotal),
					zap.Int("current_total", page.TotalCount),
					zap.Int("offset", offset))
			}

			if len(page.Data) == 0 {
				return
			}

			log.Debug("Fetched page",
				zap.String("collection", f.Name),
				zap.Int("offset", offset),
				zap.Int("count", len(page.Data)),
				zap.Int("total", page.TotalCount))

			if !yield(page.Data, nil) {
				return
			}
			if !page.HasMore {
				return
			}

			offset += len(page.Data)

			if f.Delay > 0 {
				if err := retry.Sleep(ctx, f.Delay); err != nil {
					yield(nil, err)
					return
				}
			}
		}
	}
}

// All materializes the full collection.
func (f Fetcher[T]) All(ctx context.Context) ([]T, error) {
	var out []T
	for page, err := range f.Pages(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
	}
	return out, nil
}
