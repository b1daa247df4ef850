package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_PartialFailure(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	res := Run(context.Background(), items, func(ctx context.Context, n int) (string, error) {
		if n == 3 {
			return "", errors.New("item 3 broke")
		}
		return fmt.Sprintf("ok-%d", n), nil
	}, Options{Width: 2})

	require.Len(t, res.Outcomes, 5)
	assert.Len(t, res.Succeeded, 4)
	assert.Len(t, res.Failed, 1)
	assert.Empty(t, res.Ignored)

	assert.Equal(t, 2, res.Failed[0].Index)
	assert.EqualError(t, res.Failed[0].Err, "item 3 broke")

	for i, o := range res.Outcomes {
		assert.Equal(t, i, o.Index)
	}
	assert.Equal(t, "ok-5", res.Outcomes[4].Value)
}

func TestRun_Conservation(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 37} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			items := make([]int, n)
			for i := range items {
				items[i] = i
			}
			res := Run(context.Background(), items, func(ctx context.Context, i int) (int, error) {
				switch i % 3 {
				case 0:
					return i, nil
				case 1:
					return 0, Ignore("skip")
				default:
					return 0, errors.New("fail")
				}
			}, Options{Width: 4})

			assert.Len(t, res.Outcomes, n)
			assert.Equal(t, n, len(res.Succeeded)+len(res.Ignored)+len(res.Failed))
		})
	}
}

func TestRun_ChunkWidthBoundsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	items := make([]int, 23)

	Run(context.Background(), items, func(ctx context.Context, _ int) (struct{}, error) {
		cur := inFlight.Add(1)
		for {
			old := peak.Load()
			if cur <= old || peak.CompareAndSwap(old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return struct{}{}, nil
	}, Options{Width: 5})

	assert.LessOrEqual(t, peak.Load(), int32(5))
}

func TestRun_ChunksAreSequential(t *testing.T) {
	var mu sync.Mutex
	var progress []int

	items := make([]int, 7)
	Run(context.Background(), items, func(ctx context.Context, _ int) (int, error) {
		return 0, nil
	}, Options{Width: 3, OnChunk: func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, 7, total)
		progress = append(progress, done)
	}})

	assert.Equal(t, []int{3, 6, 7}, progress)
}

func TestRun_RecoversPanic(t *testing.T) {
	res := Run(context.Background(), []int{1, 2}, func(ctx context.Context, n int) (int, error) {
		if n == 2 {
			panic("nil map")
		}
		return n, nil
	}, Options{Width: 2})

	require.Len(t, res.Failed, 1)
	assert.Contains(t, res.Failed[0].Err.Error(), "panic: nil map")
	assert.Len(t, res.Succeeded, 1)
}

func TestRun_IgnoreIsNotFailure(t *testing.T) {
	res := Run(context.Background(), []string{"a"}, func(ctx context.Context, s string) (string, error) {
		return "", fmt.Errorf("charge %s: %w", s, Ignore("customer deleted"))
	}, Options{})

	require.Len(t, res.Ignored, 1)
	assert.ErrorIs(t, res.Ignored[0].Err, ErrIgnored)
	assert.Contains(t, res.Ignored[0].Err.Error(), "customer deleted")
}

func TestRun_CancelledBetweenChunks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	items := make([]int, 6)

	var calls atomic.Int32
	res := Run(ctx, items, func(ctx context.Context, _ int) (int, error) {
		calls.Add(1)
		return 0, nil
	}, Options{Width: 2, OnChunk: func(done, total int) {
		if done == 2 {
			cancel()
		}
	}})

	assert.Equal(t, int32(2), calls.Load())
	assert.Len(t, res.Outcomes, 6)
	assert.Len(t, res.Succeeded, 2)
	require.Len(t, res.Failed, 4)
	assert.ErrorIs(t, res.Failed[0].Err, context.Canceled)
}
