package asaas

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"payment-sync/core/ratelimit"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type delayRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (d *delayRecorder) sleep(ctx context.Context, dur time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.delays = append(d.delays, dur)
	return ctx.Err()
}

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:                baseURL,
		APIKey:                 "test-key",
		TimeoutSeconds:         5,
		MaxRetries:             3,
		ForbiddenDelayMs:       300,
		TooManyRequestsDelayMs: 500,
		TransportDelayMs:       500,
		PageSize:               100,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) (*Client, *delayRecorder) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	rec := &delayRecorder{}
	opts = append([]Option{WithSleep(rec.sleep)}, opts...)
	return New(testConfig(srv.URL), nil, opts...), rec
}

func TestListCustomers_DecodesPage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customers", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("access_token"))
		assert.Equal(t, "100", r.URL.Query().Get("offset"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","hasMore":true,"totalCount":151,"limit":50,"offset":100,
			"data":[{"id":"cus_1","name":"Ana","dateCreated":"2024-01-15","deleted":false,"city":12345}]}`))
	})

	page, err := client.ListCustomers(context.Background(), ListParams{Offset: 100, Limit: 50})
	require.NoError(t, err)
	assert.True(t, page.HasMore)
	assert.Equal(t, 151, page.TotalCount)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "cus_1", page.Data[0].ID)
	assert.Equal(t, "Ana", page.Data[0].Name)
	assert.Equal(t, "2024-01-15", page.Data[0].DateCreated.Format(DateLayout))
}

func TestGetPayment_DecodesMoneyAndDates(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/pay_1", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"pay_1","customer":"cus_1","value":129.90,"netValue":null,
			"status":"RECEIVED","dueDate":"2024-03-10","paymentDate":null,"discount":{"value":0,"type":"FIXED"}}`))
	})

	p, err := client.GetPayment(context.Background(), "pay_1")
	require.NoError(t, err)
	assert.True(t, p.Value.Equal(decimal.RequireFromString("129.9")))
	assert.False(t, p.NetValue.Valid)
	assert.True(t, p.PaymentDate.IsZero())
	assert.Nil(t, p.PaymentDate.Ptr())
	assert.Equal(t, time.March, p.DueDate.Month())
	assert.JSONEq(t, `{"value":0,"type":"FIXED"}`, string(p.Discount))
}

func TestListInstallmentPayments_FiltersByInstallment(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments", r.URL.Path)
		assert.Equal(t, "ins_9", r.URL.Query().Get("installment"))
		_, _ = w.Write([]byte(`{"hasMore":false,"totalCount":0,"data":[]}`))
	})

	page, err := client.ListInstallmentPayments(context.Background(), "ins_9", ListParams{Limit: 100})
	require.NoError(t, err)
	assert.Empty(t, page.Data)
}

func TestListInstallmentPayments_KeepsCallerFilters(t *testing.T) {
	var seen []string
	var mu sync.Mutex
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.URL.Query().Get("installment")+"|"+r.URL.Query().Get("status"))
		mu.Unlock()
		_, _ = w.Write([]byte(`{"hasMore":false,"totalCount":0,"data":[]}`))
	})

	filters := map[string]string{"status": "PENDING"}
	for _, id := range []string{"ins_1", "ins_2"} {
		_, err := client.ListInstallmentPayments(context.Background(), id, ListParams{Limit: 100, Filters: filters})
		require.NoError(t, err)
	}

	assert.Equal(t, map[string]string{"status": "PENDING"}, filters)
	assert.Equal(t, []string{"ins_1|PENDING", "ins_2|PENDING"}, seen)
}

func TestClient_RetryBound(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		sentinel     error
		expectCalls  int32
		expectDelays []time.Duration
	}{
		{
			name:         "429 retried three times",
			status:       http.StatusTooManyRequests,
			sentinel:     ErrThrottled,
			expectCalls:  4,
			expectDelays: []time.Duration{500 * time.Millisecond, 500 * time.Millisecond, 500 * time.Millisecond},
		},
		{
			name:         "403 retried with shorter delay",
			status:       http.StatusForbidden,
			sentinel:     ErrThrottled,
			expectCalls:  4,
			expectDelays: []time.Duration{300 * time.Millisecond, 300 * time.Millisecond, 300 * time.Millisecond},
		},
		{
			name:         "5xx retried",
			status:       http.StatusBadGateway,
			sentinel:     ErrTransport,
			expectCalls:  4,
			expectDelays: []time.Duration{500 * time.Millisecond, 500 * time.Millisecond, 500 * time.Millisecond},
		},
		{
			name:        "404 not retried",
			status:      http.StatusNotFound,
			sentinel:    ErrNotFound,
			expectCalls: 1,
		},
		{
			name:        "400 not retried",
			status:      http.StatusBadRequest,
			sentinel:    ErrValidation,
			expectCalls: 1,
		},
		{
			name:        "401 not retried",
			status:      http.StatusUnauthorized,
			sentinel:    ErrValidation,
			expectCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			})

			_, err := client.GetCustomer(context.Background(), "cus_1")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.sentinel)
			assert.Equal(t, tt.expectCalls, calls.Load())
			assert.Equal(t, tt.expectDelays, rec.delays)
		})
	}
}

func TestClient_RecoversAfterTransientFailure(t *testing.T) {
	var calls atomic.Int32
	client, rec := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"id":"cus_1","name":"Ana"}`))
	})

	c, err := client.GetCustomer(context.Background(), "cus_1")
	require.NoError(t, err)
	assert.Equal(t, "Ana", c.Name)
	assert.Equal(t, int32(3), calls.Load())
	assert.Len(t, rec.delays, 2)
}

func TestClient_ValidationMessages(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"errors":[{"code":"invalid_customer","description":"Cliente inválido"}]}`))
	})

	_, err := client.GetCustomer(context.Background(), "bad")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, http.StatusBadRequest, ve.StatusCode)
	assert.Equal(t, []string{"invalid_customer: Cliente inválido"}, ve.Messages)
}

func TestClient_UndecodableBody(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"id":`))
	})

	_, err := client.MyAccount(context.Background())
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	rec := &delayRecorder{}
	client := New(testConfig(url), nil, WithSleep(rec.sleep))

	_, err := client.GetCustomer(context.Background(), "cus_1")
	assert.ErrorIs(t, err, ErrTransport)
	assert.Len(t, rec.delays, 3)
}

func TestClient_ObservesRateLimitHeaders(t *testing.T) {
	var waits []time.Duration
	gov := ratelimit.New(ratelimit.DefaultConfig(), ratelimit.WithSleep(func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("RateLimit-Remaining", "4")
		w.Header().Set("RateLimit-Limit", "140")
		w.Header().Set("RateLimit-Reset", "15")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 1
	client := New(cfg, gov, WithSleep(func(context.Context, time.Duration) error { return nil }))

	_, err := client.GetCustomer(context.Background(), "cus_1")
	require.ErrorIs(t, err, ErrThrottled)

	// Headers from the error response were applied before the retry.
	assert.Equal(t, 4, gov.Snapshot().Remaining)
	require.Len(t, waits, 1)
	assert.Equal(t, 17*time.Second, waits[0])
}

func TestClient_CircuitBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 0
	cfg.BreakerEnabled = true
	cfg.BreakerFailures = 2
	cfg.BreakerTimeoutSeconds = 60
	client := New(cfg, nil)

	for i := 0; i < 2; i++ {
		_, err := client.GetCustomer(context.Background(), "cus_1")
		assert.ErrorIs(t, err, ErrTransport)
	}

	_, err := client.GetCustomer(context.Background(), "cus_1")
	assert.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_BreakerIgnoresNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.BreakerEnabled = true
	cfg.BreakerFailures = 1
	cfg.BreakerTimeoutSeconds = 60
	client := New(cfg, nil)

	for i := 0; i < 3; i++ {
		_, err := client.GetCustomer(context.Background(), "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, int32(3), calls.Load())
}

func TestConfig_Validate(t *testing.T) {
	cfg := testConfig("https://api.asaas.com/v3")
	assert.NoError(t, cfg.Validate())

	cfg.APIKey = ""
	assert.Error(t, cfg.Validate())

	cfg = testConfig("not a url")
	assert.Error(t, cfg.Validate())
}
