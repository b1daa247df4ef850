package sync

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"payment-sync/core/ratelimit"
	"payment-sync/core/storage"
	"payment-sync/core/storage/mocks"
	"payment-sync/feature/sync/models"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedGovernor struct {
	state ratelimit.State
}

func (g fixedGovernor) Snapshot() ratelimit.State { return g.state }

func decodeBody(t *testing.T, body io.Reader) map[string]any {
	t.Helper()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func newTestApp(svc *Service) *fiber.App {
	app := fiber.New()
	NewHandler(svc).RegisterRoutes(app)
	return app
}

func TestHandleTrigger(t *testing.T) {
	f := newFixture(t, true)
	f.seed(2, 1)
	svc := NewService(f.runner, f.history, nil, nil, Config{RetryFailed: true}, nil)
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/customers", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	id, _ := decodeBody(t, resp.Body)["run_id"].(string)
	require.NotEmpty(t, id)

	svc.Wait()

	resp, err = app.Test(httptest.NewRequest("GET", "/sync/runs/"+id, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	run := decodeBody(t, resp.Body)
	assert.Equal(t, models.StatusCompleted, run["status"])
	assert.Equal(t, "customers", run["entities"])
	assert.EqualValues(t, 2, run["created"])
}

func TestHandleTrigger_Validation(t *testing.T) {
	f := newFixture(t, true)
	app := newTestApp(NewService(f.runner, f.history, nil, nil, Config{}, nil))

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/invoices", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleTrigger_RejectsConcurrentRun(t *testing.T) {
	f := newFixture(t, true)
	f.provider.block = make(chan struct{})
	svc := NewService(f.runner, f.history, nil, nil, Config{}, nil)
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest("POST", "/sync/all", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	first, _ := decodeBody(t, resp.Body)["run_id"].(string)

	resp, err = app.Test(httptest.NewRequest("POST", "/sync/charges?dry_run=true", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, first, decodeBody(t, resp.Body)["run_id"])

	resp, err = app.Test(httptest.NewRequest("GET", "/sync/runs/"+first, nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, models.StatusRunning, decodeBody(t, resp.Body)["status"])

	close(f.provider.block)
	svc.Wait()
	assert.Empty(t, svc.Current())
}

func TestHandleGetRun_NotFound(t *testing.T) {
	f := newFixture(t, true)
	app := newTestApp(NewService(f.runner, f.history, nil, nil, Config{}, nil))

	resp, err := app.Test(httptest.NewRequest("GET", "/sync/runs/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestHandleGetRateLimit(t *testing.T) {
	f := newFixture(t, true)
	gov := fixedGovernor{state: ratelimit.State{Remaining: 42, Limit: 140, ResetSeconds: 30}}

	t.Run("Configured", func(t *testing.T) {
		app := newTestApp(NewService(f.runner, f.history, nil, gov, Config{}, nil))
		resp, err := app.Test(httptest.NewRequest("GET", "/ratelimit", nil))
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		state := decodeBody(t, resp.Body)["state"].(map[string]any)
		assert.EqualValues(t, 42, state["remaining"])
		assert.EqualValues(t, 140, state["limit"])
	})

	t.Run("Missing", func(t *testing.T) {
		app := newTestApp(NewService(f.runner, f.history, nil, nil, Config{}, nil))
		resp, err := app.Test(httptest.NewRequest("GET", "/ratelimit", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestArchive_SaveAndReport(t *testing.T) {
	store := new(mocks.Client)
	var uploaded []byte
	store.On("BucketExists", mock.Anything, "reports").Return(true, nil)
	store.On("PutObject", mock.Anything, "reports", mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "sync-runs/") && strings.HasSuffix(key, "/run-arch.json")
	}), mock.Anything, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		uploaded, _ = io.ReadAll(args.Get(3).(io.Reader))
	}).Return(minio.UploadInfo{}, nil)

	archive := NewArchive(store, storage.Config{Bucket: "reports", Prefix: "sync-runs"})
	f := newFixture(t, true, WithArchive(archive))
	f.seed(1, 1)

	res, err := f.runner.Run(context.Background(), Request{ID: "run-arch", Entities: []Entity{EntityCustomers, EntityCharges}})
	require.NoError(t, err)

	want := "sync-runs/" + res.StartedAt.UTC().Format("2006/01/02") + "/run-arch.json"
	assert.Equal(t, want, res.ArchiveKey)
	require.NotEmpty(t, uploaded)

	run, found, err := f.history.Get(context.Background(), "run-arch")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, want, run.ArchiveKey)

	store.On("GetObject", mock.Anything, "reports", want, mock.Anything).
		Return(io.NopCloser(bytes.NewReader(uploaded)), nil)

	app := newTestApp(NewService(f.runner, f.history, archive, nil, Config{}, nil))
	resp, err := app.Test(httptest.NewRequest("GET", "/sync/runs/run-arch/report", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "run-arch", body["id"])
	assert.Len(t, body["entities"], 2)
}

func TestArchive_FailureDoesNotFailRun(t *testing.T) {
	store := new(mocks.Client)
	store.On("BucketExists", mock.Anything, "reports").Return(false, assert.AnError)

	f := newFixture(t, true, WithArchive(NewArchive(store, storage.Config{Bucket: "reports"})))
	f.seed(1, 0)

	res, err := f.runner.Run(context.Background(), Request{Entities: []Entity{EntityCustomers}})
	require.NoError(t, err)
	assert.Empty(t, res.ArchiveKey)
}

func TestHandleGetReport_NotArchived(t *testing.T) {
	f := newFixture(t, true)
	f.seed(1, 0)
	_, err := f.runner.Run(context.Background(), Request{ID: "run-plain", Entities: []Entity{EntityCustomers}})
	require.NoError(t, err)

	app := newTestApp(NewService(f.runner, f.history, nil, nil, Config{}, nil))
	resp, err := app.Test(httptest.NewRequest("GET", "/sync/runs/run-plain/report", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestService_ShutdownCancelsRun(t *testing.T) {
	f := newFixture(t, true)
	f.seed(1, 0)
	svc := NewService(f.runner, f.history, nil, nil, Config{}, nil)
	svc.Shutdown()

	_, err := svc.Trigger(context.Background(), Entities, false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResult_Summaries(t *testing.T) {
	start := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	res := Result{Entities: []EntityResult{{Pages: 2, Error: "boom"}}}
	res.Entities[0].Report.Entity = "customers"
	res.Entities[0].Report.Created = 3
	res.Entities[0].Report.StartedAt = start
	res.Entities[0].Report.FinishedAt = start.Add(1500 * time.Millisecond)

	got := res.Summaries()
	require.Len(t, got, 1)
	assert.Equal(t, EntitySummary{Entity: "customers", Pages: 2, Created: 3, DurationMs: 1500, Error: "boom"}, got[0])
	assert.True(t, res.Incomplete())
}
