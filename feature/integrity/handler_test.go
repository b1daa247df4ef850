package integrity

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"payment-sync/core/asaas"
	"payment-sync/core/database"
	"payment-sync/core/storage"
	"payment-sync/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type note struct {
	ID   string `gorm:"column:id;primaryKey"`
	Body string `gorm:"column:body"`
}

func (note) TableName() string { return "notes" }

type fakeProber struct{}

func (fakeProber) MyAccount(context.Context) (asaas.Account, error) {
	return asaas.Account{Name: "Loja Teste"}, nil
}

func setupTestApp(t *testing.T, client storage.Client) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	app := fiber.New()
	f := NewFeature(db, []any{&note{}}, client, storage.Config{Bucket: "test-bucket"}, fakeProber{}, nil)
	require.True(t, f.IsEnabled())
	require.NoError(t, f.Load(app))
	return app, db
}

func decode(t *testing.T, app *fiber.App, path string) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHandleSchemaCheck(t *testing.T) {
	app, db := setupTestApp(t, nil)

	status, body := decode(t, app, "/integrity/schema")
	assert.Equal(t, 200, status)
	assert.Equal(t, false, body["matched"])
	assert.False(t, db.Migrator().HasTable(&note{}))

	status, body = decode(t, app, "/integrity/schema?fix=true")
	assert.Equal(t, 200, status)
	assert.Equal(t, true, body["matched"])
	assert.True(t, db.Migrator().HasTable(&note{}))
}

func TestHandleArchiveCheck(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		app, _ := setupTestApp(t, nil)

		status, body := decode(t, app, "/integrity/archive?fix=true")
		assert.Equal(t, 200, status)
		assert.Equal(t, false, body["enabled"])
	})

	t.Run("Fix", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "test-bucket").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "test-bucket", minio.MakeBucketOptions{}).Return(nil)
		app, _ := setupTestApp(t, client)

		status, body := decode(t, app, "/integrity/archive?fix=true")
		assert.Equal(t, 200, status)
		assert.Equal(t, true, body["exists"])
		client.AssertExpectations(t)
	})
}

func TestHandleIntegrityCheck(t *testing.T) {
	app, _ := setupTestApp(t, nil)

	status, body := decode(t, app, "/integrity")
	assert.Equal(t, 200, status)
	assert.Contains(t, body, "schema")
	assert.Contains(t, body, "archive")

	provider := body["provider"].(map[string]any)
	assert.Equal(t, true, provider["reachable"])
	assert.Equal(t, "Loja Teste", provider["account"])
}
