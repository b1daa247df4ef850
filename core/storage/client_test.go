package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"payment-sync/core/storage"
	"payment-sync/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "localhost:9000",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			Bucket:    "test-bucket",
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("EndpointWithHTTPS", func(t *testing.T) {
		cfg := storage.Config{
			Endpoint:  "https://s3.amazonaws.com",
			AccessKey: "testkey",
			SecretKey: "testsecret",
			UseSSL:    true,
			Region:    "us-east-1",
		}

		client, err := storage.NewClient(cfg)
		assert.NoError(t, err)
		assert.NotNil(t, client)
	})
}

func TestEnsureBucket(t *testing.T) {
	ctx := context.Background()

	t.Run("Exists", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "reports").Return(true, nil)

		require.NoError(t, storage.EnsureBucket(ctx, m, "reports", ""))
		m.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Creates", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "reports").Return(false, nil)
		m.On("MakeBucket", ctx, "reports", minio.MakeBucketOptions{Region: "sa-east-1"}).Return(nil)

		require.NoError(t, storage.EnsureBucket(ctx, m, "reports", "sa-east-1"))
		m.AssertExpectations(t)
	})

	t.Run("CheckFails", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("BucketExists", ctx, "reports").Return(false, errors.New("access denied"))

		err := storage.EnsureBucket(ctx, m, "reports", "")
		assert.ErrorContains(t, err, "access denied")
	})
}

func TestPutJSON(t *testing.T) {
	ctx := context.Background()
	m := new(mocks.Client)

	var uploaded []byte
	m.On("PutObject", ctx, "reports", "runs/1.json", mock.Anything, mock.Anything, mock.MatchedBy(func(o minio.PutObjectOptions) bool {
		return o.ContentType == "application/json"
	})).Run(func(args mock.Arguments) {
		uploaded, _ = io.ReadAll(args.Get(3).(io.Reader))
		assert.Equal(t, int64(len(uploaded)), args.Get(4).(int64))
	}).Return(minio.UploadInfo{}, nil)

	require.NoError(t, storage.PutJSON(ctx, m, "reports", "runs/1.json", map[string]int{"created": 5}))
	assert.JSONEq(t, `{"created":5}`, string(uploaded))
}

func TestGetJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("Decodes", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("GetObject", ctx, "reports", "runs/1.json", mock.Anything).
			Return(io.NopCloser(bytes.NewReader([]byte(`{"created":5}`))), nil)

		var got map[string]int
		require.NoError(t, storage.GetJSON(ctx, m, "reports", "runs/1.json", &got))
		assert.Equal(t, 5, got["created"])
	})

	t.Run("MissingKey", func(t *testing.T) {
		m := new(mocks.Client)
		m.On("GetObject", ctx, "reports", "runs/2.json", mock.Anything).
			Return(nil, minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."})

		var got map[string]int
		err := storage.GetJSON(ctx, m, "reports", "runs/2.json", &got)
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	})
}
