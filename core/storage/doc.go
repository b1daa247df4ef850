// Package storage archives sync run reports in S3-compatible object storage.
//
// It wraps the MinIO Go client behind a small Client interface so the archive
// can be mocked in tests (see core/storage/mocks). Both AWS S3 and self-hosted
// MinIO work.
//
// # Helpers
//
//   - EnsureBucket: creates the report bucket on first use.
//   - PutJSON: uploads a value as an indented JSON document.
//   - GetJSON: downloads and decodes a document, mapping missing keys to
//     ErrObjectNotFound.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.PutJSON(ctx, client, cfg.Storage.Bucket, "sync-runs/2026/10/19/<id>.json", result)
package storage
