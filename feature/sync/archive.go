package sync

import (
	"context"
	"fmt"
	"path"

	"payment-sync/core/storage"
)

// Archive stores full run results, outcomes and diffs included, as JSON
// objects.
type Archive struct {
	client storage.Client
	bucket string
	region string
	prefix string
}

// NewArchive creates an archive writing under prefix in bucket.
func NewArchive(client storage.Client, cfg storage.Config) *Archive {
	return &Archive{client: client, bucket: cfg.Bucket, region: cfg.Region, prefix: cfg.Prefix}
}

// Key is the object key of a run, partitioned by start day.
func (a *Archive) Key(res Result) string {
	return path.Join(a.prefix, res.StartedAt.UTC().Format("2006/01/02"), res.ID+".json")
}

// Save uploads res and returns its key.
func (a *Archive) Save(ctx context.Context, res Result) (string, error) {
	if err := storage.EnsureBucket(ctx, a.client, a.bucket, a.region); err != nil {
		return "", err
	}
	key := a.Key(res)
	res.ArchiveKey = key
	if err := storage.PutJSON(ctx, a.client, a.bucket, key, res); err != nil {
		return "", err
	}
	return key, nil
}

// Load downloads the result stored at key.
func (a *Archive) Load(ctx context.Context, key string) (Result, error) {
	var res Result
	if err := storage.GetJSON(ctx, a.client, a.bucket, key, &res); err != nil {
		return Result{}, fmt.Errorf("load run report: %w", err)
	}
	return res, nil
}
