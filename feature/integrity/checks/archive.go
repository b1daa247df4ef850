package checks

import (
	"context"
	"fmt"

	"payment-sync/core/storage"
)

// ArchiveReport is the state of the report archive bucket.
type ArchiveReport struct {
	Enabled bool   `json:"enabled"`
	Bucket  string `json:"bucket,omitempty"`
	Exists  bool   `json:"exists"`
}

// CheckArchive reports whether the archive bucket exists. A nil client means
// archiving is disabled.
func CheckArchive(ctx context.Context, client storage.Client, bucket string) (*ArchiveReport, error) {
	if client == nil {
		return &ArchiveReport{}, nil
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	return &ArchiveReport{Enabled: true, Bucket: bucket, Exists: exists}, nil
}

// FixArchive creates the archive bucket.
func FixArchive(ctx context.Context, client storage.Client, bucket, region string) error {
	if client == nil {
		return fmt.Errorf("archive is disabled")
	}
	return storage.EnsureBucket(ctx, client, bucket, region)
}
