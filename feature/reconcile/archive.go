package reconcile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"inventory-guard/core/storage"

	"github.com/minio/minio-go/v7"
)

// StorageArchiver writes reports as JSON objects to a bucket.
type StorageArchiver struct {
	client storage.Client
	bucket string
}

// NewStorageArchiver creates an archiver writing to bucket.
func NewStorageArchiver(client storage.Client, bucket string) *StorageArchiver {
	return &StorageArchiver{client: client, bucket: bucket}
}

// ObjectKey returns the object name of a report, partitioned by day.
func ObjectKey(report *Report) string {
	return fmt.Sprintf("reports/%s/%s.json", report.Timestamp.UTC().Format("2006/01/02"), report.ID)
}

// Archive implements Archiver.
func (a *StorageArchiver) Archive(ctx context.Context, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report %s: %w", report.ID, err)
	}

	key := ObjectKey(report)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}
