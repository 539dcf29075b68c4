// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client and is used to archive every reconciliation
// report as a JSON object for later audit. Both AWS S3 and self-hosted MinIO
// are supported.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
