// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small interface used by the raw
// snapshot archive: after fetching a sheet, the sync service can persist the
// untouched cell values as JSON so that a parsing regression can be diagnosed
// against the exact input that produced it. The abstraction supports both
// AWS S3 and self-hosted MinIO instances.
//
// The Client interface makes storage interactions easy to mock in unit tests
// (see core/storage/mocks).
package storage
