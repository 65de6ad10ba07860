// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client behind a small Client interface (bucket checks,
// object upload and download) so that S3 and self-hosted MinIO can be used
// interchangeably and storage can be mocked in tests (see core/storage/mocks).
//
// # JSON Documents
//
// The catalog keeps two kinds of JSON documents in the bucket: the provider
// registry override document and exported media views. ReadJSON and WriteJSON
// handle them; a missing object is reported as ErrObjectNotFound.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	var doc registryDocument
//	err = storage.ReadJSON(ctx, client, cfg.Storage.Bucket, "registry/providers.json", &doc)
package storage
