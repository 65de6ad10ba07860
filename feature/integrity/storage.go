package integrity

import (
	"context"
	"encoding/json"
	"errors"

	"game-catalog/core/storage"
)

// StorageReport is the result of a storage check.
type StorageReport struct {
	Bucket          string   `json:"bucket"`
	BucketExists    bool     `json:"bucket_exists"`
	RegistryObject  string   `json:"registry_object"`
	RegistryPresent bool     `json:"registry_present"`
	Errors          []string `json:"errors"`
}

// Healthy reports whether the storage check found nothing wrong. An absent
// registry document is healthy.
func (r *StorageReport) Healthy() bool {
	return r.BucketExists && len(r.Errors) == 0
}

// CheckStorage verifies the bucket and the provider registry document.
func CheckStorage(ctx context.Context, client storage.Client, bucket, registryObject string) *StorageReport {
	report := &StorageReport{Bucket: bucket, RegistryObject: registryObject, Errors: []string{}}
	if client == nil {
		report.Errors = append(report.Errors, "storage client is not configured")
		return report
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		report.Errors = append(report.Errors, err.Error())
		return report
	}
	report.BucketExists = exists
	if !exists || registryObject == "" {
		return report
	}

	var doc json.RawMessage
	err = storage.ReadJSON(ctx, client, bucket, registryObject, &doc)
	switch {
	case err == nil:
		report.RegistryPresent = true
	case errors.Is(err, storage.ErrObjectNotFound):
	default:
		report.Errors = append(report.Errors, err.Error())
	}
	return report
}
