package storage_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"game-catalog/core/storage"
	"game-catalog/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type failingReader struct{ err error }

func (f failingReader) Read([]byte) (int, error) { return 0, f.err }
func (f failingReader) Close() error             { return nil }

func TestReadJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("Decodes object", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "catalog", "doc.json", mock.Anything).
			Return(io.NopCloser(bytes.NewBufferString(`{"name":"igdb"}`)), nil)

		var out struct{ Name string }
		require.NoError(t, storage.ReadJSON(ctx, client, "catalog", "doc.json", &out))
		assert.Equal(t, "igdb", out.Name)
	})

	t.Run("Missing key maps to ErrObjectNotFound", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "catalog", "doc.json", mock.Anything).
			Return(failingReader{err: minio.ErrorResponse{Code: "NoSuchKey"}}, nil)

		var out map[string]any
		err := storage.ReadJSON(ctx, client, "catalog", "doc.json", &out)
		assert.ErrorIs(t, err, storage.ErrObjectNotFound)
	})

	t.Run("Other errors are wrapped", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "catalog", "doc.json", mock.Anything).
			Return(nil, errors.New("connection refused"))

		var out map[string]any
		err := storage.ReadJSON(ctx, client, "catalog", "doc.json", &out)
		assert.ErrorContains(t, err, "connection refused")
		assert.NotErrorIs(t, err, storage.ErrObjectNotFound)
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("GetObject", mock.Anything, "catalog", "doc.json", mock.Anything).
			Return(io.NopCloser(bytes.NewBufferString(`{`)), nil)

		var out map[string]any
		assert.ErrorContains(t, storage.ReadJSON(ctx, client, "catalog", "doc.json", &out), "failed to decode")
	})
}

func TestWriteJSON(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates bucket and uploads", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "catalog").Return(false, nil)
		client.On("MakeBucket", mock.Anything, "catalog", mock.Anything).Return(nil)
		client.On("PutObject", mock.Anything, "catalog", "exports/1.json", mock.Anything, mock.AnythingOfType("int64"), mock.Anything).
			Return(minio.UploadInfo{}, nil)

		err := storage.WriteJSON(ctx, client, "catalog", "exports/1.json", map[string]int{"images": 2})
		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("Upload failure", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "catalog").Return(true, nil)
		client.On("PutObject", mock.Anything, "catalog", "exports/1.json", mock.Anything, mock.Anything, mock.Anything).
			Return(minio.UploadInfo{}, errors.New("quota exceeded"))

		err := storage.WriteJSON(ctx, client, "catalog", "exports/1.json", map[string]int{})
		assert.ErrorContains(t, err, "quota exceeded")
		client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
	})
}
