package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/SuramyaVimal/dag-cd/internal/ctxlog"
)

// GCSStore keeps one object per key in a Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ Store = (*GCSStore)(nil)

// NewGCSStore opens a storage client with default credentials.
func NewGCSStore(ctx context.Context, bucket, prefix string) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("gcs cache requires a bucket name")
	}
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS storage client: %w", err)
	}
	return NewGCSStoreWithClient(client, bucket, prefix), nil
}

// NewGCSStoreWithClient wraps an existing client. The store takes ownership
// and closes the client on Close.
func NewGCSStoreWithClient(client *storage.Client, bucket, prefix string) *GCSStore {
	return &GCSStore{client: client, bucket: bucket, prefix: prefix}
}

func (s *GCSStore) objectKey(key string) string {
	return s.prefix + key
}

func (s *GCSStore) url(key string) string {
	return "gs://" + s.bucket + "/" + s.objectKey(key)
}

// Get implements Store.
func (s *GCSStore) Get(ctx context.Context, key string) ([]byte, error) {
	logger := ctxlog.FromContext(ctx)
	gcsURL := s.url(key)

	startedAt := time.Now()
	r, err := s.client.Bucket(s.bucket).Object(s.objectKey(key)).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("opening object from GCS %q: %w", gcsURL, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("downloading from GCS %q: %w", gcsURL, err)
	}
	logger.Debug("Downloaded cache entry from GCS.", "url", gcsURL, "bytes", len(data), "duration", time.Since(startedAt))
	return data, nil
}

// Put implements Store. Existing objects are left untouched.
func (s *GCSStore) Put(ctx context.Context, key string, value []byte) error {
	logger := ctxlog.FromContext(ctx)
	gcsURL := s.url(key)

	obj := s.client.Bucket(s.bucket).Object(s.objectKey(key))
	if _, err := obj.Attrs(ctx); err == nil {
		logger.Debug("Cache entry already exists in GCS.", "url", gcsURL)
		return nil
	} else if !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("getting object attributes for %q: %w", gcsURL, err)
	}

	startedAt := time.Now()
	w := obj.If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = "application/msgpack"
	if _, err := w.Write(value); err != nil {
		_ = w.Close()
		return fmt.Errorf("uploading to GCS %q: %w", gcsURL, err)
	}
	if err := w.Close(); err != nil {
		// Another writer stored the same key first. Entries are content
		// addressed, so its object is as good as ours.
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusPreconditionFailed {
			logger.Debug("Cache entry was written concurrently.", "url", gcsURL)
			return nil
		}
		return fmt.Errorf("closing GCS writer for %q: %w", gcsURL, err)
	}
	logger.Debug("Uploaded cache entry to GCS.", "url", gcsURL, "bytes", len(value), "duration", time.Since(startedAt))
	return nil
}

// Close closes the storage client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
