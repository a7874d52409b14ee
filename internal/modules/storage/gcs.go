package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gcs "google.golang.org/api/storage/v1"
)

// GCSStore uploads to a Google Cloud Storage bucket through the JSON API.
type GCSStore struct {
	objects *gcs.ObjectsService
	bucket  string
}

// NewGCSStore authenticates with credentialsFile when set, otherwise with
// application default credentials.
func NewGCSStore(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	opts = append(opts, option.WithScopes(gcs.DevstorageReadWriteScope))
	svc, err := gcs.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &GCSStore{objects: svc.Objects, bucket: bucket}, nil
}

func (s *GCSStore) Put(ctx context.Context, key, contentType string, body io.Reader, _ int64) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	obj := &gcs.Object{Name: key, ContentType: contentType, CacheControl: "no-cache"}
	_, err = s.objects.Insert(s.bucket, obj).
		Media(body, googleapi.ContentType(contentType)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

func (s *GCSStore) PublicURL(key string) string {
	parts := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, strings.Join(parts, "/"))
}
