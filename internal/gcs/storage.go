// Package gcs reads CSV sources from Google Cloud Storage.
package gcs

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/dvloznov/finance-dashboard/internal/logger"
)

// MaxObjectSize bounds how much of an object Fetch will read.
const MaxObjectSize = 10 << 20

// Fetcher downloads object bytes by gs:// URI.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]byte, error)
}

// Storage fetches objects with a Cloud Storage client. With no
// credentials file it uses Application Default Credentials.
type Storage struct {
	credentialsFile string
}

// NewStorage creates a Storage. credentialsFile may be empty.
func NewStorage(credentialsFile string) *Storage {
	return &Storage{credentialsFile: credentialsFile}
}

// ParseURI splits "gs://bucket/path/to/object" into bucket and object.
func ParseURI(uri string) (bucket, object string, err error) {
	if !strings.HasPrefix(uri, "gs://") {
		return "", "", fmt.Errorf("invalid GCS URI: %s", uri)
	}

	parts := strings.SplitN(strings.TrimPrefix(uri, "gs://"), "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid GCS URI (no object path): %s", uri)
	}
	return parts[0], parts[1], nil
}

// ExtractFilename returns the last path element of a gs:// URI.
// e.g., "gs://bucket/exports/may.csv" → "may.csv"
func ExtractFilename(uri string) string {
	trimmed := strings.TrimPrefix(uri, "gs://")

	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}
	return path.Base(parts[1])
}

// Fetch downloads the object at uri.
func (s *Storage) Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucket, object, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}

	var opts []option.ClientOption
	if s.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(s.credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs.Fetch: creating storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcs.Fetch: reading object %s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxObjectSize+1))
	if err != nil {
		return nil, fmt.Errorf("gcs.Fetch: reading bytes: %w", err)
	}
	if len(data) > MaxObjectSize {
		return nil, fmt.Errorf("gcs.Fetch: object %s/%s is larger than %d bytes", bucket, object, MaxObjectSize)
	}

	log := logger.FromContext(ctx)
	log.Debug().
		Str("bucket", bucket).
		Str("object", object).
		Int("bytes", len(data)).
		Msg("Fetched object from GCS")

	return data, nil
}

var _ Fetcher = (*Storage)(nil)
