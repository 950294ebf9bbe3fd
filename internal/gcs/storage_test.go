package gcs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURI(t *testing.T) {
	tests := []struct {
		uri     string
		bucket  string
		object  string
		wantErr bool
	}{
		{"gs://finance/exports/2024-05.csv", "finance", "exports/2024-05.csv", false},
		{"gs://b/o.csv", "b", "o.csv", false},
		{"s3://b/o.csv", "", "", true},
		{"gs://bucket-only", "", "", true},
		{"gs://bucket/", "", "", true},
		{"gs:///object", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := ParseURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, bucket)
			assert.Equal(t, tt.object, object)
		})
	}
}

func TestExtractFilename(t *testing.T) {
	assert.Equal(t, "may.csv", ExtractFilename("gs://bucket/exports/may.csv"))
	assert.Equal(t, "may.csv", ExtractFilename("gs://bucket/may.csv"))
	assert.Equal(t, "bucket", ExtractFilename("gs://bucket"))
}

func TestFetch_InvalidURIDoesNotDial(t *testing.T) {
	_, err := NewStorage("").Fetch(context.Background(), "https://example.com/file.csv")
	assert.ErrorContains(t, err, "invalid GCS URI")
}
