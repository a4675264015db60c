package storage

import (
	"context"
	"io"
	"time"
)

// ArtifactStore keeps merged files and hands out time-limited download links.
type ArtifactStore interface {
	BucketName() string
	Ping(ctx context.Context) error
	Upload(ctx context.Context, key string, body io.ReadSeeker, size int64, contentType string, metadata map[string]string) error
	Delete(ctx context.Context, key string) error
	GeneratePresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// CompletedPart represents a completed multipart upload part
type CompletedPart struct {
	ETag       *string
	PartNumber *int32
}
