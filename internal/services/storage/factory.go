package storage

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/denisAlshanov/vidsplit/internal/config"
	"github.com/denisAlshanov/vidsplit/internal/utils"
)

// NewStorage creates the S3 artifact store, or returns nil when no bucket is
// configured.
func NewStorage(ctx context.Context, cfg *config.S3Config) (ArtifactStore, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	utils.LogInfo(ctx, "Creating S3 artifact storage", utils.Fields{
		"bucket":   cfg.BucketName,
		"endpoint": cfg.EndpointURL,
		"region":   cfg.Region,
	})
	storage, err := NewS3Storage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 storage: %w", err)
	}

	return storage, nil
}

// ArtifactKey returns a unique object key for a merged file, grouped by day.
func ArtifactKey(now time.Time, filename string) string {
	return path.Join("merged", now.UTC().Format("2006/01/02"), uuid.New().String(), filename)
}
