package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/denisAlshanov/vidsplit/internal/config"
)

// fakeS3 records the requests it receives and answers like a minimal
// path-style S3 endpoint.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = string(body)
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		if r.URL.Path == "/artifacts" || r.URL.Path == "/artifacts/" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	case http.MethodDelete:
		if _, ok := f.objects[r.URL.Path]; !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStorage(t *testing.T) (*S3Storage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: make(map[string]string)}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	storage, err := NewS3Storage(context.Background(), &config.S3Config{
		Region:          "us-east-1",
		AccessKeyID:     "test",
		SecretAccessKey: "test",
		BucketName:      "artifacts",
		EndpointURL:     server.URL,
	})
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	return storage, fake
}

func TestS3StorageUploadAndDelete(t *testing.T) {
	storage, fake := newTestStorage(t)
	ctx := context.Background()

	if err := storage.Ping(ctx); err != nil {
		t.Fatalf("Unexpected ping error: %v", err)
	}
	if storage.BucketName() != "artifacts" {
		t.Errorf("Expected bucket artifacts, got %s", storage.BucketName())
	}

	payload := "merged video bytes"
	err := storage.Upload(ctx, "merged/clip.mp4", strings.NewReader(payload), int64(len(payload)), "video/mp4", map[string]string{"title": "clip"})
	if err != nil {
		t.Fatalf("Unexpected upload error: %v", err)
	}

	stored, ok := fake.objects["/artifacts/merged/clip.mp4"]
	if !ok {
		t.Fatalf("Expected object at /artifacts/merged/clip.mp4, got %v", fake.objects)
	}
	if !strings.Contains(stored, payload) {
		t.Errorf("Stored body %q does not contain payload", stored)
	}

	if err := storage.Delete(ctx, "merged/clip.mp4"); err != nil {
		t.Errorf("Unexpected delete error: %v", err)
	}
	if _, ok := fake.objects["/artifacts/merged/clip.mp4"]; ok {
		t.Error("Expected object to be removed")
	}

	if err := storage.Delete(ctx, "merged/clip.mp4"); err != nil {
		t.Errorf("Expected deleting a missing object to succeed, got %v", err)
	}
}

func TestS3StoragePresignedURL(t *testing.T) {
	storage, _ := newTestStorage(t)

	url, err := storage.GeneratePresignedURL(context.Background(), "merged/clip.mp4", 15*time.Minute)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(url, "/artifacts/merged/clip.mp4") {
		t.Errorf("Expected path-style URL, got %s", url)
	}
	if !strings.Contains(url, "X-Amz-Expires=900") {
		t.Errorf("Expected 900s expiry in URL, got %s", url)
	}
}

func TestIsNotFoundError(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected bool
	}{
		{"Typed NotFound", &types.NotFound{}, true},
		{"Typed NoSuchKey", fmt.Errorf("wrapped: %w", &types.NoSuchKey{}), true},
		{"Generic API NotFound", &smithy.GenericAPIError{Code: "NotFound"}, true},
		{"Access denied", &smithy.GenericAPIError{Code: "AccessDenied"}, false},
		{"Network error", errors.New("connection refused"), false},
		{"Nil", nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isNotFoundError(tc.err); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestNewStorageDisabled(t *testing.T) {
	store, err := NewStorage(context.Background(), &config.S3Config{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if store != nil {
		t.Error("Expected no storage without a bucket")
	}
}

func TestArtifactKey(t *testing.T) {
	now := time.Date(2025, 3, 9, 23, 30, 0, 0, time.UTC)

	first := ArtifactKey(now, "clip.mp4")
	second := ArtifactKey(now, "clip.mp4")

	if !strings.HasPrefix(first, "merged/2025/03/09/") || !strings.HasSuffix(first, "/clip.mp4") {
		t.Errorf("Unexpected key layout: %s", first)
	}
	if first == second {
		t.Error("Expected unique keys for the same filename")
	}
}
