package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "PORT", "API_PREFIX", "DEFAULT_QUALITY", "S3_BUCKET_NAME", "CORS_PROFILE", "METADATA_TIMEOUT", "LOG_LEVEL", "LOG_FORMAT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Server.Port != "3000" {
		t.Errorf("Expected port 3000, got %s", cfg.Server.Port)
	}
	if cfg.API.Prefix != "/api" {
		t.Errorf("Expected /api prefix, got %s", cfg.API.Prefix)
	}
	if cfg.Selection.DefaultQuality != 1080 {
		t.Errorf("Expected default quality 1080, got %d", cfg.Selection.DefaultQuality)
	}
	if cfg.YTDLP.MetadataTimeout != 60*time.Second {
		t.Errorf("Expected 60s metadata timeout, got %s", cfg.YTDLP.MetadataTimeout)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Expected info/json logging, got %s/%s", cfg.Log.Level, cfg.Log.Format)
	}
	if cfg.Relay.BufferSize != 32*1024 {
		t.Errorf("Expected 32 KiB relay buffer, got %d", cfg.Relay.BufferSize)
	}
	if cfg.S3.Enabled() {
		t.Error("Expected storage to be disabled without a bucket")
	}
	if cfg.CORS.Profile != "public" || !cfg.CORS.CrossOriginIsolation {
		t.Errorf("Expected public CORS with isolation, got %+v", cfg.CORS)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DEFAULT_QUALITY", "720")
	t.Setenv("MERGE_TIMEOUT", "5m")
	t.Setenv("S3_BUCKET_NAME", "artifacts")
	t.Setenv("CORS_PROFILE", "production")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected PORT fallback 8080, got %s", cfg.Server.Port)
	}
	if cfg.Selection.DefaultQuality != 720 {
		t.Errorf("Expected quality 720, got %d", cfg.Selection.DefaultQuality)
	}
	if cfg.Merge.Timeout != 5*time.Minute {
		t.Errorf("Expected 5m merge timeout, got %s", cfg.Merge.Timeout)
	}
	if !cfg.S3.Enabled() {
		t.Error("Expected storage to be enabled")
	}
	origins := cfg.CORS.AllowedOrigins
	if cfg.CORS.Profile != "production" || len(origins) != 2 || origins[1] != "https://b.example.com" {
		t.Errorf("Unexpected CORS config %+v", cfg.CORS)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"Bad duration", "METADATA_TIMEOUT", "soon"},
		{"Bad shutdown timeout", "SHUTDOWN_TIMEOUT", "10"},
		{"Non-positive quality", "DEFAULT_QUALITY", "-1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			if _, err := Load(); err == nil {
				t.Errorf("Expected error for %s=%s", tc.key, tc.value)
			}
		})
	}
}
