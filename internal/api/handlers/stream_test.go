package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/vidsplit/internal/api/middleware"
	"github.com/denisAlshanov/vidsplit/internal/services/relay"
)

func newStreamEngine(provider *fakeProvider, r *relay.Relay) *gin.Engine {
	h := NewStreamHandler(provider, r, 1080)
	engine := gin.New()
	engine.Use(middleware.RecoveryMiddleware())
	engine.GET("/get-stream", h.GetStream)
	engine.GET("/download", h.Download)
	return engine
}

func TestGetStream(t *testing.T) {
	r := newTestRelay(t, echoFactory{})
	engine := newStreamEngine(&fakeProvider{info: sampleInfo()}, r)

	rec := performRequest(engine, "/get-stream?url=x&formatId=137")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != "137" {
		t.Errorf("Expected relayed bytes %q, got %q", "137", rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("Expected octet-stream, got %s", ct)
	}
	if r.Active() != 0 {
		t.Errorf("Expected no active streams after the response, got %d", r.Active())
	}
}

func TestGetStreamMissingParameters(t *testing.T) {
	r := newTestRelay(t, echoFactory{})
	engine := newStreamEngine(&fakeProvider{info: sampleInfo()}, r)

	for _, target := range []string{"/get-stream", "/get-stream?url=x", "/get-stream?formatId=137"} {
		t.Run(target, func(t *testing.T) {
			rec := performRequest(engine, target)
			expectError(t, rec, http.StatusBadRequest, "INVALID_INPUT")
		})
	}
}

func TestGetStreamEmptySuccess(t *testing.T) {
	r := newTestRelay(t, scriptFactory{script: "exit 0"})
	engine := newStreamEngine(&fakeProvider{info: sampleInfo()}, r)

	rec := performRequest(engine, "/get-stream?url=x&formatId=137")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 for an empty stream, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() != 0 {
		t.Errorf("Expected an empty body, got %q", rec.Body.String())
	}
	if r.Active() != 0 {
		t.Errorf("Expected no active streams, got %d", r.Active())
	}
}

func TestGetStreamFailsBeforeFirstByte(t *testing.T) {
	r := newTestRelay(t, scriptFactory{script: "echo 'ERROR: Requested format is not available' >&2; exit 1"})
	engine := newStreamEngine(&fakeProvider{info: sampleInfo()}, r)

	rec := performRequest(engine, "/get-stream?url=x&formatId=999")
	body := expectError(t, rec, http.StatusInternalServerError, "RELAY_FAILED")

	details, _ := body["details"].(map[string]interface{})
	if details == nil || details["details"] == "" {
		t.Errorf("Expected exit diagnostics in details, got %v", body)
	}
}

func TestGetStreamAbortsAfterHeaders(t *testing.T) {
	r := newTestRelay(t, scriptFactory{script: "printf 'partial'; sleep 0.1; exit 1"})
	server := httptest.NewServer(newStreamEngine(&fakeProvider{info: sampleInfo()}, r))
	defer server.Close()

	resp, err := http.Get(server.URL + "/get-stream?url=x&formatId=137")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected headers with 200 before the failure, got %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err == nil {
		t.Errorf("Expected a truncated body, read %q without error", data)
	}
	if string(data) != "partial" {
		t.Errorf("Expected the bytes sent before the failure, got %q", data)
	}
}

func TestGetStreamClientDisconnectStopsProcess(t *testing.T) {
	r := newTestRelay(t, scriptFactory{script: "while true; do printf 'chunk'; sleep 0.05; done"})
	server := httptest.NewServer(newStreamEngine(&fakeProvider{info: sampleInfo()}, r))
	defer server.Close()

	resp, err := http.Get(server.URL + "/get-stream?url=x&formatId=137")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	buf := make([]byte, 5)
	if _, err := io.ReadFull(resp.Body, buf); err != nil {
		t.Fatalf("Failed to read first chunk: %v", err)
	}
	if r.Active() != 1 {
		t.Errorf("Expected 1 active stream, got %d", r.Active())
	}
	resp.Body.Close()

	deadline := time.Now().Add(5 * time.Second)
	for r.Active() != 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	if r.Active() != 0 {
		t.Errorf("Expected the stream process to be stopped after disconnect, %d still active", r.Active())
	}
}

func TestDownload(t *testing.T) {
	testCases := []struct {
		name        string
		query       string
		body        string
		contentType string
		disposition string
	}{
		{
			name:        "Audio",
			query:       "format=audio",
			body:        "140",
			contentType: "audio/mp4",
			disposition: `attachment; filename="My_Video.m4a"`,
		},
		{
			name:        "Video default",
			query:       "",
			body:        "b[height<=1080][ext=mp4]/b[height<=1080]/b",
			contentType: "video/mp4",
			disposition: `attachment; filename="My_Video.mp4"`,
		},
		{
			name:        "Video with quality",
			query:       "format=video&quality=720p",
			body:        "b[height<=720][ext=mp4]/b[height<=720]/b",
			contentType: "video/mp4",
			disposition: `attachment; filename="My_Video.mp4"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRelay(t, echoFactory{})
			engine := newStreamEngine(&fakeProvider{info: sampleInfo()}, r)

			rec := performRequest(engine, "/download?url=x&"+tc.query)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			if rec.Body.String() != tc.body {
				t.Errorf("Expected selector %q, got %q", tc.body, rec.Body.String())
			}
			if ct := rec.Header().Get("Content-Type"); ct != tc.contentType {
				t.Errorf("Expected content type %s, got %s", tc.contentType, ct)
			}
			if cd := rec.Header().Get("Content-Disposition"); cd != tc.disposition {
				t.Errorf("Expected disposition %s, got %s", tc.disposition, cd)
			}
		})
	}
}

func TestDownloadErrors(t *testing.T) {
	noAudio := sampleInfo()
	noAudio.Formats = noAudio.Formats[:3]

	testCases := []struct {
		name   string
		info   *fakeProvider
		query  string
		status int
		code   string
	}{
		{"Missing url", &fakeProvider{info: sampleInfo()}, "/download", http.StatusBadRequest, "INVALID_INPUT"},
		{"Unknown format", &fakeProvider{info: sampleInfo()}, "/download?url=x&format=gif", http.StatusBadRequest, "INVALID_INPUT"},
		{"Invalid quality", &fakeProvider{info: sampleInfo()}, "/download?url=x&quality=hd", http.StatusBadRequest, "INVALID_INPUT"},
		{"No audio-only format", &fakeProvider{info: noAudio}, "/download?url=x&format=audio", http.StatusNotFound, "NO_FORMAT"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRelay(t, echoFactory{})
			rec := performRequest(newStreamEngine(tc.info, r), tc.query)
			expectError(t, rec, tc.status, tc.code)
		})
	}
}

func TestContentTypeFor(t *testing.T) {
	testCases := []struct {
		ext      string
		audio    bool
		expected string
	}{
		{"m4a", true, "audio/mp4"},
		{"webm", true, "audio/webm"},
		{"webm", false, "video/webm"},
		{".mp4", false, "video/mp4"},
		{"opus", true, "audio/ogg"},
		{"unknownext", true, "application/octet-stream"},
	}

	for _, tc := range testCases {
		t.Run(tc.ext, func(t *testing.T) {
			if got := contentTypeFor(tc.ext, tc.audio); got != tc.expected {
				t.Errorf("contentTypeFor(%q, %v) = %s, want %s", tc.ext, tc.audio, got, tc.expected)
			}
		})
	}
}
