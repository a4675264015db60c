package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/vidsplit/internal/services/formats"
	"github.com/denisAlshanov/vidsplit/internal/services/relay"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeProvider struct {
	info  *formats.MediaInfo
	err   error
	calls int
}

func (f *fakeProvider) FetchInfo(ctx context.Context, url string) (*formats.MediaInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

// echoFactory writes the requested format selector to stdout, so a response
// body shows which format was relayed.
type echoFactory struct{}

func (echoFactory) StreamCommand(ctx context.Context, url, formatSelector string) *exec.Cmd {
	return exec.CommandContext(ctx, "/bin/sh", "-c", `printf '%s' "$1"`, "sh", formatSelector)
}

type scriptFactory struct {
	script string
}

func (f scriptFactory) StreamCommand(ctx context.Context, url, formatSelector string) *exec.Cmd {
	return exec.CommandContext(ctx, "/bin/sh", "-c", f.script)
}

func newTestRelay(t *testing.T, factory relay.CommandFactory) *relay.Relay {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("relay tests need /bin/sh")
	}
	return relay.New(factory, 1024, time.Second)
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func int64Ptr(v int64) *int64     { return &v }

// sampleInfo has two 1080p video-only formats (h264, vp9), a 720p h264 one,
// one audio-only format and a 360p progressive format.
func sampleInfo() *formats.MediaInfo {
	return &formats.MediaInfo{
		ID:              "abc123",
		Title:           "My Video!",
		Author:          "Channel",
		DurationSeconds: 100,
		ViewCount:       42,
		ThumbnailURL:    "https://i.ytimg.com/vi/abc123/maxresdefault.jpg",
		Formats: []formats.Format{
			{FormatID: "137", Ext: "mp4", VideoCodec: "avc1.640028", AudioCodec: "none", Height: intPtr(1080), Width: intPtr(1920), FPS: floatPtr(30), TotalBitrateKbps: floatPtr(4000)},
			{FormatID: "248", Ext: "webm", VideoCodec: "vp9", AudioCodec: "none", Height: intPtr(1080), Width: intPtr(1920), TotalBitrateKbps: floatPtr(2500)},
			{FormatID: "136", Ext: "mp4", VideoCodec: "avc1.4d401f", AudioCodec: "none", Height: intPtr(720), Width: intPtr(1280), TotalBitrateKbps: floatPtr(2000)},
			{FormatID: "140", Ext: "m4a", VideoCodec: "none", AudioCodec: "mp4a.40.2", AudioBitrateKbps: floatPtr(128)},
			{FormatID: "18", Ext: "mp4", VideoCodec: "avc1.42001E", AudioCodec: "mp4a.40.2", Height: intPtr(360), FormatNote: "360p", ApproxSizeBytes: int64Ptr(1000)},
		},
	}
}

func performRequest(handler http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body %q: %v", rec.Body.String(), err)
	}
	return body
}

func expectError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) map[string]interface{} {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("Expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["code"] != code {
		t.Errorf("Expected code %s, got %v", code, body["code"])
	}
	if _, ok := body["error"].(string); !ok {
		t.Errorf("Expected error message in body, got %v", body)
	}
	if _, ok := body["timestamp"]; !ok {
		t.Error("Expected timestamp in error body")
	}
	return body
}
