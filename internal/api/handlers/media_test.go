package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/vidsplit/internal/services/formats"
	"github.com/denisAlshanov/vidsplit/internal/services/ytdlp"
)

func newMediaEngine(provider ytdlp.MetadataProvider) *gin.Engine {
	h := NewMediaHandler(provider, 1080)
	engine := gin.New()
	engine.GET("/info", h.Info)
	engine.GET("/formats", h.Formats)
	engine.GET("/estimate-size", h.EstimateSize)
	engine.GET("/separate-streams", h.SeparateStreams)
	return engine
}

func TestInfo(t *testing.T) {
	engine := newMediaEngine(&fakeProvider{info: sampleInfo()})

	rec := performRequest(engine, "/info?url=https://youtu.be/abc123")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["videoId"] != "abc123" || body["title"] != "My Video!" || body["author"] != "Channel" {
		t.Errorf("Unexpected video fields: %v", body)
	}
	if body["lengthSeconds"] != float64(100) {
		t.Errorf("Expected lengthSeconds 100, got %v", body["lengthSeconds"])
	}

	items := body["formats"].([]interface{})
	if len(items) != 5 {
		t.Fatalf("Expected 5 formats, got %d", len(items))
	}

	first := items[0].(map[string]interface{})
	if first["format_id"] != "137" || first["quality"] != "1080p" || first["vcodec"] != "avc1.640028" {
		t.Errorf("Unexpected first format: %v", first)
	}
	if first["hasVideo"] != true || first["hasAudio"] != false {
		t.Errorf("Expected video-only flags on 137, got %v", first)
	}
	if first["filesize"] != nil {
		t.Errorf("Expected null filesize for unknown size, got %v", first["filesize"])
	}

	progressive := items[4].(map[string]interface{})
	if progressive["filesize"] != float64(1000) {
		t.Errorf("Expected approximate filesize 1000, got %v", progressive["filesize"])
	}
}

func TestInfoErrors(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		target   string
		status   int
		code     string
		expCalls int
	}{
		{"Missing url", nil, "/info", http.StatusBadRequest, "INVALID_INPUT", 0},
		{"Blank url", nil, "/info?url=%20", http.StatusBadRequest, "INVALID_INPUT", 0},
		{"Extraction failure", &ytdlp.UpstreamError{Op: "metadata", Stderr: "ERROR: Video unavailable", Err: errors.New("exit status 1")}, "/info?url=x", http.StatusInternalServerError, "UPSTREAM_FAILED", 1},
		{"Unexpected failure", errors.New("boom"), "/info?url=x", http.StatusInternalServerError, "INTERNAL_ERROR", 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			provider := &fakeProvider{info: sampleInfo(), err: tc.err}
			rec := performRequest(newMediaEngine(provider), tc.target)

			body := expectError(t, rec, tc.status, tc.code)
			if provider.calls != tc.expCalls {
				t.Errorf("Expected %d metadata calls, got %d", tc.expCalls, provider.calls)
			}
			if tc.code == "UPSTREAM_FAILED" {
				details, _ := body["details"].(map[string]interface{})
				if details == nil {
					t.Errorf("Expected tool diagnostics in details, got %v", body)
				}
			}
		})
	}
}

func TestFormats(t *testing.T) {
	engine := newMediaEngine(&fakeProvider{info: sampleInfo()})

	rec := performRequest(engine, "/formats?url=x")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	qualities := body["qualities"].([]interface{})
	expected := []string{"1080p", "720p", "360p"}
	if len(qualities) != len(expected) {
		t.Fatalf("Expected qualities %v, got %v", expected, qualities)
	}
	for i, q := range expected {
		if qualities[i] != q {
			t.Errorf("Expected quality %s at %d, got %v", q, i, qualities[i])
		}
	}
	if body["bestQuality"] != "1080p" || body["hasAudio"] != true {
		t.Errorf("Unexpected summary: %v", body)
	}

	codecs := body["availableCodecs"].([]interface{})
	if len(codecs) != 2 || codecs[0] != "h264" || codecs[1] != "vp9" {
		t.Errorf("Expected [h264 vp9], got %v", codecs)
	}
}

func TestEstimateSize(t *testing.T) {
	engine := newMediaEngine(&fakeProvider{info: sampleInfo()})

	rec := performRequest(engine, "/estimate-size?url=x&quality=1080p&codec=h264")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	// (4000*100/8*1024 + 128*100/8*1024) * 1.02
	if body["sizeInBytes"] != float64(53895168) {
		t.Errorf("Expected 53895168 bytes, got %v", body["sizeInBytes"])
	}
	if body["sizeHuman"] != "51 MiB" {
		t.Errorf("Expected 51 MiB, got %v", body["sizeHuman"])
	}
	if body["videoHeight"] != float64(1080) || body["videoCodec"] != "avc1.640028" || body["audioCodec"] != "mp4a.40.2" {
		t.Errorf("Unexpected pair: %v", body)
	}
	if body["videoSizeSource"] != "bitrate" || body["audioSizeSource"] != "bitrate" {
		t.Errorf("Expected bitrate sources, got %v / %v", body["videoSizeSource"], body["audioSizeSource"])
	}
	if body["codecFallback"] != false || body["qualityFallback"] != false {
		t.Errorf("Expected no fallback, got %v", body)
	}
}

func TestEstimateSizeNoFormat(t *testing.T) {
	info := sampleInfo()
	info.Formats = info.Formats[4:]
	engine := newMediaEngine(&fakeProvider{info: info})

	rec := performRequest(engine, "/estimate-size?url=x")
	body := expectError(t, rec, http.StatusNotFound, "NO_FORMAT")

	if body["sizeInBytes"] != float64(0) {
		t.Errorf("Expected sizeInBytes 0, got %v", body["sizeInBytes"])
	}
	if body["videoFormatsFound"] != float64(0) || body["audioFormatsFound"] != float64(0) {
		t.Errorf("Expected zero candidate counts, got %v", body)
	}
}

func TestSelectionParameterValidation(t *testing.T) {
	testCases := []struct {
		name  string
		query string
	}{
		{"Non-numeric quality", "quality=best"},
		{"Zero quality", "quality=0"},
		{"Negative quality", "quality=-720"},
		{"Unknown codec", "codec=h265"},
	}

	for _, tc := range testCases {
		for _, path := range []string{"/estimate-size", "/separate-streams"} {
			t.Run(tc.name+" "+path, func(t *testing.T) {
				provider := &fakeProvider{info: sampleInfo()}
				rec := performRequest(newMediaEngine(provider), path+"?url=x&"+tc.query)

				expectError(t, rec, http.StatusBadRequest, "INVALID_INPUT")
				if provider.calls != 0 {
					t.Error("Metadata must not be fetched for invalid parameters")
				}
			})
		}
	}
}

func TestSeparateStreams(t *testing.T) {
	testCases := []struct {
		name            string
		query           string
		videoFormatID   string
		videoHeight     float64
		codecFallback   bool
		qualityFallback bool
	}{
		{"Default ceiling", "", "137", 1080, false, false},
		{"Quality without suffix", "quality=720", "136", 720, false, false},
		{"Codec preference honored", "codec=VP9", "248", 1080, false, false},
		{"Codec preference relaxed", "codec=av1", "137", 1080, true, false},
		{"Ceiling relaxed", "quality=240p", "137", 1080, false, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			engine := newMediaEngine(&fakeProvider{info: sampleInfo()})

			rec := performRequest(engine, "/separate-streams?url=x&"+tc.query)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}

			body := decodeBody(t, rec)
			if body["videoFormatId"] != tc.videoFormatID {
				t.Errorf("Expected video format %s, got %v", tc.videoFormatID, body["videoFormatId"])
			}
			if body["audioFormatId"] != "140" {
				t.Errorf("Expected audio format 140, got %v", body["audioFormatId"])
			}
			if body["videoHeight"] != tc.videoHeight {
				t.Errorf("Expected height %v, got %v", tc.videoHeight, body["videoHeight"])
			}
			if body["codecFallback"] != tc.codecFallback || body["qualityFallback"] != tc.qualityFallback {
				t.Errorf("Unexpected fallback flags: %v", body)
			}
			if body["title"] != "My Video!" {
				t.Errorf("Expected title, got %v", body["title"])
			}
		})
	}
}

func TestSeparateStreamsNoAudio(t *testing.T) {
	info := sampleInfo()
	info.Formats = info.Formats[:3]
	engine := newMediaEngine(&fakeProvider{info: info})

	rec := performRequest(engine, "/separate-streams?url=x")
	body := expectError(t, rec, http.StatusNotFound, "NO_FORMAT")

	if body["videoFormatsFound"] != float64(3) || body["audioFormatsFound"] != float64(0) {
		t.Errorf("Expected 3 video and 0 audio candidates, got %v", body)
	}
}

func TestToAppError(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		code string
	}{
		{"No format", &formats.NoFormatError{VideoCandidates: 1}, "NO_FORMAT"},
		{"Upstream", &ytdlp.UpstreamError{Op: "metadata", Err: errors.New("exit status 1")}, "UPSTREAM_FAILED"},
		{"Empty url", ytdlp.ErrEmptyURL, "INVALID_INPUT"},
		{"Other", errors.New("boom"), "INTERNAL_ERROR"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := toAppError(tc.err, "failed"); string(got.Code) != tc.code {
				t.Errorf("Expected %s, got %s", tc.code, got.Code)
			}
		})
	}
}
