package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/vidsplit/internal/models"
	"github.com/denisAlshanov/vidsplit/internal/services/storage"
	"github.com/denisAlshanov/vidsplit/internal/utils"
)

const checkTimeout = 5 * time.Second

// VersionProber reports the version of an external tool.
type VersionProber interface {
	Version(ctx context.Context) (string, error)
}

// MuxerProber is the part of the muxer the dependency check needs.
type MuxerProber interface {
	VersionProber
	Available() bool
}

// ActiveCounter reports the number of live relays.
type ActiveCounter interface {
	Active() int64
}

type HealthHandler struct {
	ytdlp   VersionProber
	muxer   MuxerProber
	storage storage.ArtifactStore
	streams ActiveCounter
}

// NewHealthHandler creates the handler. store may be nil.
func NewHealthHandler(ytdlp VersionProber, muxer MuxerProber, store storage.ArtifactStore, streams ActiveCounter) *HealthHandler {
	return &HealthHandler{
		ytdlp:   ytdlp,
		muxer:   muxer,
		storage: store,
		streams: streams,
	}
}

// Health godoc
// @Summary Health check endpoint
// @Description Report that the server is running
// @Tags health
// @Produce json
// @Success 200 {object} models.StatusResponse
// @Router /api/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.StatusResponse{
		Status:    "ok",
		Message:   "Server is running",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Readiness godoc
// @Summary Readiness check endpoint
// @Description Check that yt-dlp runs and that the artifact bucket, when configured, is reachable
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Success 503 {object} map[string]interface{}
// @Router /ready [get]
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
	defer cancel()

	ready := true
	checks := make(map[string]interface{})

	if _, err := h.ytdlp.Version(ctx); err != nil {
		ready = false
		checks["ytdlp"] = map[string]interface{}{"ready": false, "error": err.Error()}
	} else {
		checks["ytdlp"] = map[string]interface{}{"ready": true}
	}

	if h.storage != nil {
		if err := h.storage.Ping(ctx); err != nil {
			ready = false
			checks["storage"] = map[string]interface{}{"ready": false, "error": err.Error()}
		} else {
			checks["storage"] = map[string]interface{}{"ready": true}
		}
	}

	response := map[string]interface{}{
		"ready":     ready,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	}

	if ready {
		c.JSON(http.StatusOK, response)
	} else {
		c.JSON(http.StatusServiceUnavailable, response)
	}
}

// Liveness godoc
// @Summary Liveness check endpoint
// @Description Check if the service is alive
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /live [get]
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"alive":     true,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// CheckDependencies godoc
// @Summary Check external dependencies
// @Description Report the yt-dlp and ffmpeg versions, storage status, active streams and host summary
// @Tags health
// @Produce json
// @Success 200 {object} models.DependenciesResponse
// @Failure 500 {object} models.DependenciesResponse
// @Router /api/check-dependencies [get]
func (h *HealthHandler) CheckDependencies(c *gin.Context) {
	ctx := c.Request.Context()

	response := models.DependenciesResponse{
		Storage:       h.checkStorage(ctx),
		ActiveStreams: h.streams.Active(),
		System: models.SystemInfo{
			Platform: runtime.GOOS,
			Memory:   memorySummary(),
			Cores:    runtime.NumCPU(),
		},
	}

	if h.muxer.Available() {
		response.FFmpeg = true
		if version, err := h.probe(ctx, h.muxer); err == nil {
			response.FFmpegVersion = version
		}
	}

	version, err := h.probe(ctx, h.ytdlp)
	if err != nil {
		utils.LogError(ctx, "yt-dlp dependency check failed", err)
		response.Error = "yt-dlp is not installed or not runnable"
		c.JSON(http.StatusInternalServerError, response)
		return
	}
	response.YTDLP = true
	response.YTDLPVersion = version

	c.JSON(http.StatusOK, response)
}

func (h *HealthHandler) probe(ctx context.Context, p VersionProber) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	return p.Version(ctx)
}

func (h *HealthHandler) checkStorage(ctx context.Context) string {
	if h.storage == nil {
		return "disabled"
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		utils.LogError(ctx, "Storage health check failed", err)
		return "error"
	}
	return "ok"
}

func memorySummary() string {
	total := totalMemory()
	if total == 0 {
		return "unknown"
	}
	return humanize.IBytes(total)
}
