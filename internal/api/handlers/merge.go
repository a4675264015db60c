package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/vidsplit/internal/config"
	"github.com/denisAlshanov/vidsplit/internal/models"
	"github.com/denisAlshanov/vidsplit/internal/services/merge"
	"github.com/denisAlshanov/vidsplit/internal/services/relay"
	"github.com/denisAlshanov/vidsplit/internal/services/storage"
	"github.com/denisAlshanov/vidsplit/internal/services/ytdlp"
	"github.com/denisAlshanov/vidsplit/internal/utils"
)

type MergeHandler struct {
	provider       ytdlp.MetadataProvider
	relay          *relay.Relay
	orchestrator   *merge.Orchestrator
	storage        storage.ArtifactStore
	config         config.MergeConfig
	defaultQuality int
}

// NewMergeHandler creates the handler. store may be nil when no bucket is
// configured.
func NewMergeHandler(provider ytdlp.MetadataProvider, relay *relay.Relay, orchestrator *merge.Orchestrator, store storage.ArtifactStore, cfg config.MergeConfig, defaultQuality int) *MergeHandler {
	return &MergeHandler{
		provider:       provider,
		relay:          relay,
		orchestrator:   orchestrator,
		storage:        store,
		config:         cfg,
		defaultQuality: defaultQuality,
	}
}

// Merge godoc
// @Summary Merge video and audio on the server
// @Description Select the best pair, relay both streams into ffmpeg and return the merged MP4. With store=true the result is uploaded and a presigned URL is returned instead.
// @Tags merge
// @Produce video/mp4
// @Produce json
// @Param url query string true "Video URL"
// @Param quality query string false "Quality ceiling, e.g. 1080p"
// @Param codec query string false "Preferred video codec" Enums(h264, vp9, av1)
// @Param store query bool false "Upload the result to object storage"
// @Success 200 {file} binary "Merged MP4"
// @Success 200 {object} models.StoredArtifactResponse "When store=true"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/merge [get]
func (h *MergeHandler) Merge(c *gin.Context) {
	var query models.MergeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		errorResponse(c, utils.NewInputError("Invalid query", map[string]interface{}{"error": err.Error()}))
		return
	}
	if appErr := requireURL(query.URL); appErr != nil {
		errorResponse(c, appErr)
		return
	}
	req, appErr := parseSelection(query.Quality, query.Codec, h.defaultQuality)
	if appErr != nil {
		errorResponse(c, appErr)
		return
	}
	if query.Store && h.storage == nil {
		errorResponse(c, utils.NewInputError("Storage is not configured", nil))
		return
	}
	if !h.orchestrator.Available() {
		errorResponse(c, utils.NewMergeError(merge.ErrMuxerUnavailable))
		return
	}

	ctx, cancel := h.mergeContext(c.Request.Context())
	defer cancel()

	info, err := h.provider.FetchInfo(ctx, query.URL)
	if err != nil {
		utils.LogError(ctx, "Failed to fetch video info for merge", err, utils.Fields{"url": query.URL})
		errorResponse(c, toAppError(err, fetchInfoFailed))
		return
	}

	pair, err := selectPair(ctx, info, req)
	if err != nil {
		errorResponse(c, toAppError(err, ""), noFormatExtra(err))
		return
	}

	fields := utils.Fields{
		"video_id":     info.ID,
		"video_format": pair.Video.FormatID,
		"audio_format": pair.Audio.FormatID,
	}

	video, err := h.relay.Open(ctx, query.URL, pair.Video.FormatID)
	if err != nil {
		utils.LogError(ctx, "Failed to start video stream", err, fields)
		errorResponse(c, toAppError(err, "Failed to start video stream"))
		return
	}
	defer video.Close()

	audio, err := h.relay.Open(ctx, query.URL, pair.Audio.FormatID)
	if err != nil {
		utils.LogError(ctx, "Failed to start audio stream", err, fields)
		errorResponse(c, toAppError(err, "Failed to start audio stream"))
		return
	}
	defer audio.Close()

	start := time.Now()
	filename := utils.SanitizeFileName(info.Title, "mp4")
	artifact, err := h.orchestrator.Merge(ctx, video, audio, filename)
	if err != nil {
		utils.LogError(ctx, "Merge failed", err, fields)
		var relayErr *relay.RelayError
		if errors.As(err, &relayErr) {
			errorResponse(c, utils.NewRelayError("Failed to read source stream", err))
			return
		}
		errorResponse(c, utils.NewMergeError(err))
		return
	}
	defer artifact.Close()

	fields["bytes"] = artifact.Size
	fields["duration_ms"] = time.Since(start).Milliseconds()
	utils.LogInfo(ctx, "Merge completed", fields)

	if query.Store {
		h.store(c, ctx, artifact, fields)
		return
	}

	c.DataFromReader(http.StatusOK, artifact.Size, "video/mp4", artifact, map[string]string{
		"Content-Disposition": attachment(artifact.Filename),
	})
}

func (h *MergeHandler) mergeContext(parent context.Context) (context.Context, context.CancelFunc) {
	if h.config.Timeout > 0 {
		return context.WithTimeout(parent, h.config.Timeout)
	}
	return context.WithCancel(parent)
}

func (h *MergeHandler) store(c *gin.Context, ctx context.Context, artifact *merge.Artifact, fields utils.Fields) {
	key := storage.ArtifactKey(time.Now(), artifact.Filename)
	fields["key"] = key
	fields["bucket"] = h.storage.BucketName()

	metadata := map[string]string{
		"video-id":     fields["video_id"].(string),
		"video-format": fields["video_format"].(string),
		"audio-format": fields["audio_format"].(string),
		"size":         strconv.FormatInt(artifact.Size, 10),
	}

	if err := h.storage.Upload(ctx, key, artifact, artifact.Size, "video/mp4", metadata); err != nil {
		utils.LogError(ctx, "Failed to upload merged file", err, fields)
		errorResponse(c, utils.NewStorageError(err))
		return
	}

	url, err := h.storage.GeneratePresignedURL(ctx, key, h.config.URLExpiry)
	if err != nil {
		utils.LogError(ctx, "Failed to presign merged file", err, fields)
		h.discard(ctx, key, fields)
		errorResponse(c, utils.NewStorageError(err))
		return
	}

	utils.LogInfo(ctx, "Merged file stored", fields)

	c.JSON(http.StatusOK, models.StoredArtifactResponse{
		Key:         key,
		URL:         url,
		ExpiresAt:   time.Now().Add(h.config.URLExpiry).UTC(),
		SizeInBytes: artifact.Size,
	})
}

// discard removes an uploaded object nobody can reach. It outlives the
// request context so a timed-out merge still cleans up.
func (h *MergeHandler) discard(ctx context.Context, key string, fields utils.Fields) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()

	if err := h.storage.Delete(ctx, key); err != nil {
		utils.LogError(ctx, "Failed to remove unreachable merged file", err, fields)
	}
}
