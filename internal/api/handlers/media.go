package handlers

import (
	"net/http"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/vidsplit/internal/models"
	"github.com/denisAlshanov/vidsplit/internal/services/formats"
	"github.com/denisAlshanov/vidsplit/internal/services/ytdlp"
	"github.com/denisAlshanov/vidsplit/internal/utils"
)

const fetchInfoFailed = "Failed to fetch video information"

type MediaHandler struct {
	provider       ytdlp.MetadataProvider
	defaultQuality int
}

func NewMediaHandler(provider ytdlp.MetadataProvider, defaultQuality int) *MediaHandler {
	return &MediaHandler{
		provider:       provider,
		defaultQuality: defaultQuality,
	}
}

// Info godoc
// @Summary Get video information
// @Description Fetch title, author, duration and the list of available formats of a video
// @Tags media
// @Produce json
// @Param url query string true "Video URL"
// @Success 200 {object} models.VideoInfoResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/info [get]
func (h *MediaHandler) Info(c *gin.Context) {
	ctx := c.Request.Context()

	var query models.VideoQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		errorResponse(c, utils.NewInputError("Invalid query", map[string]interface{}{"error": err.Error()}))
		return
	}
	if appErr := requireURL(query.URL); appErr != nil {
		errorResponse(c, appErr)
		return
	}

	info, err := h.provider.FetchInfo(ctx, query.URL)
	if err != nil {
		utils.LogError(ctx, "Failed to fetch video info", err, utils.Fields{"url": query.URL})
		errorResponse(c, toAppError(err, fetchInfoFailed))
		return
	}

	items := make([]models.FormatItem, len(info.Formats))
	for i, f := range info.Formats {
		item := models.FormatItem{
			FormatID:   f.FormatID,
			Quality:    f.QualityLabel(),
			Resolution: f.Resolution,
			FPS:        f.FPS,
			HasVideo:   f.HasVideo(),
			HasAudio:   f.HasAudio(),
			VCodec:     f.VideoCodec,
		}
		if size := f.FileSize(); size > 0 {
			item.Filesize = &size
		}
		items[i] = item
	}

	c.JSON(http.StatusOK, models.VideoInfoResponse{
		VideoID:       info.ID,
		Title:         info.Title,
		Author:        info.Author,
		LengthSeconds: info.DurationSeconds,
		ViewCount:     info.ViewCount,
		Thumbnail:     info.ThumbnailURL,
		Formats:       items,
	})
}

// Formats godoc
// @Summary Get available qualities
// @Description Summarize the distinct video heights and codec families of a video
// @Tags media
// @Produce json
// @Param url query string true "Video URL"
// @Success 200 {object} models.FormatsResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/formats [get]
func (h *MediaHandler) Formats(c *gin.Context) {
	ctx := c.Request.Context()

	url := c.Query("url")
	if appErr := requireURL(url); appErr != nil {
		errorResponse(c, appErr)
		return
	}

	info, err := h.provider.FetchInfo(ctx, url)
	if err != nil {
		utils.LogError(ctx, "Failed to fetch formats", err, utils.Fields{"url": url})
		errorResponse(c, toAppError(err, "Failed to fetch formats"))
		return
	}

	summary := formats.Summarize(*info)
	codecs := make([]string, len(summary.AvailableCodecs))
	for i, tag := range summary.AvailableCodecs {
		codecs[i] = string(tag)
	}

	c.JSON(http.StatusOK, models.FormatsResponse{
		Qualities:       summary.Qualities,
		HasAudio:        summary.HasAudio,
		BestQuality:     summary.BestQuality,
		AvailableCodecs: codecs,
	})
}

// EstimateSize godoc
// @Summary Estimate merged size
// @Description Select the best video/audio pair under the quality ceiling and estimate the size of the merged file
// @Tags media
// @Produce json
// @Param url query string true "Video URL"
// @Param quality query string false "Quality ceiling, e.g. 720p"
// @Param codec query string false "Preferred video codec" Enums(h264, vp9, av1)
// @Success 200 {object} models.EstimateSizeResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/estimate-size [get]
func (h *MediaHandler) EstimateSize(c *gin.Context) {
	ctx := c.Request.Context()

	var query models.SelectionQuery
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

	info, err := h.provider.FetchInfo(ctx, query.URL)
	if err != nil {
		utils.LogError(ctx, "Failed to fetch video info for size estimate", err, utils.Fields{"url": query.URL})
		errorResponse(c, toAppError(err, "Failed to estimate size"))
		return
	}

	pair, err := selectPair(ctx, info, req)
	if err != nil {
		extra := noFormatExtra(err)
		extra["sizeInBytes"] = 0
		errorResponse(c, toAppError(err, ""), extra)
		return
	}

	estimate := formats.EstimateBreakdown(pair, info.DurationSeconds)

	c.JSON(http.StatusOK, models.EstimateSizeResponse{
		SizeInBytes:     estimate.Total,
		SizeHuman:       humanize.IBytes(uint64(estimate.Total)),
		VideoHeight:     pair.Video.HeightOrZero(),
		VideoCodec:      pair.Video.VideoCodec,
		AudioCodec:      pair.Audio.AudioCodec,
		VideoSizeSource: string(estimate.Video.Source),
		AudioSizeSource: string(estimate.Audio.Source),
		CodecFallback:   pair.CodecRelaxed,
		QualityFallback: pair.CeilingRelaxed,
	})
}

// SeparateStreams godoc
// @Summary Select separate video and audio streams
// @Description Return the format ids of the best video-only and audio-only streams for client-side merging
// @Tags media
// @Produce json
// @Param url query string true "Video URL"
// @Param quality query string false "Quality ceiling, e.g. 720p"
// @Param codec query string false "Preferred video codec" Enums(h264, vp9, av1)
// @Success 200 {object} models.SeparateStreamsResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/separate-streams [get]
func (h *MediaHandler) SeparateStreams(c *gin.Context) {
	ctx := c.Request.Context()

	var query models.SelectionQuery
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

	info, err := h.provider.FetchInfo(ctx, query.URL)
	if err != nil {
		utils.LogError(ctx, "Failed to fetch video info for stream selection", err, utils.Fields{"url": query.URL})
		errorResponse(c, toAppError(err, "Failed to get separate streams"))
		return
	}

	pair, err := selectPair(ctx, info, req)
	if err != nil {
		errorResponse(c, toAppError(err, ""), noFormatExtra(err))
		return
	}

	utils.LogInfo(ctx, "Selected separate streams", utils.Fields{
		"video_id":     info.ID,
		"video_format": pair.Video.FormatID,
		"audio_format": pair.Audio.FormatID,
	})

	c.JSON(http.StatusOK, models.SeparateStreamsResponse{
		Title:           info.Title,
		VideoFormatID:   pair.Video.FormatID,
		AudioFormatID:   pair.Audio.FormatID,
		VideoCodec:      pair.Video.VideoCodec,
		AudioCodec:      pair.Audio.AudioCodec,
		VideoHeight:     pair.Video.HeightOrZero(),
		VideoWidth:      pair.Video.WidthOrZero(),
		CodecFallback:   pair.CodecRelaxed,
		QualityFallback: pair.CeilingRelaxed,
	})
}
