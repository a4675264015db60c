package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/vidsplit/internal/models"
	"github.com/denisAlshanov/vidsplit/internal/services/formats"
	"github.com/denisAlshanov/vidsplit/internal/services/relay"
	"github.com/denisAlshanov/vidsplit/internal/services/ytdlp"
	"github.com/denisAlshanov/vidsplit/internal/utils"
)

type StreamHandler struct {
	provider       ytdlp.MetadataProvider
	relay          *relay.Relay
	defaultQuality int
}

func NewStreamHandler(provider ytdlp.MetadataProvider, relay *relay.Relay, defaultQuality int) *StreamHandler {
	return &StreamHandler{
		provider:       provider,
		relay:          relay,
		defaultQuality: defaultQuality,
	}
}

// GetStream godoc
// @Summary Relay a single format
// @Description Stream the raw bytes of one format as the extraction tool produces them
// @Tags stream
// @Produce application/octet-stream
// @Param url query string true "Video URL"
// @Param formatId query string true "Format id from /separate-streams or /info"
// @Success 200 {file} binary "Media bytes"
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/get-stream [get]
func (h *StreamHandler) GetStream(c *gin.Context) {
	var query models.StreamQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		errorResponse(c, utils.NewInputError("Invalid query", map[string]interface{}{"error": err.Error()}))
		return
	}
	if strings.TrimSpace(query.URL) == "" || strings.TrimSpace(query.FormatID) == "" {
		errorResponse(c, utils.NewInputError("URL and formatId are required", nil))
		return
	}

	h.relayTo(c, query.URL, query.FormatID, "application/octet-stream", "")
}

// Download godoc
// @Summary Download audio or progressive video
// @Description Stream the best audio-only format, or the best progressive format under the quality ceiling, as an attachment
// @Tags stream
// @Produce application/octet-stream
// @Param url query string true "Video URL"
// @Param format query string false "audio or video" Enums(audio, video) default(video)
// @Param quality query string false "Quality ceiling for video, e.g. 720p"
// @Success 200 {file} binary "Media bytes"
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/download [get]
func (h *StreamHandler) Download(c *gin.Context) {
	ctx := c.Request.Context()

	var query models.DownloadQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		errorResponse(c, utils.NewInputError("Invalid query", map[string]interface{}{"error": err.Error()}))
		return
	}
	if appErr := requireURL(query.URL); appErr != nil {
		errorResponse(c, appErr)
		return
	}

	kind := strings.ToLower(strings.TrimSpace(query.Format))
	if kind == "" {
		kind = "video"
	}
	if kind != "audio" && kind != "video" {
		errorResponse(c, utils.NewInputError("Invalid format", map[string]interface{}{
			"format":    query.Format,
			"supported": []string{"audio", "video"},
		}))
		return
	}

	quality, appErr := parseQuality(query.Quality, h.defaultQuality)
	if appErr != nil {
		errorResponse(c, appErr)
		return
	}

	info, err := h.provider.FetchInfo(ctx, query.URL)
	if err != nil {
		utils.LogError(ctx, "Failed to fetch video info for download", err, utils.Fields{"url": query.URL})
		errorResponse(c, toAppError(err, "Failed to download"))
		return
	}

	if kind == "audio" {
		videoOnly, audioOnly := formats.Partition(info.Formats)
		if len(audioOnly) == 0 {
			noFormat := &formats.NoFormatError{VideoCandidates: len(videoOnly)}
			errorResponse(c, toAppError(noFormat, ""), noFormatExtra(noFormat))
			return
		}
		best := formats.BestAudio(audioOnly)
		filename := utils.SanitizeFileName(info.Title, best.Ext)
		h.relayTo(c, query.URL, best.FormatID, contentTypeFor(best.Ext, true), filename)
		return
	}

	selector := fmt.Sprintf("b[height<=%d][ext=mp4]/b[height<=%d]/b", quality, quality)
	filename := utils.SanitizeFileName(info.Title, "mp4")
	h.relayTo(c, query.URL, selector, "video/mp4", filename)
}

// relayTo opens the stream and copies it to the client. Failures before the
// first byte get a JSON error. After headers are out the only signal left is
// to abort the connection.
func (h *StreamHandler) relayTo(c *gin.Context, url, selector, contentType, filename string) {
	ctx := c.Request.Context()
	fields := utils.Fields{"url": url, "format": selector}

	stream, err := h.relay.Open(ctx, url, selector)
	if err != nil {
		utils.LogError(ctx, "Failed to start stream", err, fields)
		errorResponse(c, toAppError(err, "Failed to start stream"))
		return
	}
	defer stream.Close()

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "no-store")
	if filename != "" {
		c.Header("Content-Disposition", attachment(filename))
	}
	c.Status(http.StatusOK)

	start := time.Now()
	written, err := stream.WriteTo(c.Writer)
	fields["bytes"] = written
	fields["duration_ms"] = time.Since(start).Milliseconds()

	if err != nil {
		if ctx.Err() != nil {
			utils.LogInfo(ctx, "Client disconnected, stream stopped", fields)
			return
		}
		utils.LogError(ctx, "Stream failed after response started", err, fields)
		stream.Close()
		panic(http.ErrAbortHandler)
	}

	utils.LogInfo(ctx, "Stream completed", fields)
}
