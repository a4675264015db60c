package handlers

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/denisAlshanov/vidsplit/internal/services/formats"
	"github.com/denisAlshanov/vidsplit/internal/services/merge"
	"github.com/denisAlshanov/vidsplit/internal/services/relay"
	"github.com/denisAlshanov/vidsplit/internal/services/ytdlp"
	"github.com/denisAlshanov/vidsplit/internal/utils"
)

// errorResponse writes err as the JSON error body. extra fields are merged
// into the top level of the body.
func errorResponse(c *gin.Context, err *utils.AppError, extra ...gin.H) {
	body := gin.H{
		"error":      err.Message,
		"code":       err.Code,
		"request_id": c.GetString("request_id"),
		"timestamp":  time.Now().Format(time.RFC3339),
	}
	if len(err.Details) > 0 {
		body["details"] = err.Details
	}
	for _, fields := range extra {
		for k, v := range fields {
			body[k] = v
		}
	}
	c.AbortWithStatusJSON(err.StatusCode, body)
}

// toAppError maps domain errors to their API representation. message is used
// for failures of the external tools.
func toAppError(err error, message string) *utils.AppError {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var noFormat *formats.NoFormatError
	if errors.As(err, &noFormat) {
		return utils.NewNoFormatError(noFormat.VideoCandidates, noFormat.AudioCandidates)
	}

	var relayErr *relay.RelayError
	if errors.As(err, &relayErr) {
		return utils.NewRelayError(message, err)
	}

	var upstream *ytdlp.UpstreamError
	if errors.As(err, &upstream) {
		return utils.NewUpstreamError(message, err)
	}

	switch {
	case errors.Is(err, ytdlp.ErrEmptyURL):
		return utils.NewMissingURLError()
	case errors.Is(err, merge.ErrMuxerUnavailable):
		return utils.NewMergeError(err)
	}

	return utils.NewInternalError()
}

func requireURL(url string) *utils.AppError {
	if strings.TrimSpace(url) == "" {
		return utils.NewMissingURLError()
	}
	return nil
}

// parseQuality accepts "720p" or "720". An empty value yields def.
func parseQuality(raw string, def int) (int, *utils.AppError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}

	quality, err := strconv.Atoi(strings.TrimSuffix(strings.ToLower(raw), "p"))
	if err != nil || quality <= 0 {
		return 0, utils.NewInputError("Invalid quality", map[string]interface{}{
			"quality": raw,
		})
	}
	return quality, nil
}

func parseSelection(quality, codec string, defaultQuality int) (formats.SelectionRequest, *utils.AppError) {
	ceiling, appErr := parseQuality(quality, defaultQuality)
	if appErr != nil {
		return formats.SelectionRequest{}, appErr
	}

	tag, err := formats.ParseCodecTag(codec)
	if err != nil {
		return formats.SelectionRequest{}, utils.NewInputError("Invalid codec", map[string]interface{}{
			"codec":     codec,
			"supported": []formats.CodecTag{formats.CodecH264, formats.CodecVP9, formats.CodecAV1},
		})
	}

	return formats.SelectionRequest{QualityCeiling: ceiling, Codec: tag}, nil
}

// selectPair runs the selector and logs any constraint it had to drop.
func selectPair(ctx context.Context, info *formats.MediaInfo, req formats.SelectionRequest) (formats.SelectedPair, error) {
	pair, err := formats.SelectPair(info.Formats, req)
	if err != nil {
		return pair, err
	}

	if pair.CodecRelaxed {
		utils.LogWarn(ctx, "Requested codec unavailable, using best codec under ceiling", utils.Fields{
			"video_id":        info.ID,
			"requested_codec": string(req.Codec),
			"selected_codec":  pair.Video.VideoCodec,
		})
	}
	if pair.CeilingRelaxed {
		utils.LogWarn(ctx, "No video format under quality ceiling, using best available", utils.Fields{
			"video_id":        info.ID,
			"quality_ceiling": req.QualityCeiling,
			"selected_height": pair.Video.HeightOrZero(),
		})
	}

	return pair, nil
}

func noFormatExtra(err error) gin.H {
	var noFormat *formats.NoFormatError
	if !errors.As(err, &noFormat) {
		return gin.H{}
	}
	return gin.H{
		"videoFormatsFound": noFormat.VideoCandidates,
		"audioFormatsFound": noFormat.AudioCandidates,
	}
}

func attachment(filename string) string {
	return fmt.Sprintf("attachment; filename=\"%s\"", filename)
}

var contentTypes = map[string]string{
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"m4a":  "audio/mp4",
	"mp3":  "audio/mpeg",
	"opus": "audio/ogg",
	"ogg":  "audio/ogg",
}

func contentTypeFor(ext string, audio bool) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ct, ok := contentTypes[ext]; ok {
		if audio && ext == "webm" {
			return "audio/webm"
		}
		return ct
	}
	if ct := mime.TypeByExtension("." + ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
