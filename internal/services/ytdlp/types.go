package ytdlp

import "github.com/denisAlshanov/vidsplit/internal/services/formats"

// rawInfo mirrors the subset of the yt-dlp -j document the service reads.
type rawInfo struct {
	ID         string      `json:"id"`
	Title      string      `json:"title"`
	Uploader   string      `json:"uploader"`
	Channel    string      `json:"channel"`
	Duration   *float64    `json:"duration"`
	ViewCount  *int64      `json:"view_count"`
	Thumbnail  string      `json:"thumbnail"`
	Thumbnails []rawThumb  `json:"thumbnails"`
	Formats    []rawFormat `json:"formats"`
}

type rawThumb struct {
	URL string `json:"url"`
}

type rawFormat struct {
	FormatID       string   `json:"format_id"`
	Ext            string   `json:"ext"`
	VCodec         string   `json:"vcodec"`
	ACodec         string   `json:"acodec"`
	FormatNote     string   `json:"format_note"`
	Resolution     string   `json:"resolution"`
	AudioChannels  *int     `json:"audio_channels"`
	Height         *int     `json:"height"`
	Width          *int     `json:"width"`
	FPS            *float64 `json:"fps"`
	TBR            *float64 `json:"tbr"`
	ABR            *float64 `json:"abr"`
	Filesize       *int64   `json:"filesize"`
	FilesizeApprox *int64   `json:"filesize_approx"`
}

func (r rawInfo) toMediaInfo() *formats.MediaInfo {
	info := &formats.MediaInfo{
		ID:           r.ID,
		Title:        r.Title,
		Author:       r.Uploader,
		ThumbnailURL: r.Thumbnail,
		Formats:      make([]formats.Format, 0, len(r.Formats)),
	}
	if info.Author == "" {
		info.Author = r.Channel
	}
	if info.ThumbnailURL == "" && len(r.Thumbnails) > 0 {
		info.ThumbnailURL = r.Thumbnails[len(r.Thumbnails)-1].URL
	}
	if r.Duration != nil {
		info.DurationSeconds = *r.Duration
	}
	if r.ViewCount != nil {
		info.ViewCount = *r.ViewCount
	}

	for _, f := range r.Formats {
		info.Formats = append(info.Formats, formats.Format{
			FormatID:         f.FormatID,
			Ext:              f.Ext,
			VideoCodec:       f.VCodec,
			AudioCodec:       f.ACodec,
			FormatNote:       f.FormatNote,
			Resolution:       f.Resolution,
			AudioChannels:    f.AudioChannels,
			Height:           f.Height,
			Width:            f.Width,
			FPS:              f.FPS,
			TotalBitrateKbps: f.TBR,
			AudioBitrateKbps: f.ABR,
			ExactSizeBytes:   f.Filesize,
			ApproxSizeBytes:  f.FilesizeApprox,
		})
	}

	return info
}
