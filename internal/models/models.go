package models

import "time"

// VideoQuery is the common query of every endpoint that takes a video URL.
type VideoQuery struct {
	URL string `form:"url" example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
}

type SelectionQuery struct {
	URL     string `form:"url" example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
	Quality string `form:"quality" example:"1080p"`
	Codec   string `form:"codec" example:"h264"`
}

type StreamQuery struct {
	URL      string `form:"url" example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
	FormatID string `form:"formatId" example:"137"`
}

type DownloadQuery struct {
	URL     string `form:"url" example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
	Format  string `form:"format" example:"video" enums:"audio,video"`
	Quality string `form:"quality" example:"720p"`
}

type MergeQuery struct {
	URL     string `form:"url" example:"https://www.youtube.com/watch?v=dQw4w9WgXcQ"`
	Quality string `form:"quality" example:"1080p"`
	Codec   string `form:"codec" example:"h264"`
	Store   bool   `form:"store"`
}

type VideoInfoResponse struct {
	VideoID       string       `json:"videoId"`
	Title         string       `json:"title"`
	Author        string       `json:"author"`
	LengthSeconds float64      `json:"lengthSeconds"`
	ViewCount     int64        `json:"viewCount"`
	Thumbnail     string       `json:"thumbnail"`
	Formats       []FormatItem `json:"formats"`
}

type FormatItem struct {
	FormatID   string   `json:"format_id"`
	Quality    string   `json:"quality"`
	Resolution string   `json:"resolution"`
	FPS        *float64 `json:"fps"`
	HasVideo   bool     `json:"hasVideo"`
	HasAudio   bool     `json:"hasAudio"`
	Filesize   *int64   `json:"filesize"`
	VCodec     string   `json:"vcodec"`
}

type FormatsResponse struct {
	Qualities       []string `json:"qualities"`
	HasAudio        bool     `json:"hasAudio"`
	BestQuality     string   `json:"bestQuality"`
	AvailableCodecs []string `json:"availableCodecs"`
}

type EstimateSizeResponse struct {
	SizeInBytes     int64  `json:"sizeInBytes"`
	SizeHuman       string `json:"sizeHuman"`
	VideoHeight     int    `json:"videoHeight"`
	VideoCodec      string `json:"videoCodec"`
	AudioCodec      string `json:"audioCodec"`
	VideoSizeSource string `json:"videoSizeSource"`
	AudioSizeSource string `json:"audioSizeSource"`
	CodecFallback   bool   `json:"codecFallback"`
	QualityFallback bool   `json:"qualityFallback"`
}

type SeparateStreamsResponse struct {
	Title           string `json:"title"`
	VideoFormatID   string `json:"videoFormatId"`
	AudioFormatID   string `json:"audioFormatId"`
	VideoCodec      string `json:"videoCodec"`
	AudioCodec      string `json:"audioCodec"`
	VideoHeight     int    `json:"videoHeight"`
	VideoWidth      int    `json:"videoWidth"`
	CodecFallback   bool   `json:"codecFallback"`
	QualityFallback bool   `json:"qualityFallback"`
}

type StoredArtifactResponse struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expiresAt"`
	SizeInBytes int64     `json:"sizeInBytes"`
}

type StatusResponse struct {
	Status    string `json:"status" example:"ok"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

type DependenciesResponse struct {
	YTDLP         bool       `json:"ytdlp"`
	YTDLPVersion  string     `json:"ytdlpVersion,omitempty"`
	FFmpeg        bool       `json:"ffmpeg"`
	FFmpegVersion string     `json:"ffmpegVersion,omitempty"`
	Storage       string     `json:"storage"`
	ActiveStreams int64      `json:"activeStreams"`
	System        SystemInfo `json:"system"`
	Error         string     `json:"error,omitempty"`
}

type SystemInfo struct {
	Platform string `json:"platform"`
	Memory   string `json:"memory"`
	Cores    int    `json:"cores"`
}

type ErrorResponse struct {
	Error     string                 `json:"error"`
	Code      string                 `json:"code"`
	Details   map[string]interface{} `json:"details,omitempty"`
	RequestID string                 `json:"request_id"`
	Timestamp string                 `json:"timestamp"`
}
