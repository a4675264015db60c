package formats

import "fmt"

// MediaInfo is the parsed metadata of a single video.
type MediaInfo struct {
	ID              string
	Title           string
	Author          string
	DurationSeconds float64
	ViewCount       int64
	ThumbnailURL    string
	Formats         []Format
}

// Format describes one downloadable rendition. Optional numeric fields are
// pointers because the extraction tool omits them routinely; a nil pointer
// means unknown, not zero.
type Format struct {
	FormatID   string
	Ext        string
	VideoCodec string
	AudioCodec string
	FormatNote string
	Resolution string

	AudioChannels    *int
	Height           *int
	Width            *int
	FPS              *float64
	TotalBitrateKbps *float64
	AudioBitrateKbps *float64
	ExactSizeBytes   *int64
	ApproxSizeBytes  *int64
}

// HasVideo reports whether the format carries a video track. The literal
// "none" is how the tool marks a missing track.
func (f Format) HasVideo() bool {
	return hasCodec(f.VideoCodec)
}

func (f Format) HasAudio() bool {
	return hasCodec(f.AudioCodec)
}

// IsVideoOnly is true for a video track with no audio track or with an
// explicit zero channel count.
func (f Format) IsVideoOnly() bool {
	if !f.HasVideo() {
		return false
	}
	if !f.HasAudio() {
		return true
	}
	return f.AudioChannels != nil && *f.AudioChannels == 0
}

func (f Format) IsAudioOnly() bool {
	return f.HasAudio() && !f.HasVideo()
}

// HeightOrZero returns the height, or 0 when it is unknown.
func (f Format) HeightOrZero() int {
	if f.Height == nil {
		return 0
	}
	return *f.Height
}

func (f Format) WidthOrZero() int {
	if f.Width == nil {
		return 0
	}
	return *f.Width
}

// QualityLabel renders "<h>p" when the height is known and falls back to the
// tool's format note otherwise.
func (f Format) QualityLabel() string {
	if f.Height != nil && *f.Height > 0 {
		return fmt.Sprintf("%dp", *f.Height)
	}
	return f.FormatNote
}

// FileSize returns the exact size when known, else the approximate one, else 0.
func (f Format) FileSize() int64 {
	if v := positiveInt64(f.ExactSizeBytes); v > 0 {
		return v
	}
	return positiveInt64(f.ApproxSizeBytes)
}

func hasCodec(codec string) bool {
	return codec != "" && codec != "none"
}

// SelectionRequest is the caller's quality ceiling and optional codec
// preference.
type SelectionRequest struct {
	QualityCeiling int
	Codec          CodecTag
}

// SelectedPair is the chosen video-only and audio-only format. The Relaxed
// flags record which constraint had to be dropped to find a video format.
type SelectedPair struct {
	Video          Format
	Audio          Format
	CodecRelaxed   bool
	CeilingRelaxed bool
}

// NoFormatError is returned when no video-only or no audio-only format
// exists at all.
type NoFormatError struct {
	VideoCandidates int
	AudioCandidates int
}

func (e *NoFormatError) Error() string {
	return fmt.Sprintf("no suitable format pair: %d video-only and %d audio-only formats found",
		e.VideoCandidates, e.AudioCandidates)
}

func positiveInt64(v *int64) int64 {
	if v == nil || *v <= 0 {
		return 0
	}
	return *v
}

func positiveFloat(v *float64) float64 {
	if v == nil || *v <= 0 {
		return 0
	}
	return *v
}
