package formats

import "math"

// SizeSource names the signal a per-stream size was derived from.
type SizeSource string

const (
	SizeSourceExact   SizeSource = "exact"
	SizeSourceApprox  SizeSource = "approx"
	SizeSourceBitrate SizeSource = "bitrate"
	SizeSourceNone    SizeSource = "none"
)

const (
	containerOverhead = 1.02

	// Bitrates above these thresholds are reported in bits per second rather
	// than kilobits.
	videoBpsThreshold = 50000
	audioBpsThreshold = 1000

	audioCapKbps = 192
)

var videoCapKbps = map[CodecTag]float64{
	CodecH264: 5000,
	CodecVP9:  2500,
	CodecAV1:  2000,
}

// StreamEstimate is the size contribution of one stream.
type StreamEstimate struct {
	Bytes  float64
	Source SizeSource
}

// Estimate is the per-stream breakdown and the rounded total including
// container overhead. A zero Total means no estimate is available.
type Estimate struct {
	Video StreamEstimate
	Audio StreamEstimate
	Total int64
}

// EstimateSize returns the expected byte size of the merged output.
func EstimateSize(pair SelectedPair, durationSeconds float64) int64 {
	return EstimateBreakdown(pair, durationSeconds).Total
}

func EstimateBreakdown(pair SelectedPair, durationSeconds float64) Estimate {
	video := estimateStream(pair.Video, videoKbps(pair.Video), durationSeconds)
	audio := estimateStream(pair.Audio, audioKbps(pair.Audio), durationSeconds)

	return Estimate{
		Video: video,
		Audio: audio,
		Total: int64(math.Round((video.Bytes + audio.Bytes) * containerOverhead)),
	}
}

func estimateStream(f Format, kbps, durationSeconds float64) StreamEstimate {
	if v := positiveInt64(f.ExactSizeBytes); v > 0 {
		return StreamEstimate{Bytes: float64(v), Source: SizeSourceExact}
	}
	if v := positiveInt64(f.ApproxSizeBytes); v > 0 {
		return StreamEstimate{Bytes: float64(v), Source: SizeSourceApprox}
	}
	if kbps > 0 && durationSeconds > 0 {
		return StreamEstimate{Bytes: kbps * durationSeconds / 8 * 1024, Source: SizeSourceBitrate}
	}
	return StreamEstimate{Source: SizeSourceNone}
}

func videoKbps(f Format) float64 {
	kbps := positiveFloat(f.TotalBitrateKbps)
	if kbps > videoBpsThreshold {
		kbps /= 1000
	}
	if limit, ok := videoCapKbps[ClassifyCodec(f.VideoCodec)]; ok && kbps > limit {
		kbps = limit
	}
	return kbps
}

func audioKbps(f Format) float64 {
	kbps := positiveFloat(f.AudioBitrateKbps)
	if kbps == 0 {
		kbps = positiveFloat(f.TotalBitrateKbps)
	}
	if kbps > audioBpsThreshold {
		kbps /= 1000
	}
	return math.Min(kbps, audioCapKbps)
}
