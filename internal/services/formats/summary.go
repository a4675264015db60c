package formats

import (
	"fmt"
	"sort"
)

const defaultBestQuality = "1080p"

// Summary is the quality and codec overview of a video's formats.
type Summary struct {
	Qualities       []string
	HasAudio        bool
	BestQuality     string
	AvailableCodecs []CodecTag
}

// Summarize collects the distinct heights and codec families of the formats
// that carry video with a known height.
func Summarize(info MediaInfo) Summary {
	seenHeight := make(map[int]bool)
	seenCodec := make(map[CodecTag]bool)
	var heights []int

	s := Summary{
		Qualities:       []string{},
		AvailableCodecs: []CodecTag{},
	}

	for _, f := range info.Formats {
		if f.HasAudio() {
			s.HasAudio = true
		}
		if !f.HasVideo() || f.HeightOrZero() <= 0 {
			continue
		}

		if h := *f.Height; !seenHeight[h] {
			seenHeight[h] = true
			heights = append(heights, h)
		}
		if tag := ClassifyCodec(f.VideoCodec); tag != CodecAny && !seenCodec[tag] {
			seenCodec[tag] = true
			s.AvailableCodecs = append(s.AvailableCodecs, tag)
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(heights)))
	for _, h := range heights {
		s.Qualities = append(s.Qualities, fmt.Sprintf("%dp", h))
	}

	s.BestQuality = defaultBestQuality
	if len(s.Qualities) > 0 {
		s.BestQuality = s.Qualities[0]
	}
	return s
}
