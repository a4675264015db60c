package formats

import "sort"

// SelectPair picks the best video-only format at or under the quality ceiling
// and the best audio-only format.
//
// The codec preference is dropped first when it leaves no candidate, then the
// ceiling. An error is returned only when one of the two partitions is empty.
func SelectPair(formats []Format, req SelectionRequest) (SelectedPair, error) {
	videoOnly, audioOnly := Partition(formats)
	if len(videoOnly) == 0 || len(audioOnly) == 0 {
		return SelectedPair{}, &NoFormatError{
			VideoCandidates: len(videoOnly),
			AudioCandidates: len(audioOnly),
		}
	}

	var pair SelectedPair

	underCeiling := filter(videoOnly, func(f Format) bool {
		return f.Height != nil && *f.Height <= req.QualityCeiling
	})

	candidates := underCeiling
	if req.Codec != CodecAny {
		candidates = filter(underCeiling, func(f Format) bool {
			return req.Codec.Matches(f.VideoCodec)
		})
		if len(candidates) == 0 {
			pair.CodecRelaxed = true
			candidates = underCeiling
		}
	}

	if len(candidates) == 0 {
		pair.CeilingRelaxed = true
		candidates = videoOnly
	}

	pair.Video = BestVideo(candidates)
	pair.Audio = BestAudio(audioOnly)
	return pair, nil
}

// Partition splits formats into video-only and audio-only subsets, keeping
// input order. Formats carrying both tracks or neither are dropped.
func Partition(formats []Format) (videoOnly, audioOnly []Format) {
	for _, f := range formats {
		switch {
		case f.IsVideoOnly():
			videoOnly = append(videoOnly, f)
		case f.IsAudioOnly():
			audioOnly = append(audioOnly, f)
		}
	}
	return videoOnly, audioOnly
}

// BestVideo ranks by height then total bitrate, both descending. Ties keep
// input order. candidates must not be empty.
func BestVideo(candidates []Format) Format {
	ranked := append([]Format(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if ha, hb := a.HeightOrZero(), b.HeightOrZero(); ha != hb {
			return ha > hb
		}
		return positiveFloat(a.TotalBitrateKbps) > positiveFloat(b.TotalBitrateKbps)
	})
	return ranked[0]
}

// BestAudio ranks by audio bitrate then total bitrate, both descending.
// candidates must not be empty.
func BestAudio(candidates []Format) Format {
	ranked := append([]Format(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if ra, rb := positiveFloat(a.AudioBitrateKbps), positiveFloat(b.AudioBitrateKbps); ra != rb {
			return ra > rb
		}
		return positiveFloat(a.TotalBitrateKbps) > positiveFloat(b.TotalBitrateKbps)
	})
	return ranked[0]
}

func filter(formats []Format, keep func(Format) bool) []Format {
	var out []Format
	for _, f := range formats {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
