package formats

import (
	"fmt"
	"strings"
)

// CodecTag is a coarse codec family used for preference matching.
type CodecTag string

const (
	CodecAny  CodecTag = ""
	CodecH264 CodecTag = "h264"
	CodecVP9  CodecTag = "vp9"
	CodecAV1  CodecTag = "av1"
)

// ParseCodecTag accepts an empty string or one of h264, vp9, av1 in any case.
func ParseCodecTag(s string) (CodecTag, error) {
	switch tag := CodecTag(strings.ToLower(strings.TrimSpace(s))); tag {
	case CodecAny, CodecH264, CodecVP9, CodecAV1:
		return tag, nil
	default:
		return CodecAny, fmt.Errorf("unsupported codec %q", s)
	}
}

// Matches reports whether a raw codec string such as "avc1.640028" belongs to
// the tag's family. CodecAny matches everything.
func (t CodecTag) Matches(codec string) bool {
	c := strings.ToLower(codec)
	switch t {
	case CodecAny:
		return true
	case CodecH264:
		return strings.Contains(c, "avc1") || strings.Contains(c, "h264")
	case CodecAV1:
		return strings.Contains(c, "av01") || strings.Contains(c, "av1")
	case CodecVP9:
		// Literal "vp9" only; "vp09.*" strings are left unclassified.
		return strings.Contains(c, "vp9")
	}
	return false
}

// ClassifyCodec maps a raw codec string to its tag. Families are tried in the
// order h264, av1, vp9; unknown codecs yield CodecAny.
func ClassifyCodec(codec string) CodecTag {
	for _, tag := range []CodecTag{CodecH264, CodecAV1, CodecVP9} {
		if tag.Matches(codec) {
			return tag
		}
	}
	return CodecAny
}
