package utils

import (
	"regexp"
	"strings"
)

var (
	nonWordChars = regexp.MustCompile(`[^\w\s]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

const maxFileNameLength = 200

// SanitizeFileName turns a video title into a file name safe for a
// Content-Disposition header: punctuation is dropped, whitespace runs become
// underscores and the result is capped in length. ext is appended without
// its leading dot.
func SanitizeFileName(title, ext string) string {
	name := nonWordChars.ReplaceAllString(title, "")
	name = whitespace.ReplaceAllString(strings.TrimSpace(name), "_")
	if name == "" {
		name = "video"
	}

	ext = strings.TrimPrefix(ext, ".")
	limit := maxFileNameLength
	if ext != "" {
		limit -= len(ext) + 1
	}
	if len(name) > limit {
		name = name[:limit]
	}

	if ext == "" {
		return name
	}
	return name + "." + ext
}
