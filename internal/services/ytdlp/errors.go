package ytdlp

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyURL      = errors.New("video url is required")
	ErrInvalidCookie = errors.New("cookie blob is not in Netscape format")
)

// UpstreamError reports a failed yt-dlp invocation together with whatever the
// tool printed on stderr.
type UpstreamError struct {
	Op     string
	Stderr string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("yt-dlp %s: %v: %s", e.Op, e.Err, e.Stderr)
	}
	return fmt.Sprintf("yt-dlp %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
