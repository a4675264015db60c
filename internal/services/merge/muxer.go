package merge

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/alessio/shellescape"

	"github.com/denisAlshanov/vidsplit/internal/utils"
)

const maxStderrTail = 2048

// MediaMuxer combines a video-only and an audio-only file into one container.
type MediaMuxer interface {
	Available() bool
	Merge(ctx context.Context, videoPath, audioPath, outputPath string) error
}

// FFmpegMuxer implements MediaMuxer with the ffmpeg command line tool. The
// video track is copied as is and the audio track is encoded to AAC.
type FFmpegMuxer struct {
	Path string
}

// NewFFmpegMuxer returns a muxer for path, or for "ffmpeg" on PATH when path
// is empty.
func NewFFmpegMuxer(path string) *FFmpegMuxer {
	if path == "" {
		path = "ffmpeg"
	}
	return &FFmpegMuxer{Path: path}
}

func (f *FFmpegMuxer) Available() bool {
	_, err := exec.LookPath(f.Path)
	return err == nil
}

func (f *FFmpegMuxer) Merge(ctx context.Context, videoPath, audioPath, outputPath string) error {
	args := []string{
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-movflags", "+faststart",
		"-y", outputPath,
	}

	cmd := exec.CommandContext(ctx, f.Path, args...)
	utils.PrepareCommand(cmd, 5*time.Second)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	utils.LogDebug(ctx, "Running muxer", utils.Fields{
		"command": shellescape.QuoteCommand(cmd.Args),
	})

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg merge failed: %w: %s", err, tail(stderr.String(), maxStderrTail))
	}
	return nil
}

// Version returns the first line of `ffmpeg -version`.
func (f *FFmpegMuxer) Version(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, f.Path, "-version").Output()
	if err != nil {
		return "", err
	}
	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
