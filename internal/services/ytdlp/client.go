package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/alessio/shellescape"

	"github.com/denisAlshanov/vidsplit/internal/services/formats"
	"github.com/denisAlshanov/vidsplit/internal/utils"
)

const (
	defaultBinary  = "yt-dlp"
	defaultTimeout = 60 * time.Second
	waitDelay      = 5 * time.Second
)

// MetadataProvider fetches and parses the metadata of a video.
type MetadataProvider interface {
	FetchInfo(ctx context.Context, url string) (*formats.MediaInfo, error)
}

// Client runs the yt-dlp binary. It is safe for concurrent use; every call
// spawns its own process.
type Client struct {
	binary      string
	timeout     time.Duration
	cookiesFile string
}

// NewClient creates a client. An empty cookiesFile runs yt-dlp without
// credentials.
func NewClient(binary string, timeout time.Duration, cookiesFile string) *Client {
	if strings.TrimSpace(binary) == "" {
		binary = defaultBinary
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		binary:      binary,
		timeout:     timeout,
		cookiesFile: cookiesFile,
	}
}

func (c *Client) BinaryPath() string {
	return c.binary
}

// FetchInfo runs `yt-dlp -j` for url and parses the document. The call is
// bounded by the client timeout as well as ctx.
func (c *Client) FetchInfo(ctx context.Context, url string) (*formats.MediaInfo, error) {
	if strings.TrimSpace(url) == "" {
		return nil, ErrEmptyURL
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := c.withCookies("-j", "--no-playlist", "--no-warnings")
	args = append(args, "--", url)

	cmd := exec.CommandContext(ctx, c.binary, args...)
	utils.PrepareCommand(cmd, waitDelay)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	utils.LogDebug(ctx, "Fetching video metadata", utils.Fields{
		"command": shellescape.QuoteCommand(cmd.Args),
	})

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%w (%v)", ctx.Err(), err)
		}
		return nil, &UpstreamError{
			Op:     "metadata",
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}

	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		utils.LogWarn(ctx, "yt-dlp reported warnings", utils.Fields{
			"tool":   "yt-dlp",
			"stderr": msg,
		})
	}

	var raw rawInfo
	if err := json.Unmarshal(stdout.Bytes(), &raw); err != nil {
		return nil, &UpstreamError{
			Op:  "metadata",
			Err: fmt.Errorf("failed to decode yt-dlp output: %w", err),
		}
	}

	info := raw.toMediaInfo()

	utils.LogInfo(ctx, "Video metadata fetched", utils.Fields{
		"video_id":     info.ID,
		"format_count": len(info.Formats),
		"duration_ms":  time.Since(start).Milliseconds(),
	})

	return info, nil
}

// StreamCommand builds the invocation that writes the media selected by
// formatSelector to stdout. The selector is either a plain format id or a
// yt-dlp selector expression. The command is not started.
func (c *Client) StreamCommand(ctx context.Context, url, formatSelector string) *exec.Cmd {
	args := c.withCookies("-f", formatSelector, "--no-part", "--no-playlist", "--no-warnings", "-o", "-")
	args = append(args, "--", url)
	return exec.CommandContext(ctx, c.binary, args...)
}

// Version returns the output of `yt-dlp --version`.
func (c *Client) Version(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.binary, "--version")
	utils.PrepareCommand(cmd, waitDelay)

	out, err := cmd.Output()
	if err != nil {
		return "", &UpstreamError{Op: "version", Err: err}
	}
	return strings.TrimSpace(string(out)), nil
}

func (c *Client) withCookies(args ...string) []string {
	if c.cookiesFile != "" {
		args = append(args, "--cookies", c.cookiesFile)
	}
	return args
}
