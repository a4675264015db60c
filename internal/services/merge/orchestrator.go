package merge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/denisAlshanov/vidsplit/internal/utils"
)

var ErrMuxerUnavailable = errors.New("muxer is not available")

const (
	videoInputName = "video.input"
	audioInputName = "audio.input"
	outputName     = "output.mp4"
)

// Orchestrator spools a video and an audio stream to a scratch directory,
// muxes them and hands back the result.
type Orchestrator struct {
	muxer   MediaMuxer
	tempDir string
}

// NewOrchestrator creates an orchestrator whose scratch directories are
// created under tempDir, or under the system default when it is empty.
func NewOrchestrator(muxer MediaMuxer, tempDir string) *Orchestrator {
	return &Orchestrator{
		muxer:   muxer,
		tempDir: tempDir,
	}
}

func (o *Orchestrator) Available() bool {
	return o.muxer.Available()
}

// Merge writes video and audio to fresh temp files concurrently, muxes them
// into one MP4 and returns it as an Artifact named filename. The inputs are
// removed after the mux whatever its outcome; on failure nothing is left on
// disk. If one input fails, the other is closed when it is an io.Closer.
// Closing the Artifact removes the output.
func (o *Orchestrator) Merge(ctx context.Context, video, audio io.Reader, filename string) (*Artifact, error) {
	if !o.muxer.Available() {
		return nil, ErrMuxerUnavailable
	}

	dir, err := os.MkdirTemp(o.tempDir, "merge_*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	artifact, err := o.merge(ctx, dir, video, audio, filename)
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	return artifact, nil
}

func (o *Orchestrator) merge(ctx context.Context, dir string, video, audio io.Reader, filename string) (*Artifact, error) {
	videoPath := filepath.Join(dir, videoInputName)
	audioPath := filepath.Join(dir, audioInputName)
	outputPath := filepath.Join(dir, outputName)

	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return spool(gctx, videoPath, video) })
	g.Go(func() error { return spool(gctx, audioPath, audio) })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	spooled := time.Since(start)

	err := o.muxer.Merge(ctx, videoPath, audioPath, outputPath)
	os.Remove(videoPath)
	os.Remove(audioPath)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open merged file: %w", err)
	}
	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat merged file: %w", err)
	}

	utils.LogInfo(ctx, "Streams merged", utils.Fields{
		"filename":    filename,
		"size":        stat.Size(),
		"download_ms": spooled.Milliseconds(),
		"total_ms":    time.Since(start).Milliseconds(),
	})

	return &Artifact{
		file:     file,
		dir:      dir,
		Size:     stat.Size(),
		Filename: filename,
	}, nil
}

// spool copies r into a new file at path. If ctx ends first and r is also an
// io.Closer, r is closed so a blocked read returns.
func spool(ctx context.Context, path string, r io.Reader) error {
	if c, ok := r.(io.Closer); ok {
		stop := context.AfterFunc(ctx, func() { c.Close() })
		defer stop()
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Base(path), err)
	}
	defer file.Close()

	if _, err := io.Copy(file, &contextReader{ctx: ctx, r: r}); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return file.Sync()
}

// contextReader stops a copy between reads once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

// Artifact is a merged file on disk. Close removes its scratch directory.
type Artifact struct {
	file     *os.File
	dir      string
	Size     int64
	Filename string
}

func (a *Artifact) Read(p []byte) (int, error) {
	return a.file.Read(p)
}

func (a *Artifact) Seek(offset int64, whence int) (int64, error) {
	return a.file.Seek(offset, whence)
}

func (a *Artifact) Close() error {
	err := a.file.Close()
	os.RemoveAll(a.dir)
	return err
}
