package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alessio/shellescape"

	"github.com/denisAlshanov/vidsplit/internal/utils"
)

const (
	DefaultBufferSize = 32 * 1024
	defaultKillGrace  = 5 * time.Second
)

// CommandFactory builds the subprocess whose stdout carries the media bytes.
// The returned command must not be started.
type CommandFactory interface {
	StreamCommand(ctx context.Context, url, formatSelector string) *exec.Cmd
}

// Relay forwards the stdout of one subprocess per stream to a client.
type Relay struct {
	factory    CommandFactory
	bufferSize int
	killGrace  time.Duration
	active     atomic.Int64
}

func New(factory CommandFactory, bufferSize int, killGrace time.Duration) *Relay {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	if killGrace <= 0 {
		killGrace = defaultKillGrace
	}
	return &Relay{
		factory:    factory,
		bufferSize: bufferSize,
		killGrace:  killGrace,
	}
}

// Active returns the number of streams that have been opened and not closed.
func (r *Relay) Active() int64 {
	return r.active.Load()
}

// RelayError reports a subprocess that could not be started or exited with
// a failure status.
type RelayError struct {
	ExitCode int
	Err      error
}

func (e *RelayError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("relay: stream process exited with status %d", e.ExitCode)
	}
	return fmt.Sprintf("relay: %v", e.Err)
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

func newRelayError(err error) *RelayError {
	relayErr := &RelayError{ExitCode: -1, Err: err}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		relayErr.ExitCode = exitErr.ExitCode()
	}
	return relayErr
}

// Open starts the subprocess for formatSelector and blocks until it produces
// its first chunk of output or exits. A process that fails before writing
// anything yields a *RelayError, so callers can still answer with an error
// status. A process that succeeds without output yields an empty stream.
//
// Cancelling ctx kills the process group. The returned Stream must be closed.
func (r *Relay) Open(ctx context.Context, url, formatSelector string) (*Stream, error) {
	ctx, cancel := context.WithCancel(ctx)

	cmd := r.factory.StreamCommand(ctx, url, formatSelector)
	utils.PrepareCommand(cmd, r.killGrace)

	fields := utils.Fields{"format": formatSelector}
	logWriter := utils.ToolLogWriter(ctx, "yt-dlp", fields)
	cmd.Stderr = logWriter

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		logWriter.Close()
		return nil, &RelayError{ExitCode: -1, Err: err}
	}

	utils.LogDebug(ctx, "Starting stream process", fields, utils.Fields{
		"command": shellescape.QuoteCommand(cmd.Args),
	})

	if err := cmd.Start(); err != nil {
		cancel()
		logWriter.Close()
		return nil, &RelayError{ExitCode: -1, Err: err}
	}
	r.active.Add(1)

	s := &Stream{
		relay:     r,
		ctx:       ctx,
		cancel:    cancel,
		cmd:       cmd,
		stdout:    stdout,
		logWriter: logWriter,
		buf:       make([]byte, r.bufferSize),
		fields:    fields,
		started:   time.Now(),
	}

	if err := s.probe(); err != nil && !errors.Is(err, io.EOF) {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Stream is a running relay. It is not safe for concurrent use, except that
// Close may be called at any time to tear the process down.
type Stream struct {
	relay     *Relay
	ctx       context.Context
	cancel    context.CancelFunc
	cmd       *exec.Cmd
	stdout    io.ReadCloser
	logWriter io.Closer
	buf       []byte
	pending   []byte
	fields    utils.Fields
	started   time.Time
	written   int64
	// end is the terminal result of the output, once stdout is drained.
	end error

	waitOnce  sync.Once
	waitErr   error
	reaped    atomic.Bool
	closeOnce sync.Once
}

// probe reads until the first byte arrives or the process exits.
func (s *Stream) probe() error {
	for {
		n, err := s.stdout.Read(s.buf)
		if n > 0 {
			s.pending = s.buf[:n]
			return nil
		}
		if err != nil {
			return s.finish(err)
		}
	}
}

// finish handles the end of stdout. It reaps the process and reports a
// failure exit as a *RelayError. Later calls return the same result.
func (s *Stream) finish(readErr error) error {
	if s.end == nil {
		s.end = s.result(readErr)
	}
	return s.end
}

func (s *Stream) result(readErr error) error {
	if waitErr := s.wait(); waitErr != nil {
		if ctxErr := s.ctx.Err(); ctxErr != nil {
			return &RelayError{ExitCode: -1, Err: ctxErr}
		}
		return newRelayError(waitErr)
	}
	if readErr != nil && !errors.Is(readErr, io.EOF) {
		return &RelayError{ExitCode: -1, Err: readErr}
	}
	return io.EOF
}

func (s *Stream) wait() error {
	s.waitOnce.Do(func() {
		s.waitErr = s.cmd.Wait()
		s.reaped.Store(true)
	})
	return s.waitErr
}

// Read implements io.Reader over the process output. A failure exit after
// output has started surfaces as a *RelayError instead of io.EOF.
func (s *Stream) Read(p []byte) (int, error) {
	if len(s.pending) > 0 {
		n := copy(p, s.pending)
		s.pending = s.pending[n:]
		s.written += int64(n)
		return n, nil
	}
	if s.end != nil {
		return 0, s.end
	}

	n, err := s.stdout.Read(p)
	s.written += int64(n)
	if err != nil {
		if n > 0 {
			return n, nil
		}
		return 0, s.finish(err)
	}
	return n, nil
}

type flusher interface {
	Flush()
}

// WriteTo copies the process output to w through the stream's fixed buffer,
// flushing after every write when w supports it. A failed write kills the
// process.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	f, _ := w.(flusher)
	var total int64

	for {
		if err := s.ctx.Err(); err != nil {
			s.cancel()
			return total, err
		}

		n, readErr := s.Read(s.buf)
		if n > 0 {
			written, writeErr := w.Write(s.buf[:n])
			total += int64(written)
			if writeErr != nil {
				s.cancel()
				return total, fmt.Errorf("write to client: %w", writeErr)
			}
			if f != nil {
				f.Flush()
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return total, nil
			}
			return total, readErr
		}
	}
}

// Close terminates the process if it is still running and reaps it. It is
// safe to call more than once.
func (s *Stream) Close() error {
	s.closeOnce.Do(func() {
		// A process still running at this point is killed below; its exit
		// status says nothing about the media.
		interrupted := s.ctx.Err() != nil || !s.reaped.Load()
		s.cancel()
		err := s.wait()
		s.logWriter.Close()
		s.relay.active.Add(-1)

		entry := utils.Fields{
			"bytes":       s.written,
			"duration_ms": time.Since(s.started).Milliseconds(),
		}
		if err != nil && !interrupted {
			utils.LogWarn(s.ctx, "Stream process exited with error", s.fields, entry, utils.Fields{"error": err.Error()})
		} else {
			utils.LogDebug(s.ctx, "Stream process finished", s.fields, entry)
		}
	})
	return nil
}
