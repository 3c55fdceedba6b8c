package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/common"
)

// MIMETypeWebMOpus is the container/codec FFMPEGCapture produces.
const MIMETypeWebMOpus = "audio/webm;codecs=opus"

const (
	startupGrace = 250 * time.Millisecond
	stopTimeout  = 1200 * time.Millisecond
)

// FFMPEGCapture records the microphone with ffmpeg, encoding Opus in WebM
// on stdout.
type FFMPEGCapture struct {
	command string
	format  string
	device  string
}

func NewFFMPEGCapture(command, format, device string) *FFMPEGCapture {
	if command == "" {
		command = "ffmpeg"
	}
	if format == "" {
		format = "pulse"
	}
	if device == "" {
		device = "default"
	}
	return &FFMPEGCapture{command: command, format: format, device: device}
}

func (c *FFMPEGCapture) args() []string {
	return []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-f", c.format,
		"-i", c.device,
		"-ac", "1",
		"-c:a", "libopus",
		"-b:a", "32k",
		"-f", "webm",
		"-",
	}
}

// Open starts ffmpeg. A missing binary, a refused device or an early exit
// is reported as common.ErrDeviceUnavailable.
func (c *FFMPEGCapture) Open(ctx context.Context) (Stream, error) {
	cmd := exec.CommandContext(ctx, c.command, c.args()...)
	stderr := &lockedBuffer{}
	cmd.Stderr = stderr

	// An OS pipe rather than StdoutPipe: Wait closes a StdoutPipe as soon as
	// the process exits, which can drop bytes the reader has not drained yet.
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg stdout pipe: %v", common.ErrDeviceUnavailable, err)
	}
	cmd.Stdout = pw

	if err := cmd.Start(); err != nil {
		_ = pr.Close()
		_ = pw.Close()
		return nil, fmt.Errorf("%w: start ffmpeg: %v", common.ErrDeviceUnavailable, err)
	}
	// the child holds its own copy of the write end
	_ = pw.Close()

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
		close(waitErr)
	}()

	select {
	case err := <-waitErr:
		_ = pr.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: ffmpeg exited before capture started: %v: %s", common.ErrDeviceUnavailable, err, stderr.trimmed())
		}
		return nil, fmt.Errorf("%w: ffmpeg exited before capture started", common.ErrDeviceUnavailable)
	case <-time.After(startupGrace):
	}

	return &ffmpegStream{
		stdout:  pr,
		stderr:  stderr,
		process: cmd.Process,
		waitErr: waitErr,
	}, nil
}

type ffmpegStream struct {
	stdout *os.File
	stderr *lockedBuffer

	process *os.Process
	waitErr <-chan error

	stopOnce sync.Once
	stopErr  error
}

// Read closes the pipe once ffmpeg's output is exhausted.
func (s *ffmpegStream) Read(p []byte) (int, error) {
	n, err := s.stdout.Read(p)
	if errors.Is(err, io.EOF) {
		_ = s.stdout.Close()
	}
	return n, err
}

func (s *ffmpegStream) MIMEType() string {
	return MIMETypeWebMOpus
}

// Stop interrupts ffmpeg so it flushes the container trailer, and kills it
// if it does not exit in time.
func (s *ffmpegStream) Stop() error {
	s.stopOnce.Do(func() {
		if s.process != nil {
			_ = s.process.Signal(os.Interrupt)
		}

		select {
		case err, ok := <-s.waitErr:
			if ok {
				s.stopErr = normalizeStopErr(err)
			}
		case <-time.After(stopTimeout):
			if s.process != nil {
				_ = s.process.Kill()
			}
			if err, ok := <-s.waitErr; ok {
				s.stopErr = normalizeStopErr(err)
			}
		}

		if s.stopErr != nil {
			s.stopErr = fmt.Errorf("%w: %s", s.stopErr, s.stderr.trimmed())
		}
	})

	return s.stopErr
}

// normalizeStopErr treats a non-zero exit after an interrupt as a clean stop.
func normalizeStopErr(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) trimmed() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return strings.TrimSpace(b.buf.String())
}
