package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/logging"
)

// State is the recorder phase.
type State string

const (
	StateIdle      State = "idle"
	StateRecording State = "recording"
)

// Blob is a finished recording.
type Blob struct {
	Data     []byte
	MIMEType string
	// Duration is the whole seconds elapsed between start and stop.
	Duration int
}

// Recorder is the capture state machine: idle -> recording -> idle. It owns
// one recording session at a time; the blob returned by Stop belongs to the
// caller.
type Recorder struct {
	device Device
	log    logging.Logger
	now    func() time.Time

	mu      sync.Mutex
	state   State
	stream  Stream
	started time.Time
	buf     *bytes.Buffer
	done    chan struct{}
	readErr error
	// stopping is set while Stop drains the stream.
	stopping bool
}

func NewRecorder(device Device, log logging.Logger) *Recorder {
	return &Recorder{device: device, log: log.With("module", "capture"), now: time.Now, state: StateIdle}
}

func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Elapsed is the time since Start while recording, zero otherwise.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return 0
	}
	return r.now().Sub(r.started)
}

// Start acquires the device and begins accumulating audio. The elapsed
// counter starts at zero.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateIdle {
		return fmt.Errorf("%w: already recording", common.ErrInvalidState)
	}

	stream, err := r.device.Open(ctx)
	if err != nil {
		if errors.Is(err, common.ErrDeviceUnavailable) {
			return err
		}
		return fmt.Errorf("%w: %v", common.ErrDeviceUnavailable, err)
	}

	r.stream = stream
	r.buf = &bytes.Buffer{}
	r.done = make(chan struct{})
	r.readErr = nil
	r.started = r.now()
	r.state = StateRecording

	go r.pump(stream, r.buf, r.done)
	return nil
}

func (r *Recorder) pump(src io.Reader, dst *bytes.Buffer, done chan struct{}) {
	defer close(done)
	if _, err := io.Copy(dst, src); err != nil {
		r.mu.Lock()
		r.readErr = err
		r.mu.Unlock()
	}
}

// Stop finalizes the session into a Blob and returns to idle. Calling it
// while idle returns common.ErrInvalidState and changes nothing.
func (r *Recorder) Stop() (*Blob, error) {
	r.mu.Lock()
	if r.state != StateRecording || r.stopping {
		r.mu.Unlock()
		return nil, fmt.Errorf("%w: not recording", common.ErrInvalidState)
	}
	r.stopping = true
	elapsed := r.now().Sub(r.started)
	stream, buf, done := r.stream, r.buf, r.done
	r.mu.Unlock()

	stopErr := stream.Stop()
	<-done

	r.mu.Lock()
	readErr := r.readErr
	r.state = StateIdle
	r.stopping = false
	r.stream = nil
	r.buf = nil
	r.done = nil
	r.mu.Unlock()

	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: no audio captured", common.ErrDeviceUnavailable)
	}
	if stopErr != nil && readErr != nil {
		return nil, fmt.Errorf("%w: capture failed: %v", common.ErrDeviceUnavailable, errors.Join(stopErr, readErr))
	}
	if stopErr != nil || readErr != nil {
		// the take may be truncated
		r.log.Warn(context.Background(), "capture ended with an error, keeping captured audio",
			"bytes", buf.Len(), "error", errors.Join(stopErr, readErr))
	}

	return &Blob{
		Data:     buf.Bytes(),
		MIMEType: stream.MIMEType(),
		Duration: int(elapsed / time.Second),
	}, nil
}
