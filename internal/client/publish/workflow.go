// Package publish drives a diary entry from capture to a created recording.
//
// The workflow is linear and user driven:
//
//	Capturing -> Preview -> MoodSelection -> Uploading -> Done
//
// A failed upload or a rejected createRecording regresses to Preview with
// the captured blob intact, so the user can retry without re-recording.
// Failed is reserved for submits that can never succeed, such as a missing
// owner identity. Done and Failed are terminal; start a new Workflow for the
// next entry.
package publish

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/client/capture"
	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/dmitrijs2005/voicediary/internal/client/models"
)

type Phase string

const (
	PhaseCapturing     Phase = "capturing"
	PhasePreview       Phase = "preview"
	PhaseMoodSelection Phase = "mood_selection"
	PhaseUploading     Phase = "uploading"
	PhaseDone          Phase = "done"
	PhaseFailed        Phase = "failed"
)

// Recorder is the capture state machine.
type Recorder interface {
	Start(ctx context.Context) error
	Stop() (*capture.Blob, error)
	State() capture.State
	Elapsed() time.Duration
}

// Uploader stores a blob and returns its location.
type Uploader interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}

// Recordings creates the recording once the media is stored.
type Recordings interface {
	CreateRecording(ctx context.Context, in models.NewRecording) (*models.Recording, error)
}

// Snapshot is a point-in-time view of the workflow for the UI.
type Snapshot struct {
	Phase Phase
	// Recording is true while the recorder is capturing.
	Recording bool
	// ElapsedSeconds counts whole seconds of the running capture.
	ElapsedSeconds int
	// Duration of the captured blob, zero before the first stop.
	Duration int
	HasBlob  bool
	Mood     models.Mood
	// LastErr is the error that caused the most recent regression or failure.
	LastErr error
	// Result is the created recording once Done.
	Result *models.Recording
}

type Workflow struct {
	recorder   Recorder
	uploader   Uploader
	recordings Recordings
	userID     string
	log        logging.Logger

	mu      sync.Mutex
	phase   Phase
	blob    *capture.Blob
	mood    models.Mood
	lastErr error
	result  *models.Recording
}

// New returns a workflow in the Capturing phase owned by userID.
func New(rec Recorder, up Uploader, recs Recordings, userID string, log logging.Logger) *Workflow {
	return &Workflow{
		recorder:   rec,
		uploader:   up,
		recordings: recs,
		userID:     userID,
		log:        log.With("module", "publish"),
		phase:      PhaseCapturing,
	}
}

func (w *Workflow) invalid(op string) error {
	return fmt.Errorf("%w: cannot %s while %s", common.ErrInvalidState, op, w.phase)
}

// StartRecording begins a capture. Only valid in Capturing.
func (w *Workflow) StartRecording(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase != PhaseCapturing {
		return w.invalid("start recording")
	}
	return w.recorder.Start(ctx)
}

// StopRecording finalizes the capture and moves to Preview. Without a
// running capture it fails with common.ErrInvalidState and the phase stays
// Capturing.
func (w *Workflow) StopRecording() (*capture.Blob, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase != PhaseCapturing {
		return nil, w.invalid("stop recording")
	}
	blob, err := w.recorder.Stop()
	if err != nil {
		return nil, err
	}

	w.blob = blob
	w.lastErr = nil
	w.phase = PhasePreview
	return blob, nil
}

// Next moves from Preview to MoodSelection.
func (w *Workflow) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase != PhasePreview {
		return w.invalid("continue")
	}
	if w.blob == nil || len(w.blob.Data) == 0 {
		return fmt.Errorf("%w: nothing recorded", common.ErrInvalidState)
	}
	w.phase = PhaseMoodSelection
	return nil
}

// Back returns from MoodSelection to Preview and forgets the chosen mood.
func (w *Workflow) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase != PhaseMoodSelection {
		return w.invalid("go back")
	}
	w.mood = ""
	w.phase = PhasePreview
	return nil
}

// SelectMood validates and remembers the mood. An invalid value leaves the
// previous choice in place.
func (w *Workflow) SelectMood(s string) (models.Mood, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase != PhaseMoodSelection {
		return "", w.invalid("select mood")
	}
	m, err := models.ParseMood(s)
	if err != nil {
		return "", err
	}
	w.mood = m
	return m, nil
}

// Submit uploads the blob and creates the recording. The lock is released
// during the remote calls so State stays responsive; the Uploading phase
// rejects every other operation meanwhile.
func (w *Workflow) Submit(ctx context.Context) (*models.Recording, error) {
	w.mu.Lock()
	if w.phase != PhaseMoodSelection {
		err := w.invalid("submit")
		w.mu.Unlock()
		return nil, err
	}
	if w.mood == "" {
		w.mu.Unlock()
		return nil, common.NewValidationError("mood", "mood is required")
	}
	if w.userID == "" {
		w.phase = PhaseFailed
		w.lastErr = fmt.Errorf("%w: no owner identity", common.ErrInvalidState)
		err := w.lastErr
		w.mu.Unlock()
		return nil, err
	}
	blob, mood := w.blob, w.mood
	w.phase = PhaseUploading
	w.mu.Unlock()

	location, err := w.uploader.Upload(ctx, blob.Data, blob.MIMEType)
	if err != nil {
		if !errors.Is(err, common.ErrUploadFailure) {
			err = errors.Join(common.ErrUploadFailure, err)
		}
		w.log.Warn(ctx, "upload failed", "error", err)
		return nil, w.regress(err)
	}

	rec, err := w.recordings.CreateRecording(ctx, models.NewRecording{
		UserID:   w.userID,
		AudioURL: location,
		Duration: blob.Duration,
		Mood:     string(mood),
	})
	if err != nil {
		err = fmt.Errorf("create recording: %w", err)
		w.log.Warn(ctx, "create recording failed", "location", location, "error", err)
		return nil, w.regress(err)
	}

	w.mu.Lock()
	w.phase = PhaseDone
	w.result = rec
	w.lastErr = nil
	w.mu.Unlock()

	w.log.Info(ctx, "recording published", "id", rec.ID, "mood", rec.Mood)
	return rec, nil
}

// regress returns to Preview keeping the blob.
func (w *Workflow) regress(err error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.phase = PhasePreview
	w.lastErr = err
	return err
}

// Restart discards the blob and returns to Capturing. Valid from Preview
// and MoodSelection.
func (w *Workflow) Restart() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.phase != PhasePreview && w.phase != PhaseMoodSelection {
		return w.invalid("restart")
	}
	w.blob = nil
	w.mood = ""
	w.lastErr = nil
	w.phase = PhaseCapturing
	return nil
}

func (w *Workflow) State() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Snapshot{
		Phase:   w.phase,
		HasBlob: w.blob != nil,
		Mood:    w.mood,
		LastErr: w.lastErr,
		Result:  w.result,
	}
	if w.blob != nil {
		s.Duration = w.blob.Duration
	}
	if w.phase == PhaseCapturing && w.recorder.State() == capture.StateRecording {
		s.Recording = true
		s.ElapsedSeconds = int(w.recorder.Elapsed() / time.Second)
	}
	return s
}

// Blob returns the captured blob, nil before the first stop or after a
// restart.
func (w *Workflow) Blob() *capture.Blob {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.blob
}

// Terminal reports whether the workflow reached Done or Failed.
func (w *Workflow) Terminal() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.phase == PhaseDone || w.phase == PhaseFailed
}
