package capture

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/dmitrijs2005/voicediary/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, name string, contents string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts stand in for ffmpeg")
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o700); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func TestFFMPEGCapture_Args(t *testing.T) {
	c := NewFFMPEGCapture("", "", "")
	assert.Equal(t, "ffmpeg", c.command)

	args := strings.Join(NewFFMPEGCapture("ff", "alsa", "hw:1").args(), " ")
	assert.Contains(t, args, "-f alsa -i hw:1")
	assert.Contains(t, args, "-c:a libopus")
	assert.True(t, strings.HasSuffix(args, "-f webm -"))
}

func TestFFMPEGCapture_ReadAndStop(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "capture.sh", "#!/usr/bin/env bash\nprintf 'hello'\nexec sleep 5\n")
	stream, err := NewFFMPEGCapture(script, "", "").Open(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MIMETypeWebMOpus, stream.MIMEType())

	got := make(chan []byte, 1)
	go func() {
		b, _ := io.ReadAll(stream)
		got <- b
	}()

	start := time.Now()
	require.NoError(t, stream.Stop())
	assert.Less(t, time.Since(start), 3*time.Second)

	select {
	case b := <-got:
		assert.Equal(t, "hello", string(b))
	case <-time.After(3 * time.Second):
		t.Fatal("stream did not reach EOF after stop")
	}

	// Stop is idempotent
	require.NoError(t, stream.Stop())
}

func TestFFMPEGCapture_DrainsOutputWrittenOnInterrupt(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "trailer.sh", "#!/usr/bin/env bash\ntrap 'printf TRAILER; exit 255' INT\nprintf 'head-'\nwhile true; do sleep 0.05; done\n")
	stream, err := NewFFMPEGCapture(script, "", "").Open(context.Background())
	require.NoError(t, err)

	got := make(chan []byte, 1)
	go func() {
		b, _ := io.ReadAll(stream)
		got <- b
	}()

	require.NoError(t, stream.Stop())
	select {
	case b := <-got:
		assert.Equal(t, "head-TRAILER", string(b))
	case <-time.After(3 * time.Second):
		t.Fatal("stream did not reach EOF after stop")
	}
}

func TestFFMPEGCapture_EarlyExitIsDeviceUnavailable(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "fail.sh", "#!/usr/bin/env bash\necho 'no such device' 1>&2\nexit 1\n")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewFFMPEGCapture(script, "", "").Open(ctx)
	require.ErrorIs(t, err, common.ErrDeviceUnavailable)
	assert.Contains(t, err.Error(), "exited before capture started")
	assert.Contains(t, err.Error(), "no such device")
}

func TestFFMPEGCapture_MissingBinary(t *testing.T) {
	_, err := NewFFMPEGCapture(filepath.Join(t.TempDir(), "nope"), "", "").Open(context.Background())
	require.ErrorIs(t, err, common.ErrDeviceUnavailable)
}

func TestFFMPEGCapture_WithRecorder(t *testing.T) {
	t.Parallel()

	script := writeScript(t, "rec.sh", "#!/usr/bin/env bash\nprintf 'opus'\nexec sleep 5\n")
	r := NewRecorder(NewFFMPEGCapture(script, "", ""), logging.Nop())

	require.NoError(t, r.Start(context.Background()))
	blob, err := r.Stop()
	require.NoError(t, err)
	assert.Equal(t, []byte("opus"), blob.Data)
	assert.Equal(t, MIMETypeWebMOpus, blob.MIMEType)
}

func TestNormalizeStopErr(t *testing.T) {
	t.Parallel()

	err := exec.Command("bash", "-c", "exit 1").Run()
	require.Error(t, err)
	assert.NoError(t, normalizeStopErr(err))
	assert.NoError(t, normalizeStopErr(nil))
	assert.Error(t, normalizeStopErr(io.ErrUnexpectedEOF))
}
