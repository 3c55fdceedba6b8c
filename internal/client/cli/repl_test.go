package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/voicediary/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	calls []string
	err   error
}

func (f *fakeExec) rec(name string) error {
	f.calls = append(f.calls, name)
	return f.err
}

func (f *fakeExec) Record(context.Context) error  { return f.rec("record") }
func (f *fakeExec) Stop(context.Context) error    { return f.rec("stop") }
func (f *fakeExec) Next(context.Context) error    { return f.rec("next") }
func (f *fakeExec) Back(context.Context) error    { return f.rec("back") }
func (f *fakeExec) Post(context.Context) error    { return f.rec("post") }
func (f *fakeExec) Restart(context.Context) error { return f.rec("restart") }
func (f *fakeExec) Random(context.Context) error  { return f.rec("random") }
func (f *fakeExec) WhoAmI(context.Context) error  { return f.rec("whoami") }
func (f *fakeExec) Status(context.Context) error  { return f.rec("status") }
func (f *fakeExec) Mood(_ context.Context, arg string) error {
	return f.rec("mood " + arg)
}
func (f *fakeExec) List(_ context.Context, args []string) error {
	return f.rec(strings.TrimSpace("list " + strings.Join(args, " ")))
}
func (f *fakeExec) Show(_ context.Context, arg string) error { return f.rec("show " + arg) }
func (f *fakeExec) Like(_ context.Context, arg string) error { return f.rec("like " + arg) }

// capturePrintln records user-facing output for the duration of the test.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"record",
		"stop",
		"next",
		"back",
		"next",
		"mood calm",
		"post",
		"",
		"list happy popular",
		"show 3",
		"random",
		"like 3",
		"whoami",
		"status",
		"restart",
		"exit",
		"record",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(input), false)

	assert.Equal(t, []string{
		"record", "stop", "next", "back", "next", "mood calm", "post",
		"list happy popular", "show 3", "random", "like 3", "whoami", "status", "restart",
	}, exec.calls)
}

func TestRunREPL_UsageAndUnknown(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("show\nlike\nfoobar\nquit\n")), false)

	assert.Empty(t, exec.calls)
	assert.Equal(t, []string{"Usage: show <id>", "Usage: like <id>", "Unknown command: foobar", "Bye!"}, *lines)
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{err: common.ErrUnavailable}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("random\nrandom\n")), false)

	assert.Len(t, exec.calls, 2)
	assert.Equal(t, []string{
		"Error: server unavailable, try again later",
		"Error: server unavailable, try again later",
	}, *lines)
}

func TestRunREPL_StopsOnCancelledContext(t *testing.T) {
	capturePrintln(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	exec := &fakeExec{}
	runREPL(ctx, exec, func() string { return "" }, bufio.NewScanner(strings.NewReader("record\n")), false)
	assert.Empty(t, exec.calls)
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", fmt.Errorf("x: %w", common.NewValidationError("mood", "unknown mood Bored")), "unknown mood Bored"},
		{"not found", common.ErrorNotFound, "not found"},
		{"unavailable", common.ErrUnavailable, "server unavailable, try again later"},
		{"upload", errors.Join(common.ErrUploadFailure, errors.New("reset")), "upload failed"},
		{"device", fmt.Errorf("%w: denied", common.ErrDeviceUnavailable), "microphone unavailable: capture device unavailable: denied"},
		{"other", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, describeError(tt.err))
		})
	}
}
