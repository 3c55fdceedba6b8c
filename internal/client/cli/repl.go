package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/voicediary/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Record(ctx context.Context) error
	Stop(ctx context.Context) error
	Next(ctx context.Context) error
	Back(ctx context.Context) error
	Mood(ctx context.Context, arg string) error
	Post(ctx context.Context) error
	Restart(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Show(ctx context.Context, arg string) error
	Random(ctx context.Context) error
	Like(ctx context.Context, arg string) error
	WhoAmI(ctx context.Context) error
	Status(ctx context.Context) error
}

const helpText = `Available commands:
  record            start recording
  stop              stop and preview the take
  next | back       move between preview and mood selection
  mood <name>       choose a mood
  post              upload and publish
  restart           discard the take
  list [mood] [latest|popular]
  show <id> | random | like <id>
  whoami | status | exit`

// runREPL reads commands from scanner and dispatches them to a until EOF,
// "exit" or ctx cancellation. Command errors are printed and the loop
// continues. statusFn decorates the prompt; prompt is false when input is
// not a terminal.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner, prompt bool) {
	for {
		if ctx.Err() != nil {
			return
		}
		if prompt {
			fmt.Printf("vd %s> ", statusFn())
		}
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}

		var err error
		switch cmd {
		case "help", "?":
			printlnFn(helpText)
		case "record", "r":
			err = a.Record(ctx)
		case "stop", "s":
			err = a.Stop(ctx)
		case "next", "n":
			err = a.Next(ctx)
		case "back", "b":
			err = a.Back(ctx)
		case "mood", "m":
			err = a.Mood(ctx, arg)
		case "post", "p":
			err = a.Post(ctx)
		case "restart":
			err = a.Restart(ctx)
		case "list", "l":
			err = a.List(ctx, args)
		case "show":
			if arg == "" {
				printlnFn("Usage: show <id>")
				continue
			}
			err = a.Show(ctx, arg)
		case "random":
			err = a.Random(ctx)
		case "like":
			if arg == "" {
				printlnFn("Usage: like <id>")
				continue
			}
			err = a.Like(ctx, arg)
		case "whoami":
			err = a.WhoAmI(ctx)
		case "status":
			err = a.Status(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", describeError(err))
		}
	}
}

// describeError renders err for the user.
func describeError(err error) string {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, common.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.Is(err, common.ErrorNotFound):
		return "not found"
	case errors.Is(err, common.ErrDeviceUnavailable):
		return "microphone unavailable: " + err.Error()
	case errors.Is(err, common.ErrUploadFailure):
		return "upload failed"
	}
	return err.Error()
}
