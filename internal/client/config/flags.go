package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the REST API
//	-g string   host:port of the gRPC health service
//	-i int      online check interval in seconds
//	-l string   local SQLite database path
//	-f string   ffmpeg binary
//	-x string   ffmpeg capture input format (pulse, alsa, avfoundation, dshow)
//	-n string   capture device name
//
// Note: The function filters os.Args to only include the flags it knows about,
// using flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-i", "-l", "-f", "-x", "-n"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the REST API")
	fs.StringVar(&cfg.HealthEndpointAddr, "g", cfg.HealthEndpointAddr, "address and port of the health service")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LocalDBPath, "l", cfg.LocalDBPath, "local database path")
	fs.StringVar(&cfg.FFmpegPath, "f", cfg.FFmpegPath, "ffmpeg binary")
	fs.StringVar(&cfg.CaptureFormat, "x", cfg.CaptureFormat, "capture input format")
	fs.StringVar(&cfg.CaptureDevice, "n", cfg.CaptureDevice, "capture device")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
