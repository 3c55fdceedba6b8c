package config

import (
	"runtime"
	"time"
)

// Config holds runtime settings for the voice diary CLI.
//
// Fields:
//   - APIBaseURL: base URL of the REST API, e.g. "http://127.0.0.1:8080".
//   - HealthEndpointAddr: host:port of the gRPC health service.
//   - OnlineCheckInterval: how often the client probes server reachability.
//   - RequestTimeout: upper bound for a single API call.
//   - LocalDBPath: SQLite file keeping the identity token.
//   - FFmpegPath: ffmpeg binary used for microphone capture.
//   - CaptureFormat / CaptureDevice: ffmpeg input format (-f) and device (-i).
type Config struct {
	APIBaseURL          string
	HealthEndpointAddr  string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
	LocalDBPath         string
	FFmpegPath          string
	CaptureFormat       string
	CaptureDevice       string
}

// defaultCaptureInput picks the ffmpeg input format and device for the
// current platform.
func defaultCaptureInput(goos string) (format, device string) {
	switch goos {
	case "darwin":
		return "avfoundation", ":0"
	case "windows":
		return "dshow", "audio=default"
	}
	return "pulse", "default"
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.HealthEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 10 * time.Second
	c.LocalDBPath = "voicediary.db"
	c.FFmpegPath = "ffmpeg"
	c.CaptureFormat, c.CaptureDevice = defaultCaptureInput(runtime.GOOS)
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
