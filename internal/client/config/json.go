package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/voicediary/internal/flagx"
	"github.com/dmitrijs2005/voicediary/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as numbers of seconds. Only fields present in the
// file are copied into the runtime Config.
type JsonConfig struct {
	APIBaseURL          string         `json:"api_base_url"`
	HealthEndpointAddr  string         `json:"health_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	LocalDBPath         string         `json:"local_db_path"`
	FFmpegPath          string         `json:"ffmpeg_path"`
	CaptureFormat       string         `json:"capture_format"`
	CaptureDevice       string         `json:"capture_device"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without either flag nothing is loaded. Read or unmarshal
// errors panic.
func parseJson(cfg *Config) {
	// Resolve file path from flags.
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	jc.apply(cfg)
}

func (jc *JsonConfig) apply(cfg *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&cfg.APIBaseURL, jc.APIBaseURL)
	set(&cfg.HealthEndpointAddr, jc.HealthEndpointAddr)
	set(&cfg.LocalDBPath, jc.LocalDBPath)
	set(&cfg.FFmpegPath, jc.FFmpegPath)
	set(&cfg.CaptureFormat, jc.CaptureFormat)
	set(&cfg.CaptureDevice, jc.CaptureDevice)

	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}
