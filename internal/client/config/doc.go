// Package config loads runtime configuration for the voice diary CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-g string   address:port of the gRPC health service
//	-i int      online status check interval (seconds)
//	-l string   local SQLite database path
//	-f string   ffmpeg binary
//	-x string   ffmpeg capture input format
//	-n string   capture device
//
// # JSON schema
//
// Intervals are timex.Duration values, either strings like "3s" or numbers
// of seconds:
//
//	{
//	  "api_base_url": "http://127.0.0.1:8080",
//	  "health_endpoint_addr": "127.0.0.1:50051",
//	  "online_check_interval": "3s",
//	  "request_timeout": "10s",
//	  "local_db_path": "voicediary.db",
//	  "ffmpeg_path": "ffmpeg",
//	  "capture_format": "pulse",
//	  "capture_device": "default"
//	}
package config
