package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// envFile is the dotenv file read before the process environment.
var envFile = ".env"

// parseEnv loads envFile (when present) into the process environment and
// then reads VOICEDIARY_* variables. Variables already set in the
// environment win over the file. Malformed values panic like bad flags do.
func parseEnv(config *Config) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}
	applyEnv(config, os.LookupEnv)
}

func applyEnv(config *Config, lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("VOICEDIARY_HTTP_ADDR", &config.EndpointAddrHTTP)
	str("VOICEDIARY_GRPC_ADDR", &config.EndpointAddrGRPC)
	str("VOICEDIARY_DATABASE_DSN", &config.DatabaseDSN)
	str("VOICEDIARY_STORE", &config.StoreMode)
	str("VOICEDIARY_S3_ROOT_USER", &config.S3RootUser)
	str("VOICEDIARY_S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("VOICEDIARY_S3_BUCKET", &config.S3Bucket)
	str("VOICEDIARY_S3_REGION", &config.S3Region)
	str("VOICEDIARY_S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	str("VOICEDIARY_LOG_LEVEL", &config.LogLevel)

	if v, ok := lookup("VOICEDIARY_SEED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.SeedDemoData = b
	}
	if v, ok := lookup("VOICEDIARY_UPLOAD_URL_VALIDITY"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.UploadURLValidityDuration = d
	}
	if v, ok := lookup("VOICEDIARY_CORS_ORIGINS"); ok && v != "" {
		config.CORSAllowOrigins = splitList(v)
	}
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
