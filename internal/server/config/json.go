package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/voicediary/internal/flagx"
	"github.com/dmitrijs2005/voicediary/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// It is an intermediate DTO: only fields present in the file are copied into
// the runtime Config.
type JsonConfig struct {
	EndpointAddrHTTP          string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC          string         `json:"endpoint_addr_grpc"`
	DatabaseDSN               string         `json:"database_dsn"`
	StoreMode                 string         `json:"store"`
	SeedDemoData              *bool          `json:"seed_demo_data"`
	S3RootUser                string         `json:"s3_root_user"`
	S3RootPassword            string         `json:"s3_root_password"`
	S3Bucket                  string         `json:"s3_bucket"`
	S3Region                  string         `json:"s3_region"`
	S3BaseEndpoint            string         `json:"s3_base_endpoint"`
	UploadURLValidityDuration timex.Duration `json:"upload_url_validity_duration"`
	CORSAllowOrigins          []string       `json:"cors_allow_origins"`
	LogLevel                  string         `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by the
// -c or -config flag. Nothing happens when neither flag is given. An
// unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	set(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.StoreMode, c.StoreMode)
	set(&config.S3RootUser, c.S3RootUser)
	set(&config.S3RootPassword, c.S3RootPassword)
	set(&config.S3Bucket, c.S3Bucket)
	set(&config.S3Region, c.S3Region)
	set(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	set(&config.LogLevel, c.LogLevel)

	if c.SeedDemoData != nil {
		config.SeedDemoData = *c.SeedDemoData
	}
	if c.UploadURLValidityDuration.Duration > 0 {
		config.UploadURLValidityDuration = c.UploadURLValidityDuration.Duration
	}
	if len(c.CORSAllowOrigins) > 0 {
		config.CORSAllowOrigins = c.CORSAllowOrigins
	}
}
