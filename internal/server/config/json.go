package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/essaydesk/internal/flagx"
	"github.com/dmitrijs2005/essaydesk/internal/timex"
)

// JsonConfig is the on-disk shape of the server config. Durations go through
// timex.Duration so files can say "30s". Pointer fields distinguish "absent"
// from the zero value, so a partial file only overrides what it names.
type JsonConfig struct {
	EndpointAddrGRPC            *string         `json:"endpoint_addr_grpc"`
	MetricsAddr                 *string         `json:"metrics_addr"`
	DatabaseDSN                 *string         `json:"database_dsn"`
	SecretKey                   *string         `json:"secret_key"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	LogLevel                    *string         `json:"log_level"`
	OracleBackend               *string         `json:"oracle_backend"`
	OracleURL                   *string         `json:"oracle_url"`
	OracleModel                 *string         `json:"oracle_model"`
	OracleAPIKey                *string         `json:"oracle_api_key"`
	OracleStaticScore           *float64        `json:"oracle_static_score"`
	OracleTimeout               *timex.Duration `json:"oracle_timeout"`
	SeedDemoTeacher             *bool           `json:"seed_demo_teacher"`
	S3RootUser                  *string         `json:"s3_root_user"`
	S3RootPassword              *string         `json:"s3_root_password"`
	S3Bucket                    *string         `json:"s3_bucket"`
	S3Region                    *string         `json:"s3_region"`
	S3BaseEndpoint              *string         `json:"s3_base_endpoint"`
}

// parseJson overlays values from the JSON file named by -c/-config onto
// config. Without the flag nothing is loaded. An unreadable file or invalid
// JSON panics: the server must not start on a half-read configuration.
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
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.MetricsAddr, c.MetricsAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.OracleBackend, c.OracleBackend)
	setString(&config.OracleURL, c.OracleURL)
	setString(&config.OracleModel, c.OracleModel)
	setString(&config.OracleAPIKey, c.OracleAPIKey)
	if c.OracleStaticScore != nil {
		config.OracleStaticScore = *c.OracleStaticScore
	}
	if c.OracleTimeout != nil {
		config.OracleTimeout = c.OracleTimeout.Duration
	}
	if c.SeedDemoTeacher != nil {
		config.SeedDemoTeacher = *c.SeedDemoTeacher
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
