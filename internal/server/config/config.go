// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Oracle backend names accepted by OracleBackend.
const (
	OracleStatic = "static"
	OracleHTTP   = "http"
	OracleOpenAI = "openai"
)

// Config holds runtime settings for the essaydesk server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the public gRPC endpoint.
//   - MetricsAddr: bind address for the Prometheus /metrics endpoint; empty disables it.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty keeps everything in memory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration: session token lifetime.
//   - LogLevel: debug, info, warn or error.
//   - Oracle*: model oracle backend selection and its connection settings. OracleURL is
//     required by the http backend and overrides the API base URL of the openai one.
//   - SeedDemoTeacher: register the demo teacher account at start-up.
//   - S3*: object storage used for group statistics exports; empty bucket disables exports.
type Config struct {
	EndpointAddrGRPC            string
	MetricsAddr                 string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	LogLevel                    string
	OracleBackend               string
	OracleURL                   string
	OracleModel                 string
	OracleAPIKey                string
	OracleStaticScore           float64
	OracleTimeout               time.Duration
	SeedDemoTeacher             bool
	S3RootUser                  string
	S3RootPassword              string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
}

// LoadDefaults populates Config with development defaults: in-memory storage,
// a static oracle and exports switched off.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.MetricsAddr = ":9090"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 60 * time.Minute
	c.LogLevel = "info"
	c.OracleBackend = OracleStatic
	c.OracleURL = ""
	c.OracleModel = "gpt-4o-mini"
	c.OracleAPIKey = ""
	c.OracleStaticScore = 0.6
	c.OracleTimeout = 30 * time.Second
	c.SeedDemoTeacher = false
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
