package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/essaydesk/internal/flagx"
)

var serverFlags = []string{
	"-a", "-m", "-d", "-s", "-t", "-l",
	"-o", "-ou", "-om", "-ok", "-os", "-ot",
	"-seed",
	"-u", "-p", "-b", "-g", "-e",
}

// parseFlags populates server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   metrics bind address, empty disables /metrics
//	-d string   PostgreSQL DSN, empty selects in-memory storage
//	-s string   JWT HMAC secret key
//	-t int      access token validity, minutes
//	-l string   log level
//	-o string   oracle backend: static, http or openai
//	-ou string  oracle endpoint URL (http backend, or OpenAI-compatible base URL)
//	-om string  oracle model name (openai backend)
//	-ok string  oracle API key
//	-os float   score returned by the static oracle
//	-ot int     oracle timeout per evaluation, seconds
//	-seed       register the demo teacher on start-up
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name, empty disables exports
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags, "-seed")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "address and port for /metrics")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	fs.StringVar(&config.OracleBackend, "o", config.OracleBackend, "oracle backend (static, http, openai)")
	fs.StringVar(&config.OracleURL, "ou", config.OracleURL, "oracle endpoint URL")
	fs.StringVar(&config.OracleModel, "om", config.OracleModel, "oracle model name")
	fs.StringVar(&config.OracleAPIKey, "ok", config.OracleAPIKey, "oracle API key")
	fs.Float64Var(&config.OracleStaticScore, "os", config.OracleStaticScore, "static oracle score")
	oracleTimeout := fs.Int("ot", int(config.OracleTimeout.Seconds()), "oracle timeout (in seconds)")

	fs.BoolVar(&config.SeedDemoTeacher, "seed", config.SeedDemoTeacher, "register the demo teacher")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 export bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
	config.OracleTimeout = time.Duration(*oracleTimeout) * time.Second
}
