package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/voicediary/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   REST bind address (e.g., ":8080")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-d string   PostgreSQL DSN
//	-m string   store backend: postgres or memory
//	-seed       seed demo data into an empty store
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-r string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-t int      presigned URL validity, minutes
//	-l string   log level
//
// os.Args is first filtered to the flags above with flagx.FilterArgs, so
// the -c config flag and foreign flags do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-d", "-m", "-seed", "-u", "-p", "-b", "-r", "-e", "-t", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run the REST API")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "address and port to run the gRPC health service")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StoreMode, "m", config.StoreMode, "store backend (postgres|memory)")
	fs.BoolVar(&config.SeedDemoData, "seed", config.SeedDemoData, "seed demo data into an empty store")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	uploadURLValidity := fs.Int("t", int(config.UploadURLValidityDuration.Minutes()), "presigned URL validity (in minutes)")

	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level (debug|info|warn|error)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.UploadURLValidityDuration = time.Duration(*uploadURLValidity) * time.Minute
}
