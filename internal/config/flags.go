package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/dmitrijs2005/signaldesk/internal/flagx"
)

var allowedFlags = []string{"-u", "-i", "-p", "-t", "-o", "-s", "-d", "-b", "-g", "-e", "-a", "-r", "-l", "-corrupt"}

// parseFlags populates Config fields from command-line flags. os.Args is
// first narrowed with flagx.FilterArgs so -c and unknown flags are ignored.
// Durations use Go syntax ("3s", "500ms").
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], allowedFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.SignalURL, "u", config.SignalURL, "signal endpoint URL")
	fs.DurationVar(&config.DashboardInterval, "i", config.DashboardInterval, "dashboard poll interval")
	fs.DurationVar(&config.PreviewInterval, "p", config.PreviewInterval, "preview poll interval")
	fs.DurationVar(&config.RequestTimeout, "t", config.RequestTimeout, "signal request timeout")
	fs.DurationVar(&config.OnlineCheckInterval, "o", config.OnlineCheckInterval, "signal service reachability check interval")

	fs.StringVar(&config.StorageDriver, "s", config.StorageDriver, "storage driver (memory, sqlite, postgres, s3)")
	fs.StringVar(&config.StorageDSN, "d", config.StorageDSN, "storage DSN")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3Endpoint, "e", config.S3Endpoint, "S3 endpoint")

	fs.StringVar(&config.StatusAddr, "a", config.StatusAddr, "status HTTP address")
	fs.StringVar(&config.GRPCAddr, "r", config.GRPCAddr, "gRPC health address")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.CorruptPolicy, "corrupt", config.CorruptPolicy, "unreadable account list policy (fail, reset)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	if config.CorruptPolicy != "fail" && config.CorruptPolicy != "reset" {
		panic(fmt.Errorf("invalid corrupt policy %q", config.CorruptPolicy))
	}
}
