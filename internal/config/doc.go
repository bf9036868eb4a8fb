// Package config loads runtime configuration for SignalDesk.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, if present (godotenv).
//  3. SIGNALDESK_* environment variables (see parseEnv).
//  4. Optional JSON or YAML file selected via -c or -config (see parseFile).
//  5. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-u string     signal endpoint URL
//	-i duration   dashboard poll interval
//	-p duration   preview poll interval
//	-t duration   signal request timeout
//	-o duration   signal service reachability check interval
//	-s string     storage driver: memory, sqlite, postgres, s3
//	-d string     storage DSN (sqlite file or postgres connection string)
//	-b string     S3 bucket
//	-g string     S3 region
//	-e string     S3 endpoint
//	-a string     status HTTP address (empty disables the status servers)
//	-r string     gRPC health address
//	-l string     log level
//	-corrupt      what to do with an unreadable account list: fail or reset
//
// # File schema
//
// Durations accept "3s" or integer nanoseconds. A file ending in .yaml or
// .yml is read as YAML, anything else as JSON:
//
//	{
//	  "signal_url": "http://127.0.0.1:8000/api/live",
//	  "dashboard_interval": "3s",
//	  "storage_driver": "postgres",
//	  "storage_dsn": "postgres://signaldesk@localhost/signaldesk"
//	}
package config
