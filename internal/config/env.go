package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// loadDotEnv reads .env into the process environment. Variables that are
// already set win, and a missing file is not an error.
func loadDotEnv() {
	_ = godotenv.Load()
}

// parseEnv overlays SIGNALDESK_* variables. A malformed duration panics,
// like a malformed flag does.
func parseEnv(c *Config) {
	str := map[string]*string{
		"SIGNALDESK_SIGNAL_URL":          &c.SignalURL,
		"SIGNALDESK_STORAGE_DRIVER":      &c.StorageDriver,
		"SIGNALDESK_STORAGE_DSN":         &c.StorageDSN,
		"SIGNALDESK_S3_BUCKET":           &c.S3Bucket,
		"SIGNALDESK_S3_PREFIX":           &c.S3Prefix,
		"SIGNALDESK_S3_REGION":           &c.S3Region,
		"SIGNALDESK_S3_ENDPOINT":         &c.S3Endpoint,
		"SIGNALDESK_S3_ACCESS_KEY":       &c.S3AccessKey,
		"SIGNALDESK_S3_SECRET_KEY":       &c.S3SecretKey,
		"SIGNALDESK_ADMIN_PASSWORD_HASH": &c.AdminPasswordHash,
		"SIGNALDESK_ADMIN_PASSWORD":      &c.AdminPassword,
		"SIGNALDESK_ADMIN_TOKEN_SECRET":  &c.AdminTokenSecret,
		"SIGNALDESK_STATUS_ADDR":         &c.StatusAddr,
		"SIGNALDESK_GRPC_ADDR":           &c.GRPCAddr,
		"SIGNALDESK_LOG_LEVEL":           &c.LogLevel,
		"SIGNALDESK_CORRUPT_POLICY":      &c.CorruptPolicy,
	}
	for name, dst := range str {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	dur := map[string]*time.Duration{
		"SIGNALDESK_DASHBOARD_INTERVAL":    &c.DashboardInterval,
		"SIGNALDESK_PREVIEW_INTERVAL":      &c.PreviewInterval,
		"SIGNALDESK_REQUEST_TIMEOUT":       &c.RequestTimeout,
		"SIGNALDESK_ONLINE_CHECK_INTERVAL": &c.OnlineCheckInterval,
		"SIGNALDESK_ADMIN_TOKEN_TTL":       &c.AdminTokenTTL,
	}
	for name, dst := range dur {
		v, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(fmt.Errorf("%s: %w", name, err))
		}
		*dst = d
	}
}
