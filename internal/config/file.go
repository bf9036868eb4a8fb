package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/signaldesk/internal/flagx"
	"github.com/dmitrijs2005/signaldesk/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of the config file. Durations use
// timex.Duration so both "3s" and integer nanoseconds are accepted.
// Zero values leave the corresponding Config field untouched.
type FileConfig struct {
	SignalURL           string         `json:"signal_url" yaml:"signal_url"`
	DashboardInterval   timex.Duration `json:"dashboard_interval" yaml:"dashboard_interval"`
	PreviewInterval     timex.Duration `json:"preview_interval" yaml:"preview_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	StorageDriver       string         `json:"storage_driver" yaml:"storage_driver"`
	StorageDSN          string         `json:"storage_dsn" yaml:"storage_dsn"`
	S3Bucket            string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Prefix            string         `json:"s3_prefix" yaml:"s3_prefix"`
	S3Region            string         `json:"s3_region" yaml:"s3_region"`
	S3Endpoint          string         `json:"s3_endpoint" yaml:"s3_endpoint"`
	S3AccessKey         string         `json:"s3_access_key" yaml:"s3_access_key"`
	S3SecretKey         string         `json:"s3_secret_key" yaml:"s3_secret_key"`
	AdminPasswordHash   string         `json:"admin_password_hash" yaml:"admin_password_hash"`
	AdminPassword       string         `json:"admin_password" yaml:"admin_password"`
	AdminTokenSecret    string         `json:"admin_token_secret" yaml:"admin_token_secret"`
	AdminTokenTTL       timex.Duration `json:"admin_token_ttl" yaml:"admin_token_ttl"`
	StatusAddr          string         `json:"status_addr" yaml:"status_addr"`
	GRPCAddr            string         `json:"grpc_addr" yaml:"grpc_addr"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
	CorruptPolicy       string         `json:"corrupt_policy" yaml:"corrupt_policy"`
}

// parseFile loads the file named by -c / -config, if any, and overlays its
// non-zero values onto config. An unreadable or malformed file panics.
func parseFile(config *Config) {
	path := flagx.ConfigFile(os.Args[1:])

	// nothing to load
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &FileConfig{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		err = json.Unmarshal(data, c)
	}
	if err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *FileConfig) apply(config *Config) {
	setString(&config.SignalURL, c.SignalURL)
	setDuration(&config.DashboardInterval, c.DashboardInterval)
	setDuration(&config.PreviewInterval, c.PreviewInterval)
	setDuration(&config.RequestTimeout, c.RequestTimeout)
	setDuration(&config.OnlineCheckInterval, c.OnlineCheckInterval)
	setString(&config.StorageDriver, c.StorageDriver)
	setString(&config.StorageDSN, c.StorageDSN)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Prefix, c.S3Prefix)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3Endpoint, c.S3Endpoint)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.AdminPasswordHash, c.AdminPasswordHash)
	setString(&config.AdminPassword, c.AdminPassword)
	setString(&config.AdminTokenSecret, c.AdminTokenSecret)
	setDuration(&config.AdminTokenTTL, c.AdminTokenTTL)
	setString(&config.StatusAddr, c.StatusAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.CorruptPolicy, c.CorruptPolicy)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
