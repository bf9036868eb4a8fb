package config

import "time"

// Config holds runtime settings for the SignalDesk CLI.
type Config struct {
	SignalURL         string
	DashboardInterval time.Duration
	PreviewInterval   time.Duration
	RequestTimeout    time.Duration

	// OnlineCheckInterval is how often the signal service is probed for the
	// prompt's online/offline marker.
	OnlineCheckInterval time.Duration

	StorageDriver string
	StorageDSN    string
	S3Bucket      string
	S3Prefix      string
	S3Region      string
	S3Endpoint    string
	S3AccessKey   string
	S3SecretKey   string

	// AdminPasswordHash is a bcrypt hash. When empty, AdminPassword is
	// hashed at startup instead; when both are empty the admin gate is off.
	AdminPasswordHash string
	AdminPassword     string
	// AdminTokenSecret signs admin tokens. Empty means a random per-process
	// secret.
	AdminTokenSecret  string
	AdminTokenTTL     time.Duration

	StatusAddr string
	GRPCAddr   string

	LogLevel      string
	CorruptPolicy string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the admin password default is insecure and must be overridden.
func (c *Config) LoadDefaults() {
	c.SignalURL = "http://127.0.0.1:8000/api/live"
	c.DashboardInterval = 3 * time.Second
	c.PreviewInterval = 10 * time.Second
	c.RequestTimeout = 8 * time.Second
	c.OnlineCheckInterval = 30 * time.Second
	c.StorageDriver = "sqlite"
	c.StorageDSN = "signaldesk.db"
	c.S3Bucket = "signaldesk"
	c.S3Prefix = "state"
	c.S3Region = "us-east-1"
	c.AdminPassword = "admin2024"
	c.AdminTokenTTL = 15 * time.Minute
	c.GRPCAddr = ":50051"
	c.LogLevel = "warn"
	c.CorruptPolicy = "fail"
}

// LoadConfig builds a Config by applying defaults, then .env and the
// environment, then an optional JSON/YAML file and finally command-line
// flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	loadDotEnv()
	parseEnv(cfg)
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
