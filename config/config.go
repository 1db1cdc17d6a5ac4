package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Push       PushConfig       `yaml:"push"`
	Risk       RiskConfig       `yaml:"risk"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	RequestIPHeader string   `yaml:"request_ip_header"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	CacheTTLSeconds int      `yaml:"cache_ttl_seconds"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// PushConfig holds credentials and endpoints for the push providers.
type PushConfig struct {
	ExpoURL         string `yaml:"expo_url"`
	FCMURL          string `yaml:"fcm_url"`
	FCMServerKey    string `yaml:"fcm_server_key"`
	VAPIDPublicKey  string `yaml:"vapid_public_key"`
	VAPIDPrivateKey string `yaml:"vapid_private_key"`
	Subject         string `yaml:"subject"`
	TTL             int    `yaml:"ttl"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

// RiskConfig holds the tunables of the delay-risk heuristic.
type RiskConfig struct {
	PeakStartHour  int `yaml:"peak_start_hour"`
	PeakEndHour    int `yaml:"peak_end_hour"`
	AlertThreshold int `yaml:"alert_threshold"`
}

// WorkerPoolConfig holds the configuration for the alert notification worker pool.
type WorkerPoolConfig struct {
	Size      int `yaml:"size"`
	QueueSize int `yaml:"queue_size"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}

	if cfg.Push.ExpoURL == "" {
		cfg.Push.ExpoURL = "https://exp.host/--/api/v2/push/send"
	}
	if cfg.Push.FCMURL == "" {
		cfg.Push.FCMURL = "https://fcm.googleapis.com/fcm/send"
	}
	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}
	if cfg.Push.TimeoutSeconds <= 0 {
		cfg.Push.TimeoutSeconds = 5
	}

	if cfg.Risk.PeakStartHour <= 0 {
		cfg.Risk.PeakStartHour = 14
	}
	if cfg.Risk.PeakEndHour <= 0 {
		cfg.Risk.PeakEndHour = 17
	}
	if cfg.Risk.AlertThreshold <= 0 {
		cfg.Risk.AlertThreshold = 70
	}

	if cfg.WorkerPool.Size <= 0 {
		cfg.WorkerPool.Size = 2
	}
	if cfg.WorkerPool.QueueSize <= 0 {
		cfg.WorkerPool.QueueSize = 64
	}
}
