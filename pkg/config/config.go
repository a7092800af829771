package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type ClientConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Quota   QuotaConfig   `yaml:"quota"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Tracing TracingConfig `yaml:"tracing"`
}

type ServerConfig struct {
	URL             string `yaml:"url"`
	RequestTimeout  int    `yaml:"request_timeout_s"`
	RetryInitialMs  int    `yaml:"retry_initial_ms"`
	RetryMaxMs      int    `yaml:"retry_max_ms"`
	RetryMaxRetries int    `yaml:"retry_max_attempts"`
}

type QuotaConfig struct {
	MaxRequests int    `yaml:"max_requests"`
	WindowHours int    `yaml:"window_h"`
	StorageKey  string `yaml:"storage_key"`
}

type StorageConfig struct {
	StateDir       string `yaml:"state_dir"`
	CookieTTLHours int    `yaml:"cookie_ttl_h"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	JSON  bool   `yaml:"json"`
}

type TracingConfig struct {
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
	LogSpans    bool    `yaml:"log_spans"`
}

// DefaultConfig returns the BETA product defaults: two searches per
// 24-hour window, local server, 24-hour cookie replica.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		Server: ServerConfig{
			URL:             "http://localhost:8080",
			RequestTimeout:  15,
			RetryInitialMs:  500,
			RetryMaxMs:      5000,
			RetryMaxRetries: 2,
		},
		Quota: QuotaConfig{
			MaxRequests: 2,
			WindowHours: 24,
			StorageKey:  "scout_search_quota",
		},
		Storage: StorageConfig{
			CookieTTLHours: 24,
		},
		Logging: LoggingConfig{
			Level: "info",
			JSON:  false,
		},
		Tracing: TracingConfig{
			SampleRatio: 1,
		},
	}
}

// Load reads config from an optional file with env var overrides.
func Load(path string) (*ClientConfig, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		}
	}

	if url := os.Getenv("SCOUT_SERVER_URL"); url != "" {
		cfg.Server.URL = url
	}
	if level := os.Getenv("SCOUT_LOG_LEVEL"); level != "" {
		cfg.Logging.Level = level
	}
	if dir := os.Getenv("SCOUT_STATE_DIR"); dir != "" {
		cfg.Storage.StateDir = dir
	}

	return cfg, nil
}

func (c *ClientConfig) Validate() error {
	if c.Server.URL == "" {
		return ErrMissingServerURL
	}
	if c.Quota.MaxRequests <= 0 {
		return ErrInvalidQuota
	}
	if c.Quota.WindowHours <= 0 {
		c.Quota.WindowHours = 24
	}
	if c.Quota.StorageKey == "" {
		c.Quota.StorageKey = "scout_search_quota"
	}
	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = 15
	}
	if c.Server.RetryInitialMs <= 0 {
		c.Server.RetryInitialMs = 500
	}
	if c.Server.RetryMaxMs < c.Server.RetryInitialMs {
		c.Server.RetryMaxMs = 5000
	}
	if c.Server.RetryMaxRetries < 0 {
		c.Server.RetryMaxRetries = 2
	}
	if c.Storage.CookieTTLHours <= 0 {
		c.Storage.CookieTTLHours = 24
	}
	if c.Tracing.SampleRatio <= 0 || c.Tracing.SampleRatio > 1 {
		c.Tracing.SampleRatio = 1
	}
	return nil
}

var (
	ErrMissingServerURL = &Error{"server URL is required"}
	ErrInvalidQuota     = &Error{"quota max_requests must be positive"}
)

type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}
