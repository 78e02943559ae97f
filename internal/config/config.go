// Package config resolves gateway configuration from environment variables,
// with defaults matching the vendor's documented regional endpoints.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Region is a closed set of vendor regional clusters.
type Region string

const (
	RegionAmericas Region = "americas"
	RegionEurope   Region = "europe"
	RegionAPAC     Region = "apac"
	RegionInternal Region = "internal"
)

var regionBaseURLs = map[Region]string{
	RegionAmericas: "https://apigw-prod2.central.arubanetworks.com",
	RegionEurope:   "https://eu-apigw.central.arubanetworks.com",
	RegionAPAC:     "https://apigw-apac.central.arubanetworks.com",
	RegionInternal: "https://internal-apigw.central.arubanetworks.com",
}

// LogConfig mirrors the fields logs.Setup needs.
type LogConfig struct {
	Level         string
	EnableFile    bool
	EnableConsole bool
	Filename      string
	MaxSize       int
	MaxBackups    int
	MaxAge        int
	Compress      bool
	JSONFormat    bool
}

// Config is the single validated source of truth for the running process.
type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string

	APITimeout time.Duration

	RateLimitRequests int
	RateLimitWindow   time.Duration

	CircuitBreakerThreshold int
	CircuitBreakerTimeout   time.Duration

	RefreshBuffer time.Duration
	MaxAttempts   int
	RetryBaseWait time.Duration
	MaxRetryWait  time.Duration

	ObservabilityEnabled bool
	TracingEnabled       bool
	OTLPEndpoint         string
	MetricsAddr          string

	Log LogConfig
}

// Load resolves configuration from environment variables via viper, applying
// the vendor's documented regional defaults. It does not resolve client
// credentials from secret-mount files; callers combine this with
// secret.Resolver.LoadCredentials for ARUBA_CLIENT_ID / ARUBA_CLIENT_SECRET.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("aruba_region", string(RegionAmericas))
	v.SetDefault("aruba_api_timeout", "30s")
	v.SetDefault("aruba_rate_limit_requests", 100)
	v.SetDefault("aruba_rate_limit_window", "60s")
	v.SetDefault("aruba_circuit_breaker_threshold", 5)
	v.SetDefault("aruba_circuit_breaker_timeout", "60s")
	v.SetDefault("aruba_token_refresh_buffer", "60s")
	v.SetDefault("aruba_retry_max_attempts", 4)
	v.SetDefault("aruba_retry_base_wait", "1s")
	v.SetDefault("aruba_retry_max_wait", "30s")
	v.SetDefault("aruba_log_level", "info")
	v.SetDefault("aruba_observability_enabled", true)
	v.SetDefault("aruba_tracing_enabled", false)
	v.SetDefault("aruba_otlp_endpoint", "http://localhost:4318")
	v.SetDefault("aruba_metrics_addr", ":9090")

	cfg := &Config{
		APITimeout:              v.GetDuration("aruba_api_timeout"),
		RateLimitRequests:       v.GetInt("aruba_rate_limit_requests"),
		RateLimitWindow:         v.GetDuration("aruba_rate_limit_window"),
		CircuitBreakerThreshold: v.GetInt("aruba_circuit_breaker_threshold"),
		CircuitBreakerTimeout:   v.GetDuration("aruba_circuit_breaker_timeout"),
		RefreshBuffer:           v.GetDuration("aruba_token_refresh_buffer"),
		MaxAttempts:             v.GetInt("aruba_retry_max_attempts"),
		RetryBaseWait:           v.GetDuration("aruba_retry_base_wait"),
		MaxRetryWait:            v.GetDuration("aruba_retry_max_wait"),
		ObservabilityEnabled:    v.GetBool("aruba_observability_enabled"),
		TracingEnabled:          v.GetBool("aruba_tracing_enabled"),
		OTLPEndpoint:            v.GetString("aruba_otlp_endpoint"),
		MetricsAddr:             v.GetString("aruba_metrics_addr"),
		Log: LogConfig{
			Level:         v.GetString("aruba_log_level"),
			EnableConsole: true,
			EnableFile:    v.GetBool("aruba_log_file_enabled"),
			Filename:      "arubamcp.log",
			MaxSize:       10,
			MaxBackups:    5,
			MaxAge:        30,
			Compress:      true,
		},
	}

	if override := v.GetString("aruba_base_url"); override != "" {
		cfg.BaseURL = override
	} else {
		region := Region(strings.ToLower(v.GetString("aruba_region")))
		base, ok := regionBaseURLs[region]
		if !ok {
			return nil, fmt.Errorf("config: unknown ARUBA_REGION %q", region)
		}
		cfg.BaseURL = base
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("config: base URL must not be empty")
	}
	if c.RateLimitRequests <= 0 {
		return fmt.Errorf("config: ARUBA_RATE_LIMIT_REQUESTS must be positive")
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("config: ARUBA_RATE_LIMIT_WINDOW must be positive")
	}
	if c.CircuitBreakerThreshold <= 0 {
		return fmt.Errorf("config: ARUBA_CIRCUIT_BREAKER_THRESHOLD must be positive")
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("config: ARUBA_RETRY_MAX_ATTEMPTS must be positive")
	}
	return nil
}
