// Package config loads and validates the research cache configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/jonwraymond/researchcache/cache"
	"github.com/jonwraymond/researchcache/cachekey"
	"github.com/jonwraymond/researchcache/observe"
)

// Sentinel errors for configuration validation.
var (
	ErrMissingBasePath  = errors.New("config: storage base_path is required")
	ErrInvalidBandWidth = errors.New("config: keys band_width must be in (0, 1]")
	ErrInvalidTTL       = errors.New("config: policy TTLs must be non-negative")
	ErrTTLOrder         = errors.New("config: policy max_ttl_seconds must be >= default_ttl_seconds")
	ErrInvalidHitRate   = errors.New("config: policy target_hit_rate must be in [0, 1]")
)

// StorageConfig configures the file storage backend.
type StorageConfig struct {
	// BasePath is the storage root. Supports ${ENV} expansion.
	BasePath string `toml:"base_path"`

	// WriteRetries is the number of attempts per payload write.
	WriteRetries int `toml:"write_retries"`

	// Watch enables the external-change watcher on the storage root.
	Watch bool `toml:"watch"`
}

// KeysConfig configures key derivation.
type KeysConfig struct {
	// BandWidth is the confidence band width. Zero means the default.
	BandWidth float64 `toml:"band_width"`

	// StopWords are extra words stripped from queries before hashing,
	// on top of the built-in filler list.
	StopWords []string `toml:"stop_words"`
}

// PolicyConfig configures cache retention and targets.
type PolicyConfig struct {
	DefaultTTLSeconds int64   `toml:"default_ttl_seconds"`
	MaxTTLSeconds     int64   `toml:"max_ttl_seconds"`
	TargetHitRate     float64 `toml:"target_hit_rate"`
	HotPayloadBytes   int64   `toml:"hot_payload_bytes"`
}

// ObserveConfig configures telemetry.
type ObserveConfig struct {
	ServiceName      string  `toml:"service_name"`
	Version          string  `toml:"version"`
	LogLevel         string  `toml:"log_level"`
	TracingEnabled   bool    `toml:"tracing_enabled"`
	TracingExporter  string  `toml:"tracing_exporter"`
	TracingSamplePct float64 `toml:"tracing_sample_pct"`
	MetricsEnabled   bool    `toml:"metrics_enabled"`
	MetricsExporter  string  `toml:"metrics_exporter"`
	LoggingEnabled   bool    `toml:"logging_enabled"`
}

// Config mirrors the research cache TOML schema.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Keys    KeysConfig    `toml:"keys"`
	Policy  PolicyConfig  `toml:"policy"`
	Observe ObserveConfig `toml:"observe"`
}

// Default returns the configuration used when a file omits a section.
func Default() Config {
	policy := cache.DefaultPolicy()
	return Config{
		Storage: StorageConfig{
			BasePath:     "research_cache",
			WriteRetries: 3,
		},
		Keys: KeysConfig{
			BandWidth: cachekey.DefaultBandWidth,
		},
		Policy: PolicyConfig{
			DefaultTTLSeconds: int64(policy.DefaultTTL / time.Second),
			MaxTTLSeconds:     int64(policy.MaxTTL / time.Second),
			TargetHitRate:     policy.TargetHitRate,
			HotPayloadBytes:   policy.HotPayloadBytes,
		},
		Observe: ObserveConfig{
			ServiceName:      "researchcache",
			LogLevel:         "info",
			LoggingEnabled:   true,
			TracingExporter:  "none",
			TracingSamplePct: 1.0,
			MetricsExporter:  "none",
		},
	}
}

// Load reads, expands, and validates a configuration file. Values the
// file omits keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}

	expanded, err := ExpandEnvStrict(cfg.Storage.BasePath)
	if err != nil {
		return cfg, fmt.Errorf("config: %s: base_path: %w", path, err)
	}
	cfg.Storage.BasePath = expanded

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for contradictions.
func (c Config) Validate() error {
	if c.Storage.BasePath == "" {
		return ErrMissingBasePath
	}
	if c.Keys.BandWidth < 0 || c.Keys.BandWidth > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidBandWidth, c.Keys.BandWidth)
	}
	if c.Policy.DefaultTTLSeconds < 0 || c.Policy.MaxTTLSeconds < 0 {
		return ErrInvalidTTL
	}
	if c.Policy.MaxTTLSeconds > 0 && c.Policy.MaxTTLSeconds < c.Policy.DefaultTTLSeconds {
		return ErrTTLOrder
	}
	if c.Policy.TargetHitRate < 0 || c.Policy.TargetHitRate > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidHitRate, c.Policy.TargetHitRate)
	}
	oc := c.ObserveConfig()
	return oc.Validate()
}

// CachePolicy converts the policy section into the cache package form.
func (c Config) CachePolicy() cache.Policy {
	return cache.Policy{
		DefaultTTL:      time.Duration(c.Policy.DefaultTTLSeconds) * time.Second,
		MaxTTL:          time.Duration(c.Policy.MaxTTLSeconds) * time.Second,
		TargetHitRate:   c.Policy.TargetHitRate,
		HotPayloadBytes: c.Policy.HotPayloadBytes,
	}
}

// DeriverOptions converts the keys section into deriver options.
func (c Config) DeriverOptions() []cachekey.Option {
	opts := []cachekey.Option{}
	if c.Keys.BandWidth > 0 {
		opts = append(opts, cachekey.WithBandWidth(c.Keys.BandWidth))
	}
	if len(c.Keys.StopWords) > 0 {
		opts = append(opts, cachekey.WithStopWords(c.Keys.StopWords...))
	}
	return opts
}

// ObserveConfig converts the observe section into the observe package form.
func (c Config) ObserveConfig() observe.Config {
	return observe.Config{
		ServiceName: c.Observe.ServiceName,
		Version:     c.Observe.Version,
		Tracing: observe.TracingConfig{
			Enabled:   c.Observe.TracingEnabled,
			Exporter:  c.Observe.TracingExporter,
			SamplePct: c.Observe.TracingSamplePct,
		},
		Metrics: observe.MetricsConfig{
			Enabled:  c.Observe.MetricsEnabled,
			Exporter: c.Observe.MetricsExporter,
		},
		Logging: observe.LoggingConfig{
			Enabled: c.Observe.LoggingEnabled,
			Level:   c.Observe.LogLevel,
		},
	}
}
