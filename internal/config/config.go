// Package config holds the parameters of a smoke run.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultServerURL     = "http://localhost:8080"
	DefaultServiceName   = "Hermes"
	DefaultDimension     = 1536
	DefaultTotalVectors  = 50000
	DefaultTopK          = 5
	DefaultIDPrefix      = "doc_"
	DefaultProgressEvery = 1000
)

// Config is built once at process start and handed to every stage.
type Config struct {
	ServerURL     string `yaml:"server_url"`
	ServiceName   string `yaml:"service_name"`
	Dimension     int    `yaml:"dimension"`
	TotalVectors  int    `yaml:"total_vectors"`
	TopK          int    `yaml:"top_k"`
	IDPrefix      string `yaml:"id_prefix"`
	ProgressEvery int    `yaml:"progress_every"`

	// InsertRate caps inserts per second. Zero means unlimited.
	InsertRate float64 `yaml:"insert_rate"`
	// RequestTimeout bounds each HTTP call. Zero leaves the transport defaults alone.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// MetricsFile, when set, receives the run's prometheus metrics in text format.
	MetricsFile string `yaml:"metrics_file"`

	Debug bool `yaml:"debug"`
}

// Default returns the configuration the client ships with.
func Default() Config {
	return Config{
		ServerURL:     DefaultServerURL,
		ServiceName:   DefaultServiceName,
		Dimension:     DefaultDimension,
		TotalVectors:  DefaultTotalVectors,
		TopK:          DefaultTopK,
		IDPrefix:      DefaultIDPrefix,
		ProgressEvery: DefaultProgressEvery,
	}
}

// ApplyDefaults fills zero values that have no meaningful zero.
// TotalVectors is left alone since a run with no inserts is valid.
func ApplyDefaults(cfg *Config) {
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultServiceName
	}
	if cfg.Dimension == 0 {
		cfg.Dimension = DefaultDimension
	}
	if cfg.TopK == 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = DefaultIDPrefix
	}
	if cfg.ProgressEvery == 0 {
		cfg.ProgressEvery = DefaultProgressEvery
	}
}

// Load reads a YAML file and overlays it on base. Keys absent from the file keep
// the value from base.
func Load(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	ApplyDefaults(&cfg)

	return cfg, nil
}

// Validate reports the first parameter that would make a run meaningless.
func (c Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server_url %q: %w", c.ServerURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid server_url %q: scheme must be http or https", c.ServerURL)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid server_url %q: missing host", c.ServerURL)
	}

	switch {
	case c.Dimension <= 0:
		return fmt.Errorf("dimension must be positive, got %d", c.Dimension)
	case c.TotalVectors < 0:
		return fmt.Errorf("total_vectors must not be negative, got %d", c.TotalVectors)
	case c.TopK <= 0:
		return fmt.Errorf("top_k must be positive, got %d", c.TopK)
	case c.ProgressEvery <= 0:
		return fmt.Errorf("progress_every must be positive, got %d", c.ProgressEvery)
	case c.InsertRate < 0:
		return errors.New("insert_rate must not be negative")
	case c.RequestTimeout < 0:
		return errors.New("request_timeout must not be negative")
	}
	return nil
}

// Port returns the port the service is expected on, falling back to the
// scheme default when the URL names none.
func (c Config) Port() string {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return ""
	}
	if p := u.Port(); p != "" {
		return p
	}
	if u.Scheme == "https" {
		return "443"
	}
	return "80"
}
