// Package config holds the controller configuration: daemon endpoints,
// emulator probe paths and image directories. Everything has a default, so
// the CLI runs without a config file; a YAML file overrides selectively.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mfinch/virtadm/internal/domain"
	"github.com/mfinch/virtadm/internal/emulator"
	"github.com/mfinch/virtadm/internal/libvirt"
)

// EndpointConfig is one daemon endpoint candidate.
type EndpointConfig struct {
	URI    string `yaml:"uri"`
	Socket string `yaml:"socket"`
}

// Config is the full controller configuration.
type Config struct {
	// Endpoints are tried in order; empty means the standard
	// system-then-session fallback.
	Endpoints []EndpointConfig `yaml:"endpoints,omitempty"`

	// ConnectTimeoutSeconds bounds each endpoint dial. Zero means the
	// transport default (5s).
	ConnectTimeoutSeconds int `yaml:"connect_timeout_seconds,omitempty"`

	// EmulatorCandidates are probed in order before falling back to the
	// system binary lookup. Empty means the standard probe list.
	EmulatorCandidates []string `yaml:"emulator_candidates,omitempty"`

	// UserImageDir is where disk images live, relative to $HOME.
	UserImageDir string `yaml:"user_image_dir,omitempty"`

	// SystemImageDir is the image directory used when no home directory is
	// available.
	SystemImageDir string `yaml:"system_image_dir,omitempty"`
}

// Default returns a configuration with every field at its standard value.
func Default() *Config {
	paths := domain.DefaultDiskPaths()
	cfg := &Config{
		EmulatorCandidates: emulator.DefaultCandidates(),
		UserImageDir:       paths.UserDir,
		SystemImageDir:     paths.SystemDir,
	}
	for _, ep := range libvirt.DefaultEndpoints() {
		cfg.Endpoints = append(cfg.Endpoints, EndpointConfig{URI: ep.URI, Socket: ep.Socket})
	}
	return cfg
}

// LoadFromFile loads a configuration from a YAML file, normalizes it and
// validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.Normalize()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Normalize fills unset fields with their defaults.
func (c *Config) Normalize() {
	def := Default()
	if len(c.Endpoints) == 0 {
		c.Endpoints = def.Endpoints
	}
	if len(c.EmulatorCandidates) == 0 {
		c.EmulatorCandidates = def.EmulatorCandidates
	}
	if c.UserImageDir == "" {
		c.UserImageDir = def.UserImageDir
	}
	if c.SystemImageDir == "" {
		c.SystemImageDir = def.SystemImageDir
	}
}

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	if c.ConnectTimeoutSeconds < 0 {
		return fmt.Errorf("connect_timeout_seconds must be >= 0, got %d", c.ConnectTimeoutSeconds)
	}
	for i, ep := range c.Endpoints {
		if ep.URI == "" {
			return fmt.Errorf("endpoints[%d]: uri is required", i)
		}
		if ep.Socket == "" {
			return fmt.Errorf("endpoints[%d]: socket is required", i)
		}
	}
	return nil
}

// LibvirtEndpoints returns the configured endpoints in connection order.
func (c *Config) LibvirtEndpoints() []libvirt.Endpoint {
	endpoints := make([]libvirt.Endpoint, 0, len(c.Endpoints))
	for _, ep := range c.Endpoints {
		endpoints = append(endpoints, libvirt.Endpoint{URI: ep.URI, Socket: ep.Socket})
	}
	return endpoints
}

// ConnectTimeout returns the per-endpoint dial timeout.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// DiskPaths returns the image directory policy.
func (c *Config) DiskPaths() domain.DiskPaths {
	return domain.DiskPaths{UserDir: c.UserImageDir, SystemDir: c.SystemImageDir}
}
