package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/danmuck/fieldctl/internal/export"
	"github.com/danmuck/fieldctl/internal/logging"
	"github.com/danmuck/fieldctl/internal/registry"
)

const EnvConfigPath = "FIELDCTL_CONFIG"

// Config drives the fieldctl tool. Environment variables override the file.
type Config struct {
	Format          string   `toml:"format" env:"FIELDCTL_FORMAT"`
	Output          string   `toml:"output" env:"FIELDCTL_OUTPUT"`
	FirmwareVersion string   `toml:"firmware_version" env:"FIELDCTL_FIRMWARE_VERSION"`
	Namespaces      []string `toml:"namespaces" env:"FIELDCTL_NAMESPACES" envSeparator:","`
	LogLevel        string   `toml:"log_level" env:"FIELDCTL_LOG_LEVEL"`
}

func Default() Config {
	return Config{
		Format:   string(export.FormatTOML),
		LogLevel: "info",
	}
}

// Load reads path (skipped when empty), applies env overrides and validates.
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) != "" {
		if err := loadToml(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config env parse failed: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadToml(path string, cfg *Config) error {
	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		return fmt.Errorf("config parse failed (%s): unknown key %q", path, undecoded[0].String())
	}
	if meta.IsDefined("format") {
		cfg.Format = raw.Format
	}
	if meta.IsDefined("output") {
		cfg.Output = raw.Output
	}
	if meta.IsDefined("firmware_version") {
		cfg.FirmwareVersion = raw.FirmwareVersion
	}
	if meta.IsDefined("namespaces") {
		cfg.Namespaces = raw.Namespaces
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = raw.LogLevel
	}
	return nil
}

func (c *Config) normalize() {
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.Output = strings.TrimSpace(c.Output)
	c.FirmwareVersion = strings.TrimSpace(c.FirmwareVersion)
	c.LogLevel = strings.TrimSpace(c.LogLevel)
	out := c.Namespaces[:0]
	for _, ns := range c.Namespaces {
		if ns = strings.TrimSpace(ns); ns != "" {
			out = append(out, ns)
		}
	}
	c.Namespaces = out
}

func (c Config) Validate() error {
	if _, err := export.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("config invalid format: %w", err)
	}
	if _, err := c.NamespaceFilter(); err != nil {
		return fmt.Errorf("config invalid namespaces: %w", err)
	}
	if c.LogLevel != "" {
		if _, ok := logging.ParseLevel(c.LogLevel); !ok {
			return fmt.Errorf("config invalid log_level: %q", c.LogLevel)
		}
	}
	return nil
}

// NamespaceFilter resolves Namespaces; an empty list means all of them.
func (c Config) NamespaceFilter() ([]registry.Namespace, error) {
	if len(c.Namespaces) == 0 {
		return slices.Clone(registry.Namespaces), nil
	}
	out := make([]registry.Namespace, 0, len(c.Namespaces))
	for _, raw := range c.Namespaces {
		ns, err := registry.ParseNamespace(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, ns)
	}
	return out, nil
}
