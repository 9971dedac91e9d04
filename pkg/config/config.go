package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PathsConfig locates the data the runtime works over. Everything that
// used to be a package-level path constant is injected from here.
type PathsConfig struct {
	// PolicyFile is the enforcement policy document.
	PolicyFile string `yaml:"policy_file"`

	// JurisdictionRules is the external jurisdiction rule table.
	JurisdictionRules string `yaml:"jurisdiction_rules"`

	// RegulatoryMatrix is the regulatory-claim cross-reference matrix.
	RegulatoryMatrix string `yaml:"regulatory_matrix"`

	// EntityDir holds one YAML entity document per entity, named by slug.
	EntityDir string `yaml:"entity_dir"`

	// EvidenceRoot holds one evidence subdirectory per entity.
	EvidenceRoot string `yaml:"evidence_root"`

	// DealDir is the deal record document store.
	DealDir string `yaml:"deal_dir"`

	// AuditLog is the append-only evidence audit log.
	AuditLog string `yaml:"audit_log"`
}

// LoggingConfig controls slog output.
type LoggingConfig struct {
	// Level is debug, info, warn, or error.
	Level string `yaml:"level"`

	// Format is "json" or "text".
	Format string `yaml:"format"`
}

// ReviewConfig controls the scheduled re-review pass.
type ReviewConfig struct {
	// Schedule is a standard cron expression; empty disables scheduling.
	Schedule string `yaml:"schedule"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address for /metrics; empty disables the endpoint.
	Addr string `yaml:"addr"`
}

// Config is the full application configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Logging LoggingConfig `yaml:"logging"`
	Review  ReviewConfig  `yaml:"review"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// Default returns the default configuration, rooted under dataDir.
func Default(dataDir string) *Config {
	cfg := &Config{}
	cfg.Paths = PathsConfig{
		PolicyFile:        dataDir + "/policy.yaml",
		JurisdictionRules: dataDir + "/jurisdiction_rules.yaml",
		RegulatoryMatrix:  dataDir + "/regulatory_matrix.yaml",
		EntityDir:         dataDir + "/entities",
		EvidenceRoot:      dataDir + "/evidence",
		DealDir:           dataDir + "/deals",
		AuditLog:          dataDir + "/audit/evidence.log",
	}
	cfg.Logging = LoggingConfig{Level: "info", Format: "text"}
	return cfg
}

// Load reads configuration from a YAML file. A missing file returns the
// default configuration; a present-but-broken file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default("data"), nil
		}
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg := Default("data")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error; got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text; got %q", c.Logging.Format)
	}
	return nil
}

// SlogLevel maps the configured level onto slog.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
