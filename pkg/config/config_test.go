package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Paths.PolicyFile != "data/policy.yaml" {
		t.Errorf("PolicyFile = %q", cfg.Paths.PolicyFile)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "meridian.yaml")
	content := `
paths:
  policy_file: /etc/meridian/policy.yaml
  deal_dir: /var/lib/meridian/deals
logging:
  level: debug
  format: json
review:
  schedule: "0 6 * * *"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Paths.PolicyFile != "/etc/meridian/policy.yaml" {
		t.Errorf("PolicyFile = %q", cfg.Paths.PolicyFile)
	}
	if cfg.Paths.DealDir != "/var/lib/meridian/deals" {
		t.Errorf("DealDir = %q", cfg.Paths.DealDir)
	}
	// Unset paths keep their defaults.
	if cfg.Paths.EvidenceRoot != "data/evidence" {
		t.Errorf("EvidenceRoot = %q, want default", cfg.Paths.EvidenceRoot)
	}
	if cfg.Review.Schedule != "0 6 * * *" {
		t.Errorf("Schedule = %q", cfg.Review.Schedule)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel = %v", cfg.SlogLevel())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, true},
		{"case-insensitive level", func(c *Config) { c.Logging.Level = "WARN" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("data")
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %t", err, tt.wantErr)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unset defaults to info", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := Default("data")
		cfg.Logging.Level = tt.level
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
