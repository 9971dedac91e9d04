package policy

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a policy document from a YAML file.
//
// A missing file is not an error: the empty policy is returned so callers
// always have a working (permissive, tier-1) engine. Any other read or
// parse failure is returned to the caller; a present-but-broken policy
// must not be silently replaced with a permissive one.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Default().Warn("policy file not found, using empty policy", "path", path)
			return Empty(), nil
		}
		return nil, fmt.Errorf("failed to read policy file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse policy file %q: %w", path, err)
	}
	if cfg.Tier == 0 {
		cfg.Tier = TierAdvisory
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy file %q: %w", path, err)
	}
	return &cfg, nil
}
