package policy

import (
	"log/slog"
	"sync"
)

// Engine answers enforcement questions against the currently loaded policy.
// It is safe for concurrent use; Reload swaps the active document atomically
// so in-flight lookups always see a complete policy.
type Engine struct {
	mu     sync.RWMutex
	config *Config
	logger *slog.Logger
}

// NewEngine creates an engine over the given policy document. A nil config
// falls back to the empty policy.
func NewEngine(config *Config) *Engine {
	if config == nil {
		config = Empty()
	}
	return &Engine{
		config: config,
		logger: slog.Default().With("component", "policy.engine"),
	}
}

// Decision returns the enforcement value for a condition key.
//
// With a non-empty section, the key is looked up inside that section and
// defaults to Warn when the section or key is absent. With an empty
// section, sections are scanned in declaration order and the first section
// containing the key wins; Warn if none does.
func (e *Engine) Decision(key, section string) Enforcement {
	e.mu.RLock()
	cfg := e.config
	e.mu.RUnlock()

	if section != "" {
		for _, s := range cfg.Controls {
			if s.Name == section {
				if value, ok := s.Controls[key]; ok {
					return value
				}
				return Warn
			}
		}
		return Warn
	}

	// First declared section containing the key wins.
	for _, s := range cfg.Controls {
		if value, ok := s.Controls[key]; ok {
			return value
		}
	}
	return Warn
}

// ShouldBlock reports whether the condition must block. Tier 1 (Advisory)
// is a global override: nothing blocks, whatever the configured value.
func (e *Engine) ShouldBlock(key, section string) bool {
	e.mu.RLock()
	tier := e.config.Tier
	e.mu.RUnlock()

	if tier == TierAdvisory {
		return false
	}
	return e.Decision(key, section) == Block
}

// Tier returns the active execution tier.
func (e *Engine) Tier() Tier {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config.Tier
}

// AdverseBlocksSignature reports the adverse-opinion toggle.
func (e *Engine) AdverseBlocksSignature() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config.Opinion.AdverseBlocksSignature
}

// UnableToOpineBlocksSignature reports the unable-to-opine toggle.
func (e *Engine) UnableToOpineBlocksSignature() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config.Opinion.UnableToOpineBlocksSignature
}

// Disclaimer returns the configured disclaimer.
func (e *Engine) Disclaimer() Disclaimer {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config.DisclaimerConfig
}

// AuditEveryRun reports whether every checker run must produce an audit record.
func (e *Engine) AuditEveryRun() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config.Audit.EveryRun
}

// Config returns the active policy document.
func (e *Engine) Config() *Config {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.config
}

// Swap replaces the active policy document. Used by the watcher on reload;
// a nil config is ignored so a failed reload keeps the last good policy.
func (e *Engine) Swap(config *Config) {
	if config == nil {
		return
	}
	e.mu.Lock()
	old := e.config
	e.config = config
	e.mu.Unlock()

	e.logger.Info("policy swapped",
		"old_version", old.Version,
		"new_version", config.Version,
		"tier", int(config.Tier),
		"sections", len(config.Controls),
	)
}
