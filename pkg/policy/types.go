package policy

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Enforcement is the configured reaction to a named condition.
type Enforcement string

const (
	// Block means the condition must stop the deal from proceeding.
	Block Enforcement = "block"

	// Warn means the condition is surfaced but does not stop anything.
	Warn Enforcement = "warn"

	// Silent means the condition is suppressed entirely.
	Silent Enforcement = "silent"
)

// Valid reports whether the enforcement value is one of the three known values.
func (e Enforcement) Valid() bool {
	switch e {
	case Block, Warn, Silent:
		return true
	}
	return false
}

// Tier is the global execution tier.
type Tier int

const (
	// TierAdvisory never blocks: policy content is inert.
	TierAdvisory Tier = 1

	// TierConditional blocks where configured.
	TierConditional Tier = 2

	// TierAutonomous blocks where configured and is intended for unattended runs.
	TierAutonomous Tier = 3
)

// Section is one named control section: condition keys mapped to
// enforcement values. Sections keep their declaration order.
type Section struct {
	Name     string
	Controls map[string]Enforcement
}

// Sections is an ordered list of control sections. It decodes from a YAML
// mapping while preserving the mapping's declaration order, because the
// engine's no-section lookup is first-declared-section-wins.
type Sections []Section

// UnmarshalYAML decodes the controls mapping node pairwise so declaration
// order survives (a plain map would lose it).
func (s *Sections) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("controls must be a mapping, got %v", node.Kind)
	}
	out := make(Sections, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		nameNode, bodyNode := node.Content[i], node.Content[i+1]
		section := Section{Name: nameNode.Value, Controls: map[string]Enforcement{}}
		if err := bodyNode.Decode(&section.Controls); err != nil {
			return fmt.Errorf("invalid control section %q: %w", section.Name, err)
		}
		for key, value := range section.Controls {
			if !value.Valid() {
				return fmt.Errorf("control section %q key %q: unknown enforcement %q", section.Name, key, value)
			}
		}
		out = append(out, section)
	}
	*s = out
	return nil
}

// MarshalYAML re-encodes the sections as an ordered mapping.
func (s Sections) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, section := range s {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: section.Name}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(section.Controls); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}

// ReviewMeta records who last reviewed the policy document.
type ReviewMeta struct {
	ReviewedBy string    `yaml:"reviewed_by,omitempty"`
	ReviewedAt time.Time `yaml:"reviewed_at,omitempty"`
}

// OpinionToggles control how legal-opinion grades interact with deal gates.
type OpinionToggles struct {
	// AdverseBlocksSignature blocks approval when the opinion grade is ADVERSE.
	AdverseBlocksSignature bool `yaml:"adverse_blocks_signature,omitempty"`

	// UnableToOpineBlocksSignature additionally blocks when counsel could
	// not form an opinion.
	UnableToOpineBlocksSignature bool `yaml:"unable_to_opine_blocks_signature,omitempty"`
}

// Disclaimer configures the advisory disclaimer surfaced by renderers.
type Disclaimer struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Text    string `yaml:"text,omitempty"`
}

// AuditSettings control audit-trail behavior.
type AuditSettings struct {
	// EveryRun forces an audit record for every checker run, even clean ones.
	EveryRun bool `yaml:"every_run,omitempty"`
}

// Config is a parsed policy document.
type Config struct {
	Version  string         `yaml:"version"`
	Tier     Tier           `yaml:"execution_tier"`
	Review   ReviewMeta     `yaml:"review,omitempty"`
	Controls Sections       `yaml:"controls,omitempty"`
	Opinion  OpinionToggles `yaml:"opinion,omitempty"`

	DisclaimerConfig Disclaimer    `yaml:"disclaimer,omitempty"`
	Audit            AuditSettings `yaml:"audit,omitempty"`
}

// Empty returns the fallback policy used when no policy file exists:
// tier 1 (Advisory), no sections, so every lookup defaults to warn and
// nothing ever blocks.
func Empty() *Config {
	return &Config{Version: "empty", Tier: TierAdvisory}
}

// Validate checks the structural invariants of a policy document.
func (c *Config) Validate() error {
	if c.Tier < TierAdvisory || c.Tier > TierAutonomous {
		return fmt.Errorf("execution_tier must be 1-3, got %d", c.Tier)
	}
	seen := map[string]bool{}
	for _, section := range c.Controls {
		if seen[section.Name] {
			return fmt.Errorf("duplicate control section %q", section.Name)
		}
		seen[section.Name] = true
	}
	return nil
}
