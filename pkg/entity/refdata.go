package entity

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// LicenseRequirement is a jurisdiction-specific licensing rule consumed by
// the compliance validator: entities of the named type must hold a license
// of the named type in that jurisdiction.
type LicenseRequirement struct {
	// EntityType the rule applies to, "*" for all.
	EntityType string `json:"entity_type" yaml:"entity_type"`

	// LicenseType the entity must hold.
	LicenseType string `json:"license_type" yaml:"license_type"`

	// Description is surfaced in the finding message when the rule fails.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// JurisdictionRules is the external jurisdiction rule table: licensing
// requirements keyed by upper-cased jurisdiction code.
type JurisdictionRules struct {
	Requirements map[string][]LicenseRequirement `json:"requirements" yaml:"requirements"`
}

// RequirementsFor returns the licensing rules for a jurisdiction, nil when
// the jurisdiction is unknown to the table.
func (r *JurisdictionRules) RequirementsFor(jurisdiction string) []LicenseRequirement {
	if r == nil || r.Requirements == nil {
		return nil
	}
	return r.Requirements[jurisdiction]
}

// ActivityRule describes one regulated activity within a jurisdiction.
type ActivityRule struct {
	// LicenseRequired means performing the activity requires a license.
	LicenseRequired bool `json:"license_required" yaml:"license_required"`

	// Regulators is the set of authorities whose license satisfies the
	// activity's requirement.
	Regulators []string `json:"regulators,omitempty" yaml:"regulators,omitempty"`
}

// CustodyRule describes a jurisdiction's custody requirements.
type CustodyRule struct {
	// RequiresBankingLicense means only banks may custody client assets.
	RequiresBankingLicense bool `json:"requires_banking_license,omitempty" yaml:"requires_banking_license,omitempty"`

	// RequiresBrokerDealerOrAdviser means custody requires broker-dealer
	// or registered-adviser status.
	RequiresBrokerDealerOrAdviser bool `json:"requires_broker_dealer_or_adviser,omitempty" yaml:"requires_broker_dealer_or_adviser,omitempty"`
}

// JurisdictionRegime is the regulatory-claim matrix entry for one jurisdiction.
type JurisdictionRegime struct {
	// Regulators is the jurisdiction's full set of recognized authorities.
	// A license naming any other regulator is invalid in this jurisdiction.
	Regulators []string `json:"regulators" yaml:"regulators"`

	// Activities maps activity names to their licensing rules.
	Activities map[string]ActivityRule `json:"activities" yaml:"activities"`

	Custody CustodyRule `json:"custody" yaml:"custody"`
}

// KnowsRegulator reports whether the regulator is recognized in this
// jurisdiction. Matching is case-insensitive, like the activity rules.
func (j *JurisdictionRegime) KnowsRegulator(regulator string) bool {
	for _, r := range j.Regulators {
		if strings.EqualFold(r, regulator) {
			return true
		}
	}
	return false
}

// RegulatoryMatrix is the externally supplied cross-reference table used by
// the regulatory-claim validator, keyed by jurisdiction code.
type RegulatoryMatrix struct {
	Jurisdictions map[string]JurisdictionRegime `json:"jurisdictions" yaml:"jurisdictions"`
}

// Regime returns the regime for a jurisdiction and whether it is known.
func (m *RegulatoryMatrix) Regime(jurisdiction string) (JurisdictionRegime, bool) {
	if m == nil || m.Jurisdictions == nil {
		return JurisdictionRegime{}, false
	}
	regime, ok := m.Jurisdictions[jurisdiction]
	return regime, ok
}

// LoadJurisdictionRules loads the jurisdiction rule table from a YAML file.
// A missing file is not an error: checks degrade to permissive defaults
// with an empty table.
func LoadJurisdictionRules(path string) (*JurisdictionRules, error) {
	rules := &JurisdictionRules{Requirements: map[string][]LicenseRequirement{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Default().Warn("jurisdiction rules not found, using empty table", "path", path)
			return rules, nil
		}
		return nil, fmt.Errorf("failed to read jurisdiction rules %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("failed to parse jurisdiction rules %q: %w", path, err)
	}
	return rules, nil
}

// LoadRegulatoryMatrix loads the regulatory-claim matrix from a YAML file.
// A missing file is not an error: every jurisdiction becomes unknown, which
// the regulatory validator reports as a warning only.
func LoadRegulatoryMatrix(path string) (*RegulatoryMatrix, error) {
	matrix := &RegulatoryMatrix{Jurisdictions: map[string]JurisdictionRegime{}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Default().Warn("regulatory matrix not found, using empty matrix", "path", path)
			return matrix, nil
		}
		return nil, fmt.Errorf("failed to read regulatory matrix %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, matrix); err != nil {
		return nil, fmt.Errorf("failed to parse regulatory matrix %q: %w", path, err)
	}
	return matrix, nil
}
