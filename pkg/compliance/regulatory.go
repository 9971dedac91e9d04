package compliance

import (
	"fmt"
	"strings"
	"time"

	"mercator-hq/meridian/pkg/entity"
)

// RegulatoryValidatorConfig configures the regulatory-claim validator.
type RegulatoryValidatorConfig struct {
	// Matrix is the externally supplied jurisdiction matrix. Nil behaves
	// as an empty matrix, making every jurisdiction unknown.
	Matrix *entity.RegulatoryMatrix

	// Metrics counts checker runs. May be nil.
	Metrics *Metrics

	// Now overrides the clock, for tests. Nil uses time.Now.
	Now func() time.Time
}

// RegulatoryValidator cross-references an entity's claimed activities and
// license regulators against the jurisdiction matrix.
type RegulatoryValidator struct {
	config RegulatoryValidatorConfig
}

// NewRegulatoryValidator creates a regulatory-claim validator.
func NewRegulatoryValidator(config RegulatoryValidatorConfig) *RegulatoryValidator {
	if config.Now == nil {
		config.Now = time.Now
	}
	return &RegulatoryValidator{config: config}
}

// Check validates the entity's regulatory claims. An unknown jurisdiction
// produces a single WARNING and no further checks run for it; everything
// else runs unconditionally.
func (v *RegulatoryValidator) Check(e *entity.Entity) *Report {
	report := &Report{
		EntityName: e.Name,
		Checker:    "regulatory",
		CheckedAt:  v.config.Now(),
	}

	jurisdiction := strings.ToUpper(e.Jurisdiction)
	regime, known := v.config.Matrix.Regime(jurisdiction)
	if !known {
		report.add(SeverityWarning, "UNKNOWN_JURISDICTION",
			fmt.Sprintf("jurisdiction %q is not in the regulatory matrix; claims cannot be verified", e.Jurisdiction),
			"jurisdiction")
		v.config.Metrics.RecordRun("regulatory", report.Passed())
		return report
	}

	v.checkActivities(report, e, regime)
	v.checkLicenseRegulators(report, e, regime)
	v.checkCustody(report, e, regime)
	v.checkNaturalPersonFlags(report, e)

	v.config.Metrics.RecordRun("regulatory", report.Passed())
	return report
}

// checkActivities verifies each claimed activity against the matrix. The
// valid-regulator-set check is skipped (not escalated) for zero-license
// entities: the bare absence of licenses belongs to the compliance validator.
func (v *RegulatoryValidator) checkActivities(report *Report, e *entity.Entity, regime entity.JurisdictionRegime) {
	for _, activity := range e.RegulatoryStatus.ClaimedActivities {
		rule, ok := regime.Activities[activity]
		if !ok {
			report.add(SeverityError, "UNKNOWN_ACTIVITY",
				fmt.Sprintf("claimed activity %q is not recognized in %s", activity, e.Jurisdiction),
				"regulatory_status.claimed_activities")
			continue
		}
		if !rule.LicenseRequired || len(e.Licenses) == 0 {
			continue
		}
		if !holdsLicenseFromAny(e, rule.Regulators) {
			report.add(SeverityError, "LICENSE_REGULATOR_MISMATCH",
				fmt.Sprintf("activity %q requires a license from %s; none of the entity's licenses qualifies",
					activity, strings.Join(rule.Regulators, ", ")),
				"licenses")
		}
	}
}

func holdsLicenseFromAny(e *entity.Entity, regulators []string) bool {
	for _, l := range e.Licenses {
		for _, r := range regulators {
			if strings.EqualFold(l.Regulator, r) {
				return true
			}
		}
	}
	return false
}

func (v *RegulatoryValidator) checkLicenseRegulators(report *Report, e *entity.Entity, regime entity.JurisdictionRegime) {
	for i, l := range e.Licenses {
		if !regime.KnowsRegulator(l.Regulator) {
			report.add(SeverityError, "UNKNOWN_REGULATOR",
				fmt.Sprintf("license %s names regulator %q, which is not recognized in %s",
					l.Number, l.Regulator, e.Jurisdiction),
				fmt.Sprintf("licenses[%d]", i))
		}
	}
}

func (v *RegulatoryValidator) checkCustody(report *Report, e *entity.Entity, regime entity.JurisdictionRegime) {
	if !e.RegulatoryStatus.PerformsCustody {
		return
	}
	if regime.Custody.RequiresBankingLicense && !e.RegulatoryStatus.IsBank {
		report.add(SeverityError, "CUSTODY_REQUIRES_BANK",
			fmt.Sprintf("%s requires a banking license for custody; entity is not a bank", e.Jurisdiction),
			"regulatory_status.performs_custody")
	}
	if regime.Custody.RequiresBrokerDealerOrAdviser &&
		!e.RegulatoryStatus.IsBrokerDealer && !e.RegulatoryStatus.IsInvestmentAdviser {
		report.add(SeverityWarning, "CUSTODY_STATUS_UNVERIFIED",
			fmt.Sprintf("%s requires broker-dealer or registered-adviser status for custody; neither is held", e.Jurisdiction),
			"regulatory_status.performs_custody")
	}
}

func (v *RegulatoryValidator) checkNaturalPersonFlags(report *Report, e *entity.Entity) {
	if e.IsNaturalPerson() && e.RegulatoryStatus.HasInstitutionalFlags() {
		report.add(SeverityError, "INSTITUTIONAL_FLAGS_ON_INDIVIDUAL",
			"natural person carries institution-only regulatory flags (bank, fund, or insurer)",
			"regulatory_status")
	}
}
