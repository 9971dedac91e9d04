package compliance

import (
	"fmt"
	"strings"
	"time"

	"mercator-hq/meridian/pkg/entity"
	"mercator-hq/meridian/pkg/policy"
)

const (
	// licenseExpiryHorizon is how far ahead an unexpired license draws a warning.
	licenseExpiryHorizon = 90 * 24 * time.Hour

	// sanctionsStaleness is the maximum age of a sanctions screening.
	sanctionsStaleness = 365 * 24 * time.Hour
)

// ValidatorConfig configures the compliance validator.
type ValidatorConfig struct {
	// Rules is the external jurisdiction rule table. Nil behaves as empty.
	Rules *entity.JurisdictionRules

	// Metrics counts checker runs. May be nil.
	Metrics *Metrics

	// Now overrides the clock, for tests. Nil uses time.Now.
	Now func() time.Time
}

// Validator performs field-presence and business-rule checks over an
// entity, with escrow enforcement severity resolved through the policy
// engine. Stateless across calls.
type Validator struct {
	config ValidatorConfig
	policy *policy.Engine
}

// NewValidator creates a compliance validator. The policy engine selects
// the severity of escrow enforcement findings; nil falls back to an empty
// (advisory) policy.
func NewValidator(config ValidatorConfig, policyEngine *policy.Engine) *Validator {
	if config.Now == nil {
		config.Now = time.Now
	}
	if policyEngine == nil {
		policyEngine = policy.NewEngine(nil)
	}
	return &Validator{config: config, policy: policyEngine}
}

// Check runs every compliance check against the entity. Counterparty and
// transaction type are optional; the transaction type drives the escrow
// check. All checks run unconditionally, so the report is exhaustive.
func (v *Validator) Check(e *entity.Entity, counterparty *entity.Entity, txn *entity.TransactionType) *Report {
	now := v.config.Now()
	report := &Report{
		EntityName: e.Name,
		Checker:    "compliance",
		CheckedAt:  now,
	}

	v.checkIdentifiers(report, e)
	v.checkLicenses(report, e, now)
	v.checkSignatories(report, e)
	v.checkOwnership(report, e)
	v.checkScreening(report, e, now)
	v.checkJurisdictionRequirements(report, e)
	v.checkEscrow(report, e, txn)

	v.config.Metrics.RecordRun("compliance", report.Passed())
	return report
}

func (v *Validator) checkIdentifiers(report *Report, e *entity.Entity) {
	if e.IsNaturalPerson() {
		return
	}
	if e.RegistrationNumber == "" {
		report.add(SeverityError, "REGISTRATION_MISSING",
			"entity has no registration number", "registration_number")
	}
	if e.LEI == "" {
		report.add(SeverityInfo, "LEI_MISSING",
			"entity has no Legal Entity Identifier", "lei")
	}
}

func (v *Validator) checkLicenses(report *Report, e *entity.Entity, now time.Time) {
	for i, l := range e.Licenses {
		field := fmt.Sprintf("licenses[%d]", i)

		switch l.Status {
		case entity.LicenseSuspended, entity.LicenseRevoked:
			report.add(SeverityError, "LICENSE_NOT_IN_GOOD_STANDING",
				fmt.Sprintf("%s license %s from %s is %s", l.Type, l.Number, l.Regulator, l.Status),
				field)
		}

		if l.Expired(now) {
			report.add(SeverityError, "LICENSE_EXPIRED",
				fmt.Sprintf("%s license %s from %s expired on %s",
					l.Type, l.Number, l.Regulator, l.Expires.Format("2006-01-02")),
				field)
		} else if l.ExpiringWithin(now, licenseExpiryHorizon) {
			report.add(SeverityWarning, "LICENSE_EXPIRING",
				fmt.Sprintf("%s license %s from %s expires on %s",
					l.Type, l.Number, l.Regulator, l.Expires.Format("2006-01-02")),
				field)
		}
	}
}

func (v *Validator) checkSignatories(report *Report, e *entity.Entity) {
	if !e.HasBindingSignatory() {
		report.add(SeverityError, "NO_BINDING_SIGNATORY",
			"no signatory holds binding authority", "signatories")
	}
}

func (v *Validator) checkOwnership(report *Report, e *entity.Entity) {
	total := 0.0
	for _, owner := range e.BeneficialOwners {
		total += owner.Percent
	}
	if total > 100.0 {
		report.add(SeverityError, "OWNERSHIP_EXCEEDS_100",
			fmt.Sprintf("beneficial ownership percentages sum to %.1f%%", total),
			"beneficial_owners")
	}
}

func (v *Validator) checkScreening(report *Report, e *entity.Entity, now time.Time) {
	screenedAt := e.RegulatoryStatus.SanctionsScreenedAt
	if screenedAt.IsZero() {
		report.add(SeverityWarning, "SANCTIONS_SCREENING_MISSING",
			"entity has never been sanctions-screened", "regulatory_status.sanctions_screened_at")
		return
	}
	if now.Sub(screenedAt) > sanctionsStaleness {
		report.add(SeverityWarning, "SANCTIONS_SCREENING_STALE",
			fmt.Sprintf("last sanctions screening on %s is older than %d days",
				screenedAt.Format("2006-01-02"), int(sanctionsStaleness.Hours()/24)),
			"regulatory_status.sanctions_screened_at")
	}
}

func (v *Validator) checkJurisdictionRequirements(report *Report, e *entity.Entity) {
	requirements := v.config.Rules.RequirementsFor(strings.ToUpper(e.Jurisdiction))
	for _, req := range requirements {
		if req.EntityType != "*" && !strings.EqualFold(req.EntityType, e.Type) {
			continue
		}
		if !holdsLicenseType(e, req.LicenseType) {
			message := fmt.Sprintf("%s entities in %s require a %s license",
				e.Type, e.Jurisdiction, req.LicenseType)
			if req.Description != "" {
				message = req.Description
			}
			report.add(SeverityError, "JURISDICTION_LICENSE_MISSING", message, "licenses")
		}
	}
}

func holdsLicenseType(e *entity.Entity, licenseType string) bool {
	for _, l := range e.Licenses {
		if strings.EqualFold(l.Type, licenseType) {
			return true
		}
	}
	return false
}

// checkEscrow flags the absence of an escrow arrangement on cross-border
// funds-moving transactions. Severity follows the policy engine: a blocking
// policy makes it an ERROR, anything else a WARNING.
func (v *Validator) checkEscrow(report *Report, e *entity.Entity, txn *entity.TransactionType) {
	if txn == nil || !txn.CrossBorder || !txn.MovesFunds() {
		return
	}
	if txn.Escrow.Required || txn.Escrow.Agent != "" || e.Banking.EscrowAgent != "" {
		return
	}

	severity := SeverityWarning
	if v.policy.ShouldBlock("escrow_required", "transaction_controls") {
		severity = SeverityError
	}
	report.add(severity, "ESCROW_MISSING",
		fmt.Sprintf("cross-border %s transaction has no escrow requirement or agent", txn.Category),
		"escrow")
}
