package compliance

import (
	"fmt"
	"strings"
	"time"

	"mercator-hq/meridian/pkg/entity"
)

// DefaultHighRiskJurisdictions is the default enumerated list of high-risk
// counterparty domiciles, by upper-cased jurisdiction code.
var DefaultHighRiskJurisdictions = []string{
	"AF", "IR", "KP", "MM", "SY", "YE", "SS", "LY",
}

// DetectorConfig configures the red-flag detector.
type DetectorConfig struct {
	// HighRiskJurisdictions overrides the default high-risk domicile list.
	HighRiskJurisdictions []string

	// Metrics counts checker runs. May be nil.
	Metrics *Metrics

	// Now overrides the clock, for tests. Nil uses time.Now.
	Now func() time.Time
}

// Detector runs independent heuristic risk scans over an entity and its
// counterparty. Scans are additive and never short-circuit; each emits at
// most one flag per category per call.
type Detector struct {
	config   DetectorConfig
	highRisk map[string]bool
}

// NewDetector creates a red-flag detector.
func NewDetector(config DetectorConfig) *Detector {
	if config.Now == nil {
		config.Now = time.Now
	}
	list := config.HighRiskJurisdictions
	if list == nil {
		list = DefaultHighRiskJurisdictions
	}
	highRisk := make(map[string]bool, len(list))
	for _, j := range list {
		highRisk[strings.ToUpper(j)] = true
	}
	return &Detector{config: config, highRisk: highRisk}
}

// Check runs every heuristic scan. The counterparty is optional; its scans
// are skipped when nil. The flag list preserves scan order.
func (d *Detector) Check(e *entity.Entity, counterparty *entity.Entity) *RedFlagReport {
	report := &RedFlagReport{
		EntityName: e.Name,
		CheckedAt:  d.config.Now(),
	}
	if counterparty != nil {
		report.CounterpartyName = counterparty.Name
	}

	d.scanRegulatoryMismatch(report, e)
	d.scanPEPExposure(report, e)
	d.scanUnscreenedOwners(report, e)
	d.scanAuthorityConcentration(report, e)
	d.scanCustodyGap(report, e)
	d.scanShellIndicators(report, e)
	if counterparty != nil {
		d.scanCounterpartyLicenses(report, counterparty)
		d.scanCounterpartyJurisdiction(report, counterparty)
	}

	d.config.Metrics.RecordRun("redflag", report.Critical() == 0)
	return report
}

func (d *Detector) add(report *RedFlagReport, category string, severity RedFlagSeverity, description, recommendation string) {
	report.Flags = append(report.Flags, RedFlag{
		Category:       category,
		Severity:       severity,
		Description:    description,
		Recommendation: recommendation,
	})
}

// scanRegulatoryMismatch flags a regulated-status claim backed by zero
// licenses. One flag regardless of how many status claims are asserted.
func (d *Detector) scanRegulatoryMismatch(report *RedFlagReport, e *entity.Entity) {
	status := e.RegulatoryStatus
	claimsRegulated := status.IsRegulated || status.IsBank || status.IsBrokerDealer ||
		status.IsInvestmentAdviser || status.IsFund || status.IsInsurer
	if claimsRegulated && len(e.Licenses) == 0 {
		d.add(report, "REGULATORY MISMATCH", RedFlagCritical,
			fmt.Sprintf("%s claims regulated status but holds no licenses", e.Name),
			"obtain license evidence or withdraw the regulated-status claim")
	}
}

func (d *Detector) scanPEPExposure(report *RedFlagReport, e *entity.Entity) {
	var peps []string
	for _, director := range e.Directors {
		if director.PEP {
			peps = append(peps, director.Name)
		}
	}
	for _, owner := range e.BeneficialOwners {
		if owner.PEP {
			peps = append(peps, owner.Name)
		}
	}
	if len(peps) > 0 {
		d.add(report, "PEP EXPOSURE", RedFlagHigh,
			fmt.Sprintf("politically exposed persons in governance or ownership: %s",
				strings.Join(peps, ", ")),
			"apply enhanced due diligence to all listed persons")
	}
}

func (d *Detector) scanUnscreenedOwners(report *RedFlagReport, e *entity.Entity) {
	var unscreened []string
	for _, owner := range e.BeneficialOwners {
		if !owner.Screened {
			unscreened = append(unscreened, owner.Name)
		}
	}
	if len(unscreened) > 0 {
		d.add(report, "SCREENING GAP", RedFlagHigh,
			fmt.Sprintf("beneficial owners without sanctions screening: %s",
				strings.Join(unscreened, ", ")),
			"complete sanctions screening before signature")
	}
}

// scanAuthorityConcentration flags a sole signatory holding binding, funds,
// and pledge authority at once.
func (d *Detector) scanAuthorityConcentration(report *RedFlagReport, e *entity.Entity) {
	if len(e.Signatories) != 1 {
		return
	}
	s := e.Signatories[0]
	if s.BindingAuthority && s.FundsAuthority && s.PledgeAuthority {
		d.add(report, "AUTHORITY CONCENTRATION", RedFlagMedium,
			fmt.Sprintf("%s is the sole signatory and holds binding, funds, and pledge authority", s.Name),
			"require a second authorized signatory or board countersignature")
	}
}

func (d *Detector) scanCustodyGap(report *RedFlagReport, e *entity.Entity) {
	isFundOrAdviser := e.RegulatoryStatus.IsFund || e.RegulatoryStatus.IsInvestmentAdviser ||
		strings.EqualFold(e.Type, "fund")
	if isFundOrAdviser && e.Banking.Custodian == "" {
		d.add(report, "CUSTODY GAP", RedFlagHigh,
			fmt.Sprintf("%s is a fund or adviser with no custodian on record", e.Name),
			"obtain custodian confirmation before accepting client assets")
	}
}

// scanShellIndicators flags the single-director, no-disclosed-owners shape.
func (d *Detector) scanShellIndicators(report *RedFlagReport, e *entity.Entity) {
	if e.IsNaturalPerson() {
		return
	}
	if len(e.Directors) == 1 && len(e.BeneficialOwners) == 0 {
		d.add(report, "SHELL INDICATOR", RedFlagMedium,
			fmt.Sprintf("%s has a single director and no disclosed beneficial owners", e.Name),
			"request the full ownership chain and board composition")
	}
}

func (d *Detector) scanCounterpartyLicenses(report *RedFlagReport, counterparty *entity.Entity) {
	if len(counterparty.Licenses) == 0 {
		d.add(report, "COUNTERPARTY RISK", RedFlagHigh,
			fmt.Sprintf("counterparty %s holds no licenses", counterparty.Name),
			"verify the counterparty's regulatory standing independently")
	}
}

func (d *Detector) scanCounterpartyJurisdiction(report *RedFlagReport, counterparty *entity.Entity) {
	if d.highRisk[strings.ToUpper(counterparty.Jurisdiction)] {
		d.add(report, "JURISDICTION RISK", RedFlagMedium,
			fmt.Sprintf("counterparty %s is domiciled in high-risk jurisdiction %s",
				counterparty.Name, counterparty.Jurisdiction),
			"apply enhanced due diligence appropriate to the jurisdiction")
	}
}
