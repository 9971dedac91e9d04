package compliance

import (
	"testing"
	"time"

	"mercator-hq/meridian/pkg/entity"
	"mercator-hq/meridian/pkg/policy"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

// cleanEntity returns an entity that passes every compliance check.
func cleanEntity() *entity.Entity {
	return &entity.Entity{
		Name:               "Solid Holdings Ltd",
		Jurisdiction:       "GB",
		Type:               "corporation",
		RegistrationNumber: "12345678",
		LEI:                "549300EXAMPLE0000001",
		RegulatoryStatus: entity.RegulatoryStatus{
			SanctionsScreenedAt: testNow.AddDate(0, -1, 0),
		},
		Licenses: []entity.License{
			{Type: "emi", Regulator: "FCA", Number: "900123", Status: entity.LicenseActive,
				Expires: testNow.AddDate(2, 0, 0)},
		},
		Signatories: []entity.Signatory{
			{Name: "A. Chen", Title: "CEO", BindingAuthority: true},
			{Name: "B. Osei", Title: "CFO", FundsAuthority: true},
		},
		Directors: []entity.Director{
			{Name: "A. Chen"}, {Name: "D. Braun"},
		},
		BeneficialOwners: []entity.BeneficialOwner{
			{Name: "Parent Holdco", Percent: 100, Screened: true},
		},
	}
}

func findingCodes(report *Report) []string {
	codes := make([]string, 0, len(report.Findings))
	for _, f := range report.Findings {
		codes = append(codes, f.Code)
	}
	return codes
}

func hasFinding(report *Report, code string, severity Severity) bool {
	for _, f := range report.Findings {
		if f.Code == code && f.Severity == severity {
			return true
		}
	}
	return false
}

func TestValidatorCleanEntity(t *testing.T) {
	v := NewValidator(ValidatorConfig{Now: fixedNow}, nil)
	report := v.Check(cleanEntity(), nil, nil)

	if !report.Passed() {
		t.Errorf("clean entity failed: findings %v", findingCodes(report))
	}
	if report.Score() != 100 {
		t.Errorf("Score = %d, want 100", report.Score())
	}
}

func TestValidatorChecks(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*entity.Entity)
		code     string
		severity Severity
	}{
		{
			name:     "missing registration number",
			mutate:   func(e *entity.Entity) { e.RegistrationNumber = "" },
			code:     "REGISTRATION_MISSING",
			severity: SeverityError,
		},
		{
			name:     "missing LEI is advisory",
			mutate:   func(e *entity.Entity) { e.LEI = "" },
			code:     "LEI_MISSING",
			severity: SeverityInfo,
		},
		{
			name: "suspended license",
			mutate: func(e *entity.Entity) {
				e.Licenses[0].Status = entity.LicenseSuspended
			},
			code:     "LICENSE_NOT_IN_GOOD_STANDING",
			severity: SeverityError,
		},
		{
			name: "expired license",
			mutate: func(e *entity.Entity) {
				e.Licenses[0].Expires = testNow.AddDate(0, 0, -1)
			},
			code:     "LICENSE_EXPIRED",
			severity: SeverityError,
		},
		{
			name: "license expiring inside the horizon",
			mutate: func(e *entity.Entity) {
				e.Licenses[0].Expires = testNow.AddDate(0, 0, 30)
			},
			code:     "LICENSE_EXPIRING",
			severity: SeverityWarning,
		},
		{
			name: "no binding signatory",
			mutate: func(e *entity.Entity) {
				for i := range e.Signatories {
					e.Signatories[i].BindingAuthority = false
				}
			},
			code:     "NO_BINDING_SIGNATORY",
			severity: SeverityError,
		},
		{
			name: "ownership over 100 percent",
			mutate: func(e *entity.Entity) {
				e.BeneficialOwners = append(e.BeneficialOwners,
					entity.BeneficialOwner{Name: "Extra Owner", Percent: 40, Screened: true})
			},
			code:     "OWNERSHIP_EXCEEDS_100",
			severity: SeverityError,
		},
		{
			name: "never screened",
			mutate: func(e *entity.Entity) {
				e.RegulatoryStatus.SanctionsScreenedAt = time.Time{}
			},
			code:     "SANCTIONS_SCREENING_MISSING",
			severity: SeverityWarning,
		},
		{
			name: "stale screening",
			mutate: func(e *entity.Entity) {
				e.RegulatoryStatus.SanctionsScreenedAt = testNow.AddDate(-2, 0, 0)
			},
			code:     "SANCTIONS_SCREENING_STALE",
			severity: SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := cleanEntity()
			tt.mutate(e)
			v := NewValidator(ValidatorConfig{Now: fixedNow}, nil)
			report := v.Check(e, nil, nil)
			if !hasFinding(report, tt.code, tt.severity) {
				t.Errorf("want %s finding %s, got %v", tt.severity, tt.code, findingCodes(report))
			}
		})
	}
}

func TestValidatorNaturalPersonSkipsIdentifiers(t *testing.T) {
	e := cleanEntity()
	e.Type = "natural_person"
	e.RegistrationNumber = ""
	e.LEI = ""

	v := NewValidator(ValidatorConfig{Now: fixedNow}, nil)
	report := v.Check(e, nil, nil)

	if hasFinding(report, "REGISTRATION_MISSING", SeverityError) {
		t.Error("natural persons must not require a registration number")
	}
	if hasFinding(report, "LEI_MISSING", SeverityInfo) {
		t.Error("natural persons must not require an LEI")
	}
}

func TestValidatorJurisdictionRequirements(t *testing.T) {
	rules := &entity.JurisdictionRules{
		Requirements: map[string][]entity.LicenseRequirement{
			"DE": {
				{EntityType: "bank", LicenseType: "banking"},
				{EntityType: "*", LicenseType: "emi"},
			},
		},
	}

	t.Run("missing required license", func(t *testing.T) {
		e := cleanEntity()
		e.Jurisdiction = "de"
		e.Licenses = nil

		v := NewValidator(ValidatorConfig{Rules: rules, Now: fixedNow}, nil)
		report := v.Check(e, nil, nil)
		if !hasFinding(report, "JURISDICTION_LICENSE_MISSING", SeverityError) {
			t.Errorf("want JURISDICTION_LICENSE_MISSING, got %v", findingCodes(report))
		}
	})

	t.Run("wildcard rule satisfied by held license", func(t *testing.T) {
		e := cleanEntity()
		e.Jurisdiction = "DE"

		v := NewValidator(ValidatorConfig{Rules: rules, Now: fixedNow}, nil)
		report := v.Check(e, nil, nil)
		if hasFinding(report, "JURISDICTION_LICENSE_MISSING", SeverityError) {
			t.Errorf("emi license should satisfy the wildcard rule, got %v", findingCodes(report))
		}
	})

	t.Run("type-scoped rule skips other types", func(t *testing.T) {
		e := cleanEntity()
		e.Jurisdiction = "DE"
		// corporation, so the bank-only banking rule must not fire.
		v := NewValidator(ValidatorConfig{Rules: rules, Now: fixedNow}, nil)
		report := v.Check(e, nil, nil)
		for _, f := range report.Findings {
			if f.Code == "JURISDICTION_LICENSE_MISSING" {
				t.Errorf("unexpected finding: %s", f.Message)
			}
		}
	})
}

func TestValidatorEscrow(t *testing.T) {
	crossBorderPayment := func() *entity.TransactionType {
		return &entity.TransactionType{
			Name:        "intl-settlement",
			Category:    "cross_border_payment",
			CrossBorder: true,
		}
	}

	blockingPolicy := policy.NewEngine(&policy.Config{
		Tier: policy.TierConditional,
		Controls: policy.Sections{
			{Name: "transaction_controls", Controls: map[string]policy.Enforcement{
				"escrow_required": policy.Block,
			}},
		},
	})

	tests := []struct {
		name     string
		txn      *entity.TransactionType
		banking  entity.BankingProfile
		engine   *policy.Engine
		want     Severity
		wantNone bool
	}{
		{
			name:     "no transaction skips the check",
			txn:      nil,
			wantNone: true,
		},
		{
			name: "domestic transaction skips the check",
			txn: &entity.TransactionType{
				Category: "payment", CrossBorder: false,
			},
			wantNone: true,
		},
		{
			name: "non-funds-moving category skips the check",
			txn: &entity.TransactionType{
				Category: "advisory_mandate", CrossBorder: true,
			},
			wantNone: true,
		},
		{
			name:     "escrow agent on the entity satisfies",
			txn:      crossBorderPayment(),
			banking:  entity.BankingProfile{EscrowAgent: "Trust Co"},
			wantNone: true,
		},
		{
			name: "warn by default",
			txn:  crossBorderPayment(),
			want: SeverityWarning,
		},
		{
			name:   "error when policy blocks",
			txn:    crossBorderPayment(),
			engine: blockingPolicy,
			want:   SeverityError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := cleanEntity()
			e.Banking = tt.banking

			v := NewValidator(ValidatorConfig{Now: fixedNow}, tt.engine)
			report := v.Check(e, nil, tt.txn)

			found := false
			for _, f := range report.Findings {
				if f.Code == "ESCROW_MISSING" {
					found = true
					if f.Severity != tt.want {
						t.Errorf("ESCROW_MISSING severity = %s, want %s", f.Severity, tt.want)
					}
				}
			}
			if tt.wantNone && found {
				t.Error("unexpected ESCROW_MISSING finding")
			}
			if !tt.wantNone && !found {
				t.Errorf("want ESCROW_MISSING, got %v", findingCodes(report))
			}
		})
	}
}

func TestReportScore(t *testing.T) {
	tests := []struct {
		name     string
		errors   int
		warnings int
		want     int
	}{
		{"clean", 0, 0, 100},
		{"single warning", 0, 1, 95},
		{"single error", 1, 0, 85},
		{"two errors three warnings", 2, 3, 55},
		{"floors at zero", 7, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := &Report{}
			for i := 0; i < tt.errors; i++ {
				report.add(SeverityError, "E", "", "")
			}
			for i := 0; i < tt.warnings; i++ {
				report.add(SeverityWarning, "W", "", "")
			}
			// INFO findings never move the score.
			report.add(SeverityInfo, "I", "", "")

			if got := report.Score(); got != tt.want {
				t.Errorf("Score(%dE, %dW) = %d, want %d", tt.errors, tt.warnings, got, tt.want)
			}
		})
	}
}
