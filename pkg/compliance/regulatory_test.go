package compliance

import (
	"strings"
	"testing"

	"mercator-hq/meridian/pkg/entity"
)

func testMatrix() *entity.RegulatoryMatrix {
	return &entity.RegulatoryMatrix{
		Jurisdictions: map[string]entity.JurisdictionRegime{
			"US": {
				Regulators: []string{"SEC", "FINRA", "OCC", "FED"},
				Activities: map[string]entity.ActivityRule{
					"securities_dealing": {LicenseRequired: true, Regulators: []string{"SEC", "FINRA"}},
					"deposit_taking":     {LicenseRequired: true, Regulators: []string{"OCC", "FED"}},
					"advisory":           {LicenseRequired: false},
				},
				Custody: entity.CustodyRule{RequiresBrokerDealerOrAdviser: true},
			},
			"DE": {
				Regulators: []string{"BaFin", "Bundesbank"},
				Activities: map[string]entity.ActivityRule{
					"deposit_taking": {LicenseRequired: true, Regulators: []string{"BaFin"}},
				},
				Custody: entity.CustodyRule{RequiresBankingLicense: true},
			},
		},
	}
}

func usEntity() *entity.Entity {
	return &entity.Entity{
		Name:         "Meridian Securities LLC",
		Jurisdiction: "US",
		Type:         "corporation",
		Licenses: []entity.License{
			{Type: "broker_dealer", Regulator: "SEC", Number: "8-12345", Status: entity.LicenseActive},
		},
	}
}

func TestRegulatoryValidatorUnknownJurisdiction(t *testing.T) {
	e := usEntity()
	e.Jurisdiction = "ZZ"
	e.RegulatoryStatus.ClaimedActivities = []string{"securities_dealing"}

	v := NewRegulatoryValidator(RegulatoryValidatorConfig{Matrix: testMatrix(), Now: fixedNow})
	report := v.Check(e)

	if len(report.Findings) != 1 {
		t.Fatalf("got %d findings, want exactly 1: %v", len(report.Findings), findingCodes(report))
	}
	f := report.Findings[0]
	if f.Code != "UNKNOWN_JURISDICTION" || f.Severity != SeverityWarning {
		t.Errorf("got %s/%s, want WARNING/UNKNOWN_JURISDICTION", f.Severity, f.Code)
	}
}

func TestRegulatoryValidatorNilMatrix(t *testing.T) {
	v := NewRegulatoryValidator(RegulatoryValidatorConfig{Now: fixedNow})
	report := v.Check(usEntity())
	if !hasFinding(report, "UNKNOWN_JURISDICTION", SeverityWarning) {
		t.Errorf("nil matrix should make every jurisdiction unknown, got %v", findingCodes(report))
	}
}

func TestRegulatoryValidatorActivities(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*entity.Entity)
		wantCode   string
		wantAbsent string
	}{
		{
			name: "unrecognized activity",
			mutate: func(e *entity.Entity) {
				e.RegulatoryStatus.ClaimedActivities = []string{"crystal_healing"}
			},
			wantCode: "UNKNOWN_ACTIVITY",
		},
		{
			name: "activity satisfied by qualifying license",
			mutate: func(e *entity.Entity) {
				e.RegulatoryStatus.ClaimedActivities = []string{"securities_dealing"}
			},
			wantAbsent: "LICENSE_REGULATOR_MISMATCH",
		},
		{
			name: "activity license from the wrong regulator",
			mutate: func(e *entity.Entity) {
				e.RegulatoryStatus.ClaimedActivities = []string{"deposit_taking"}
			},
			wantCode: "LICENSE_REGULATOR_MISMATCH",
		},
		{
			name: "license-free activity never mismatches",
			mutate: func(e *entity.Entity) {
				e.RegulatoryStatus.ClaimedActivities = []string{"advisory"}
				e.Licenses = nil
			},
			wantAbsent: "LICENSE_REGULATOR_MISMATCH",
		},
		{
			name: "zero licenses skip the mismatch check",
			mutate: func(e *entity.Entity) {
				e.RegulatoryStatus.ClaimedActivities = []string{"securities_dealing"}
				e.Licenses = nil
			},
			wantAbsent: "LICENSE_REGULATOR_MISMATCH",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := usEntity()
			tt.mutate(e)

			v := NewRegulatoryValidator(RegulatoryValidatorConfig{Matrix: testMatrix(), Now: fixedNow})
			report := v.Check(e)

			if tt.wantCode != "" && !hasFinding(report, tt.wantCode, SeverityError) {
				t.Errorf("want ERROR %s, got %v", tt.wantCode, findingCodes(report))
			}
			if tt.wantAbsent != "" {
				for _, f := range report.Findings {
					if f.Code == tt.wantAbsent {
						t.Errorf("unexpected finding %s: %s", f.Code, f.Message)
					}
				}
			}
		})
	}
}

func TestRegulatoryValidatorUnknownRegulator(t *testing.T) {
	e := usEntity()
	e.Licenses = append(e.Licenses, entity.License{
		Type: "banking", Regulator: "BaFin", Number: "DE-1", Status: entity.LicenseActive,
	})

	v := NewRegulatoryValidator(RegulatoryValidatorConfig{Matrix: testMatrix(), Now: fixedNow})
	report := v.Check(e)

	if !hasFinding(report, "UNKNOWN_REGULATOR", SeverityError) {
		t.Errorf("BaFin is not a US regulator, got %v", findingCodes(report))
	}
}

func TestRegulatoryValidatorRegulatorCaseInsensitive(t *testing.T) {
	e := usEntity()
	for i := range e.Licenses {
		e.Licenses[i].Regulator = strings.ToLower(e.Licenses[i].Regulator)
	}

	v := NewRegulatoryValidator(RegulatoryValidatorConfig{Matrix: testMatrix(), Now: fixedNow})
	report := v.Check(e)

	for _, f := range report.Findings {
		if f.Code == "UNKNOWN_REGULATOR" {
			t.Errorf("lower-cased regulator drew a spurious finding: %s", f.Message)
		}
	}
}

func TestRegulatoryValidatorCustody(t *testing.T) {
	t.Run("banking license jurisdiction", func(t *testing.T) {
		e := &entity.Entity{
			Name:         "Verwahrung GmbH",
			Jurisdiction: "DE",
			Type:         "corporation",
			RegulatoryStatus: entity.RegulatoryStatus{
				PerformsCustody: true,
			},
		}
		v := NewRegulatoryValidator(RegulatoryValidatorConfig{Matrix: testMatrix(), Now: fixedNow})
		report := v.Check(e)
		if !hasFinding(report, "CUSTODY_REQUIRES_BANK", SeverityError) {
			t.Errorf("want CUSTODY_REQUIRES_BANK, got %v", findingCodes(report))
		}
	})

	t.Run("broker-dealer jurisdiction warns", func(t *testing.T) {
		e := usEntity()
		e.RegulatoryStatus.PerformsCustody = true
		v := NewRegulatoryValidator(RegulatoryValidatorConfig{Matrix: testMatrix(), Now: fixedNow})
		report := v.Check(e)
		if !hasFinding(report, "CUSTODY_STATUS_UNVERIFIED", SeverityWarning) {
			t.Errorf("want CUSTODY_STATUS_UNVERIFIED, got %v", findingCodes(report))
		}
	})

	t.Run("broker-dealer status satisfies", func(t *testing.T) {
		e := usEntity()
		e.RegulatoryStatus.PerformsCustody = true
		e.RegulatoryStatus.IsBrokerDealer = true
		v := NewRegulatoryValidator(RegulatoryValidatorConfig{Matrix: testMatrix(), Now: fixedNow})
		report := v.Check(e)
		if !report.Passed() {
			t.Errorf("broker-dealer custody should pass, got %v", findingCodes(report))
		}
	})
}

func TestRegulatoryValidatorNaturalPersonFlags(t *testing.T) {
	e := &entity.Entity{
		Name:         "J. Doe",
		Jurisdiction: "US",
		Type:         "natural_person",
		RegulatoryStatus: entity.RegulatoryStatus{
			IsBank: true,
		},
	}
	v := NewRegulatoryValidator(RegulatoryValidatorConfig{Matrix: testMatrix(), Now: fixedNow})
	report := v.Check(e)
	if !hasFinding(report, "INSTITUTIONAL_FLAGS_ON_INDIVIDUAL", SeverityError) {
		t.Errorf("want INSTITUTIONAL_FLAGS_ON_INDIVIDUAL, got %v", findingCodes(report))
	}
}
