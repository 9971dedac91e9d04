package evidence

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/meridian/pkg/compliance"
	"mercator-hq/meridian/pkg/entity"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func claimingEntity() *entity.Entity {
	return &entity.Entity{
		Name:               "Solid Holdings Ltd",
		Jurisdiction:       "GB",
		Type:               "corporation",
		RegistrationNumber: "12345678",
		Licenses: []entity.License{
			{Type: "broker_dealer", Regulator: "SEC", Number: "8-12345", Status: entity.LicenseActive},
		},
		Signatories: []entity.Signatory{
			{Name: "A. Chen", BindingAuthority: true},
		},
		Banking: entity.BankingProfile{
			Custodian:      "Global Custody Bank",
			SettlementBank: "Settlement Bank AG",
		},
	}
}

// seedEvidence writes files into the entity's evidence directory under root.
func seedEvidence(t *testing.T, root string, e *entity.Entity, names ...string) {
	t.Helper()
	dir := filepath.Join(root, Slug(e.Name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create evidence directory: %v", err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("content of "+name), 0o644); err != nil {
			t.Fatalf("failed to write evidence file: %v", err)
		}
	}
}

func gapCategories(report *Report) []string {
	out := make([]string, 0, len(report.Gaps))
	for _, g := range report.Gaps {
		out = append(out, g.Category)
	}
	return out
}

func hasGap(report *Report, category string, severity compliance.Severity) bool {
	for _, g := range report.Gaps {
		if g.Category == category && g.Severity == severity {
			return true
		}
	}
	return false
}

func TestValidatorCompleteEvidence(t *testing.T) {
	root := t.TempDir()
	e := claimingEntity()
	seedEvidence(t, root, e,
		"sec_broker_dealer_license.pdf",
		"custodian_letter.pdf",
		"settlement_bank_confirmation.pdf",
		"board_resolution.pdf",
		"certificate_of_incorporation.pdf",
	)

	v := NewValidator(ValidatorConfig{EvidenceRoot: root, Now: fixedNow})
	report, err := v.Check(e, nil)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !report.Passed() {
		t.Errorf("complete evidence set failed: %v", gapCategories(report))
	}
	if len(report.Gaps) != 0 {
		t.Errorf("unexpected gaps: %v", gapCategories(report))
	}
	if len(report.Files) != 5 {
		t.Errorf("hashed %d files, want 5", len(report.Files))
	}
}

func TestValidatorHashing(t *testing.T) {
	root := t.TempDir()
	e := claimingEntity()
	e.Licenses = nil
	e.Banking = entity.BankingProfile{}
	e.RegistrationNumber = ""
	e.Signatories = nil

	content := []byte("deterministic content")
	dir := filepath.Join(root, Slug(e.Name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "statement.pdf"), content, 0o644); err != nil {
		t.Fatal(err)
	}
	// Unaccepted extensions and subdirectories are skipped.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "archive"), 0o755); err != nil {
		t.Fatal(err)
	}

	v := NewValidator(ValidatorConfig{EvidenceRoot: root, Now: fixedNow})
	report, err := v.Check(e, nil)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	if len(report.Files) != 1 {
		t.Fatalf("hashed %d files, want 1 (extension filter)", len(report.Files))
	}
	f := report.Files[0]
	sum := sha256.Sum256(content)
	if f.SHA256 != hex.EncodeToString(sum[:]) {
		t.Errorf("SHA256 = %s, want %s", f.SHA256, hex.EncodeToString(sum[:]))
	}
	if f.Size != int64(len(content)) {
		t.Errorf("Size = %d, want %d", f.Size, len(content))
	}
	if f.Category != CategoryUncategorized {
		t.Errorf("Category = %s, want %s", f.Category, CategoryUncategorized)
	}
}

func TestValidatorMissingDirectory(t *testing.T) {
	e := claimingEntity()
	v := NewValidator(ValidatorConfig{EvidenceRoot: t.TempDir(), Now: fixedNow})
	report, err := v.Check(e, nil)
	if err != nil {
		t.Fatalf("Check() error = %v, missing directory must not be fatal", err)
	}

	if !hasGap(report, "EVIDENCE_DIRECTORY", compliance.SeverityWarning) {
		t.Errorf("want EVIDENCE_DIRECTORY warning, got %v", gapCategories(report))
	}
	// Claim checks still run against the empty file set.
	if !hasGap(report, "LICENSE_EVIDENCE", compliance.SeverityError) {
		t.Errorf("want LICENSE_EVIDENCE against empty set, got %v", gapCategories(report))
	}
	if !hasGap(report, "CUSTODIAN_EVIDENCE", compliance.SeverityError) {
		t.Errorf("want CUSTODIAN_EVIDENCE, got %v", gapCategories(report))
	}
}

func TestValidatorLicenseMatching(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		match    bool
	}{
		{"regulator name in filename", "sec_broker_dealer_license.pdf", true},
		{"license number with punctuation", "License-8-12345.pdf", true},
		{"license type", "broker_dealer_permit.pdf", true},
		{"unrelated license file", "fca_emi_licence.pdf", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			e := claimingEntity()
			e.Banking = entity.BankingProfile{}
			e.RegistrationNumber = ""
			e.Signatories = nil
			seedEvidence(t, root, e, tt.filename)

			v := NewValidator(ValidatorConfig{EvidenceRoot: root, Now: fixedNow})
			report, err := v.Check(e, nil)
			if err != nil {
				t.Fatalf("Check() error = %v", err)
			}

			gapped := hasGap(report, "LICENSE_EVIDENCE", compliance.SeverityError)
			if tt.match && gapped {
				t.Errorf("%q should satisfy the license claim", tt.filename)
			}
			if !tt.match && !gapped {
				t.Errorf("%q should not satisfy the license claim", tt.filename)
			}
		})
	}
}

func TestValidatorCrossBorderEvidence(t *testing.T) {
	root := t.TempDir()
	e := claimingEntity()
	e.Licenses = nil
	e.Banking = entity.BankingProfile{}
	e.RegistrationNumber = ""
	e.Signatories = nil
	seedEvidence(t, root, e, "ubo_declaration.pdf")

	txn := &entity.TransactionType{Name: "intl", Category: "cross_border_payment", CrossBorder: true}

	v := NewValidator(ValidatorConfig{EvidenceRoot: root, Now: fixedNow})
	report, err := v.Check(e, txn)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	if hasGap(report, "OWNERSHIP_EVIDENCE", compliance.SeverityError) {
		t.Error("ubo declaration should satisfy the ownership requirement")
	}
	if !hasGap(report, "SCREENING_EVIDENCE", compliance.SeverityError) {
		t.Errorf("want SCREENING_EVIDENCE error, got %v", gapCategories(report))
	}
	if !hasGap(report, "SOURCE_OF_FUNDS_EVIDENCE", compliance.SeverityWarning) {
		t.Errorf("want SOURCE_OF_FUNDS_EVIDENCE warning, got %v", gapCategories(report))
	}

	t.Run("domestic transactions skip the extended set", func(t *testing.T) {
		domestic := &entity.TransactionType{Name: "local", Category: "payment", CrossBorder: false}
		report, err := v.Check(e, domestic)
		if err != nil {
			t.Fatalf("Check() error = %v", err)
		}
		if hasGap(report, "SCREENING_EVIDENCE", compliance.SeverityError) {
			t.Error("domestic transaction must not require screening evidence")
		}
	})
}

func TestValidatorAuditTrail(t *testing.T) {
	root := t.TempDir()
	auditPath := filepath.Join(root, "audit", "evidence.log")
	e := claimingEntity()
	e.Licenses = nil
	e.Banking = entity.BankingProfile{}
	e.RegistrationNumber = ""
	e.Signatories = nil
	seedEvidence(t, root, e, "statement.pdf")

	v := NewValidator(ValidatorConfig{EvidenceRoot: root, AuditLogPath: auditPath, Now: fixedNow})
	if _, err := v.Check(e, nil); err != nil {
		t.Fatalf("first Check() error = %v", err)
	}
	if _, err := v.Check(e, nil); err != nil {
		t.Fatalf("second Check() error = %v", err)
	}

	records, err := NewAuditLog(auditPath).Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d audit records, want 2", len(records))
	}
	for i, record := range records {
		if record.Action != "evidence_check" {
			t.Errorf("record[%d].Action = %q", i, record.Action)
		}
		if record.EntityName != e.Name {
			t.Errorf("record[%d].EntityName = %q", i, record.EntityName)
		}
		if record.ID == "" {
			t.Errorf("record[%d] has no ID", i)
		}
		if len(record.Files) != 1 {
			t.Errorf("record[%d] captured %d files, want 1", i, len(record.Files))
		}
		if !record.Passed {
			t.Errorf("record[%d].Passed = false, want true", i)
		}
	}
	if records[0].ID == records[1].ID {
		t.Error("audit record IDs must be unique")
	}
}

func TestValidatorAuditFailureStillReturnsReport(t *testing.T) {
	root := t.TempDir()
	e := claimingEntity()
	e.Licenses = nil
	e.Banking = entity.BankingProfile{}
	e.RegistrationNumber = ""
	e.Signatories = nil
	seedEvidence(t, root, e, "statement.pdf")

	// A directory at the log path makes the append fail.
	auditPath := filepath.Join(root, "auditdir")
	if err := os.MkdirAll(auditPath, 0o755); err != nil {
		t.Fatal(err)
	}

	v := NewValidator(ValidatorConfig{EvidenceRoot: root, AuditLogPath: auditPath, Now: fixedNow})
	report, err := v.Check(e, nil)
	if err == nil {
		t.Fatal("Check() error = nil, want audit write failure")
	}
	if report == nil {
		t.Fatal("Check() must return the report alongside the audit error")
	}
	if len(report.Files) != 1 {
		t.Errorf("report carried %d files, want 1", len(report.Files))
	}
}

func TestAuditLogReadMissingFile(t *testing.T) {
	records, err := NewAuditLog(filepath.Join(t.TempDir(), "none.log")).Read()
	if err != nil {
		t.Fatalf("Read() error = %v, want nil for missing log", err)
	}
	if records != nil {
		t.Errorf("got %d records, want none", len(records))
	}
}
