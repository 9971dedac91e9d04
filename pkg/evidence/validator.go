package evidence

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"mercator-hq/meridian/pkg/compliance"
	"mercator-hq/meridian/pkg/entity"
)

// ValidatorConfig configures the evidence validator.
type ValidatorConfig struct {
	// EvidenceRoot is the directory holding one evidence subdirectory per
	// entity, named by the entity's slug.
	EvidenceRoot string

	// AuditLogPath is the append-only audit log file. Empty disables
	// audit logging.
	AuditLogPath string

	// Metrics counts checker runs. May be nil.
	Metrics *compliance.Metrics

	// Now overrides the clock, for tests. Nil uses time.Now.
	Now func() time.Time
}

// Validator hashes an entity's evidence files and cross-checks claims
// against them, appending an immutable audit record per call.
type Validator struct {
	config ValidatorConfig
	audit  *AuditLog
}

// NewValidator creates an evidence validator.
func NewValidator(config ValidatorConfig) *Validator {
	if config.Now == nil {
		config.Now = time.Now
	}
	v := &Validator{config: config}
	if config.AuditLogPath != "" {
		v.audit = NewAuditLog(config.AuditLogPath)
	}
	return v
}

// Check hashes every accepted file in the entity's evidence directory and
// cross-checks the entity's claims against the hashed set. The transaction
// type is optional; cross-border transactions require the extended document
// set (ownership declaration, sanctions screening, source of funds).
//
// A missing evidence directory is not fatal: it downgrades to a single
// WARNING gap and every claim check still runs against the empty file set.
// An audit record is appended regardless. If only the audit write fails,
// the report is still returned alongside the error.
func (v *Validator) Check(e *entity.Entity, txn *entity.TransactionType) (*Report, error) {
	report := &Report{
		EntityName: e.Name,
		CheckedAt:  v.config.Now(),
		Directory:  v.entityDir(e),
	}

	if err := v.hashDirectory(report); err != nil {
		return nil, err
	}

	v.checkLicenseEvidence(report, e)
	v.checkCustodianEvidence(report, e)
	v.checkBankEvidence(report, e)
	v.checkSignatoryEvidence(report, e)
	v.checkRegistrationEvidence(report, e)
	if txn != nil && txn.CrossBorder {
		v.checkCrossBorderEvidence(report)
	}

	v.config.Metrics.RecordRun("evidence", report.Passed())

	if v.audit != nil {
		if err := v.audit.Append(report); err != nil {
			return report, fmt.Errorf("evidence audit log write failed: %w", err)
		}
	}
	return report, nil
}

// entityDir returns the entity's evidence directory under the root.
func (v *Validator) entityDir(e *entity.Entity) string {
	return filepath.Join(v.config.EvidenceRoot, Slug(e.Name))
}

// Slug normalizes a name into a filesystem-safe directory component.
func Slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteRune('_')
		}
	}
	return b.String()
}

// hashDirectory hashes every accepted file in the evidence directory in a
// deterministic (name-sorted) order. A missing directory produces one
// WARNING gap; any other I/O failure propagates.
func (v *Validator) hashDirectory(report *Report) error {
	entries, err := os.ReadDir(report.Directory)
	if err != nil {
		if os.IsNotExist(err) {
			report.addGap("EVIDENCE_DIRECTORY",
				fmt.Sprintf("evidence directory %q does not exist", report.Directory),
				compliance.SeverityWarning)
			return nil
		}
		return fmt.Errorf("failed to read evidence directory %q: %w", report.Directory, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !acceptedExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		digest, size, err := hashFile(filepath.Join(report.Directory, name))
		if err != nil {
			return err
		}
		report.Files = append(report.Files, HashedFile{
			Filename: name,
			SHA256:   digest,
			Size:     size,
			Category: categorize(name),
		})
	}
	return nil
}

// checkLicenseEvidence requires one regulatory-license file per claimed
// license, matched by case/punctuation-insensitive substring on the
// regulator name, license number, or license type.
func (v *Validator) checkLicenseEvidence(report *Report, e *entity.Entity) {
	licenseFiles := report.filesInCategory(CategoryRegulatoryLicense)
	for _, l := range e.Licenses {
		if licenseMatchesAnyFile(l, licenseFiles) {
			continue
		}
		report.addGap("LICENSE_EVIDENCE",
			fmt.Sprintf("no evidence file matches %s license %s from %s", l.Type, l.Number, l.Regulator),
			compliance.SeverityError)
	}
}

func licenseMatchesAnyFile(l entity.License, files []HashedFile) bool {
	probes := []string{
		normalizeForMatch(l.Regulator),
		normalizeForMatch(l.Number),
		normalizeForMatch(l.Type),
	}
	for _, f := range files {
		name := normalizeForMatch(f.Filename)
		for _, probe := range probes {
			if probe != "" && strings.Contains(name, probe) {
				return true
			}
		}
	}
	return false
}

func (v *Validator) checkCustodianEvidence(report *Report, e *entity.Entity) {
	if e.Banking.Custodian == "" {
		return
	}
	if len(report.filesInCategory(CategoryCustodianLetter)) == 0 {
		report.addGap("CUSTODIAN_EVIDENCE",
			fmt.Sprintf("custodian %q claimed but no custodian letter on file", e.Banking.Custodian),
			compliance.SeverityError)
	}
}

func (v *Validator) checkBankEvidence(report *Report, e *entity.Entity) {
	if e.Banking.SettlementBank == "" {
		return
	}
	if len(report.filesInCategory(CategoryBankLetter)) == 0 {
		report.addGap("BANK_EVIDENCE",
			fmt.Sprintf("settlement bank %q claimed but no bank letter on file", e.Banking.SettlementBank),
			compliance.SeverityWarning)
	}
}

// checkSignatoryEvidence accepts either a signatory authorization or a
// board resolution as proof of binding authority.
func (v *Validator) checkSignatoryEvidence(report *Report, e *entity.Entity) {
	if !e.HasBindingSignatory() {
		return
	}
	if len(report.filesInCategory(CategorySignatoryAuth)) == 0 &&
		len(report.filesInCategory(CategoryBoardResolution)) == 0 {
		report.addGap("SIGNATORY_EVIDENCE",
			"binding signatory claimed but no signatory authorization or board resolution on file",
			compliance.SeverityWarning)
	}
}

func (v *Validator) checkRegistrationEvidence(report *Report, e *entity.Entity) {
	if e.RegistrationNumber == "" {
		return
	}
	if len(report.filesInCategory(CategoryRegistration)) == 0 {
		report.addGap("REGISTRATION_EVIDENCE",
			fmt.Sprintf("registration number %s claimed but no registration document on file", e.RegistrationNumber),
			compliance.SeverityWarning)
	}
}

// checkCrossBorderEvidence requires the extended cross-border document set.
func (v *Validator) checkCrossBorderEvidence(report *Report) {
	if len(report.filesInCategory(CategoryOwnership)) == 0 {
		report.addGap("OWNERSHIP_EVIDENCE",
			"cross-border transaction requires a beneficial-ownership declaration",
			compliance.SeverityError)
	}
	if len(report.filesInCategory(CategorySanctionsScreening)) == 0 {
		report.addGap("SCREENING_EVIDENCE",
			"cross-border transaction requires a sanctions-screening report",
			compliance.SeverityError)
	}
	if len(report.filesInCategory(CategorySourceOfFunds)) == 0 {
		report.addGap("SOURCE_OF_FUNDS_EVIDENCE",
			"cross-border transaction requires source-of-funds documentation",
			compliance.SeverityWarning)
	}
}
