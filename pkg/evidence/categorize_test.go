package evidence

import "testing"

func TestCategorize(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"custodian_letter_2026.pdf", CategoryCustodianLetter},
		{"CUSTODY_confirmation.PDF", CategoryCustodianLetter},
		// Priority: the custodian rule outranks the license bucket.
		{"custodian_license_letter.pdf", CategoryCustodianLetter},
		{"settlement_bank_confirmation.pdf", CategoryBankLetter},
		{"bank_reference.pdf", CategoryBankLetter},
		{"board_resolution_signed.pdf", CategoryBoardResolution},
		{"signatory_list.csv", CategorySignatoryAuth},
		{"power_of_attorney.pdf", CategorySignatoryAuth},
		{"ubo_declaration.pdf", CategoryOwnership},
		{"beneficial_owners.csv", CategoryOwnership},
		{"sanctions_report.pdf", CategorySanctionsScreening},
		{"screening_results.csv", CategorySanctionsScreening},
		{"source_of_funds_statement.pdf", CategorySourceOfFunds},
		{"sof_summary.pdf", CategorySourceOfFunds},
		{"fca_license_900123.pdf", CategoryRegulatoryLicense},
		{"operating_licence.pdf", CategoryRegulatoryLicense},
		{"certificate_of_incorporation.pdf", CategoryRegistration},
		{"registration_extract.pdf", CategoryRegistration},
		{"holiday_photo.jpg", CategoryUncategorized},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := categorize(tt.filename); got != tt.want {
				t.Errorf("categorize(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestNormalizeForMatch(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SEC", "sec"},
		{"8-12345", "812345"},
		{"broker_dealer", "brokerdealer"},
		{"FCA License 900123.pdf", "fcalicense900123pdf"},
		{"a/b,c.d e", "abcde"},
	}
	for _, tt := range tests {
		if got := normalizeForMatch(tt.in); got != tt.want {
			t.Errorf("normalizeForMatch(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Solid Holdings Ltd", "solid_holdings_ltd"},
		{"  Acme & Co.  ", "acme__co_"},
		{"UPPER-case_name", "upper_case_name"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
