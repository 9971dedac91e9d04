package evidence

import "strings"

// Document categories inferred from filenames.
const (
	CategoryCustodianLetter    = "custodian_letter"
	CategoryBankLetter         = "bank_letter"
	CategoryBoardResolution    = "board_resolution"
	CategorySignatoryAuth      = "signatory_authorization"
	CategoryOwnership          = "beneficial_ownership"
	CategorySanctionsScreening = "sanctions_screening"
	CategorySourceOfFunds      = "source_of_funds"
	CategoryRegulatoryLicense  = "regulatory_license"
	CategoryRegistration       = "registration"
	CategoryUncategorized      = "uncategorized"
)

// categoryRule binds a category to its filename keywords.
type categoryRule struct {
	category string
	keywords []string
}

// categoryRules are evaluated in order; the first rule with a matching
// keyword wins. Order is significant: more specific document kinds come
// before the generic license/registration buckets so that, for example,
// "custodian_license_letter.pdf" lands in custodian_letter.
var categoryRules = []categoryRule{
	{CategoryCustodianLetter, []string{"custodian", "custody"}},
	{CategoryBankLetter, []string{"bank_letter", "settlement_bank", "bank"}},
	{CategoryBoardResolution, []string{"board", "resolution"}},
	{CategorySignatoryAuth, []string{"signatory", "authorization", "authorisation", "power_of_attorney"}},
	{CategoryOwnership, []string{"beneficial", "ubo", "ownership"}},
	{CategorySanctionsScreening, []string{"sanctions", "screening"}},
	{CategorySourceOfFunds, []string{"source_of_funds", "source-of-funds", "sof_"}},
	{CategoryRegulatoryLicense, []string{"license", "licence", "permit"}},
	{CategoryRegistration, []string{"registration", "incorporation", "certificate"}},
}

// categorize infers a document category from a filename. Matching is
// case-insensitive; the first rule whose keyword appears in the name wins.
func categorize(filename string) string {
	name := strings.ToLower(filename)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.category
			}
		}
	}
	return CategoryUncategorized
}

// normalizeForMatch lowercases a string and strips separator punctuation so
// claim-to-filename matching is case and punctuation insensitive. The
// matching itself stays a plain substring probe; tightening it would
// change pass/fail outcomes.
func normalizeForMatch(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch r {
		case '-', '_', ' ', '.', '/', ',':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
