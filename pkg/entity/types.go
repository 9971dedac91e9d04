package entity

import (
	"strings"
	"time"
)

// LicenseStatus is the operational status of a regulatory license.
type LicenseStatus string

const (
	// LicenseActive means the license is in good standing.
	LicenseActive LicenseStatus = "active"

	// LicenseSuspended means the regulator has suspended the license.
	LicenseSuspended LicenseStatus = "suspended"

	// LicenseRevoked means the license has been revoked.
	LicenseRevoked LicenseStatus = "revoked"

	// LicensePending means the application has not yet been granted.
	LicensePending LicenseStatus = "pending"
)

// License is a single regulatory license held by an entity.
type License struct {
	// Type is the license type (e.g., "banking", "broker_dealer", "emi").
	Type string `json:"type" yaml:"type"`

	// Regulator is the issuing authority (e.g., "SEC", "FCA", "BaFin").
	Regulator string `json:"regulator" yaml:"regulator"`

	// Number is the license or registration number assigned by the regulator.
	Number string `json:"number" yaml:"number"`

	// Status is the current standing of the license.
	Status LicenseStatus `json:"status" yaml:"status"`

	// Expires is the expiration date. Zero means no stated expiry.
	Expires time.Time `json:"expires,omitempty" yaml:"expires,omitempty"`
}

// Expired reports whether the license has an expiry date in the past.
func (l License) Expired(now time.Time) bool {
	return !l.Expires.IsZero() && l.Expires.Before(now)
}

// ExpiringWithin reports whether the license expires within d of now.
func (l License) ExpiringWithin(now time.Time, d time.Duration) bool {
	if l.Expires.IsZero() || l.Expired(now) {
		return false
	}
	return l.Expires.Before(now.Add(d))
}

// Director is a member of the entity's board or equivalent governing body.
type Director struct {
	Name string `json:"name" yaml:"name"`

	// PEP marks a politically exposed person.
	PEP bool `json:"pep,omitempty" yaml:"pep,omitempty"`
}

// Signatory is a person authorized to act for the entity.
type Signatory struct {
	Name  string `json:"name" yaml:"name"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// BindingAuthority means the signatory can bind the entity to contracts.
	BindingAuthority bool `json:"binding_authority,omitempty" yaml:"binding_authority,omitempty"`

	// FundsAuthority means the signatory can move funds.
	FundsAuthority bool `json:"funds_authority,omitempty" yaml:"funds_authority,omitempty"`

	// PledgeAuthority means the signatory can pledge or encumber assets.
	PledgeAuthority bool `json:"pledge_authority,omitempty" yaml:"pledge_authority,omitempty"`
}

// BeneficialOwner is an ultimate beneficial owner of the entity.
type BeneficialOwner struct {
	Name string `json:"name" yaml:"name"`

	// Percent is the ownership percentage (0-100).
	Percent float64 `json:"percent" yaml:"percent"`

	// PEP marks a politically exposed person.
	PEP bool `json:"pep,omitempty" yaml:"pep,omitempty"`

	// Screened records whether the owner passed sanctions/adverse-media screening.
	Screened bool `json:"screened,omitempty" yaml:"screened,omitempty"`
}

// BankingProfile describes the entity's banking and custody arrangements.
type BankingProfile struct {
	// Custodian is the claimed custodian, empty if none.
	Custodian string `json:"custodian,omitempty" yaml:"custodian,omitempty"`

	// SettlementBank is the claimed settlement bank, empty if none.
	SettlementBank string `json:"settlement_bank,omitempty" yaml:"settlement_bank,omitempty"`

	// EscrowAgent is the appointed escrow agent, empty if none.
	EscrowAgent string `json:"escrow_agent,omitempty" yaml:"escrow_agent,omitempty"`
}

// RegulatoryStatus carries the entity's claimed regulatory posture. Claims
// are asserted by the entity and cross-checked by the validators; nothing
// here is taken at face value.
type RegulatoryStatus struct {
	IsRegulated         bool `json:"is_regulated,omitempty" yaml:"is_regulated,omitempty"`
	IsBank              bool `json:"is_bank,omitempty" yaml:"is_bank,omitempty"`
	IsBrokerDealer      bool `json:"is_broker_dealer,omitempty" yaml:"is_broker_dealer,omitempty"`
	IsInvestmentAdviser bool `json:"is_investment_adviser,omitempty" yaml:"is_investment_adviser,omitempty"`
	IsFund              bool `json:"is_fund,omitempty" yaml:"is_fund,omitempty"`
	IsInsurer           bool `json:"is_insurer,omitempty" yaml:"is_insurer,omitempty"`

	// PerformsCustody means the entity claims to custody client assets.
	PerformsCustody bool `json:"performs_custody,omitempty" yaml:"performs_custody,omitempty"`

	// ClaimedActivities are regulated activities the entity claims to
	// perform, in the vocabulary of the jurisdiction's regulatory matrix
	// (e.g., "deposit_taking", "securities_dealing", "payment_services").
	ClaimedActivities []string `json:"claimed_activities,omitempty" yaml:"claimed_activities,omitempty"`

	// SanctionsScreenedAt is when the entity was last sanctions-screened.
	// Zero means never screened.
	SanctionsScreenedAt time.Time `json:"sanctions_screened_at,omitempty" yaml:"sanctions_screened_at,omitempty"`
}

// HasInstitutionalFlags reports whether any institution-only regulatory
// flag is claimed. Natural persons may not carry these.
func (s RegulatoryStatus) HasInstitutionalFlags() bool {
	return s.IsBank || s.IsFund || s.IsInsurer
}

// Entity is a legal party being assessed: the principal to a deal or its
// counterparty. All fields are externally sourced and read-only to the core.
type Entity struct {
	Name         string `json:"name" yaml:"name"`
	Jurisdiction string `json:"jurisdiction" yaml:"jurisdiction"`

	// Type is the legal form: "corporation", "bank", "fund", "partnership",
	// "natural_person", etc.
	Type string `json:"type" yaml:"type"`

	// RegistrationNumber is the company-registry identifier.
	RegistrationNumber string `json:"registration_number,omitempty" yaml:"registration_number,omitempty"`

	// LEI is the Legal Entity Identifier, if issued.
	LEI string `json:"lei,omitempty" yaml:"lei,omitempty"`

	RegulatoryStatus RegulatoryStatus  `json:"regulatory_status" yaml:"regulatory_status"`
	Licenses         []License         `json:"licenses,omitempty" yaml:"licenses,omitempty"`
	Directors        []Director        `json:"directors,omitempty" yaml:"directors,omitempty"`
	Signatories      []Signatory       `json:"signatories,omitempty" yaml:"signatories,omitempty"`
	BeneficialOwners []BeneficialOwner `json:"beneficial_owners,omitempty" yaml:"beneficial_owners,omitempty"`
	Banking          BankingProfile    `json:"banking" yaml:"banking"`
}

// IsNaturalPerson reports whether the entity is an individual.
func (e *Entity) IsNaturalPerson() bool {
	switch strings.ToLower(e.Type) {
	case "natural_person", "individual", "person":
		return true
	}
	return false
}

// HasBindingSignatory reports whether at least one signatory can bind the entity.
func (e *Entity) HasBindingSignatory() bool {
	for _, s := range e.Signatories {
		if s.BindingAuthority {
			return true
		}
	}
	return false
}

// EscrowTerms describes the escrow arrangement of a transaction type.
type EscrowTerms struct {
	// Required means the transaction structure mandates escrow.
	Required bool `json:"required,omitempty" yaml:"required,omitempty"`

	// Agent is the appointed escrow agent, empty if none appointed yet.
	Agent string `json:"agent,omitempty" yaml:"agent,omitempty"`
}

// TransactionType describes the deal structure being evaluated. Definitions
// come from external reference data and are consumed as-is.
type TransactionType struct {
	Name string `json:"name" yaml:"name"`

	// Category is a free-form classification (e.g., "cross_border_payment",
	// "securities_settlement", "loan_facility").
	Category string `json:"category" yaml:"category"`

	// CrossBorder means the parties settle across jurisdictions.
	CrossBorder bool `json:"cross_border,omitempty" yaml:"cross_border,omitempty"`

	// RequiredModules and ConditionalModules name the agreement modules the
	// transaction assembles from; the core only inspects them for escrow.
	RequiredModules    []string `json:"required_modules,omitempty" yaml:"required_modules,omitempty"`
	ConditionalModules []string `json:"conditional_modules,omitempty" yaml:"conditional_modules,omitempty"`

	Escrow EscrowTerms `json:"escrow" yaml:"escrow"`
}

// fundsMovingKeywords identify transaction categories that move funds and
// therefore attract escrow scrutiny on cross-border deals.
var fundsMovingKeywords = []string{
	"payment", "settlement", "transfer", "remittance", "escrow", "funds", "custody",
}

// MovesFunds reports whether the transaction category keyword-matches a
// funds-moving activity, or any of its modules explicitly includes escrow.
func (t *TransactionType) MovesFunds() bool {
	category := strings.ToLower(t.Category)
	for _, kw := range fundsMovingKeywords {
		if strings.Contains(category, kw) {
			return true
		}
	}
	for _, m := range t.RequiredModules {
		if strings.Contains(strings.ToLower(m), "escrow") {
			return true
		}
	}
	for _, m := range t.ConditionalModules {
		if strings.Contains(strings.ToLower(m), "escrow") {
			return true
		}
	}
	return false
}
