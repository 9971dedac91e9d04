package checklist

import (
	"fmt"
	"time"

	"mercator-hq/meridian/pkg/compliance"
	"mercator-hq/meridian/pkg/evidence"
)

// Responsible roles.
const (
	OwnerCompliance = "Compliance"
	OwnerOperations = "Operations"
	OwnerCounsel    = "Counsel"
)

// Identifier prefixes by source.
const (
	prefixValidation     = "VAL"
	prefixRedFlag        = "RF"
	prefixEvidence       = "EV"
	prefixConflict       = "CONF"
	prefixClassification = "CLS"
	prefixOpinion        = "OPN"
	prefixSignature      = "SIG"
)

// Inputs carries every finding source for one aggregation build. Any field
// may be zero; the aggregator only consumes what is present.
type Inputs struct {
	// Validation holds compliance and regulatory-claim reports.
	Validation []*compliance.Report

	// RedFlags is the red-flag detector output.
	RedFlags *compliance.RedFlagReport

	// Evidence is the evidence validator output.
	Evidence *evidence.Report

	// Conflicts are externally produced conflict findings.
	Conflicts []ConflictFinding

	// Classifications are externally produced risk classification tags.
	Classifications []ClassificationTag

	// Opinions are externally produced opinion conditions.
	Opinions []OpinionCondition

	// SignatureBlocked flags an explicit signature block with its reason.
	SignatureBlocked       bool
	SignatureBlockedReason string
}

// AggregatorConfig configures the checklist aggregator.
type AggregatorConfig struct {
	// Now overrides the clock, for tests. Nil uses time.Now.
	Now func() time.Time
}

// Aggregator builds execution checklists from heterogeneous finding
// sources. Stateless across builds; the item counter resets per build.
type Aggregator struct {
	config AggregatorConfig
}

// NewAggregator creates a checklist aggregator.
func NewAggregator(config AggregatorConfig) *Aggregator {
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Aggregator{config: config}
}

// builder tracks the shared item counter within one Build call.
type builder struct {
	checklist *Checklist
	sequence  int
}

// add appends an item, drawing its identifier from the shared counter.
func (b *builder) add(prefix, category string, priority Priority, description string, gate Gate, owner string) {
	b.sequence++
	b.checklist.Items = append(b.checklist.Items, Item{
		ID:          fmt.Sprintf("%s-%03d", prefix, b.sequence),
		Category:    category,
		Priority:    priority,
		Description: description,
		Gate:        gate,
		Owner:       owner,
		Status:      StatusOpen,
	})
}

// Build normalizes every input source into one checklist. Sources are
// consumed in a fixed order (validation, red flags, evidence, conflicts,
// classifications, opinions, signature block) so identifiers are
// deterministic for identical inputs.
func (a *Aggregator) Build(entityName, counterpartyName, transactionType string, inputs Inputs) *Checklist {
	b := &builder{checklist: &Checklist{
		EntityName:       entityName,
		CounterpartyName: counterpartyName,
		TransactionType:  transactionType,
		BuiltAt:          a.config.Now(),
	}}

	for _, report := range inputs.Validation {
		a.addFindings(b, report)
	}
	if inputs.RedFlags != nil {
		a.addRedFlags(b, inputs.RedFlags)
	}
	if inputs.Evidence != nil {
		a.addEvidenceGaps(b, inputs.Evidence)
	}
	a.addConflicts(b, inputs.Conflicts)
	a.addClassifications(b, inputs.Classifications)
	a.addOpinions(b, inputs.Opinions)
	if inputs.SignatureBlocked {
		a.addSignatureBlock(b, inputs.SignatureBlockedReason)
	}

	return b.checklist
}

// addFindings maps validation findings: ERROR → HIGH/PRE_GENERATION,
// WARNING → MEDIUM/PRE_SIGNATURE, INFO dropped.
func (a *Aggregator) addFindings(b *builder, report *compliance.Report) {
	for _, finding := range report.Findings {
		switch finding.Severity {
		case compliance.SeverityError:
			b.add(prefixValidation, finding.Code, PriorityHigh, finding.Message,
				GatePreGeneration, OwnerCompliance)
		case compliance.SeverityWarning:
			b.add(prefixValidation, finding.Code, PriorityMedium, finding.Message,
				GatePreSignature, OwnerCompliance)
		}
	}
}

// addRedFlags maps red flags verbatim by severity: CRITICAL gates at
// PRE_GENERATION, HIGH and MEDIUM at PRE_SIGNATURE.
func (a *Aggregator) addRedFlags(b *builder, report *compliance.RedFlagReport) {
	for _, flag := range report.Flags {
		gate := GatePreSignature
		if flag.Severity == compliance.RedFlagCritical {
			gate = GatePreGeneration
		}
		description := flag.Description
		if flag.Recommendation != "" {
			description = fmt.Sprintf("%s; %s", flag.Description, flag.Recommendation)
		}
		b.add(prefixRedFlag, flag.Category, Priority(flag.Severity), description,
			gate, OwnerCompliance)
	}
}

// addEvidenceGaps maps gaps: ERROR → HIGH, WARNING → MEDIUM, all at
// PRE_SIGNATURE, owned by Operations.
func (a *Aggregator) addEvidenceGaps(b *builder, report *evidence.Report) {
	for _, gap := range report.Gaps {
		priority := PriorityMedium
		if gap.Severity == compliance.SeverityError {
			priority = PriorityHigh
		}
		b.add(prefixEvidence, gap.Category, priority, gap.Description,
			GatePreSignature, OwnerOperations)
	}
}

// addConflicts maps conflict findings verbatim, defaulting unrecognized
// severities to MEDIUM. CRITICAL conflicts gate at PRE_GENERATION.
func (a *Aggregator) addConflicts(b *builder, conflicts []ConflictFinding) {
	for _, conflict := range conflicts {
		priority, ok := ParsePriority(conflict.Severity)
		if !ok {
			priority = PriorityMedium
		}
		gate := GatePreSignature
		if priority == PriorityCritical {
			gate = GatePreGeneration
		}
		b.add(prefixConflict, "CONFLICT", priority, conflict.Description, gate, OwnerCounsel)
	}
}

// addClassifications expands each tag into one item per required action.
// CRITICAL risk gates at PRE_GENERATION (Compliance), HIGH at
// PRE_SIGNATURE (Compliance), everything else at PRE_CLOSING (Operations).
func (a *Aggregator) addClassifications(b *builder, tags []ClassificationTag) {
	for _, tag := range tags {
		priority, ok := ParsePriority(tag.RiskLevel)
		if !ok {
			priority = PriorityMedium
		}
		gate, owner := GatePreClosing, OwnerOperations
		switch priority {
		case PriorityCritical:
			gate, owner = GatePreGeneration, OwnerCompliance
		case PriorityHigh:
			gate, owner = GatePreSignature, OwnerCompliance
		}
		for _, action := range tag.RequiredActions {
			b.add(prefixClassification, tag.Name, priority, action, gate, owner)
		}
	}
}

// addOpinions maps opinion conditions: ADVERSE and UNABLE_TO_OPINE grades
// produce HIGH items, anything else MEDIUM, all at PRE_SIGNATURE (Counsel).
func (a *Aggregator) addOpinions(b *builder, opinions []OpinionCondition) {
	for _, opinion := range opinions {
		priority := PriorityMedium
		if opinion.Grade == OpinionAdverse || opinion.Grade == OpinionUnableToOpine {
			priority = PriorityHigh
		}
		b.add(prefixOpinion, "OPINION_CONDITION", priority, opinion.Description,
			GatePreSignature, OwnerCounsel)
	}
}

func (a *Aggregator) addSignatureBlock(b *builder, reason string) {
	if reason == "" {
		reason = "signature explicitly blocked by policy"
	}
	b.add(prefixSignature, "SIGNATURE_BLOCKED", PriorityCritical, reason,
		GatePreSignature, OwnerCounsel)
}
