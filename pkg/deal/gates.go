package deal

import (
	"fmt"
	"sort"
	"strings"

	"mercator-hq/meridian/pkg/policy"
)

// Risk tiers in the vocabulary of the classification pipeline.
const (
	RiskTierCritical = "CRITICAL"
)

// Opinion grades in the vocabulary of the legal-opinion pipeline.
const (
	OpinionAdverse       = "ADVERSE"
	OpinionUnableToOpine = "UNABLE_TO_OPINE"
)

// Gate dimension names as recorded in the gate-check map.
const (
	gateComplianceScore = "compliance_score"
	gateOpinionGrade    = "opinion_grade"
	gateRiskTier        = "risk_tier"
	gateClearToClose    = "clear_to_close"
)

// reviewScoreThreshold is the minimum compliance score to leave REVIEW.
const reviewScoreThreshold = 50

// GateInputs carries the optional gate signals for one transition. A nil
// field means the caller supplied no value for that dimension, and the
// dimension is simply not evaluated.
type GateInputs struct {
	// ComplianceScore is the aggregated compliance score (0-100).
	ComplianceScore *int

	// OpinionGrade is the legal opinion grade (CLEAN, QUALIFIED,
	// ADVERSE, UNABLE_TO_OPINE).
	OpinionGrade *string

	// RiskTier is the risk classification tier.
	RiskTier *string

	// ChecklistClear is the execution checklist's clear-to-close verdict.
	ChecklistClear *bool
}

// evaluateGates evaluates the gate dimensions applicable to the requested
// target, one entry per supplied input. Dimensions whose input was not
// supplied are absent from the result.
func evaluateGates(target State, inputs GateInputs, pol *policy.Engine) map[string]GateCheck {
	checks := map[string]GateCheck{}

	switch target {
	case StateConditionallyApproved:
		if inputs.ComplianceScore != nil {
			score := *inputs.ComplianceScore
			checks[gateComplianceScore] = GateCheck{
				Value:     fmt.Sprintf("%d", score),
				Threshold: fmt.Sprintf(">= %d", reviewScoreThreshold),
				Passed:    score >= reviewScoreThreshold,
			}
		}
		if inputs.OpinionGrade != nil {
			blocked := []string{OpinionAdverse}
			if pol.UnableToOpineBlocksSignature() {
				blocked = append(blocked, OpinionUnableToOpine)
			}
			checks[gateOpinionGrade] = gradeCheck(*inputs.OpinionGrade, blocked)
		}
		if inputs.RiskTier != nil {
			tier := *inputs.RiskTier
			checks[gateRiskTier] = GateCheck{
				Value:     tier,
				Threshold: fmt.Sprintf("!= %s", RiskTierCritical),
				Passed:    tier != RiskTierCritical,
			}
		}

	case StateApproved:
		if inputs.ChecklistClear != nil {
			checks[gateClearToClose] = clearCheck(*inputs.ChecklistClear)
		}
		if pol.AdverseBlocksSignature() && inputs.OpinionGrade != nil {
			checks[gateOpinionGrade] = gradeCheck(*inputs.OpinionGrade, []string{OpinionAdverse})
		}

	case StateExecuted:
		if inputs.ChecklistClear != nil {
			checks[gateClearToClose] = clearCheck(*inputs.ChecklistClear)
		}
	}

	return checks
}

func gradeCheck(grade string, blocked []string) GateCheck {
	passed := true
	for _, b := range blocked {
		if grade == b {
			passed = false
			break
		}
	}
	return GateCheck{
		Value:     grade,
		Threshold: fmt.Sprintf("not in {%s}", strings.Join(blocked, ", ")),
		Passed:    passed,
	}
}

func clearCheck(clear bool) GateCheck {
	return GateCheck{
		Value:     fmt.Sprintf("%t", clear),
		Threshold: "== true",
		Passed:    clear,
	}
}

// failedDimensions returns the names of failed checks, sorted for
// deterministic reason text.
func failedDimensions(checks map[string]GateCheck) []string {
	var failed []string
	for name, check := range checks {
		if !check.Passed {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)
	return failed
}
