package compliance

import (
	"sort"
	"time"
)

// Severity classifies a validation finding.
type Severity string

const (
	// SeverityError marks a finding that must be resolved before generation.
	SeverityError Severity = "ERROR"

	// SeverityWarning marks a finding that must be resolved before signature.
	SeverityWarning Severity = "WARNING"

	// SeverityInfo marks an advisory observation with no gate impact.
	SeverityInfo Severity = "INFO"
)

// Finding is a single compliance observation. Findings are returned as
// data; the caller decides what action to take.
type Finding struct {
	Severity Severity `json:"severity"`

	// Code is a stable machine-readable identifier (e.g., "LICENSE_EXPIRED").
	Code string `json:"code"`

	Message string `json:"message"`

	// Field optionally references the entity field the finding concerns.
	Field string `json:"field,omitempty"`
}

// Report is the exhaustive output of one validator call.
type Report struct {
	EntityName string    `json:"entity_name"`
	Checker    string    `json:"checker"`
	CheckedAt  time.Time `json:"checked_at"`
	Findings   []Finding `json:"findings"`
}

func (r *Report) add(severity Severity, code, message, field string) {
	r.Findings = append(r.Findings, Finding{
		Severity: severity,
		Code:     code,
		Message:  message,
		Field:    field,
	})
}

// Errors returns the number of ERROR findings.
func (r *Report) Errors() int { return r.countBySeverity(SeverityError) }

// Warnings returns the number of WARNING findings.
func (r *Report) Warnings() int { return r.countBySeverity(SeverityWarning) }

func (r *Report) countBySeverity(s Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}

// Score is the compliance score: max(0, 100 − 15·errors − 5·warnings).
func (r *Report) Score() int {
	score := 100 - 15*r.Errors() - 5*r.Warnings()
	if score < 0 {
		return 0
	}
	return score
}

// Passed reports whether the entity cleared the checker without errors.
func (r *Report) Passed() bool { return r.Errors() == 0 }

// RedFlagSeverity classifies a heuristic risk indicator.
type RedFlagSeverity string

const (
	RedFlagCritical RedFlagSeverity = "CRITICAL"
	RedFlagHigh     RedFlagSeverity = "HIGH"
	RedFlagMedium   RedFlagSeverity = "MEDIUM"
)

// redFlagRank orders red-flag severities most severe first.
var redFlagRank = map[RedFlagSeverity]int{
	RedFlagCritical: 0,
	RedFlagHigh:     1,
	RedFlagMedium:   2,
}

// Rank returns the severity's sort rank; lower is more severe.
func (s RedFlagSeverity) Rank() int {
	if rank, ok := redFlagRank[s]; ok {
		return rank
	}
	return len(redFlagRank)
}

// RedFlag is a single heuristic risk indicator.
type RedFlag struct {
	Category       string          `json:"category"`
	Severity       RedFlagSeverity `json:"severity"`
	Description    string          `json:"description"`
	Recommendation string          `json:"recommendation,omitempty"`
}

// RedFlagReport is the output of one red-flag detector call. Flags keeps
// scan order; Summary returns a severity-ranked view.
type RedFlagReport struct {
	EntityName       string    `json:"entity_name"`
	CounterpartyName string    `json:"counterparty_name,omitempty"`
	CheckedAt        time.Time `json:"checked_at"`
	Flags            []RedFlag `json:"flags"`
}

// Summary returns the flags sorted by severity rank (CRITICAL, HIGH,
// MEDIUM), preserving scan order within a rank. The underlying list is
// not modified.
func (r *RedFlagReport) Summary() []RedFlag {
	out := make([]RedFlag, len(r.Flags))
	copy(out, r.Flags)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() < out[j].Severity.Rank()
	})
	return out
}

// Critical returns the number of CRITICAL flags.
func (r *RedFlagReport) Critical() int {
	n := 0
	for _, f := range r.Flags {
		if f.Severity == RedFlagCritical {
			n++
		}
	}
	return n
}
