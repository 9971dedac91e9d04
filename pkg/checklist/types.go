package checklist

import (
	"sort"
	"strings"
	"time"
)

// Priority ranks a checklist item.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
	PriorityInfo     Priority = "INFO"
)

var priorityRank = map[Priority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
	PriorityInfo:     4,
}

// Rank returns the priority's sort rank; lower is more urgent.
func (p Priority) Rank() int {
	if rank, ok := priorityRank[p]; ok {
		return rank
	}
	return len(priorityRank)
}

// ParsePriority maps a free-form severity string onto a Priority. The
// second return is false when the string is unrecognized.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := priorityRank[p]
	return p, ok
}

// Gate is the lifecycle checkpoint an item must clear.
type Gate string

const (
	GatePreGeneration Gate = "PRE_GENERATION"
	GatePreSignature  Gate = "PRE_SIGNATURE"
	GatePreClosing    Gate = "PRE_CLOSING"
	GatePostClosing   Gate = "POST_CLOSING"
)

// GateOrder is the display and evaluation order of gates.
var GateOrder = []Gate{GatePreGeneration, GatePreSignature, GatePreClosing, GatePostClosing}

// blocking reports whether items at this gate count against clear-to-close.
func (g Gate) blocking() bool { return g != GatePostClosing }

// Status is the resolution state of a checklist item.
type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCleared    Status = "CLEARED"
	StatusWaived     Status = "WAIVED"
)

// Resolved reports whether the status satisfies its gate.
func (s Status) Resolved() bool { return s == StatusCleared || s == StatusWaived }

// Item is one normalized checklist entry.
type Item struct {
	// ID is unique within one aggregation build, formatted
	// "<source-prefix>-<3-digit sequence>" from a counter shared across
	// all sources.
	ID string `json:"id"`

	// Category identifies the kind of concern (source category or code).
	Category string `json:"category"`

	Priority    Priority `json:"priority"`
	Description string   `json:"description"`
	Gate        Gate     `json:"gate"`

	// Owner is the responsible role: Compliance, Operations, or Counsel.
	Owner string `json:"owner"`

	Status Status `json:"status"`
}

// Checklist is the ordered set of items for one entity/counterparty/
// transaction triple.
type Checklist struct {
	EntityName       string    `json:"entity_name"`
	CounterpartyName string    `json:"counterparty_name,omitempty"`
	TransactionType  string    `json:"transaction_type,omitempty"`
	BuiltAt          time.Time `json:"built_at"`
	Items            []Item    `json:"items"`
}

// Counts summarizes item totals by status.
type Counts struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"in_progress"`
	Cleared    int `json:"cleared"`
	Waived     int `json:"waived"`
}

// Counts returns item totals by status.
func (c *Checklist) Counts() Counts {
	counts := Counts{Total: len(c.Items)}
	for _, item := range c.Items {
		switch item.Status {
		case StatusOpen:
			counts.Open++
		case StatusInProgress:
			counts.InProgress++
		case StatusCleared:
			counts.Cleared++
		case StatusWaived:
			counts.Waived++
		}
	}
	return counts
}

// ClearToClose reports whether every item gated PRE_GENERATION,
// PRE_SIGNATURE, or PRE_CLOSING is CLEARED or WAIVED. POST_CLOSING items
// never affect the verdict.
func (c *Checklist) ClearToClose() bool {
	for _, item := range c.Items {
		if item.Gate.blocking() && !item.Status.Resolved() {
			return false
		}
	}
	return true
}

// SetStatus updates the status of the item with the given ID.
func (c *Checklist) SetStatus(id string, status Status) bool {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Status = status
			return true
		}
	}
	return false
}

// ByGate returns the items grouped for display: gates in GateOrder, items
// within a gate sorted by priority rank (build order within a rank).
func (c *Checklist) ByGate() map[Gate][]Item {
	grouped := make(map[Gate][]Item, len(GateOrder))
	for _, item := range c.Items {
		grouped[item.Gate] = append(grouped[item.Gate], item)
	}
	for gate, items := range grouped {
		sorted := make([]Item, len(items))
		copy(sorted, items)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Priority.Rank() < sorted[j].Priority.Rank()
		})
		grouped[gate] = sorted
	}
	return grouped
}

// ConflictFinding is an externally produced conflict-of-interest finding.
type ConflictFinding struct {
	// Severity is the source system's severity string; "CRITICAL" routes
	// the item to the PRE_GENERATION gate.
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// ClassificationTag is an externally produced risk classification. Each
// required action expands into its own checklist item.
type ClassificationTag struct {
	Name            string   `json:"name"`
	RiskLevel       string   `json:"risk_level"`
	RequiredActions []string `json:"required_actions"`
}

// Opinion grades in the vocabulary of the legal-opinion pipeline.
const (
	OpinionClean         = "CLEAN"
	OpinionQualified     = "QUALIFIED"
	OpinionAdverse       = "ADVERSE"
	OpinionUnableToOpine = "UNABLE_TO_OPINE"
)

// OpinionCondition is a condition attached to a legal opinion.
type OpinionCondition struct {
	Grade       string `json:"grade"`
	Description string `json:"description"`
}
