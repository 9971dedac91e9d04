package deal

import (
	"fmt"
	"strings"
	"time"
)

// State is a deal lifecycle state.
type State string

const (
	StateDraft                 State = "DRAFT"
	StateReview                State = "REVIEW"
	StateConditionallyApproved State = "CONDITIONALLY_APPROVED"
	StateApproved              State = "APPROVED"
	StateBlocked               State = "BLOCKED"
	StateExecuted              State = "EXECUTED"
	StateClosed                State = "CLOSED"
)

// adjacency is the authoritative, exhaustive transition table. CLOSED is
// terminal and has no outgoing edges.
var adjacency = map[State][]State{
	StateDraft:                 {StateReview},
	StateReview:                {StateConditionallyApproved, StateBlocked},
	StateConditionallyApproved: {StateApproved, StateBlocked, StateReview},
	StateApproved:              {StateExecuted, StateBlocked},
	StateBlocked:               {StateReview},
	StateExecuted:              {StateClosed},
	StateClosed:                {},
}

// Valid reports whether s is a member of the state set.
func (s State) Valid() bool {
	_, ok := adjacency[s]
	return ok
}

// CanTransitionTo reports whether target is adjacent to s.
func (s State) CanTransitionTo(target State) bool {
	for _, next := range adjacency[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Terminal reports whether the state has no outgoing transitions.
func (s State) Terminal() bool { return len(adjacency[s]) == 0 }

// States returns every lifecycle state in a fixed order.
func States() []State {
	return []State{
		StateDraft, StateReview, StateConditionallyApproved,
		StateApproved, StateBlocked, StateExecuted, StateClosed,
	}
}

// ValidateStateGraph checks the structural invariants of the adjacency
// table: CLOSED is the only terminal state and every non-terminal state
// has a path to CLOSED. Run at startup or in tests.
func ValidateStateGraph() error {
	for _, s := range States() {
		if s.Terminal() {
			if s != StateClosed {
				return fmt.Errorf("state %s is terminal but only %s may be", s, StateClosed)
			}
			continue
		}
		if !reaches(s, StateClosed, map[State]bool{}) {
			return fmt.Errorf("state %s has no path to %s", s, StateClosed)
		}
	}
	if len(adjacency[StateClosed]) != 0 {
		return fmt.Errorf("state %s must have no outgoing transitions", StateClosed)
	}
	return nil
}

func reaches(from, to State, visited map[State]bool) bool {
	if from == to {
		return true
	}
	visited[from] = true
	for _, next := range adjacency[from] {
		if !visited[next] && reaches(next, to, visited) {
			return true
		}
	}
	return false
}

// GateCheck records the evaluation of one gate dimension. Values and
// thresholds are recorded as strings so the record round-trips losslessly.
type GateCheck struct {
	// Value is the supplied input, rendered as text.
	Value string `json:"value"`

	// Threshold describes what the value was tested against, e.g.
	// ">= 50" or "not in {ADVERSE}".
	Threshold string `json:"threshold"`

	Passed bool `json:"passed"`
}

// StateTransition is one immutable entry in a deal's transition history.
type StateTransition struct {
	From      State     `json:"from"`
	To        State     `json:"to"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Reason    string    `json:"reason,omitempty"`

	// GateChecks maps gate dimension names to their evaluation results.
	// Recorded even when the transition was forced past a failure.
	GateChecks map[string]GateCheck `json:"gate_checks,omitempty"`

	// Forced records that the caller bypassed gate-failure substitution.
	Forced bool `json:"forced,omitempty"`
}

// Record is the persisted lifecycle state for one deal. Records are
// created once in DRAFT and only ever mutated through Transition; they
// are never deleted.
type Record struct {
	ID               string            `json:"id"`
	TransactionType  string            `json:"transaction_type"`
	EntityName       string            `json:"entity_name"`
	CounterpartyName string            `json:"counterparty_name,omitempty"`
	State            State             `json:"state"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	Transitions      []StateTransition `json:"transitions"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// Slug normalizes a deal ID into the key used by document stores.
func Slug(id string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(id)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.', r == '/':
			b.WriteRune('_')
		}
	}
	return b.String()
}
