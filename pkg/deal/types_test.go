package deal

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func TestStateGraph(t *testing.T) {
	if err := ValidateStateGraph(); err != nil {
		t.Fatalf("ValidateStateGraph() = %v", err)
	}

	tests := []struct {
		from State
		to   State
		ok   bool
	}{
		{StateDraft, StateReview, true},
		{StateDraft, StateConditionallyApproved, false},
		{StateDraft, StateApproved, false},
		{StateReview, StateConditionallyApproved, true},
		{StateReview, StateBlocked, true},
		{StateReview, StateExecuted, false},
		{StateConditionallyApproved, StateApproved, true},
		{StateConditionallyApproved, StateBlocked, true},
		{StateConditionallyApproved, StateReview, true},
		{StateApproved, StateExecuted, true},
		{StateApproved, StateBlocked, true},
		{StateApproved, StateClosed, false},
		{StateBlocked, StateReview, true},
		{StateBlocked, StateApproved, false},
		{StateExecuted, StateClosed, true},
		{StateExecuted, StateBlocked, false},
		{StateClosed, StateReview, false},
		{StateClosed, StateDraft, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.ok {
			t.Errorf("CanTransitionTo(%s -> %s) = %t, want %t", tt.from, tt.to, got, tt.ok)
		}
	}
}

func TestStateTerminal(t *testing.T) {
	for _, s := range States() {
		want := s == StateClosed
		if got := s.Terminal(); got != want {
			t.Errorf("%s.Terminal() = %t, want %t", s, got, want)
		}
	}
	if State("IMAGINARY").Valid() {
		t.Error("unknown state must not validate")
	}
}

func TestRecordJSONRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	record := &Record{
		ID:               "DEAL-2026-001",
		TransactionType:  "cross_border_payment",
		EntityName:       "Solid Holdings Ltd",
		CounterpartyName: "Opaque Trading FZE",
		State:            StateBlocked,
		CreatedAt:        now,
		UpdatedAt:        now.Add(time.Hour),
		Transitions: []StateTransition{
			{From: StateDraft, To: StateReview, Timestamp: now, Actor: "ops"},
			{
				From:      StateReview,
				To:        StateBlocked,
				Timestamp: now.Add(time.Hour),
				Actor:     "ops",
				Reason:    "gate check failed: compliance_score",
				GateChecks: map[string]GateCheck{
					"compliance_score": {Value: "10", Threshold: ">= 50", Passed: false},
					"risk_tier":        {Value: "HIGH", Threshold: "!= CRITICAL", Passed: true},
				},
			},
		},
		Metadata: map[string]string{"desk": "emea"},
	}

	data, err := json.Marshal(record)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !reflect.DeepEqual(record, &decoded) {
		t.Errorf("round trip drifted:\n got %+v\nwant %+v", &decoded, record)
	}
}

func TestDealSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DEAL-2026-001", "deal_2026_001"},
		{"  spaced id  ", "spaced_id"},
		{"a/b.c", "a_b_c"},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
