package deal

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"mercator-hq/meridian/pkg/policy"
)

// ManagerConfig configures the lifecycle manager.
type ManagerConfig struct {
	// Now overrides the clock, for tests. Nil uses time.Now.
	Now func() time.Time
}

// Manager advances deals through the lifecycle state machine. It holds no
// in-memory state across calls: every transition is a full
// load→mutate→persist round trip, so concurrent transitions on the same
// deal must be serialized by the caller.
type Manager struct {
	store   Store
	policy  *policy.Engine
	metrics *Metrics
	config  ManagerConfig
	logger  *slog.Logger
}

// NewManager creates a lifecycle manager. The policy engine supplies the
// opinion toggles consulted during gate evaluation; nil falls back to an
// empty (advisory) policy. Metrics may be nil.
func NewManager(store Store, policyEngine *policy.Engine, metrics *Metrics, config ManagerConfig) *Manager {
	if policyEngine == nil {
		policyEngine = policy.NewEngine(nil)
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Manager{
		store:   store,
		policy:  policyEngine,
		metrics: metrics,
		config:  config,
		logger:  slog.Default().With("component", "deal.manager"),
	}
}

// Create opens a new deal record in DRAFT.
func (m *Manager) Create(ctx context.Context, id, transactionType, entityName, counterpartyName string, metadata map[string]string) (*Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("deal id must not be empty")
	}
	now := m.config.Now()
	record := &Record{
		ID:               id,
		TransactionType:  transactionType,
		EntityName:       entityName,
		CounterpartyName: counterpartyName,
		State:            StateDraft,
		CreatedAt:        now,
		UpdatedAt:        now,
		Metadata:         metadata,
	}
	if err := m.store.Create(ctx, record); err != nil {
		return nil, err
	}

	m.logger.Info("deal created",
		"deal_id", id,
		"transaction_type", transactionType,
		"entity", entityName,
	)
	return record, nil
}

// Get loads a deal record.
func (m *Manager) Get(ctx context.Context, id string) (*Record, error) {
	return m.store.Get(ctx, id)
}

// List returns every deal record.
func (m *Manager) List(ctx context.Context) ([]*Record, error) {
	return m.store.List(ctx)
}

// Transition attempts to move a deal to the target state.
//
// The adjacency check runs before any gate evaluation and is never
// bypassed: force only skips gate-failure substitution, not the state
// graph. Gate dimensions are evaluated only for inputs the caller actually
// supplied. When any supplied dimension fails and force is not set, the
// actual resulting state becomes BLOCKED regardless of the requested
// target, with a defaulted reason if the caller gave none. Every attempt
// that passes the adjacency check appends an immutable StateTransition
// carrying the full gate-check map, then persists the record.
func (m *Manager) Transition(ctx context.Context, id string, target State, actor, reason string, inputs GateInputs, force bool) (*Record, error) {
	record, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !record.State.CanTransitionTo(target) {
		m.metrics.recordTransition(string(record.State), string(target), "rejected")
		return nil, invalidTransition(record.State, target)
	}

	checks := evaluateGates(target, inputs, m.policy)
	failed := failedDimensions(checks)

	actual := target
	result := "completed"
	switch {
	case len(failed) > 0 && !force:
		actual = StateBlocked
		result = "blocked"
		if reason == "" {
			reason = fmt.Sprintf("gate check failed: %s", strings.Join(failed, ", "))
		}
	case len(failed) > 0 && force:
		result = "forced"
	}

	for _, dimension := range failed {
		m.metrics.recordGateFailure(dimension)
	}

	now := m.config.Now()
	record.Transitions = append(record.Transitions, StateTransition{
		From:       record.State,
		To:         actual,
		Timestamp:  now,
		Actor:      actor,
		Reason:     reason,
		GateChecks: checks,
		Forced:     force && len(failed) > 0,
	})
	previous := record.State
	record.State = actual
	record.UpdatedAt = now

	if err := m.store.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to persist transition for deal %q: %w", id, err)
	}

	m.metrics.recordTransition(string(previous), string(actual), result)
	m.logger.Info("deal transitioned",
		"deal_id", id,
		"from", previous,
		"requested", target,
		"to", actual,
		"actor", actor,
		"result", result,
		"gate_failures", len(failed),
	)
	return record, nil
}
