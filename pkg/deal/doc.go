// Package deal implements the policy-gated deal lifecycle state machine.
//
// A deal record moves through a fixed state graph (DRAFT through CLOSED)
// along an authoritative adjacency table. Every transition attempt loads
// the record, rejects unreachable targets before anything else, evaluates
// the gate dimensions relevant to the requested target, and appends an
// immutable StateTransition capturing the outcome and the full gate-check
// map. A failed gate substitutes BLOCKED for the requested target unless
// the caller forces the transition; nothing ever bypasses the adjacency
// table, force included.
//
// The manager holds no in-memory state: every transition is a full
// load→mutate→persist round trip against a Store. The model provides no
// optimistic versioning, so callers running concurrent transitions on the
// same deal must serialize them externally.
//
// Stores: in-memory (tests), JSON documents on disk (one file per deal,
// keyed by the normalized deal-id slug), and SQLite.
package deal
