// Package checklist normalizes the heterogeneous outputs of the rule
// checkers (validation findings, red flags, evidence gaps, conflict
// findings, classification tags, and opinion conditions) into one
// prioritized, gated execution checklist.
//
// Normalization follows a fixed mapping table: each source item becomes a
// checklist item with a priority, a gate (the lifecycle checkpoint it must
// clear), a responsible role, and an identifier drawn from a single
// monotonically increasing counter shared across all sources within one
// build. The checklist derives a clear-to-close verdict from the status of
// every item gated before or at closing; post-closing items never affect it.
package checklist
