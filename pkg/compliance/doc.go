// Package compliance implements the in-memory rule checkers: the general
// compliance validator, the red-flag detector, and the regulatory-claim
// validator.
//
// Each checker exposes one pure Check operation over entity, counterparty,
// and transaction-type inputs and returns an exhaustive typed report. No
// check short-circuits: every constituent scan runs on every call so
// downstream aggregation never needs a second pass. Findings are data,
// never errors: a checker only fails when its inputs are unusable, which
// the data model makes impossible by construction.
//
// The checkers hold no state between calls and never mutate their inputs;
// they may safely be invoked concurrently.
package compliance
