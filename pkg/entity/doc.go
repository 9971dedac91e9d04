// Package entity defines the input data model for compliance evaluation:
// the legal parties being assessed (entities and counterparties), their
// licenses, officers and ownership structure, and the transaction types
// they participate in.
//
// It also loads the external reference data the rule checkers consume:
// per-jurisdiction licensing rules and the regulatory-claim matrix. Both
// are opaque structured documents; a missing reference file degrades to
// permissive defaults rather than an error, so callers can always run
// checks even on a bare installation.
//
// Values in this package are read-only inputs. The checkers never mutate
// them and never retain them across calls.
package entity
