// Package policy implements the enforcement policy engine.
//
// A policy document is a versioned set of named control sections, each
// mapping condition keys to an enforcement value (block, warn, silent),
// plus global settings: the execution tier, opinion toggles, disclaimer,
// and audit behavior.
//
// Lookups follow two paths. With an explicit section, the key is resolved
// inside that section and defaults to warn when absent. Without a section,
// sections are scanned in declaration order and the first section that
// contains the key wins. Declaration order is preserved from the YAML
// document, so section ordering in the policy file is significant.
//
// Execution tier 1 (Advisory) is a global override: ShouldBlock always
// returns false in tier 1 regardless of configured enforcement values.
// A missing policy file is never an error; the engine falls back to an
// empty tier-1 policy where every condition defaults to warn.
package policy
