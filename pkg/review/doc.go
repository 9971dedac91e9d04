// Package review runs scheduled compliance re-reviews of open deals.
//
// Compliance signals drift between transitions: sanctions screenings go
// stale, licenses expire. The reviewer periodically re-runs the compliance
// validator for every deal in a non-terminal state and logs deals whose
// score has dropped below the review gate, so operators can pull them back
// to REVIEW before the drift surfaces at signature.
//
// The reviewer only observes; it never transitions a deal itself.
package review
