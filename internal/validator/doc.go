// Package validator independently cross-checks the generator artifacts
// without trusting them: it re-walks every window row's congruence system
// from the stored pattern in the forward direction, recomputes the affine
// parameters and threshold with exact rational arithmetic, and replays
// every funnel trajectory asserting minimality. Validation shares no state
// with generation; the duplication is the certificate's integrity
// mechanism.
//
// A single mismatch anywhere invalidates the whole certificate: every check
// aborts immediately with the offending row and the expected vs. actual
// values. On success the validator derives the summary artifact, binding
// the source tables by SHA-256 and computing the finite-verification bound
// N0* = ceil(2^L * max_threshold).
package validator
