// Package windows implements the window generator: symbolic enumeration of
// bounded parity patterns, congruence solving for the residue class each
// pattern pins down, derivation of the affine descent parameters A, B and
// the exact threshold N0, and projection of every valid window onto the
// fixed working modulus.
//
// The generator emits two artifacts: the window table (windows.csv, sorted
// by projected residue for deterministic output) and a coverage statistics
// sidecar (windows.stats.json).
package windows
