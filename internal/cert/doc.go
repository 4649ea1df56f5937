// Package cert provides the foundational types and arithmetic for the
// Collatz descent-certificate pipeline.
//
// This package contains the configuration bundle, the pattern (composition)
// enumerator, the congruence solver, the accelerated Collatz step, exact
// fraction formatting, and the pipeline error kinds. All other internal
// packages import cert; cert imports nothing internal. This keeps it the
// foundational layer with no circular dependencies.
//
// Key design constraints:
//   - All certificate arithmetic is exact: math/big integers and rationals
//     in lowest terms, never floating point.
//   - Residues at the working modulus fit uint64; Config.Validate enforces
//     a modulus power small enough that 3x+1 cannot overflow.
//   - Values are immutable after creation; derivation functions are pure.
package cert
