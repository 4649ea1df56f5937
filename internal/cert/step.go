package cert

import "math/bits"

// AcceleratedStep applies the accelerated Collatz map
//
//	x -> (3x + 1) / 2^v  (mod modulus)
//
// where v is the 2-adic valuation of 3x+1, stripping all trailing binary
// zeros in one operation. This single primitive is shared by the window
// generator, the funnel search, and the validator's trajectory replay.
//
// x must be below the modulus and the modulus below 2^62 so that 3x+1
// cannot overflow; Config.Validate guarantees both.
func AcceleratedStep(x, modulus uint64) uint64 {
	v := 3*x + 1
	v >>= uint(bits.TrailingZeros64(v))
	return v % modulus
}
