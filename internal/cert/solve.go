package cert

import "math/big"

var (
	one   = big.NewInt(1)
	three = big.NewInt(3)
)

// SolveResidue walks the congruence recurrence for a pattern and returns the
// unique residue modulo 2^(K+1) together with the cumulative valuation K.
//
// At step t (1-based) the accumulated valuation is K_t and the affine offset
// is c_t = 3*c_{t-1} + 2^{K_{t-1}}. The residue r must satisfy
//
//	3^t * r + 3*c_{t-1} + 2^{K_{t-1}} == 2^{K_t}  (mod 2^{K_t + 1})
//
// which is solved by multiplying the right-hand side with the modular
// inverse of 3^t (3 is odd, so the inverse always exists).
func SolveResidue(pattern []int) (*big.Int, int) {
	kT := 0
	cT := big.NewInt(0)
	residue := new(big.Int)
	for idx, s := range pattern {
		kNext := kT + s
		modulus := pow2(kNext + 1)
		rhs := pow2(kNext)
		rhs.Sub(rhs, new(big.Int).Mul(three, cT))
		rhs.Sub(rhs, pow2(kT))
		rhs.Mod(rhs, modulus)
		threePow := new(big.Int).Exp(three, big.NewInt(int64(idx+1)), modulus)
		inv := new(big.Int).ModInverse(threePow, modulus)
		residue.Mul(inv, rhs)
		residue.Mod(residue, modulus)
		cT.Mul(cT, three)
		cT.Add(cT, pow2(kT))
		kT = kNext
	}
	return residue, kT
}

// CumulativeOffset returns c_j for a pattern via the recurrence
// c_0 = 0, c_t = 3*c_{t-1} + 2^{K_{t-1}}.
func CumulativeOffset(pattern []int) *big.Int {
	kT := 0
	c := big.NewInt(0)
	for _, s := range pattern {
		c.Mul(c, three)
		c.Add(c, pow2(kT))
		kT += s
	}
	return c
}

// pow2 returns 2^n as a fresh big integer.
func pow2(n int) *big.Int {
	return new(big.Int).Lsh(one, uint(n))
}
