package cert

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveResidueSingleStep(t *testing.T) {
	// Pattern [1]: modulus 4, rhs = (-(0+1)+2) mod 4 = 1, inv(3) mod 4 = 3,
	// residue 3 mod 4. The window itself is later rejected (A = 3/2).
	residue, k := SolveResidue([]int{1})
	assert.Equal(t, int64(3), residue.Int64())
	assert.Equal(t, 1, k)

	// Pattern [2]: modulus 8, rhs = (-1+4) mod 8 = 3, inv(3) mod 8 = 3,
	// residue 9 mod 8 = 1.
	residue, k = SolveResidue([]int{2})
	assert.Equal(t, int64(1), residue.Int64())
	assert.Equal(t, 2, k)
}

func TestSolveResidueKnownPatterns(t *testing.T) {
	tests := []struct {
		pattern []int
		residue int64
		k       int
	}{
		{[]int{2, 2}, 1, 4},
		{[]int{3}, 13, 3},
		{[]int{3, 2}, 45, 5},
		{[]int{2, 3}, 17, 5},
		{[]int{1, 3}, 19, 4},
		{[]int{3, 1}, 29, 4},
	}
	for _, tt := range tests {
		residue, k := SolveResidue(tt.pattern)
		assert.Equal(t, tt.residue, residue.Int64(), "pattern %v", tt.pattern)
		assert.Equal(t, tt.k, k, "pattern %v", tt.pattern)
	}
}

// TestSolveResidueSatisfiesCongruences re-checks the solved residue in the
// forward direction: 3^t*r + 3*c_{t-1} + 2^{K_{t-1}} == 2^{K_t} modulo
// 2^{K_t+1} for every prefix length t.
func TestSolveResidueSatisfiesCongruences(t *testing.T) {
	patterns := [][]int{
		{1}, {2}, {4}, {2, 2}, {3, 2}, {1, 4}, {4, 1}, {1, 4, 2}, {2, 2, 2}, {1, 1, 2, 4},
	}
	three := big.NewInt(3)
	for _, pattern := range patterns {
		residue, kTotal := SolveResidue(pattern)
		kT := 0
		cT := big.NewInt(0)
		for idx, s := range pattern {
			kNext := kT + s
			modulus := new(big.Int).Lsh(big.NewInt(1), uint(kNext+1))
			lhs := new(big.Int).Exp(three, big.NewInt(int64(idx+1)), modulus)
			lhs.Mul(lhs, residue)
			lhs.Add(lhs, new(big.Int).Mul(three, cT))
			lhs.Add(lhs, new(big.Int).Lsh(big.NewInt(1), uint(kT)))
			lhs.Mod(lhs, modulus)
			expected := new(big.Int).Lsh(big.NewInt(1), uint(kNext))
			require.Zero(t, lhs.Cmp(expected), "pattern %v step %d", pattern, idx)
			cT.Mul(cT, three)
			cT.Add(cT, new(big.Int).Lsh(big.NewInt(1), uint(kT)))
			kT = kNext
		}
		require.Equal(t, kTotal, kT, "pattern %v", pattern)
	}
}

func TestCumulativeOffset(t *testing.T) {
	tests := []struct {
		pattern []int
		offset  int64
	}{
		{[]int{2}, 1},
		{[]int{2, 2}, 7},  // 3*1 + 2^2
		{[]int{3, 2}, 11}, // 3*1 + 2^3
		{[]int{1, 3}, 5},  // 3*1 + 2^1
		{[]int{2, 2, 2}, 37},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.offset, CumulativeOffset(tt.pattern).Int64(), "pattern %v", tt.pattern)
	}
}
