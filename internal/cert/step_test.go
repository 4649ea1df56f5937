package cert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcceleratedStep(t *testing.T) {
	tests := []struct {
		x, modulus, expected uint64
	}{
		{1, 32, 1},   // 4 -> 1
		{3, 32, 5},   // 10 -> 5
		{7, 32, 11},  // 22 -> 11
		{31, 32, 15}, // 94 -> 47 -> 15 mod 32
		{5, 256, 1},  // 16 -> 1, full valuation stripped in one step
		{21, 64, 1},  // 64 -> 1
		{113, 256, 85}, // 340 -> 85
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, AcceleratedStep(tt.x, tt.modulus), "x=%d mod %d", tt.x, tt.modulus)
	}
}

func TestAcceleratedStepAlwaysOdd(t *testing.T) {
	const modulus = 1 << 10
	for x := uint64(1); x < modulus; x += 2 {
		got := AcceleratedStep(x, modulus)
		assert.Equal(t, uint64(1), got%2, "x=%d", x)
	}
}
