package cert

import (
	"fmt"
	"math/big"
	"strings"
)

// FormatRat renders an exact rational as "num" or "num/den". big.Rat keeps
// values in lowest terms with a positive denominator, so the encoding is
// canonical: no redundant "/1" suffix and no sign ambiguity.
func FormatRat(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.Num().String() + "/" + r.Denom().String()
}

// ParseRat parses the "num" or "num/den" encoding produced by FormatRat.
func ParseRat(s string) (*big.Rat, error) {
	numText, denText, hasDen := strings.Cut(s, "/")
	num, ok := new(big.Int).SetString(numText, 10)
	if !ok {
		return nil, fmt.Errorf("invalid fraction numerator %q", s)
	}
	if !hasDen {
		return new(big.Rat).SetInt(num), nil
	}
	den, ok := new(big.Int).SetString(denText, 10)
	if !ok || den.Sign() == 0 {
		return nil, fmt.Errorf("invalid fraction denominator %q", s)
	}
	return new(big.Rat).SetFrac(num, den), nil
}
