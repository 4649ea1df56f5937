package windows

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"

	"github.com/roach88/descent/internal/cert"
)

// Record is one window row: a residue class proven, via a fixed step
// pattern, to contract by the affine map n -> A*n + B once n exceeds N0.
//
// Records are immutable after creation. Projection duplicates a record per
// compatible lift, varying only Residue.
type Record struct {
	// Residue is the projected residue modulo 2^ModulusPower. Always odd.
	Residue uint64

	// ExactResidue is the unique solution of the pattern's congruence
	// system, modulo 2^(K+1).
	ExactResidue *big.Int

	// J is the pattern length (number of accelerated steps).
	J int

	// K is the cumulative 2-adic valuation removed across the pattern.
	K int

	// Pattern holds the per-step valuations s_1..s_j.
	Pattern []int

	// A = 3^j / 2^K. Valid windows satisfy 0 < A < 1.
	A *big.Rat

	// B = c_j / 2^K, the accumulated affine offset.
	B *big.Rat

	// N0 = B / (1 - A); members of the class above N0 strictly decrease
	// after j accelerated steps.
	N0 *big.Rat
}

// NewRecord solves the congruence system for a pattern and derives the
// affine descent parameters. It returns nil when A = 3^j/2^K >= 1: such a
// pattern guarantees no descent and is discarded before emission, which is
// also what makes the later division by 1-A safe.
func NewRecord(pattern []int) *Record {
	exact, k := cert.SolveResidue(pattern)
	j := len(pattern)
	threePow := new(big.Int).Exp(big.NewInt(3), big.NewInt(int64(j)), nil)
	twoPow := new(big.Int).Lsh(big.NewInt(1), uint(k))
	if threePow.Cmp(twoPow) >= 0 {
		return nil
	}
	a := new(big.Rat).SetFrac(threePow, twoPow)
	b := new(big.Rat).SetFrac(cert.CumulativeOffset(pattern), twoPow)
	oneMinusA := new(big.Rat).Sub(new(big.Rat).SetInt64(1), a)
	n0 := new(big.Rat).Quo(b, oneMinusA)
	return &Record{
		ExactResidue: exact,
		J:            j,
		K:            k,
		Pattern:      append([]int(nil), pattern...),
		A:            a,
		B:            b,
		N0:           n0,
	}
}

// ExactModulus returns the window's natural modulus 2^(K+1).
func (r *Record) ExactModulus() *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), uint(r.K+1))
}

// Project lifts the exact residue to the working modulus 2^modulusPower.
//
// When the natural modulus 2^(K+1) already meets or exceeds the working
// modulus, the exact residue reduces to a single projected record.
// Otherwise the class is coarser than the target resolution and every lift
// exactResidue + offset*2^(K+1) below the working modulus is enumerated,
// keeping only odd lifts — the full coset at the working resolution.
func (r *Record) Project(modulusPower int) []Record {
	modulus := uint64(1) << uint(modulusPower)
	if r.K+1 >= modulusPower {
		projected := *r
		projected.Residue = new(big.Int).Mod(r.ExactResidue, new(big.Int).SetUint64(modulus)).Uint64()
		return []Record{projected}
	}
	stride := uint64(1) << uint(r.K+1)
	copies := uint64(1) << uint(modulusPower-r.K-1)
	base := r.ExactResidue.Uint64()
	out := make([]Record, 0, copies)
	for offset := uint64(0); offset < copies; offset++ {
		candidate := base + offset*stride
		if candidate%2 == 0 {
			continue
		}
		projected := *r
		projected.Residue = candidate % modulus
		out = append(out, projected)
	}
	return out
}

// Header returns the window CSV header for the working modulus.
func Header(modulus uint64) []string {
	return []string{
		fmt.Sprintf("target_residue_mod_%d", modulus),
		"exact_residue_modulus",
		"exact_residue",
		"j",
		"K",
		"s_vec",
		"A",
		"B",
		"N0",
	}
}

// row renders the record as a CSV row. s_vec is a JSON-encoded integer
// array; fractions use the canonical "num"/"num/den" encoding.
func (r *Record) row() ([]string, error) {
	sVec, err := json.Marshal(r.Pattern)
	if err != nil {
		return nil, fmt.Errorf("encoding pattern %v: %w", r.Pattern, err)
	}
	return []string{
		strconv.FormatUint(r.Residue, 10),
		r.ExactModulus().String(),
		r.ExactResidue.String(),
		strconv.Itoa(r.J),
		strconv.Itoa(r.K),
		string(sVec),
		cert.FormatRat(r.A),
		cert.FormatRat(r.B),
		cert.FormatRat(r.N0),
	}, nil
}
