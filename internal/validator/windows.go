package validator

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"

	"github.com/roach88/descent/internal/cert"
)

// WindowCheck aggregates what the funnel re-check and the summary need from
// a fully validated window table.
type WindowCheck struct {
	Thresholds []*big.Rat
	Residues   map[uint64]struct{}
	MaxJ       int
	MaxK       int
	Rows       int
}

// windowColumns maps the window CSV header to field indices.
type windowColumns struct {
	residue, exactModulus, exactResidue, j, k, sVec, a, b, n0 int
}

var one = big.NewInt(1)

// ValidateWindows re-derives every algebraic claim in the window table.
// For each row it checks residue parity, the stored exact modulus, the
// pattern length, every per-step congruence in the forward direction, the
// cumulative valuation, and bit-for-bit equality of the stored A, B, N0
// with exact recomputation, including A < 1.
func ValidateWindows(path string, modulusPower int) (*WindowCheck, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cert.NewError(cert.KindMissingInput, "window table not found: %s", path)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, cert.NewError(cert.KindMalformedRow, "reading window table header: %v", err)
	}
	cols, err := resolveWindowColumns(header, modulusPower)
	if err != nil {
		return nil, err
	}

	check := &WindowCheck{Residues: make(map[uint64]struct{})}
	for row := 1; ; row++ {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, cert.NewRowError(cert.KindMalformedRow, row, "reading window table: %v", err)
		}
		if err := validateWindowRow(fields, cols, row, check); err != nil {
			return nil, err
		}
		check.Rows++
	}
	return check, nil
}

func resolveWindowColumns(header []string, modulusPower int) (windowColumns, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[name] = i
	}
	cols := windowColumns{}
	residueField := fmt.Sprintf("target_residue_mod_%d", uint64(1)<<uint(modulusPower))
	for _, want := range []struct {
		name string
		dst  *int
	}{
		{residueField, &cols.residue},
		{"exact_residue_modulus", &cols.exactModulus},
		{"exact_residue", &cols.exactResidue},
		{"j", &cols.j},
		{"K", &cols.k},
		{"s_vec", &cols.sVec},
		{"A", &cols.a},
		{"B", &cols.b},
		{"N0", &cols.n0},
	} {
		i, ok := byName[want.name]
		if !ok {
			return cols, cert.NewError(cert.KindMalformedRow, "window table missing column %q", want.name)
		}
		*want.dst = i
	}
	return cols, nil
}

func validateWindowRow(fields []string, cols windowColumns, row int, check *WindowCheck) error {
	residue, err := strconv.ParseUint(fields[cols.residue], 10, 64)
	if err != nil {
		return cert.NewRowError(cert.KindMalformedRow, row, "invalid residue %q", fields[cols.residue])
	}
	if residue%2 == 0 {
		return cert.NewRowError(cert.KindMalformedRow, row, "residue %d must be odd", residue)
	}
	j, err := strconv.Atoi(fields[cols.j])
	if err != nil || j < 1 {
		return cert.NewRowError(cert.KindMalformedRow, row, "invalid j %q", fields[cols.j])
	}
	k, err := strconv.Atoi(fields[cols.k])
	if err != nil || k < 1 {
		return cert.NewRowError(cert.KindMalformedRow, row, "invalid K %q", fields[cols.k])
	}
	var pattern []int
	if err := json.Unmarshal([]byte(fields[cols.sVec]), &pattern); err != nil {
		return cert.NewRowError(cert.KindMalformedRow, row, "invalid s_vec %q: %v", fields[cols.sVec], err)
	}
	exactModulus, ok := new(big.Int).SetString(fields[cols.exactModulus], 10)
	if !ok {
		return cert.NewRowError(cert.KindMalformedRow, row, "invalid exact_residue_modulus %q", fields[cols.exactModulus])
	}
	exactResidue, ok := new(big.Int).SetString(fields[cols.exactResidue], 10)
	if !ok {
		return cert.NewRowError(cert.KindMalformedRow, row, "invalid exact_residue %q", fields[cols.exactResidue])
	}

	expectedModulus := new(big.Int).Lsh(one, uint(k+1))
	if exactModulus.Cmp(expectedModulus) != 0 {
		return cert.NewRowError(cert.KindStructuralMismatch, row,
			"exact modulus mismatch (%s vs %s)", exactModulus, expectedModulus)
	}
	if len(pattern) != j {
		return cert.NewRowError(cert.KindMalformedRow, row,
			"length mismatch between j=%d and pattern %v", j, pattern)
	}

	cumulativeK, err := checkCongruences(pattern, exactResidue, row)
	if err != nil {
		return err
	}
	if cumulativeK != k {
		return cert.NewRowError(cert.KindStructuralMismatch, row,
			"cumulative K mismatch (computed %d, expected %d)", cumulativeK, k)
	}

	if err := checkAffineParameters(fields, cols, pattern, j, k, row, check); err != nil {
		return err
	}
	check.Residues[residue] = struct{}{}
	if j > check.MaxJ {
		check.MaxJ = j
	}
	if k > check.MaxK {
		check.MaxK = k
	}
	return nil
}

// checkCongruences walks the recurrence in the forward direction: for every
// prefix length t,
//
//	3^t * r + 3*c_{t-1} + 2^{K_{t-1}} == 2^{K_t}  (mod 2^{K_t + 1}).
//
// This is deliberately not the generator's inverse-based solve; checking
// the system forward keeps the two derivations independent.
func checkCongruences(pattern []int, exactResidue *big.Int, row int) (int, error) {
	three := big.NewInt(3)
	kT := 0
	cT := big.NewInt(0)
	for t, s := range pattern {
		kNext := kT + s
		modulus := new(big.Int).Lsh(one, uint(kNext+1))
		threePow := new(big.Int).Exp(three, big.NewInt(int64(t+1)), modulus)
		lhs := new(big.Int).Mod(exactResidue, modulus)
		lhs.Mul(threePow, lhs)
		lhs.Add(lhs, new(big.Int).Mul(three, cT))
		lhs.Add(lhs, new(big.Int).Lsh(one, uint(kT)))
		lhs.Mod(lhs, modulus)
		expected := new(big.Int).Lsh(one, uint(kNext))
		if lhs.Cmp(expected) != 0 {
			return 0, cert.NewRowError(cert.KindStructuralMismatch, row,
				"congruence failed at step %d (lhs=%s, expected=%s, modulus=%s)", t, lhs, expected, modulus)
		}
		cT.Mul(cT, three)
		cT.Add(cT, new(big.Int).Lsh(one, uint(kT)))
		kT = kNext
	}
	return kT, nil
}

func checkAffineParameters(fields []string, cols windowColumns, pattern []int, j, k, row int, check *WindowCheck) error {
	recordedA, err := cert.ParseRat(fields[cols.a])
	if err != nil {
		return cert.NewRowError(cert.KindMalformedRow, row, "invalid A: %v", err)
	}
	recordedB, err := cert.ParseRat(fields[cols.b])
	if err != nil {
		return cert.NewRowError(cert.KindMalformedRow, row, "invalid B: %v", err)
	}
	recordedN0, err := cert.ParseRat(fields[cols.n0])
	if err != nil {
		return cert.NewRowError(cert.KindMalformedRow, row, "invalid N0: %v", err)
	}

	threePow := new(big.Int).Exp(big.NewInt(3), big.NewInt(int64(j)), nil)
	twoPow := new(big.Int).Lsh(one, uint(k))
	expectedA := new(big.Rat).SetFrac(threePow, twoPow)
	expectedB := new(big.Rat).SetFrac(cert.CumulativeOffset(pattern), twoPow)
	if expectedA.Cmp(new(big.Rat).SetInt64(1)) >= 0 {
		return cert.NewRowError(cert.KindStructuralMismatch, row,
			"A = %s >= 1, window guarantees no descent", cert.FormatRat(expectedA))
	}
	if recordedA.Cmp(expectedA) != 0 || recordedB.Cmp(expectedB) != 0 {
		return cert.NewRowError(cert.KindStructuralMismatch, row,
			"affine parameters mismatch (A=%s vs %s, B=%s vs %s)",
			cert.FormatRat(recordedA), cert.FormatRat(expectedA),
			cert.FormatRat(recordedB), cert.FormatRat(expectedB))
	}
	oneMinusA := new(big.Rat).Sub(new(big.Rat).SetInt64(1), expectedA)
	expectedN0 := new(big.Rat).Quo(expectedB, oneMinusA)
	if recordedN0.Cmp(expectedN0) != 0 {
		return cert.NewRowError(cert.KindStructuralMismatch, row,
			"N0 mismatch (%s vs %s)", cert.FormatRat(recordedN0), cert.FormatRat(expectedN0))
	}
	check.Thresholds = append(check.Thresholds, expectedN0)
	return nil
}
