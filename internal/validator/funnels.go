package validator

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/roach88/descent/internal/cert"
)

// FunnelCheck aggregates the re-derived facts about a funnel table.
type FunnelCheck struct {
	MaxLength int
	Rows      int
}

// ValidateFunnels replays every funnel trajectory from scratch. For each
// row it applies the accelerated map exactly min_funnel_length times,
// asserting that no earlier step already lands in the window set
// (minimality) and that the final step does.
func ValidateFunnels(path string, windowResidues map[uint64]struct{}, modulus uint64) (*FunnelCheck, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cert.NewError(cert.KindMissingInput, "funnel table not found: %s", path)
		}
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return nil, cert.NewError(cert.KindMalformedRow, "reading funnel table header: %v", err)
	}
	residueField := fmt.Sprintf("odd_residue_mod_%d", modulus)
	residueCol, lengthCol := -1, -1
	for i, name := range header {
		switch name {
		case residueField:
			residueCol = i
		case "min_funnel_length":
			lengthCol = i
		}
	}
	if residueCol < 0 || lengthCol < 0 {
		return nil, cert.NewError(cert.KindMalformedRow,
			"funnel table %s missing columns %q and/or %q", path, residueField, "min_funnel_length")
	}

	check := &FunnelCheck{}
	for row := 1; ; row++ {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, cert.NewRowError(cert.KindMalformedRow, row, "reading funnel table: %v", err)
		}
		residue, err := strconv.ParseUint(fields[residueCol], 10, 64)
		if err != nil {
			return nil, cert.NewRowError(cert.KindMalformedRow, row, "invalid residue %q", fields[residueCol])
		}
		if residue%2 == 0 {
			return nil, cert.NewRowError(cert.KindMalformedRow, row, "residue %d must be odd", residue)
		}
		length, err := strconv.Atoi(fields[lengthCol])
		if err != nil || length < 0 {
			return nil, cert.NewRowError(cert.KindMalformedRow, row, "invalid min_funnel_length %q", fields[lengthCol])
		}

		if length == 0 {
			if _, ok := windowResidues[residue]; !ok {
				return nil, cert.NewRowError(cert.KindStructuralMismatch, row,
					"residue %d claims length 0 but is not a window", residue)
			}
		}
		current := residue
		for depth := 0; depth < length; depth++ {
			if _, ok := windowResidues[current]; ok {
				return nil, cert.NewRowError(cert.KindStructuralMismatch, row,
					"residue %d hits window after %d < %d steps", residue, depth, length)
			}
			current = cert.AcceleratedStep(current, modulus)
		}
		if _, ok := windowResidues[current]; !ok {
			return nil, cert.NewRowError(cert.KindStructuralMismatch, row,
				"residue %d fails to hit window after %d steps", residue, length)
		}

		check.Rows++
		if length > check.MaxLength {
			check.MaxLength = length
		}
	}
	return check, nil
}
