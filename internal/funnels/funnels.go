package funnels

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/roach88/descent/internal/artifact"
	"github.com/roach88/descent/internal/cert"
)

// Record pairs an odd residue with its minimum funnel length.
type Record struct {
	Residue uint64
	Length  int
}

// LoadWindowResidues reads the projected residue column of a window table
// into a set.
func LoadWindowResidues(path string, modulus uint64) (map[uint64]struct{}, error) {
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
	residueField := fmt.Sprintf("target_residue_mod_%d", modulus)
	col := -1
	for i, name := range header {
		if name == residueField {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, cert.NewError(cert.KindMalformedRow, "window table %s has no column %q", path, residueField)
	}

	residues := make(map[uint64]struct{})
	for row := 1; ; row++ {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, cert.NewRowError(cert.KindMalformedRow, row, "reading window table: %v", err)
		}
		residue, err := strconv.ParseUint(fields[col], 10, 64)
		if err != nil {
			return nil, cert.NewRowError(cert.KindMalformedRow, row, "invalid residue %q", fields[col])
		}
		residues[residue] = struct{}{}
	}
	return residues, nil
}

// Search iterates the accelerated map for every odd residue in [1, modulus),
// recording the first depth at which the trajectory lands in the window set.
// Records come back in ascending residue order along with the length
// histogram.
func Search(cfg cert.Config, windowSet map[uint64]struct{}, logger *zap.Logger) ([]Record, artifact.CountMap, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	modulus := cfg.Modulus()
	records := make([]Record, 0, modulus/2)
	histogram := make(artifact.CountMap)
	processed := 0
	for residue := uint64(1); residue < modulus; residue += 2 {
		current := residue
		length := -1
		for depth := 0; depth <= cfg.FunnelDepth; depth++ {
			if _, ok := windowSet[current]; ok {
				length = depth
				break
			}
			current = cert.AcceleratedStep(current, modulus)
		}
		if length < 0 {
			return nil, nil, cert.NewError(cert.KindInsufficientDepth,
				"residue %d failed to reach window set within %d steps", residue, cfg.FunnelDepth)
		}
		records = append(records, Record{Residue: residue, Length: length})
		histogram[length]++
		processed++
		if processed%5000 == 0 {
			logger.Info("funnel search progress",
				zap.Int("processed", processed),
				zap.Int("latest_length", length))
		}
	}
	return records, histogram, nil
}

// Header returns the funnel CSV header for the working modulus.
func Header(modulus uint64) []string {
	return []string{fmt.Sprintf("odd_residue_mod_%d", modulus), "min_funnel_length"}
}

// WriteCSV writes the funnel table in enumeration order.
func WriteCSV(records []Record, path string, modulus uint64) error {
	f, err := artifact.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(Header(modulus)); err != nil {
		f.Close()
		return err
	}
	for _, rec := range records {
		row := []string{strconv.FormatUint(rec.Residue, 10), strconv.Itoa(rec.Length)}
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteHistogram writes the length histogram sidecar.
func WriteHistogram(histogram artifact.CountMap, path string) error {
	return artifact.WriteJSON(path, histogram)
}

// HistogramPath derives the sidecar path for a funnel table: funnels.csv
// becomes funnels.hist.json.
func HistogramPath(csvPath string) string {
	return strings.TrimSuffix(csvPath, ".csv") + ".hist.json"
}
