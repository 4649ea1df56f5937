package windows

import (
	"encoding/csv"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/roach88/descent/internal/artifact"
	"github.com/roach88/descent/internal/cert"
)

// Stats summarizes a generation run for the windows.stats.json sidecar.
type Stats struct {
	Modulus             uint64            `json:"modulus"`
	OddResidueCount     uint64            `json:"odd_residue_count"`
	CoveredResidueCount int               `json:"covered_residue_count"`
	CoverageFraction    float64           `json:"coverage_fraction"`
	WindowRows          int               `json:"window_rows"`
	CountsByJ           artifact.CountMap `json:"counts_by_j"`
	CountsByK           artifact.CountMap `json:"counts_by_K"`
}

// Generate enumerates all patterns admitted by cfg, solves each one, and
// returns every projected window record sorted by residue ascending,
// together with coverage statistics.
//
// For each length j the cumulative valuation K is probed over
// [k_min, k_min+DeltaK] with k_min = ceil(j*log2(3)), the smallest K for
// which 3^j < 2^K can hold. The float64 ceiling only seeds the probe range;
// validity of every emitted window is decided by the exact big-integer
// comparison in NewRecord.
func Generate(cfg cert.Config, logger *zap.Logger) ([]Record, Stats) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var records []Record
	coverage := make(map[uint64]struct{})
	countsByJ := make(artifact.CountMap)
	countsByK := make(artifact.CountMap)

	for j := 1; j <= cfg.MaxWindowLength; j++ {
		kMin := int(math.Ceil(float64(j) * math.Log2(3)))
		logger.Info("enumerating windows",
			zap.Int("j", j),
			zap.Int("k_min", kMin),
			zap.Int("k_max", kMin+cfg.DeltaK))
		for k := kMin; k <= kMin+cfg.DeltaK; k++ {
			cert.Compositions(j, k, cfg.MaxValuation, func(parts []int) bool {
				rec := NewRecord(parts)
				if rec == nil {
					return true
				}
				projected := rec.Project(cfg.ModulusPower)
				records = append(records, projected...)
				for i := range projected {
					coverage[projected[i].Residue] = struct{}{}
				}
				countsByJ[j] += len(projected)
				countsByK[k] += len(projected)
				return true
			})
		}
		logger.Info("projected windows so far", zap.Int("j", j), zap.Int("count", countsByJ[j]))
	}

	sort.SliceStable(records, func(a, b int) bool {
		return records[a].Residue < records[b].Residue
	})

	oddCount := cfg.Modulus() / 2
	stats := Stats{
		Modulus:             cfg.Modulus(),
		OddResidueCount:     oddCount,
		CoveredResidueCount: len(coverage),
		CoverageFraction:    float64(len(coverage)) / float64(oddCount),
		WindowRows:          len(records),
		CountsByJ:           countsByJ,
		CountsByK:           countsByK,
	}
	logger.Info("window generation complete",
		zap.Int("rows", len(records)),
		zap.Float64("coverage", stats.CoverageFraction))
	return records, stats
}

// WriteCSV writes the window table sorted as given, creating parent
// directories as needed.
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
	for i := range records {
		row, err := records[i].row()
		if err != nil {
			f.Close()
			return err
		}
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

// WriteStats writes the statistics sidecar.
func WriteStats(stats Stats, path string) error {
	return artifact.WriteJSON(path, stats)
}

// StatsPath derives the sidecar path for a window table: windows.csv
// becomes windows.stats.json.
func StatsPath(csvPath string) string {
	return strings.TrimSuffix(csvPath, ".csv") + ".stats.json"
}
