package funnels

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/roach88/descent/internal/artifact"
	"github.com/roach88/descent/internal/cert"
	"github.com/roach88/descent/internal/windows"
)

func mod32Config() cert.Config {
	return cert.Config{
		ModulusPower:    5,
		MaxWindowLength: 2,
		MaxValuation:    3,
		DeltaK:          1,
		FunnelDepth:     12,
		ArtifactsDir:    "artifacts",
	}
}

func mod256Config() cert.Config {
	return cert.Config{
		ModulusPower:    8,
		MaxWindowLength: 3,
		MaxValuation:    4,
		DeltaK:          2,
		FunnelDepth:     8,
		ArtifactsDir:    "artifacts",
	}
}

func windowSet(t *testing.T, cfg cert.Config) map[uint64]struct{} {
	t.Helper()
	records, _ := windows.Generate(cfg, zap.NewNop())
	set := make(map[uint64]struct{})
	for i := range records {
		set[records[i].Residue] = struct{}{}
	}
	return set
}

func TestSearchMod32(t *testing.T) {
	cfg := mod32Config()
	records, histogram, err := Search(cfg, windowSet(t, cfg), zap.NewNop())
	require.NoError(t, err)

	expected := []Record{
		{1, 0}, {3, 2}, {5, 1}, {7, 2}, {9, 0}, {11, 1}, {13, 0}, {15, 4},
		{17, 0}, {19, 0}, {21, 1}, {23, 3}, {25, 0}, {27, 1}, {29, 0}, {31, 5},
	}
	assert.Equal(t, expected, records)
	assert.Equal(t, artifact.CountMap{0: 7, 1: 4, 2: 2, 3: 1, 4: 1, 5: 1}, histogram)
}

// TestSearchLengthsMinimal replays each trajectory and checks no shorter
// funnel exists.
func TestSearchLengthsMinimal(t *testing.T) {
	cfg := mod32Config()
	set := windowSet(t, cfg)
	records, _, err := Search(cfg, set, zap.NewNop())
	require.NoError(t, err)

	modulus := cfg.Modulus()
	for _, rec := range records {
		current := rec.Residue
		for depth := 0; depth < rec.Length; depth++ {
			_, hit := set[current]
			assert.False(t, hit, "residue %d hits window set at depth %d < %d", rec.Residue, depth, rec.Length)
			current = cert.AcceleratedStep(current, modulus)
		}
		_, hit := set[current]
		assert.True(t, hit, "residue %d misses window set at depth %d", rec.Residue, rec.Length)
	}
}

func TestSearchCoversAllOddResidues(t *testing.T) {
	cfg := mod256Config()
	records, histogram, err := Search(cfg, windowSet(t, cfg), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, records, 128)
	for i, rec := range records {
		assert.Equal(t, uint64(2*i+1), rec.Residue)
	}
	assert.Equal(t, artifact.CountMap{0: 81, 1: 22, 2: 11, 3: 7, 4: 4, 5: 2, 6: 1}, histogram)
}

func TestSearchInsufficientDepth(t *testing.T) {
	cfg := mod32Config()
	cfg.FunnelDepth = 1
	_, _, err := Search(cfg, windowSet(t, cfg), zap.NewNop())
	require.Error(t, err)
	assert.Equal(t, cert.KindInsufficientDepth, cert.KindOf(err))
	// Residue 3 needs two steps, so it is the first to fail.
	assert.Contains(t, err.Error(), "residue 3")
}

func TestWriteCSVGolden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	tests := []struct {
		name string
		cfg  cert.Config
	}{
		{"funnels-mod32", mod32Config()},
		{"funnels-mod256", mod256Config()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, _, err := Search(tt.cfg, windowSet(t, tt.cfg), zap.NewNop())
			require.NoError(t, err)
			path := filepath.Join(t.TempDir(), "funnels.csv")
			require.NoError(t, WriteCSV(records, path, tt.cfg.Modulus()))
			data, err := os.ReadFile(path)
			require.NoError(t, err)
			g.Assert(t, tt.name, data)
		})
	}
}

func TestLoadWindowResidues(t *testing.T) {
	cfg := mod32Config()
	records, _ := windows.Generate(cfg, zap.NewNop())
	path := filepath.Join(t.TempDir(), "windows.csv")
	require.NoError(t, windows.WriteCSV(records, path, cfg.Modulus()))

	set, err := LoadWindowResidues(path, cfg.Modulus())
	require.NoError(t, err)
	assert.Equal(t, map[uint64]struct{}{
		1: {}, 9: {}, 13: {}, 17: {}, 19: {}, 25: {}, 29: {},
	}, set)
}

func TestLoadWindowResiduesMissingFile(t *testing.T) {
	_, err := LoadWindowResidues(filepath.Join(t.TempDir(), "absent.csv"), 32)
	require.Error(t, err)
	assert.Equal(t, cert.KindMissingInput, cert.KindOf(err))
}

func TestLoadWindowResiduesWrongModulusColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "windows.csv")
	require.NoError(t, os.WriteFile(path, []byte("target_residue_mod_64,j\n1,1\n"), 0o644))
	_, err := LoadWindowResidues(path, 32)
	require.Error(t, err)
	assert.Equal(t, cert.KindMalformedRow, cert.KindOf(err))
}

func TestLoadWindowResiduesBadResidue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "windows.csv")
	require.NoError(t, os.WriteFile(path, []byte("target_residue_mod_32\nnope\n"), 0o644))
	_, err := LoadWindowResidues(path, 32)
	require.Error(t, err)
	assert.Equal(t, cert.KindMalformedRow, cert.KindOf(err))
}

func TestWriteHistogram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "funnels.hist.json")
	require.NoError(t, WriteHistogram(artifact.CountMap{0: 7, 1: 4, 5: 1}, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"0\":7,\n  \"1\":4,\n  \"5\":1\n}", string(data))
}

func TestHistogramPath(t *testing.T) {
	assert.Equal(t, "artifacts/funnels.hist.json", HistogramPath("artifacts/funnels.csv"))
}
