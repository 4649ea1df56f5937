package validator

import (
	"encoding/json"
	"math/big"
	"os"

	"github.com/roach88/descent/internal/artifact"
	"github.com/roach88/descent/internal/cert"
)

// Summary is the derived numeric aggregate over the validated tables. It is
// the only artifact the finite-range checker needs; the SHA-256 digests
// bind it to exact table versions.
type Summary struct {
	WindowsCSV         string      `json:"windows_csv"`
	FunnelsCSV         string      `json:"funnels_csv"`
	WindowsSHA256      string      `json:"windows_sha256"`
	FunnelsSHA256      string      `json:"funnels_sha256"`
	WindowRows         int         `json:"window_rows"`
	FunnelRows         int         `json:"funnel_rows"`
	JMax               int         `json:"j_max"`
	L                  int         `json:"L"`
	JStar              int         `json:"J_star"`
	MaxWindowThreshold string      `json:"max_window_threshold"`
	N0Star             json.Number `json:"N0_star"`
	Modulus            uint64      `json:"modulus"`
}

// Summarize combines the window and funnel re-checks into the summary:
// J* = j_max + L and N0* = ceil(2^L * max_threshold), the bound up to which
// brute-force verification extends the certificate.
func Summarize(windowsCSV, funnelsCSV string, wc *WindowCheck, fc *FunnelCheck, modulus uint64) (*Summary, error) {
	if len(wc.Thresholds) == 0 {
		return nil, cert.NewError(cert.KindStructuralMismatch, "window table has no rows, no threshold to derive")
	}
	maxThreshold := wc.Thresholds[0]
	for _, t := range wc.Thresholds[1:] {
		if t.Cmp(maxThreshold) > 0 {
			maxThreshold = t
		}
	}

	windowsHash, err := artifact.FileSHA256(windowsCSV)
	if err != nil {
		return nil, err
	}
	funnelsHash, err := artifact.FileSHA256(funnelsCSV)
	if err != nil {
		return nil, err
	}
	windowRows, err := artifact.CSVRowCount(windowsCSV)
	if err != nil {
		return nil, err
	}
	funnelRows, err := artifact.CSVRowCount(funnelsCSV)
	if err != nil {
		return nil, err
	}

	return &Summary{
		WindowsCSV:         windowsCSV,
		FunnelsCSV:         funnelsCSV,
		WindowsSHA256:      windowsHash,
		FunnelsSHA256:      funnelsHash,
		WindowRows:         windowRows,
		FunnelRows:         funnelRows,
		JMax:               wc.MaxJ,
		L:                  fc.MaxLength,
		JStar:              wc.MaxJ + fc.MaxLength,
		MaxWindowThreshold: cert.FormatRat(maxThreshold),
		N0Star:             json.Number(ceilScaled(maxThreshold, fc.MaxLength).String()),
		Modulus:            modulus,
	}, nil
}

// ceilScaled returns ceil(2^l * r) for a positive rational r.
func ceilScaled(r *big.Rat, l int) *big.Int {
	scaled := new(big.Rat).Mul(r, new(big.Rat).SetInt(new(big.Int).Lsh(big.NewInt(1), uint(l))))
	num := new(big.Int).Set(scaled.Num())
	den := scaled.Denom()
	num.Add(num, den)
	num.Sub(num, one)
	return num.Div(num, den)
}

// WriteSummary writes the summary artifact.
func WriteSummary(s *Summary, path string) error {
	return artifact.WriteJSON(path, s)
}

// ReadSummary loads a summary artifact.
func ReadSummary(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, cert.NewError(cert.KindMissingInput, "summary not found: %s", path)
		}
		return nil, err
	}
	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, cert.NewError(cert.KindMalformedRow, "parsing summary %s: %v", path, err)
	}
	return &s, nil
}
