// Package finite is the finite-range checker, the external collaborator of
// the certificate pipeline. It consumes only N0* from the summary artifact:
// either a known already-verified bound covers N0* and the run is a
// shortcut, or the plain Collatz map is simulated for every n <= N0*. It
// contains no certificate logic.
package finite

import (
	"fmt"
	"math/big"
	"strings"

	"go.uber.org/zap"

	"github.com/roach88/descent/internal/artifact"
	"github.com/roach88/descent/internal/cert"
	"github.com/roach88/descent/internal/validator"
)

// DefaultMaxSteps caps the per-n trajectory length during simulation.
const DefaultMaxSteps = 1_000_000

// Options configures a finite-range check.
type Options struct {
	SummaryPath string
	LogPath     string

	// VerifiedBound is an externally supplied "already verified up to"
	// bound; zero means none.
	VerifiedBound int64

	// MaxSteps caps each trajectory; zero means DefaultMaxSteps.
	MaxSteps int
}

// StepsToOne returns the number of plain Collatz steps for n to reach 1.
func StepsToOne(n int64, maxSteps int) (int, error) {
	steps := 0
	value := n
	for value != 1 {
		if steps > maxSteps {
			return 0, fmt.Errorf("exceeded %d steps for n=%d", maxSteps, n)
		}
		if value%2 == 0 {
			value /= 2
		} else {
			value = 3*value + 1
		}
		steps++
	}
	return steps, nil
}

// SimulateRange verifies every n in [1, limit], returning the maximum step
// count and the n attaining it.
func SimulateRange(limit int64, maxSteps int) (int, int64, error) {
	maxSeen := 0
	argmax := int64(1)
	for n := int64(1); n <= limit; n++ {
		steps, err := StepsToOne(n, maxSteps)
		if err != nil {
			return 0, 0, err
		}
		if steps > maxSeen {
			maxSeen = steps
			argmax = n
		}
	}
	return maxSeen, argmax, nil
}

// Run reads the summary, performs the shortcut or the simulation, and
// writes the plain-text log artifact.
func Run(opts Options, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxSteps := opts.MaxSteps
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}

	summary, err := validator.ReadSummary(opts.SummaryPath)
	if err != nil {
		return err
	}
	n0Star, ok := new(big.Int).SetString(summary.N0Star.String(), 10)
	if !ok {
		return cert.NewError(cert.KindMalformedRow, "summary N0_star %q is not an integer", summary.N0Star)
	}

	var lines []string
	switch {
	case opts.VerifiedBound > 0 && new(big.Int).SetInt64(opts.VerifiedBound).Cmp(n0Star) >= 0:
		logger.Info("verified bound covers N0*",
			zap.Int64("verified_bound", opts.VerifiedBound),
			zap.String("n0_star", n0Star.String()))
		lines = append(lines,
			fmt.Sprintf("Verified bound shortcut: known computations cover all n <= %d, and N0*=%s lies below this threshold.",
				opts.VerifiedBound, n0Star),
			"No additional simulation was required.")
	case !n0Star.IsInt64():
		return fmt.Errorf("N0*=%s exceeds the simulatable range; supply a verified bound covering it", n0Star)
	default:
		limit := n0Star.Int64()
		logger.Info("simulating Collatz range", zap.Int64("limit", limit))
		lines = append(lines, fmt.Sprintf("Simulating Collatz for all n <= %d ...", limit))
		maxSeen, argmax, err := SimulateRange(limit, maxSteps)
		if err != nil {
			return err
		}
		logger.Info("simulation complete", zap.Int("max_steps", maxSeen), zap.Int64("argmax", argmax))
		lines = append(lines, fmt.Sprintf("Simulation complete. Max steps %d attained at n=%d.", maxSeen, argmax))
	}

	f, err := artifact.Create(opts.LogPath)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(strings.Join(lines, "\n") + "\n"); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
