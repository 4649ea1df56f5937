package cert

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	withRow := NewRowError(KindStructuralMismatch, 12, "N0 mismatch (%s vs %s)", "1/2", "1/3")
	assert.Equal(t, "STRUCTURAL_MISMATCH: row 12: N0 mismatch (1/2 vs 1/3)", withRow.Error())

	withoutRow := NewError(KindInsufficientDepth, "residue %d failed to reach window set within %d steps", 7, 16)
	assert.Equal(t, "INSUFFICIENT_DEPTH: residue 7 failed to reach window set within 16 steps", withoutRow.Error())
}

func TestKindOf(t *testing.T) {
	err := NewError(KindMissingInput, "window table not found")
	assert.Equal(t, KindMissingInput, KindOf(err))
	assert.Equal(t, KindMissingInput, KindOf(fmt.Errorf("stage failed: %w", err)))
	assert.Equal(t, ErrorKind(""), KindOf(fmt.Errorf("plain error")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))
}
