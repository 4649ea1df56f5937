package windows

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecordRejectsNonDescending(t *testing.T) {
	// Pattern [1]: A = 3/2 >= 1, no guaranteed descent.
	assert.Nil(t, NewRecord([]int{1}))
	// Pattern [1,1]: A = 9/4.
	assert.Nil(t, NewRecord([]int{1, 1}))
}

func TestNewRecordSingleStep(t *testing.T) {
	rec := NewRecord([]int{2})
	require.NotNil(t, rec)
	assert.Equal(t, int64(1), rec.ExactResidue.Int64())
	assert.Equal(t, 1, rec.J)
	assert.Equal(t, 2, rec.K)
	assert.Equal(t, []int{2}, rec.Pattern)
	assert.Equal(t, int64(8), rec.ExactModulus().Int64())
	assert.Zero(t, big.NewRat(3, 4).Cmp(rec.A))
	assert.Zero(t, big.NewRat(1, 4).Cmp(rec.B))
	// N0 = (1/4)/(1/4) = 1: the threshold is exactly one.
	assert.Zero(t, big.NewRat(1, 1).Cmp(rec.N0))
}

func TestNewRecordCopiesPattern(t *testing.T) {
	pattern := []int{3, 2}
	rec := NewRecord(pattern)
	require.NotNil(t, rec)
	pattern[0] = 99
	assert.Equal(t, []int{3, 2}, rec.Pattern)
}

func TestProjectEnumeratesCoset(t *testing.T) {
	// Natural modulus 8 is coarser than 2^5: expect every odd lift of
	// 1 mod 8 below 32, and nothing else.
	rec := NewRecord([]int{2})
	require.NotNil(t, rec)
	projected := rec.Project(5)
	residues := make([]uint64, 0, len(projected))
	for i := range projected {
		residues = append(residues, projected[i].Residue)
		assert.Equal(t, rec.ExactResidue, projected[i].ExactResidue)
		assert.Equal(t, rec.J, projected[i].J)
		assert.Equal(t, rec.K, projected[i].K)
	}
	assert.Equal(t, []uint64{1, 9, 17, 25}, residues)

	var expected []uint64
	for x := uint64(1); x < 32; x += 2 {
		if x%8 == 1 {
			expected = append(expected, x)
		}
	}
	assert.Equal(t, expected, residues)
}

func TestProjectReducesWhenNaturalModulusCovers(t *testing.T) {
	// Pattern [3,2]: exact residue 45 mod 64; 64 >= 32, so a single
	// record with 45 mod 32 = 13.
	rec := NewRecord([]int{3, 2})
	require.NotNil(t, rec)
	projected := rec.Project(5)
	require.Len(t, projected, 1)
	assert.Equal(t, uint64(13), projected[0].Residue)
	assert.Equal(t, int64(45), projected[0].ExactResidue.Int64())
}

func TestRecordRow(t *testing.T) {
	rec := NewRecord([]int{2, 2})
	require.NotNil(t, rec)
	projected := rec.Project(5)
	require.NotEmpty(t, projected)

	row, err := projected[0].row()
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "32", "1", "2", "4", "[2,2]", "9/16", "7/16", "1"}, row)
}

func TestHeader(t *testing.T) {
	assert.Equal(t, []string{
		"target_residue_mod_32", "exact_residue_modulus", "exact_residue",
		"j", "K", "s_vec", "A", "B", "N0",
	}, Header(32))
}
