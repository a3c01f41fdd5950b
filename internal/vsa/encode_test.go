package vsa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeID uint64

func (f fakeID) Raw() uint64 { return uint64(f) }

func TestEncodeSymbolDeterministic(t *testing.T) {
	ops := testOps()
	v1 := EncodeSymbol(ops, fakeID(42))
	v2 := EncodeSymbol(ops, fakeID(42))
	assert.True(t, v1.Equal(v2))
}

func TestEncodeSymbolDifferentSymbolsDiffer(t *testing.T) {
	ops := testOps()
	a := EncodeSymbol(ops, fakeID(1))
	b := EncodeSymbol(ops, fakeID(2))
	sim, err := ops.Similarity(a, b)
	require.NoError(t, err)
	assert.Less(t, float64(sim), 0.6)
}

func TestEncodeRoleFillerRecoverable(t *testing.T) {
	ops := testOps()
	role := fakeID(10)
	filler := fakeID(20)

	bound, err := EncodeRoleFiller(ops, role, filler)
	require.NoError(t, err)
	roleVec := EncodeSymbol(ops, role)

	recovered, err := ops.Unbind(bound, roleVec)
	require.NoError(t, err)
	fillerVec := EncodeSymbol(ops, filler)
	sim, err := ops.Similarity(recovered, fillerVec)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 0.001)
}

func TestEncodeSequenceOrderMatters(t *testing.T) {
	ops := testOps()
	a, b, c := fakeID(1), fakeID(2), fakeID(3)

	seqABC, ok := EncodeSequence(ops, []SymbolIder{a, b, c})
	require.True(t, ok)
	seqCBA, ok := EncodeSequence(ops, []SymbolIder{c, b, a})
	require.True(t, ok)

	sim, err := ops.Similarity(seqABC, seqCBA)
	require.NoError(t, err)
	assert.Less(t, float64(sim), 0.7)
}

func TestEncodeSequenceEmptyIsFalse(t *testing.T) {
	ops := testOps()
	_, ok := EncodeSequence(ops, nil)
	assert.False(t, ok)
}

func TestEncodeTokenDeterministic(t *testing.T) {
	ops := testOps()
	v1 := EncodeToken(ops, "dog")
	v2 := EncodeToken(ops, "dog")
	assert.True(t, v1.Equal(v2))
}

func TestEncodeTokenDifferentTokensDiffer(t *testing.T) {
	ops := testOps()
	a := EncodeToken(ops, "dog")
	b := EncodeToken(ops, "cat")
	sim, err := ops.Similarity(a, b)
	require.NoError(t, err)
	assert.Less(t, float64(sim), 0.6)
}

func TestEncodeLabelSingleWordMatchesToken(t *testing.T) {
	ops := testOps()
	fromLabel, err := EncodeLabel(ops, "dog")
	require.NoError(t, err)
	fromToken := EncodeToken(ops, "dog")
	assert.True(t, fromLabel.Equal(fromToken))
}

func TestEncodeLabelMultiWordValid(t *testing.T) {
	ops := testOps()
	v, err := EncodeLabel(ops, "big red dog")
	require.NoError(t, err)
	assert.Equal(t, ops.Dim(), v.Dim())
}

func TestEncodeLabelEmptyErrors(t *testing.T) {
	ops := testOps()
	_, err := EncodeLabel(ops, "")
	assert.Error(t, err)
	_, err = EncodeLabel(ops, "   ")
	assert.Error(t, err)
}
