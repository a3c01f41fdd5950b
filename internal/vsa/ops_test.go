package vsa

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOps() *Ops {
	return NewDefault(TestDimension, Bipolar)
}

func seededRNG() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

func TestSelfSimilarityIsOne(t *testing.T) {
	ops := testOps()
	a := ops.Random(seededRNG())
	sim, err := ops.Similarity(a, a)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 0.001)
}

func TestRandomVectorsAreRoughlyUncorrelated(t *testing.T) {
	ops := testOps()
	rng := seededRNG()
	a := ops.Random(rng)
	b := ops.Random(rng)
	sim, err := ops.Similarity(a, b)
	require.NoError(t, err)
	assert.True(t, sim > 0.4 && sim < 0.6, "similarity was %v, expected ~0.5", sim)
}

func TestBindIsInvertible(t *testing.T) {
	ops := testOps()
	rng := seededRNG()
	a := ops.Random(rng)
	b := ops.Random(rng)
	bound, err := ops.Bind(a, b)
	require.NoError(t, err)
	recovered, err := ops.Unbind(bound, a)
	require.NoError(t, err)
	sim, err := ops.Similarity(recovered, b)
	require.NoError(t, err)
	assert.Greater(t, float64(sim), 0.99)
}

func TestBindIsDissimilarToInputs(t *testing.T) {
	ops := testOps()
	rng := seededRNG()
	a := ops.Random(rng)
	b := ops.Random(rng)
	bound, err := ops.Bind(a, b)
	require.NoError(t, err)

	simA, err := ops.Similarity(bound, a)
	require.NoError(t, err)
	simB, err := ops.Similarity(bound, b)
	require.NoError(t, err)
	assert.True(t, simA > 0.4 && simA < 0.6, "simA=%v", simA)
	assert.True(t, simB > 0.4 && simB < 0.6, "simB=%v", simB)
}

func TestBundleResemblance(t *testing.T) {
	ops := testOps()
	rng := seededRNG()
	a := ops.Random(rng)
	b := ops.Random(rng)
	c := ops.Random(rng)
	bundled, err := ops.Bundle([]HyperVec{a, b, c})
	require.NoError(t, err)

	for _, v := range []HyperVec{a, b, c} {
		sim, err := ops.Similarity(bundled, v)
		require.NoError(t, err)
		assert.Greater(t, float64(sim), 0.55)
	}
}

func TestBundleEmptyIsError(t *testing.T) {
	ops := testOps()
	_, err := ops.Bundle(nil)
	require.Error(t, err)
	var emptyErr *EmptyBundleError
	assert.ErrorAs(t, err, &emptyErr)
}

func TestPermuteDissimilarity(t *testing.T) {
	ops := testOps()
	rng := seededRNG()
	a := ops.Random(rng)
	permuted := ops.Permute(a, 1)
	sim, err := ops.Similarity(a, permuted)
	require.NoError(t, err)
	assert.True(t, sim > 0.4 && sim < 0.6, "sim=%v", sim)
}

func TestDimensionMismatchDetected(t *testing.T) {
	ops := testOps()
	a := Zero(Dimension(128), Bipolar)
	b := Zero(Dimension(256), Bipolar)
	_, err := ops.Bind(a, b)
	require.Error(t, err)
	var dimErr *DimensionMismatchError
	assert.ErrorAs(t, err, &dimErr)
}

func TestCosineSimilarityIdentical(t *testing.T) {
	ops := testOps()
	a := ops.Random(seededRNG())
	sim, err := ops.CosineSimilarity(a, a)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 0.001)
}
