package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cortexd/internal/engine"
	"cortexd/internal/vsa"
)

func testEngine() *engine.Engine {
	ops := vsa.NewDefault(vsa.TestDimension, vsa.Bipolar)
	return engine.New(ops, nil)
}

func TestInsufficientDataError(t *testing.T) {
	e := testEngine()
	_, err := Discover(e, DefaultConfig())
	require.Error(t, err)
	var ide *InsufficientDataError
	assert.ErrorAs(t, err, &ide)
}

func TestDiscoversEntityTypes(t *testing.T) {
	e := testEngine()
	e.AddTriple("Dog1", "has-legs", "4", 1.0, "")
	e.AddTriple("Dog1", "has-name", "Fido", 1.0, "")
	e.AddTriple("Dog1", "is-a", "Animal", 1.0, "")
	e.AddTriple("Dog2", "has-legs", "4", 1.0, "")
	e.AddTriple("Dog2", "has-name", "Rex", 1.0, "")
	e.AddTriple("Dog2", "is-a", "Animal", 1.0, "")
	e.AddTriple("Dog3", "has-legs", "4", 1.0, "")
	e.AddTriple("Dog3", "has-name", "Bud", 1.0, "")
	e.AddTriple("Dog3", "is-a", "Animal", 1.0, "")

	result, err := Discover(e, DefaultConfig())
	require.NoError(t, err)

	require.NotEmpty(t, result.Types)
	assert.GreaterOrEqual(t, len(result.Types[0].Members), 3)
}

func TestCommonTypeDetected(t *testing.T) {
	e := testEngine()
	e.AddTriple("Dog1", "has-legs", "4", 1.0, "")
	e.AddTriple("Dog1", "is-a", "Animal", 1.0, "")
	e.AddTriple("Dog2", "has-legs", "4", 1.0, "")
	e.AddTriple("Dog2", "is-a", "Animal", 1.0, "")
	e.AddTriple("Dog3", "has-legs", "4", 1.0, "")
	e.AddTriple("Dog3", "is-a", "Animal", 1.0, "")

	result, err := Discover(e, DefaultConfig())
	require.NoError(t, err)
	require.NotEmpty(t, result.Types)

	animal, _ := e.LookupSymbol("Animal")
	assert.True(t, result.Types[0].HasTypeSymbol)
	assert.Equal(t, animal, result.Types[0].TypeSymbol)
}

func TestCoOccurringPredicatesFound(t *testing.T) {
	e := testEngine()
	e.AddTriple("A", "pred1", "X", 1.0, "")
	e.AddTriple("A", "pred2", "Y", 1.0, "")
	e.AddTriple("B", "pred1", "X", 1.0, "")
	e.AddTriple("B", "pred2", "Y", 1.0, "")
	e.AddTriple("C", "pred1", "X", 1.0, "")
	e.AddTriple("C", "pred2", "Y", 1.0, "")

	result, err := Discover(e, DefaultConfig())
	require.NoError(t, err)
	assert.NotEmpty(t, result.CoOccurringPredicates)
}

func TestRelationHierarchyFound(t *testing.T) {
	e := testEngine()
	e.AddTriple("A", "specific", "X", 1.0, "")
	e.AddTriple("A", "general", "Y", 1.0, "")
	e.AddTriple("B", "specific", "X", 1.0, "")
	e.AddTriple("B", "general", "Y", 1.0, "")
	e.AddTriple("C", "specific", "X", 1.0, "")
	e.AddTriple("C", "general", "Y", 1.0, "")
	e.AddTriple("D", "general", "Y", 1.0, "")

	config := DefaultConfig()
	config.MinImplicationStrength = 0.7
	result, err := Discover(e, config)
	require.NoError(t, err)

	specific, _ := e.LookupSymbol("specific")
	general, _ := e.LookupSymbol("general")

	found := false
	for _, h := range result.RelationHierarchies {
		if h.Specific == specific && h.General == general {
			found = true
		}
	}
	assert.True(t, found)
}

func TestMinTypeMembersEnforced(t *testing.T) {
	e := testEngine()
	e.AddTriple("A", "p1", "X", 1.0, "")
	e.AddTriple("A", "p2", "Y", 1.0, "")
	e.AddTriple("B", "p1", "X", 1.0, "")
	e.AddTriple("B", "p2", "Y", 1.0, "")
	e.AddTriple("C", "p3", "Z", 1.0, "")

	config := DefaultConfig()
	config.MinTypeMembers = 3
	result, err := Discover(e, config)
	require.NoError(t, err)

	for _, ty := range result.Types {
		assert.GreaterOrEqual(t, len(ty.Members), 3)
	}
}
