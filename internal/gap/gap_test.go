package gap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cortexd/internal/engine"
	"cortexd/internal/symbol"
	"cortexd/internal/vsa"
)

func testEngine() *engine.Engine {
	ops := vsa.NewDefault(vsa.TestDimension, vsa.Bipolar)
	return engine.New(ops, nil)
}

func TestAnalyzeNoGoalsErrors(t *testing.T) {
	e := testEngine()
	_, err := Analyze(e, nil, DefaultConfig())
	require.Error(t, err)
	var ng *NoGoalsError
	assert.ErrorAs(t, err, &ng)
}

func TestDeadEndDetected(t *testing.T) {
	e := testEngine()
	lonely := e.ResolveOrCreateEntity("Lonely")

	result, err := Analyze(e, []symbol.ID{lonely}, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, result.DeadEnds)
	require.NotEmpty(t, result.Gaps)
	assert.Equal(t, DeadEnd, result.Gaps[0].Kind)
}

func TestWellConnectedEntityIsNotADeadEnd(t *testing.T) {
	e := testEngine()
	s, _, _ := e.AddTriple("Hub", "rel1", "A", 1.0, "")
	e.AddTriple("Hub", "rel2", "B", 1.0, "")

	result, err := Analyze(e, []symbol.ID{s}, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 0, result.DeadEnds)
	assert.Equal(t, 1.0, result.CoverageScore)
}

func TestMissingPredicateGapFromTypeCluster(t *testing.T) {
	e := testEngine()
	e.AddTriple("Dog1", "has-legs", "4", 1.0, "")
	e.AddTriple("Dog1", "has-name", "Fido", 1.0, "")
	e.AddTriple("Dog1", "is-a", "Animal", 1.0, "")
	e.AddTriple("Dog2", "has-legs", "4", 1.0, "")
	e.AddTriple("Dog2", "has-name", "Rex", 1.0, "")
	e.AddTriple("Dog2", "is-a", "Animal", 1.0, "")
	dog3, _, _ := e.AddTriple("Dog3", "has-legs", "4", 1.0, "")
	e.AddTriple("Dog3", "is-a", "Animal", 1.0, "")
	// Dog3 is missing has-name, which Dog1/Dog2 both carry.

	result, err := Analyze(e, []symbol.ID{dog3}, DefaultConfig())
	require.NoError(t, err)

	found := false
	for _, g := range result.Gaps {
		if g.Kind == MissingPredicate {
			found = true
		}
	}
	assert.True(t, found)
}

func TestMaxGapsRespected(t *testing.T) {
	e := testEngine()
	var anchors []symbol.ID
	for i := 0; i < 5; i++ {
		anchors = append(anchors, e.ResolveOrCreateEntity(string(rune('A'+i))))
	}

	config := DefaultConfig()
	config.MaxGaps = 2
	result, err := Analyze(e, anchors, config)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(result.Gaps), 2)
}
