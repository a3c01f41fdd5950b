package rules

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

func ingest(e *engine.Engine, triples [][4]any) {
	for _, tr := range triples {
		e.AddTriple(tr[0].(string), tr[1].(string), tr[2].(string), tr[3].(float64), "")
	}
}

func TestTransitiveClosureDerivesNewTriple(t *testing.T) {
	e := testEngine()
	ingest(e, [][4]any{
		{"A", "is-a", "B", 1.0},
		{"B", "is-a", "C", 1.0},
	})

	re := New(DefaultConfig()).WithRules(Builtin())
	result, err := re.Run(e)
	require.NoError(t, err)

	assert.NotEmpty(t, result.Derived)
	a, _ := e.LookupSymbol("A")
	c, _ := e.LookupSymbol("C")
	isA, _ := e.LookupSymbol("is-a")
	assert.True(t, e.Graph.HasTriple(a, isA, c))
}

func TestSymmetricRuleDerivesInverse(t *testing.T) {
	e := testEngine()
	ingest(e, [][4]any{{"X", "similar-to", "Y", 1.0}})

	re := New(DefaultConfig()).WithRules(Builtin())
	result, err := re.Run(e)
	require.NoError(t, err)

	y, _ := e.LookupSymbol("Y")
	x, _ := e.LookupSymbol("X")
	sim, _ := e.LookupSymbol("similar-to")
	assert.True(t, e.Graph.HasTriple(y, sim, x))
	assert.Contains(t, result.RuleStats, "similar-to-symmetric")
}

func TestInverseRelationParentChild(t *testing.T) {
	e := testEngine()
	ingest(e, [][4]any{{"Dad", "parent-of", "Kid", 1.0}})

	re := New(DefaultConfig()).WithRules(Builtin())
	_, err := re.Run(e)
	require.NoError(t, err)

	kid, _ := e.LookupSymbol("Kid")
	dad, _ := e.LookupSymbol("Dad")
	childOf, _ := e.LookupSymbol("child-of")
	assert.True(t, e.Graph.HasTriple(kid, childOf, dad))
}

func TestFixpointReachedWithNoNewDerivations(t *testing.T) {
	e := testEngine()
	ingest(e, [][4]any{{"A", "has-a", "B", 1.0}})

	cfg := DefaultConfig()
	cfg.MaxIterations = 5
	re := New(cfg).WithRules(Builtin())
	result, err := re.Run(e)
	require.NoError(t, err)

	assert.True(t, result.ReachedFixpoint)
}

func TestMaxIterationsRespected(t *testing.T) {
	e := testEngine()
	ingest(e, [][4]any{
		{"A", "is-a", "B", 1.0},
		{"B", "is-a", "C", 1.0},
		{"C", "is-a", "D", 1.0},
		{"D", "is-a", "E", 1.0},
	})

	cfg := DefaultConfig()
	cfg.MaxIterations = 1
	re := New(cfg).WithRules(Builtin())
	result, err := re.Run(e)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Iterations)
}

func TestMinConfidenceFilter(t *testing.T) {
	e := testEngine()
	ingest(e, [][4]any{
		{"A", "is-a", "B", 0.3},
		{"B", "is-a", "C", 0.3},
	})

	cfg := DefaultConfig()
	cfg.MinConfidence = 0.5
	re := New(cfg).WithRules(Builtin())
	result, err := re.Run(e)
	require.NoError(t, err)

	// 0.95 * avg(0.3, 0.3) = 0.285 < 0.5
	assert.Empty(t, result.Derived)
}

func TestNoDuplicateDerivations(t *testing.T) {
	e := testEngine()
	ingest(e, [][4]any{{"X", "similar-to", "Y", 1.0}})

	cfg := DefaultConfig()
	cfg.MaxIterations = 5
	re := New(cfg).WithRules(Builtin())
	result, err := re.Run(e)
	require.NoError(t, err)

	count := 0
	for _, dt := range result.Derived {
		if dt.RuleName == "similar-to-symmetric" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestConfidencePropagation(t *testing.T) {
	e := testEngine()
	ingest(e, [][4]any{
		{"A", "is-a", "B", 0.8},
		{"B", "is-a", "C", 0.9},
	})

	re := New(DefaultConfig()).WithRules(Builtin())
	result, err := re.Run(e)
	require.NoError(t, err)

	a, _ := e.LookupSymbol("A")
	c, _ := e.LookupSymbol("C")

	var found *DerivedTriple
	for i := range result.Derived {
		dt := &result.Derived[i]
		if dt.Triple.Subject == a && dt.Triple.Object == c {
			found = dt
		}
	}
	require.NotNil(t, found)
	assert.InDelta(t, 0.8075, found.Confidence, 0.01)
}

func TestMaxNewTriplesCap(t *testing.T) {
	e := testEngine()
	ingest(e, [][4]any{
		{"A", "is-a", "B", 1.0},
		{"B", "is-a", "C", 1.0},
		{"C", "is-a", "D", 1.0},
		{"D", "is-a", "E", 1.0},
		{"E", "is-a", "F", 1.0},
	})

	cfg := DefaultConfig()
	cfg.MaxNewTriples = 2
	re := New(cfg).WithRules(Builtin())
	result, err := re.Run(e)
	require.NoError(t, err)

	assert.LessOrEqual(t, len(result.Derived), 2)
}
