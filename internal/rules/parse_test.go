package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextFormatParsing(t *testing.T) {
	text := `
@rule my-transitive transitive
  match: (?X rel ?Y), (?Y rel ?Z)
  produce: (?X rel ?Z)
  confidence: 0.9

# Legacy rule line (ignored)
(similar ?x ?y) => (similar ?y ?x)
`
	rs, err := ParseRuleSetFromText(text, "test")
	require.NoError(t, err)
	require.Len(t, rs.Rules, 1)
	assert.Equal(t, "my-transitive", rs.Rules[0].Name)
	assert.Len(t, rs.Rules[0].Antecedents, 2)
	assert.Len(t, rs.Rules[0].Consequents, 1)
	assert.Equal(t, 0.9, rs.Rules[0].ConfidenceFactor)
}

func TestTextFormatMissingKindErrors(t *testing.T) {
	_, err := ParseRuleSetFromText("@rule lonely\n", "test")
	require.Error(t, err)
	var pe *RuleParseError
	assert.ErrorAs(t, err, &pe)
}

func TestJSONRoundTrip(t *testing.T) {
	rule := NewRule("test", KindTransitiveClosure).
		WithAntecedents(pat(Var("X"), Label("is-a"), Var("Y"))).
		WithConsequents(pat(Var("X"), Label("is-a"), Var("Y"))).
		WithConfidence(0.8)

	data, err := MarshalRulesJSON([]InferenceRule{rule})
	require.NoError(t, err)

	rs, err := ParseRuleSetFromJSON(data, "test")
	require.NoError(t, err)
	require.Len(t, rs.Rules, 1)
	assert.Equal(t, 0.8, rs.Rules[0].ConfidenceFactor)
	assert.Equal(t, "test", rs.Rules[0].Name)
}

func TestSplitPatternsNoParens(t *testing.T) {
	got := splitPatterns("bare-token")
	require.Len(t, got, 1)
	assert.Equal(t, "bare-token", got[0])
}

func TestSplitPatternsMultiple(t *testing.T) {
	got := splitPatterns("(?X is-a ?Y), (?Y is-a ?Z)")
	require.Len(t, got, 2)
	assert.Equal(t, "(?X is-a ?Y)", got[0])
	assert.Equal(t, "(?Y is-a ?Z)", got[1])
}
