// Package rules defines the data-driven forward-chaining rule vocabulary:
// terms, triple patterns, rule kinds, inference rules, and rule sets. Rules
// are data, not code — a RuleSet can come from Builtin(), from JSON,
// or from the extended text format parsed by ParseRuleSetFromText.
package rules

import (
	"strconv"
	"strings"

	"cortexd/internal/symbol"
)

// TermKind distinguishes the three forms a RuleTerm can take.
type TermKind int

const (
	// TermConcrete holds an already-resolved symbol id.
	TermConcrete TermKind = iota
	// TermVariable binds to whatever symbol a match assigns it (e.g. "?X").
	TermVariable
	// TermLabel is resolved to a symbol id at match/instantiation time.
	TermLabel
)

// RuleTerm is a term in a rule pattern: a concrete symbol, a variable
// binding, or a label resolved at execution time.
type RuleTerm struct {
	Kind     TermKind
	Concrete symbol.ID
	Variable string
	Label    string
}

// Concrete constructs a RuleTerm bound to an already-resolved symbol id.
func Concrete(id symbol.ID) RuleTerm { return RuleTerm{Kind: TermConcrete, Concrete: id} }

// Var constructs a variable term (without the leading '?').
func Var(name string) RuleTerm { return RuleTerm{Kind: TermVariable, Variable: name} }

// Label constructs a label term, resolved against the engine's symbol table
// at match/instantiation time.
func Label(label string) RuleTerm { return RuleTerm{Kind: TermLabel, Label: label} }

// IsVariable reports whether this term is a variable binding.
func (t RuleTerm) IsVariable() bool { return t.Kind == TermVariable }

// ParseTerm parses a single token: "?X" is a variable, a bare integer is a
// concrete symbol id, and anything else is a label.
func ParseTerm(token string) RuleTerm {
	token = strings.TrimSpace(token)
	if v, ok := strings.CutPrefix(token, "?"); ok {
		return Var(v)
	}
	if raw, err := strconv.ParseUint(token, 10, 64); err == nil && raw != 0 {
		return Concrete(symbol.ID(raw))
	}
	return Label(token)
}

// TriplePattern is one (subject, predicate, object) pattern inside a rule.
type TriplePattern struct {
	Subject   RuleTerm
	Predicate RuleTerm
	Object    RuleTerm
}

// ParseTriplePattern parses "(?X is-a ?Y)" syntax.
func ParseTriplePattern(s string) (TriplePattern, error) {
	s = strings.TrimSpace(s)
	inner := s
	if strings.HasPrefix(inner, "(") && strings.HasSuffix(inner, ")") {
		inner = inner[1 : len(inner)-1]
	}
	parts := strings.Fields(inner)
	if len(parts) != 3 {
		return TriplePattern{}, &RuleParseError{
			Message: "triple pattern must have exactly 3 terms, got " + strconv.Itoa(len(parts)) + ": '" + s + "'",
		}
	}
	return TriplePattern{
		Subject:   ParseTerm(parts[0]),
		Predicate: ParseTerm(parts[1]),
		Object:    ParseTerm(parts[2]),
	}, nil
}

// RuleKind classifies the logical inference a rule performs.
type RuleKind struct {
	Name   string // "transitive", "inverse", "symmetric", "domain", "range", "type", or a custom name
	Custom bool
}

var (
	KindTransitiveClosure = RuleKind{Name: "transitive"}
	KindInverseRelation   = RuleKind{Name: "inverse"}
	KindSymmetricRelation = RuleKind{Name: "symmetric"}
	KindDomainConstraint  = RuleKind{Name: "domain"}
	KindRangeConstraint   = RuleKind{Name: "range"}
	KindTypeSubsumption   = RuleKind{Name: "type"}
)

// CustomKind builds a RuleKind for an application-specific classification
// that has no fixed builtin meaning (e.g. "circular-dep").
func CustomKind(name string) RuleKind { return RuleKind{Name: name, Custom: true} }

// ParseRuleKind parses a rule-kind token, case-insensitively, accepting both
// the short and long spellings used by the text format.
func ParseRuleKind(s string) RuleKind {
	switch strings.ToLower(s) {
	case "transitiveclosure", "transitive":
		return KindTransitiveClosure
	case "inverserelation", "inverse":
		return KindInverseRelation
	case "symmetricrelation", "symmetric":
		return KindSymmetricRelation
	case "domainconstraint", "domain":
		return KindDomainConstraint
	case "rangeconstraint", "range":
		return KindRangeConstraint
	case "typesubsumption", "type":
		return KindTypeSubsumption
	default:
		return CustomKind(strings.ToLower(s))
	}
}

// InferenceRule is one forward-chaining rule: match antecedents, produce
// consequents, scaled by a confidence factor.
type InferenceRule struct {
	Name                     string
	Kind                     RuleKind
	Antecedents              []TriplePattern
	Consequents              []TriplePattern
	ConfidenceFactor         float64
	Enabled                  bool
	MaxDerivationsPerIteration int
}

// NewRule constructs a rule with the defaults the engine assumes: enabled,
// confidence factor 1.0, and a per-iteration derivation cap of 1000.
func NewRule(name string, kind RuleKind) InferenceRule {
	return InferenceRule{
		Name:                     name,
		Kind:                     kind,
		Enabled:                  true,
		ConfidenceFactor:         1.0,
		MaxDerivationsPerIteration: 1000,
	}
}

// WithAntecedents sets the rule's antecedent patterns and returns the rule.
func (r InferenceRule) WithAntecedents(p ...TriplePattern) InferenceRule {
	r.Antecedents = p
	return r
}

// WithConsequents sets the rule's consequent patterns and returns the rule.
func (r InferenceRule) WithConsequents(p ...TriplePattern) InferenceRule {
	r.Consequents = p
	return r
}

// WithConfidence sets the rule's confidence factor and returns the rule.
func (r InferenceRule) WithConfidence(c float64) InferenceRule {
	r.ConfidenceFactor = c
	return r
}

// RuleSet is a named, sourced collection of rules.
type RuleSet struct {
	Name   string
	Rules  []InferenceRule
	Source string
}

// EnabledCount returns the number of enabled rules in the set.
func (rs RuleSet) EnabledCount() int {
	n := 0
	for _, r := range rs.Rules {
		if r.Enabled {
			n++
		}
	}
	return n
}

func pat(s, p, o RuleTerm) TriplePattern {
	return TriplePattern{Subject: s, Predicate: p, Object: o}
}

// Builtin returns the six built-in ontological inference rules.
func Builtin() RuleSet {
	return RuleSet{
		Name:   "builtin",
		Source: "builtin",
		Rules: []InferenceRule{
			NewRule("is-a-transitive", KindTransitiveClosure).
				WithAntecedents(
					pat(Var("X"), Label("is-a"), Var("Y")),
					pat(Var("Y"), Label("is-a"), Var("Z")),
				).
				WithConsequents(pat(Var("X"), Label("is-a"), Var("Z"))).
				WithConfidence(0.95),

			NewRule("part-of-transitive", KindTransitiveClosure).
				WithAntecedents(
					pat(Var("X"), Label("part-of"), Var("Y")),
					pat(Var("Y"), Label("part-of"), Var("Z")),
				).
				WithConsequents(pat(Var("X"), Label("part-of"), Var("Z"))).
				WithConfidence(0.90),

			NewRule("similar-to-symmetric", KindSymmetricRelation).
				WithAntecedents(pat(Var("X"), Label("similar-to"), Var("Y"))).
				WithConsequents(pat(Var("Y"), Label("similar-to"), Var("X"))).
				WithConfidence(1.0),

			NewRule("parent-child-inverse", KindInverseRelation).
				WithAntecedents(pat(Var("X"), Label("parent-of"), Var("Y"))).
				WithConsequents(pat(Var("Y"), Label("child-of"), Var("X"))).
				WithConfidence(1.0),

			NewRule("contains-part-inverse", KindInverseRelation).
				WithAntecedents(pat(Var("X"), Label("contains"), Var("Y"))).
				WithConsequents(pat(Var("Y"), Label("part-of"), Var("X"))).
				WithConfidence(1.0),

			NewRule("has-a-transitive", KindTransitiveClosure).
				WithAntecedents(
					pat(Var("X"), Label("has-a"), Var("Y")),
					pat(Var("Y"), Label("has-a"), Var("Z")),
				).
				WithConsequents(pat(Var("X"), Label("has-a"), Var("Z"))).
				WithConfidence(0.85),
		},
	}
}

// CodeRules returns the six code-structure inference rules. They compose
// with Builtin since code entities also use is-a (e.g. "Engine is-a Struct").
func CodeRules() RuleSet {
	return RuleSet{
		Name:   "code",
		Source: "builtin-code",
		Rules: []InferenceRule{
			NewRule("depends-on-transitive", KindTransitiveClosure).
				WithAntecedents(
					pat(Var("X"), Label("code:depends-on"), Var("Y")),
					pat(Var("Y"), Label("code:depends-on"), Var("Z")),
				).
				WithConsequents(pat(Var("X"), Label("code:depends-on"), Var("Z"))).
				WithConfidence(0.85),

			NewRule("module-containment-transitive", KindTransitiveClosure).
				WithAntecedents(
					pat(Var("X"), Label("code:contains-mod"), Var("Y")),
					pat(Var("Y"), Label("code:contains-mod"), Var("Z")),
				).
				WithConsequents(pat(Var("X"), Label("code:contains-mod"), Var("Z"))).
				WithConfidence(0.95),

			NewRule("trait-method-inheritance", KindTypeSubsumption).
				WithAntecedents(
					pat(Var("X"), Label("code:implements-trait"), Var("T")),
					pat(Var("T"), Label("code:has-method"), Var("M")),
				).
				WithConsequents(pat(Var("X"), Label("code:has-method"), Var("M"))).
				WithConfidence(0.90),

			NewRule("circular-dependency", CustomKind("circular-dep")).
				WithAntecedents(
					pat(Var("X"), Label("code:depends-on"), Var("Y")),
					pat(Var("Y"), Label("code:depends-on"), Var("X")),
				).
				WithConsequents(pat(Var("X"), Label("code:circular-dep"), Var("Y"))).
				WithConfidence(1.0),

			NewRule("defines-fn-inverse", KindInverseRelation).
				WithAntecedents(pat(Var("X"), Label("code:defines-fn"), Var("Y"))).
				WithConsequents(pat(Var("Y"), Label("code:defined-in"), Var("X"))).
				WithConfidence(1.0),

			NewRule("defines-struct-inverse", KindInverseRelation).
				WithAntecedents(pat(Var("X"), Label("code:defines-struct"), Var("Y"))).
				WithConsequents(pat(Var("Y"), Label("code:defined-in"), Var("X"))).
				WithConfidence(1.0),
		},
	}
}
