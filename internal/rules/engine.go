package rules

import (
	"cortexd/internal/engine"
	"cortexd/internal/graph"
	"cortexd/internal/logging"
	"cortexd/internal/provenance"
	"cortexd/internal/symbol"
)

var log = logging.Get(logging.CategoryRules)

// Config tunes forward-chaining: how many iterations to run, the
// confidence floor for derived triples, whether derivations commit to the
// graph as they're produced, and a hard ceiling on total new triples.
type Config struct {
	MaxIterations   int
	MinConfidence   float64
	AutoCommit      bool
	MaxNewTriples   int
}

// DefaultConfig matches the forward-chaining defaults: 10 iterations, a
// 0.1 confidence floor, auto-commit on, and a 1000-triple ceiling.
func DefaultConfig() Config {
	return Config{
		MaxIterations: 10,
		MinConfidence: 0.1,
		AutoCommit:    true,
		MaxNewTriples: 1000,
	}
}

// DerivedTriple is one triple produced by forward-chaining, with the rule
// and antecedent evidence that produced it.
type DerivedTriple struct {
	Triple             graph.Triple
	RuleName           string
	AntecedentTriples  []graph.Triple
	Confidence         float64
	Iteration          int
}

// Result summarizes one forward-chaining run.
type Result struct {
	Derived         []DerivedTriple
	Iterations      int
	ReachedFixpoint bool
	RuleStats       map[string]int
}

// Engine is the forward-chaining rule engine: a fixed configuration plus
// the rule sets to run against an engine.Engine's graph.
type Engine struct {
	config   Config
	ruleSets []RuleSet
}

// New returns an Engine with the given configuration and no rule sets.
func New(config Config) *Engine {
	return &Engine{config: config}
}

// WithRules appends a rule set and returns the engine for chaining.
func (e *Engine) WithRules(rs RuleSet) *Engine {
	e.ruleSets = append(e.ruleSets, rs)
	return e
}

type binding struct {
	vars    map[string]symbol.ID
	matched []graph.Triple
}

// Run performs forward-chaining to a fixpoint or the configured iteration
// cap, whichever comes first, storing a provenance record for every derived
// triple in eng and, when config.AutoCommit is set, committing the triple
// to eng's graph as it goes.
func (e *Engine) Run(eng *engine.Engine) (*Result, error) {
	var derived []DerivedTriple
	ruleStats := make(map[string]int)
	derivedSet := make(map[[3]symbol.ID]struct{})

	var activeRules []InferenceRule
	for _, rs := range e.ruleSets {
		for _, r := range rs.Rules {
			if r.Enabled {
				activeRules = append(activeRules, r)
			}
		}
	}

	iteration := 0
	reachedFixpoint := false

	for iter := 0; iter < e.config.MaxIterations; iter++ {
		iteration = iter + 1
		var newThisRound []DerivedTriple

	rulesLoop:
		for _, rule := range activeRules {
			bindingsList := e.matchAntecedents(rule, eng)

			ruleDerivedCount := 0
			for _, b := range bindingsList {
				if ruleDerivedCount >= rule.MaxDerivationsPerIteration {
					break
				}

				for _, consequent := range rule.Consequents {
					t, ok := e.instantiatePattern(consequent, b.vars, eng)
					if !ok {
						continue
					}
					k := [3]symbol.ID{t.Subject, t.Predicate, t.Object}

					if eng.Graph.HasTriple(t.Subject, t.Predicate, t.Object) {
						continue
					}
					if _, seen := derivedSet[k]; seen {
						continue
					}

					confidence := rule.ConfidenceFactor * avgConfidence(b.matched)
					if confidence < e.config.MinConfidence {
						continue
					}

					t.Confidence = confidence
					dt := DerivedTriple{
						Triple:            t,
						RuleName:          rule.Name,
						AntecedentTriples: append([]graph.Triple(nil), b.matched...),
						Confidence:        confidence,
						Iteration:         iteration,
					}

					derivedSet[k] = struct{}{}
					newThisRound = append(newThisRound, dt)
					ruleDerivedCount++

					if len(derived)+len(newThisRound) >= e.config.MaxNewTriples {
						break rulesLoop
					}
				}
			}

			ruleStats[rule.Name] += ruleDerivedCount
		}

		if len(newThisRound) == 0 {
			reachedFixpoint = true
			break
		}

		for _, dt := range newThisRound {
			if e.config.AutoCommit {
				eng.Graph.AddTriple(dt.Triple.Subject, dt.Triple.Predicate, dt.Triple.Object, dt.Triple.Confidence, dt.Triple.Compartment)
			}

			antecedentIDs := make([]symbol.ID, 0, len(dt.AntecedentTriples))
			for _, at := range dt.AntecedentTriples {
				antecedentIDs = append(antecedentIDs, at.Subject)
			}
			eng.Provenance.StoreProvenance(provenance.Record{
				DerivedSymbol: dt.Triple.Subject,
				Sources:       antecedentIDs,
				Kind:          provenance.RuleInference(dt.RuleName, antecedentIDs),
				Confidence:    dt.Confidence,
				Depth:         dt.Iteration,
			})
		}

		derived = append(derived, newThisRound...)
		log.Debug("forward chaining iteration %d derived %d triples", iteration, len(newThisRound))

		if len(derived) >= e.config.MaxNewTriples {
			break
		}
	}

	return &Result{
		Derived:         derived,
		Iterations:      iteration,
		ReachedFixpoint: reachedFixpoint,
		RuleStats:       ruleStats,
	}, nil
}

// matchAntecedents matches every antecedent of rule in sequence, extending
// the binding set produced by each prior antecedent.
func (e *Engine) matchAntecedents(rule InferenceRule, eng *engine.Engine) []binding {
	if len(rule.Antecedents) == 0 {
		return nil
	}

	first := e.matchPattern(rule.Antecedents[0], nil, eng)
	results := make([]binding, 0, len(first))
	for _, m := range first {
		results = append(results, binding{vars: m.vars, matched: []graph.Triple{m.triple}})
	}

	for _, pattern := range rule.Antecedents[1:] {
		var next []binding
		for _, b := range results {
			extensions := e.matchPattern(pattern, b.vars, eng)
			for _, ext := range extensions {
				combined := make(map[string]symbol.ID, len(b.vars)+len(ext.vars))
				for k, v := range b.vars {
					combined[k] = v
				}
				for k, v := range ext.vars {
					combined[k] = v
				}
				matched := append(append([]graph.Triple(nil), b.matched...), ext.triple)
				next = append(next, binding{vars: combined, matched: matched})
			}
		}
		results = next
		if len(results) == 0 {
			break
		}
	}

	return results
}

type patternMatch struct {
	vars   map[string]symbol.ID
	triple graph.Triple
}

// matchPattern matches one triple pattern against the graph, given the
// bindings accumulated from earlier antecedents. When the predicate term
// resolves to a concrete symbol, it uses the predicate index as a fast
// path; otherwise it scans every triple.
func (e *Engine) matchPattern(pattern TriplePattern, bindings map[string]symbol.ID, eng *engine.Engine) []patternMatch {
	// Label terms match only the symbol they name; a label with no symbol
	// cannot match any triple.
	for _, term := range []*RuleTerm{&pattern.Subject, &pattern.Predicate, &pattern.Object} {
		if term.Kind == TermLabel {
			id, ok := e.resolveTerm(*term, bindings, eng)
			if !ok {
				return nil
			}
			*term = Concrete(id)
		}
	}

	var candidates []graph.Triple

	if predID, ok := e.resolveTerm(pattern.Predicate, bindings, eng); ok {
		for _, so := range eng.Graph.TriplesWithPredicate(predID) {
			candidates = append(candidates, graph.Triple{
				Subject: so.Subject, Predicate: predID, Object: so.Object,
				Confidence: so.Confidence, Compartment: so.Compartment,
			})
		}
	} else {
		candidates = eng.Graph.AllTriples()
	}

	var results []patternMatch
	for _, t := range candidates {
		newBindings := make(map[string]symbol.ID)
		if e.matchTerm(pattern.Subject, t.Subject, bindings, newBindings) &&
			e.matchTerm(pattern.Predicate, t.Predicate, bindings, newBindings) &&
			e.matchTerm(pattern.Object, t.Object, bindings, newBindings) {
			results = append(results, patternMatch{vars: newBindings, triple: t})
		}
	}
	return results
}

// matchTerm tries to match a single term against a concrete symbol value,
// recording new variable bindings as it succeeds. matchPattern resolves
// label terms to concrete ids before calling it, so the label case is not
// reached from there.
func (e *Engine) matchTerm(term RuleTerm, value symbol.ID, existing, fresh map[string]symbol.ID) bool {
	switch term.Kind {
	case TermConcrete:
		return term.Concrete == value
	case TermVariable:
		if v, ok := existing[term.Variable]; ok {
			return v == value
		}
		if v, ok := fresh[term.Variable]; ok {
			return v == value
		}
		fresh[term.Variable] = value
		return true
	default: // TermLabel
		return true
	}
}

// resolveTerm resolves a term to a concrete symbol id if possible, without
// creating anything.
func (e *Engine) resolveTerm(term RuleTerm, bindings map[string]symbol.ID, eng *engine.Engine) (symbol.ID, bool) {
	switch term.Kind {
	case TermConcrete:
		return term.Concrete, true
	case TermVariable:
		v, ok := bindings[term.Variable]
		return v, ok
	default: // TermLabel
		id, err := eng.LookupSymbol(term.Label)
		return id, err == nil
	}
}

// instantiatePattern instantiates a consequent pattern under bindings,
// returning false if any term can't be resolved.
func (e *Engine) instantiatePattern(pattern TriplePattern, bindings map[string]symbol.ID, eng *engine.Engine) (graph.Triple, bool) {
	s, ok := e.instantiateTerm(pattern.Subject, bindings, eng)
	if !ok {
		return graph.Triple{}, false
	}
	p, ok := e.instantiateTerm(pattern.Predicate, bindings, eng)
	if !ok {
		return graph.Triple{}, false
	}
	o, ok := e.instantiateTerm(pattern.Object, bindings, eng)
	if !ok {
		return graph.Triple{}, false
	}
	return graph.Triple{Subject: s, Predicate: p, Object: o}, true
}

// instantiateTerm resolves variables from bindings and labels from the
// engine's symbol table, auto-creating a relation symbol for an
// unresolved label — consequent predicates are the common case, but any
// label position behaves the same way.
func (e *Engine) instantiateTerm(term RuleTerm, bindings map[string]symbol.ID, eng *engine.Engine) (symbol.ID, bool) {
	switch term.Kind {
	case TermConcrete:
		return term.Concrete, true
	case TermVariable:
		v, ok := bindings[term.Variable]
		return v, ok
	default: // TermLabel
		return eng.ResolveOrCreateRelation(term.Label), true
	}
}

// avgConfidence is the mean confidence of matched antecedent triples,
// defaulting to 1.0 for a rule with no antecedents.
func avgConfidence(triples []graph.Triple) float64 {
	if len(triples) == 0 {
		return 1.0
	}
	sum := 0.0
	for _, t := range triples {
		sum += t.Confidence
	}
	return sum / float64(len(triples))
}
