package rules

import (
	"bufio"
	"encoding/json"
	"strconv"
	"strings"
)

// ParseRuleSetFromJSON parses a RuleSet from a JSON array of InferenceRule
// values (marshaled via ruleJSON below).
func ParseRuleSetFromJSON(data []byte, source string) (RuleSet, error) {
	var raw []ruleJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return RuleSet{}, &RuleParseError{Message: "JSON parse error: " + err.Error()}
	}
	rules := make([]InferenceRule, 0, len(raw))
	for _, r := range raw {
		rules = append(rules, r.toRule())
	}
	return RuleSet{Name: source, Source: source, Rules: rules}, nil
}

// MarshalRulesJSON renders rules as a JSON array, for round-tripping
// through ParseRuleSetFromJSON.
func MarshalRulesJSON(rules []InferenceRule) ([]byte, error) {
	raw := make([]ruleJSON, 0, len(rules))
	for _, r := range rules {
		raw = append(raw, fromRule(r))
	}
	return json.Marshal(raw)
}

// ruleJSON is the wire shape for InferenceRule: RuleTerm's three variants
// collapse to a tagged {kind, value} pair rather than Go's untagged struct.
type ruleJSON struct {
	Name                       string          `json:"name"`
	Kind                       string          `json:"kind"`
	Antecedents                []patternJSON   `json:"antecedents"`
	Consequents                []patternJSON   `json:"consequents"`
	ConfidenceFactor           float64         `json:"confidence_factor"`
	Enabled                    bool            `json:"enabled"`
	MaxDerivationsPerIteration int             `json:"max_derivations_per_iteration"`
}

type patternJSON struct {
	Subject   termJSON `json:"subject"`
	Predicate termJSON `json:"predicate"`
	Object    termJSON `json:"object"`
}

type termJSON struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

func fromTerm(t RuleTerm) termJSON {
	switch t.Kind {
	case TermConcrete:
		return termJSON{Kind: "concrete", Value: strconv.FormatUint(t.Concrete.Raw(), 10)}
	case TermVariable:
		return termJSON{Kind: "variable", Value: t.Variable}
	default:
		return termJSON{Kind: "label", Value: t.Label}
	}
}

func (t termJSON) toTerm() RuleTerm {
	switch t.Kind {
	case "concrete":
		raw, _ := strconv.ParseUint(t.Value, 10, 64)
		return ParseTerm(strconv.FormatUint(raw, 10))
	case "variable":
		return Var(t.Value)
	default:
		return Label(t.Value)
	}
}

func fromPattern(p TriplePattern) patternJSON {
	return patternJSON{Subject: fromTerm(p.Subject), Predicate: fromTerm(p.Predicate), Object: fromTerm(p.Object)}
}

func (p patternJSON) toPattern() TriplePattern {
	return TriplePattern{Subject: p.Subject.toTerm(), Predicate: p.Predicate.toTerm(), Object: p.Object.toTerm()}
}

func fromRule(r InferenceRule) ruleJSON {
	ants := make([]patternJSON, 0, len(r.Antecedents))
	for _, a := range r.Antecedents {
		ants = append(ants, fromPattern(a))
	}
	cons := make([]patternJSON, 0, len(r.Consequents))
	for _, c := range r.Consequents {
		cons = append(cons, fromPattern(c))
	}
	kind := r.Kind.Name
	return ruleJSON{
		Name:                       r.Name,
		Kind:                       kind,
		Antecedents:                ants,
		Consequents:                cons,
		ConfidenceFactor:           r.ConfidenceFactor,
		Enabled:                    r.Enabled,
		MaxDerivationsPerIteration: r.MaxDerivationsPerIteration,
	}
}

func (r ruleJSON) toRule() InferenceRule {
	rule := NewRule(r.Name, ParseRuleKind(r.Kind))
	for _, a := range r.Antecedents {
		rule.Antecedents = append(rule.Antecedents, a.toPattern())
	}
	for _, c := range r.Consequents {
		rule.Consequents = append(rule.Consequents, c.toPattern())
	}
	rule.ConfidenceFactor = r.ConfidenceFactor
	rule.Enabled = r.Enabled
	if r.MaxDerivationsPerIteration > 0 {
		rule.MaxDerivationsPerIteration = r.MaxDerivationsPerIteration
	}
	return rule
}

// ParseRuleSetFromText parses the extended text format:
//
//	@rule is-a-transitive transitive
//	  match: (?X is-a ?Y), (?Y is-a ?Z)
//	  produce: (?X is-a ?Z)
//	  confidence: 0.95
//
// Lines without an "@rule" prefix are ignored, so legacy rule lines in the
// same file pass through harmlessly.
func ParseRuleSetFromText(text, source string) (RuleSet, error) {
	var out []InferenceRule
	scanner := bufio.NewScanner(strings.NewReader(text))
	lines := make([]string, 0, 64)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	for i := 0; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		rest, ok := strings.CutPrefix(trimmed, "@rule")
		if !ok {
			continue
		}
		parts := strings.SplitN(strings.TrimSpace(rest), " ", 2)
		if len(parts) < 2 {
			return RuleSet{}, &RuleParseError{RuleName: strings.TrimSpace(rest), Message: "@rule requires a name and a kind"}
		}
		name := parts[0]
		if err := ValidateLabelSyntax(name); err != nil {
			return RuleSet{}, err
		}
		kind := ParseRuleKind(parts[1])

		var antecedents, consequents []TriplePattern
		confidence := 1.0

		for i+1 < len(lines) {
			next := strings.TrimSpace(lines[i+1])
			if next == "" || strings.HasPrefix(next, "@") {
				break
			}
			i++

			switch {
			case strings.HasPrefix(next, "match:"):
				for _, ps := range splitPatterns(strings.TrimPrefix(next, "match:")) {
					p, err := ParseTriplePattern(ps)
					if err != nil {
						return RuleSet{}, &RuleParseError{RuleName: name, Message: err.Error()}
					}
					antecedents = append(antecedents, p)
				}
			case strings.HasPrefix(next, "produce:"):
				for _, ps := range splitPatterns(strings.TrimPrefix(next, "produce:")) {
					p, err := ParseTriplePattern(ps)
					if err != nil {
						return RuleSet{}, &RuleParseError{RuleName: name, Message: err.Error()}
					}
					consequents = append(consequents, p)
				}
			case strings.HasPrefix(next, "confidence:"):
				confStr := strings.TrimSpace(strings.TrimPrefix(next, "confidence:"))
				c, err := strconv.ParseFloat(confStr, 64)
				if err != nil {
					return RuleSet{}, &RuleParseError{RuleName: name, Message: "invalid confidence: " + err.Error()}
				}
				confidence = c
			}
			// Unknown keys are skipped.
		}

		out = append(out, NewRule(name, kind).
			WithAntecedents(antecedents...).
			WithConsequents(consequents...).
			WithConfidence(confidence))
	}

	return RuleSet{Name: source, Source: source, Rules: out}, nil
}

// splitPatterns splits a comma-separated list of "(...)" patterns. If no
// parentheses are found the whole string is treated as a single pattern.
func splitPatterns(s string) []string {
	s = strings.TrimSpace(s)
	var results []string
	depth := 0
	start := 0

	for i, ch := range s {
		switch ch {
		case '(':
			if depth == 0 {
				start = i
			}
			depth++
		case ')':
			depth--
			if depth == 0 {
				results = append(results, s[start:i+1])
			}
		}
	}

	if len(results) == 0 && s != "" {
		results = append(results, s)
	}
	return results
}
