package rules

import (
	"strings"

	"github.com/google/mangle/ast"
)

// ValidateLabelSyntax checks label against mangle's name-constant grammar.
// The text rule format calls it on the rule name of each @rule header,
// catching malformed names (stray punctuation, embedded whitespace) at
// parse time; labels inside match:/produce: patterns are not passed
// through it. Full mangle evaluation is not used here — see
// DESIGN.md for why the rule engine keeps its own forward-chaining loop
// instead of compiling rules through mangle's Datalog evaluator.
func ValidateLabelSyntax(label string) error {
	candidate := label
	if !strings.HasPrefix(candidate, "/") {
		candidate = "/" + candidate
	}
	if _, err := ast.Name(candidate); err != nil {
		return &RuleParseError{RuleName: label, Message: "invalid predicate syntax: " + err.Error()}
	}
	return nil
}
