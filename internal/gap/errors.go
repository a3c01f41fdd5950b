package gap

import "fmt"

// NoGoalsError reports that gap analysis was asked to run with no anchor
// symbols.
type NoGoalsError struct{}

func (e *NoGoalsError) Error() string { return "gap: no anchor symbols given for gap analysis" }

func (e *NoGoalsError) Code() string { return "gap::no_goals" }

func (e *NoGoalsError) Help() string { return "pass at least one goal/anchor symbol to Analyze" }

// InvalidAnchorError reports an anchor symbol with no triples touching it
// at all — there is nothing to analyze around it.
type InvalidAnchorError struct {
	Anchor uint64
}

func (e *InvalidAnchorError) Error() string {
	return fmt.Sprintf("gap: anchor symbol %d has no triples", e.Anchor)
}

func (e *InvalidAnchorError) Code() string { return "gap::invalid_anchor" }

func (e *InvalidAnchorError) Help() string { return "resolve or create the anchor before analyzing gaps around it" }
