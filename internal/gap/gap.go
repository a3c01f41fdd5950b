// Package gap scans anchor entities (typically active goal symbols) for
// knowledge gaps: dead-end entities with too few graph neighbors, and
// missing predicates inferred from the anchor's schema type cluster.
package gap

import (
	"sort"

	"cortexd/internal/engine"
	"cortexd/internal/graph"
	"cortexd/internal/logging"
	"cortexd/internal/schema"
	"cortexd/internal/symbol"
)

var log = logging.Get(logging.CategoryGap)

// Kind distinguishes the two gap varieties this package detects.
type Kind int

const (
	// DeadEnd marks an entity with fewer than Config.MinNeighbors total
	// graph neighbors (incoming + outgoing).
	DeadEnd Kind = iota
	// MissingPredicate marks a predicate typical of the entity's inferred
	// type cluster that the entity itself doesn't carry.
	MissingPredicate
)

// Gap is one identified knowledge gap around an anchor entity.
type Gap struct {
	Entity              symbol.ID
	Kind                Kind
	Description         string
	Severity            float64
	SuggestedPredicates []symbol.ID
}

// Result summarizes one gap-analysis pass over a set of anchors.
type Result struct {
	EntitiesAnalyzed int
	DeadEnds         int
	CoverageScore    float64
	Gaps             []Gap
}

// Config tunes gap analysis.
type Config struct {
	// MaxGaps caps the number of gaps returned, sorted by severity.
	MaxGaps int
	// MinNeighbors is the total-neighbor threshold below which an entity
	// counts as a dead end.
	MinNeighbors int
}

// DefaultConfig reports up to 10 gaps and treats fewer than 2 total
// neighbors as a dead end.
func DefaultConfig() Config {
	return Config{MaxGaps: 10, MinNeighbors: 2}
}

// Analyze scans anchors for dead ends and missing predicates. Schema
// discovery failing for lack of data (fewer than 3 triples in the whole
// graph) isn't fatal — it just disables the missing-predicate heuristic
// for this pass.
func Analyze(e *engine.Engine, anchors []symbol.ID, config Config) (*Result, error) {
	if len(anchors) == 0 {
		return nil, &NoGoalsError{}
	}

	schemaResult, err := schema.Discover(e, schema.DefaultConfig())
	if err != nil {
		log.Debug("gap analysis: schema discovery unavailable: %v", err)
		schemaResult = &schema.Result{}
	}

	var gaps []Gap
	coveredCount := 0

	for _, anchor := range anchors {
		out := e.Graph.TriplesFrom(anchor)
		in := e.Graph.TriplesTo(anchor)
		neighborCount := len(out) + len(in)

		if neighborCount >= config.MinNeighbors {
			coveredCount++
		} else {
			severity := 1.0 - float64(neighborCount)/float64(config.MinNeighbors)
			gaps = append(gaps, Gap{
				Entity:      anchor,
				Kind:        DeadEnd,
				Description: "dead end: " + anchor.String() + " has too few neighbors",
				Severity:    clamp(severity, 0, 1),
			})
		}

		gaps = append(gaps, missingPredicateGaps(anchor, out, schemaResult)...)
	}

	sort.SliceStable(gaps, func(i, j int) bool { return gaps[i].Severity > gaps[j].Severity })
	if config.MaxGaps > 0 && len(gaps) > config.MaxGaps {
		gaps = gaps[:config.MaxGaps]
	}

	result := &Result{
		EntitiesAnalyzed: len(anchors),
		DeadEnds:         len(anchors) - coveredCount,
		CoverageScore:    float64(coveredCount) / float64(len(anchors)),
		Gaps:             gaps,
	}
	log.Debug("gap analysis: %d entities, %d dead ends, coverage %.2f", result.EntitiesAnalyzed, result.DeadEnds, result.CoverageScore)
	return result, nil
}

// missingPredicateGaps compares anchor's outgoing predicate set to the
// typical predicates of whichever discovered type cluster contains it.
func missingPredicateGaps(anchor symbol.ID, out []graph.PredicateObject, schemaResult *schema.Result) []Gap {
	cluster := findCluster(anchor, schemaResult)
	if cluster == nil {
		return nil
	}

	have := make(map[symbol.ID]struct{}, len(out))
	for _, e := range out {
		have[e.Predicate] = struct{}{}
	}

	var gaps []Gap
	for _, tp := range cluster.TypicalPredicates {
		if _, ok := have[tp.Predicate]; ok {
			continue
		}
		gaps = append(gaps, Gap{
			Entity:              anchor,
			Kind:                MissingPredicate,
			Description:         "missing predicate: " + anchor.String() + " lacks " + tp.Predicate.String() + ", typical for its type",
			Severity:            clamp(tp.Coverage, 0, 1),
			SuggestedPredicates: []symbol.ID{tp.Predicate},
		})
	}
	return gaps
}

func findCluster(anchor symbol.ID, schemaResult *schema.Result) *schema.DiscoveredType {
	for i := range schemaResult.Types {
		for _, m := range schemaResult.Types[i].Members {
			if m == anchor {
				return &schemaResult.Types[i]
			}
		}
	}
	return nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
