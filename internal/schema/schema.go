// Package schema discovers implicit structure in a triple graph: entity
// type clusters from shared predicate signatures, co-occurring predicate
// pairs, and predicate implication hierarchies.
package schema

import (
	"sort"

	"cortexd/internal/engine"
	"cortexd/internal/logging"
	"cortexd/internal/symbol"
)

var log = logging.Get(logging.CategorySchema)

// PredicatePattern describes how common a predicate is within a type
// cluster.
type PredicatePattern struct {
	Predicate   symbol.ID
	EntityCount int
	Coverage    float64
}

// DiscoveredType is a cluster of entities whose predicate signatures are
// sufficiently similar (Jaccard > 0.5), along with the predicates typical
// of the cluster and, if the members share one, a common is-a type.
type DiscoveredType struct {
	Exemplar          symbol.ID
	TypeSymbol        symbol.ID
	HasTypeSymbol     bool
	Members           []symbol.ID
	TypicalPredicates []PredicatePattern
}

// RelationHierarchy records that Specific implies General: every entity
// using Specific (almost) always also uses General.
type RelationHierarchy struct {
	Specific              symbol.ID
	General               symbol.ID
	ImplicationStrength   float64
}

// CoOccurrence is a predicate pair with a co-occurrence score: the
// fraction of P1-using entities that also use P2.
type CoOccurrence struct {
	P1    symbol.ID
	P2    symbol.ID
	Score float64
}

// Result is the output of one schema discovery pass.
type Result struct {
	Types                 []DiscoveredType
	CoOccurringPredicates []CoOccurrence
	RelationHierarchies   []RelationHierarchy
}

// Config tunes the discovery thresholds.
type Config struct {
	MinTypeMembers         int
	MinCoOccurrence        float64
	MinImplicationStrength float64
}

// DefaultConfig requires at least 3 members per type cluster and a 0.5 /
// 0.7 threshold for co-occurrence / implication strength respectively.
func DefaultConfig() Config {
	return Config{
		MinTypeMembers:         3,
		MinCoOccurrence:        0.5,
		MinImplicationStrength: 0.7,
	}
}

// Discover analyzes e's graph for type clusters, co-occurring predicates,
// and implication hierarchies. It requires at least 3 triples.
func Discover(e *engine.Engine, config Config) (*Result, error) {
	all := e.Graph.AllTriples()
	if len(all) < 3 {
		return nil, &InsufficientDataError{Min: 3, Actual: len(all)}
	}

	entityPredicates := make(map[symbol.ID]map[symbol.ID]struct{})
	for _, t := range all {
		preds, ok := entityPredicates[t.Subject]
		if !ok {
			preds = make(map[symbol.ID]struct{})
			entityPredicates[t.Subject] = preds
		}
		preds[t.Predicate] = struct{}{}
	}

	types := discoverTypes(entityPredicates, e, config)
	coOcc := discoverCoOccurrences(entityPredicates, config)
	hier := discoverHierarchies(entityPredicates, config)

	log.Debug("schema discovery found %d types, %d co-occurrences, %d hierarchies", len(types), len(coOcc), len(hier))

	return &Result{Types: types, CoOccurringPredicates: coOcc, RelationHierarchies: hier}, nil
}

func discoverTypes(entityPredicates map[symbol.ID]map[symbol.ID]struct{}, e *engine.Engine, config Config) []DiscoveredType {
	entities := make([]symbol.ID, 0, len(entityPredicates))
	for ent := range entityPredicates {
		entities = append(entities, ent)
	}
	sort.Slice(entities, func(i, j int) bool { return entities[i] < entities[j] })

	assigned := make(map[symbol.ID]struct{})
	var types []DiscoveredType

	for _, entity := range entities {
		if _, done := assigned[entity]; done {
			continue
		}
		sig := entityPredicates[entity]
		if len(sig) == 0 {
			continue
		}

		cluster := []symbol.ID{entity}
		for _, other := range entities {
			if other == entity {
				continue
			}
			if _, done := assigned[other]; done {
				continue
			}
			if jaccardIndex(sig, entityPredicates[other]) > 0.5 {
				cluster = append(cluster, other)
			}
		}

		if len(cluster) < config.MinTypeMembers {
			continue
		}
		for _, m := range cluster {
			assigned[m] = struct{}{}
		}

		typeSym, hasType := findCommonType(cluster, e)

		predCounts := make(map[symbol.ID]int)
		for _, m := range cluster {
			for pred := range entityPredicates[m] {
				predCounts[pred]++
			}
		}

		var typical []PredicatePattern
		for pred, count := range predCounts {
			coverage := float64(count) / float64(len(cluster))
			if coverage > 0.5 {
				typical = append(typical, PredicatePattern{Predicate: pred, EntityCount: count, Coverage: coverage})
			}
		}
		sort.Slice(typical, func(i, j int) bool { return typical[i].Predicate < typical[j].Predicate })

		types = append(types, DiscoveredType{
			Exemplar:          cluster[0],
			TypeSymbol:        typeSym,
			HasTypeSymbol:     hasType,
			Members:           cluster,
			TypicalPredicates: typical,
		})
	}

	return types
}

func discoverCoOccurrences(entityPredicates map[symbol.ID]map[symbol.ID]struct{}, config Config) []CoOccurrence {
	predEntityCount := make(map[symbol.ID]int)
	predSet := make(map[symbol.ID]struct{})
	for _, preds := range entityPredicates {
		for pred := range preds {
			predEntityCount[pred]++
			predSet[pred] = struct{}{}
		}
	}

	predList := make([]symbol.ID, 0, len(predSet))
	for p := range predSet {
		predList = append(predList, p)
	}
	sort.Slice(predList, func(i, j int) bool { return predList[i] < predList[j] })

	var out []CoOccurrence
	for i := 0; i < len(predList); i++ {
		for j := i + 1; j < len(predList); j++ {
			p1, p2 := predList[i], predList[j]
			both := 0
			for _, preds := range entityPredicates {
				_, has1 := preds[p1]
				_, has2 := preds[p2]
				if has1 && has2 {
					both++
				}
			}
			p1Count := predEntityCount[p1]
			if p1Count == 0 {
				continue
			}
			score := float64(both) / float64(p1Count)
			if score >= config.MinCoOccurrence {
				out = append(out, CoOccurrence{P1: p1, P2: p2, Score: score})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func discoverHierarchies(entityPredicates map[symbol.ID]map[symbol.ID]struct{}, config Config) []RelationHierarchy {
	predEntityCount := make(map[symbol.ID]int)
	predSet := make(map[symbol.ID]struct{})
	for _, preds := range entityPredicates {
		for pred := range preds {
			predEntityCount[pred]++
			predSet[pred] = struct{}{}
		}
	}

	predList := make([]symbol.ID, 0, len(predSet))
	for p := range predSet {
		predList = append(predList, p)
	}
	sort.Slice(predList, func(i, j int) bool { return predList[i] < predList[j] })

	var out []RelationHierarchy
	for _, p1 := range predList {
		p1Count := predEntityCount[p1]
		if p1Count == 0 {
			continue
		}
		for _, p2 := range predList {
			if p1 == p2 {
				continue
			}
			both := 0
			for _, preds := range entityPredicates {
				_, has1 := preds[p1]
				_, has2 := preds[p2]
				if has1 && has2 {
					both++
				}
			}
			strength := float64(both) / float64(p1Count)
			if strength >= config.MinImplicationStrength {
				out = append(out, RelationHierarchy{Specific: p1, General: p2, ImplicationStrength: strength})
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ImplicationStrength > out[j].ImplicationStrength })
	return out
}

// jaccardIndex is |a ∩ b| / |a ∪ b|, 0 when both sets are empty.
func jaccardIndex(a, b map[symbol.ID]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// findCommonType reports the is-a target shared by a strict majority of
// members, if one exists.
func findCommonType(members []symbol.ID, e *engine.Engine) (symbol.ID, bool) {
	isA, err := e.LookupSymbol("is-a")
	if err != nil {
		return 0, false
	}

	typeCounts := make(map[symbol.ID]int)
	for _, m := range members {
		for _, t := range e.Graph.ObjectsOf(m, isA) {
			typeCounts[t]++
		}
	}

	var best symbol.ID
	bestCount := 0
	for t, count := range typeCounts {
		if count > bestCount {
			best, bestCount = t, count
		}
	}
	if bestCount > len(members)/2 {
		return best, true
	}
	return 0, false
}
