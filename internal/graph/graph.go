// Package graph implements the RDF-style triple graph: an indexed multiset
// of (subject, predicate, object, confidence) tuples with S, O, and P
// indices supporting O(fanout) lookups in every direction.
package graph

import (
	"sync"

	"cortexd/internal/logging"
	"cortexd/internal/symbol"
)

var log = logging.Get(logging.CategoryGraph)

// Triple is one fact: (subject, predicate, object) with a confidence in
// [0,1] and an optional compartment tag scoping which context it belongs to.
type Triple struct {
	Subject     symbol.ID
	Predicate   symbol.ID
	Object      symbol.ID
	Confidence  float64
	Compartment string
}

type key struct {
	s, p, o symbol.ID
}

// PredicateObject is an edge in the subject index: (predicate, object,
// confidence) outgoing from some implicit subject.
type PredicateObject struct {
	Predicate   symbol.ID
	Object      symbol.ID
	Confidence  float64
	Compartment string
}

// SubjectPredicate is an edge in the object index: (subject, predicate,
// confidence) incoming to some implicit object.
type SubjectPredicate struct {
	Subject     symbol.ID
	Predicate   symbol.ID
	Confidence  float64
	Compartment string
}

// SubjectObject is an edge in the predicate index: (subject, object,
// confidence) for some implicit predicate.
type SubjectObject struct {
	Subject     symbol.ID
	Object      symbol.ID
	Confidence  float64
	Compartment string
}

// Graph is the triple store. One exclusive writer, many concurrent readers,
// via a single RWMutex guarding all three indices and the dedup set.
type Graph struct {
	mu sync.RWMutex

	bySubject   map[symbol.ID][]PredicateObject
	byObject    map[symbol.ID][]SubjectPredicate
	byPredicate map[symbol.ID][]SubjectObject
	dedup       map[key]int // index into all, for confidence updates

	all []Triple
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		bySubject:   make(map[symbol.ID][]PredicateObject),
		byObject:    make(map[symbol.ID][]SubjectPredicate),
		byPredicate: make(map[symbol.ID][]SubjectObject),
		dedup:       make(map[key]int),
	}
}

// AddTriple inserts (s,p,o,confidence) if new, or — on a duplicate (s,p,o) —
// raises the stored confidence to max(existing, confidence), leaving the
// triple otherwise unchanged. Returns true if a new triple was added.
func (g *Graph) AddTriple(s, p, o symbol.ID, confidence float64, compartment string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	k := key{s, p, o}
	if idx, ok := g.dedup[k]; ok {
		if confidence > g.all[idx].Confidence {
			g.all[idx].Confidence = confidence
			g.updateIndexConfidence(s, p, o, confidence)
		}
		return false
	}

	g.all = append(g.all, Triple{Subject: s, Predicate: p, Object: o, Confidence: confidence, Compartment: compartment})
	g.dedup[k] = len(g.all) - 1

	g.bySubject[s] = append(g.bySubject[s], PredicateObject{Predicate: p, Object: o, Confidence: confidence, Compartment: compartment})
	g.byObject[o] = append(g.byObject[o], SubjectPredicate{Subject: s, Predicate: p, Confidence: confidence, Compartment: compartment})
	g.byPredicate[p] = append(g.byPredicate[p], SubjectObject{Subject: s, Object: o, Confidence: confidence, Compartment: compartment})

	log.Debug("added triple %s %s %s conf=%.3f", s, p, o, confidence)
	return true
}

func (g *Graph) updateIndexConfidence(s, p, o symbol.ID, confidence float64) {
	for i := range g.bySubject[s] {
		e := &g.bySubject[s][i]
		if e.Predicate == p && e.Object == o {
			e.Confidence = confidence
		}
	}
	for i := range g.byObject[o] {
		e := &g.byObject[o][i]
		if e.Subject == s && e.Predicate == p {
			e.Confidence = confidence
		}
	}
	for i := range g.byPredicate[p] {
		e := &g.byPredicate[p][i]
		if e.Subject == s && e.Object == o {
			e.Confidence = confidence
		}
	}
}

// HasTriple reports whether (s,p,o) exists, regardless of confidence.
func (g *Graph) HasTriple(s, p, o symbol.ID) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.dedup[key{s, p, o}]
	return ok
}

// TriplesFrom returns every (predicate, object, confidence) outgoing from s.
func (g *Graph) TriplesFrom(s symbol.ID) []PredicateObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]PredicateObject(nil), g.bySubject[s]...)
}

// TriplesTo returns every (subject, predicate, confidence) incoming to o.
func (g *Graph) TriplesTo(o symbol.ID) []SubjectPredicate {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]SubjectPredicate(nil), g.byObject[o]...)
}

// TriplesWithPredicate returns every (subject, object, confidence) using p.
func (g *Graph) TriplesWithPredicate(p symbol.ID) []SubjectObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]SubjectObject(nil), g.byPredicate[p]...)
}

// ObjectsOf returns every object o such that (s,p,o) exists.
func (g *Graph) ObjectsOf(s, p symbol.ID) []symbol.ID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []symbol.ID
	for _, e := range g.bySubject[s] {
		if e.Predicate == p {
			out = append(out, e.Object)
		}
	}
	return out
}

// SubjectsOf returns every subject s such that (s,p,o) exists.
func (g *Graph) SubjectsOf(p, o symbol.ID) []symbol.ID {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []symbol.ID
	for _, e := range g.byPredicate[p] {
		if e.Object == o {
			out = append(out, e.Subject)
		}
	}
	return out
}

// AllTriples returns every triple currently in the graph. Iteration order is
// unspecified but stable across consecutive calls on an otherwise-idle graph.
func (g *Graph) AllTriples() []Triple {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Triple(nil), g.all...)
}

// CountTriples returns the number of distinct (s,p,o) triples.
func (g *Graph) CountTriples() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.all)
}

// TriplesFromCompartment filters TriplesFrom to a single compartment tag.
func (g *Graph) TriplesFromCompartment(s symbol.ID, compartment string) []PredicateObject {
	all := g.TriplesFrom(s)
	var out []PredicateObject
	for _, e := range all {
		if e.Compartment == compartment {
			out = append(out, e)
		}
	}
	return out
}
