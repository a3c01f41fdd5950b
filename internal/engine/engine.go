// Package engine composes the allocator, item memory, triple graph,
// provenance store and VSA ops behind one facade handle, passed into every
// upper-layer component (rules, fusion, gap, schema, agent). The facade
// itself holds no lock of its own: each subordinate component owns its
// synchronization, so Engine is safe for concurrent use without a facade
// mutex (composition only, per spec's Send+Sync requirement).
package engine

import (
	"cortexd/internal/graph"
	"cortexd/internal/itemmemory"
	"cortexd/internal/logging"
	"cortexd/internal/provenance"
	"cortexd/internal/store"
	"cortexd/internal/symbol"
	"cortexd/internal/vsa"
)

var log = logging.Get(logging.CategoryEngine)

// WellKnownOntologicalPredicates are resolved or created once at engine
// start, so every upper-layer component can rely on their presence.
var WellKnownOntologicalPredicates = []string{
	"is-a", "part-of", "has-a", "similar-to", "parent-of", "child-of", "contains",
}

// WellKnownCodePredicates mirrors the static-analysis predicate surface
// produced by external code-ingestion collaborators.
var WellKnownCodePredicates = []string{
	"code:defines-fn", "code:defines-struct", "code:defines-enum", "code:defines-trait",
	"code:contains-mod", "code:depends-on", "code:has-method", "code:has-field",
	"code:has-variant", "code:has-param", "code:returns-type", "code:has-doc",
	"code:implements-trait", "code:derives-trait", "code:has-visibility",
}

// Engine is the single handle passed into every upper-layer component.
type Engine struct {
	Allocator *symbol.Allocator
	Ops       *vsa.Ops
	Items     *itemmemory.ItemMemory
	Graph     *graph.Graph
	Provenance *provenance.Store
	Store     *store.Store

	wellKnown map[string]symbol.ID
}

// New composes a fresh Engine over ops and the given durable store (nil is
// allowed for a purely in-memory engine, e.g. in tests), resolving every
// well-known predicate up front.
func New(ops *vsa.Ops, st *store.Store) *Engine {
	e := &Engine{
		Allocator:  symbol.NewAllocator(),
		Ops:        ops,
		Items:      itemmemory.New(ops),
		Graph:      graph.New(),
		Provenance: provenance.NewStore(),
		Store:      st,
		wellKnown:  make(map[string]symbol.ID),
	}
	e.initWellKnownPredicates()
	return e
}

func (e *Engine) initWellKnownPredicates() {
	for _, label := range WellKnownOntologicalPredicates {
		e.wellKnown[label] = e.Allocator.ResolveOrCreateRelation(label)
	}
	for _, label := range WellKnownCodePredicates {
		e.wellKnown[label] = e.Allocator.ResolveOrCreateRelation(label)
	}
	log.Info("initialized %d well-known predicates", len(e.wellKnown))
}

// Predicate returns the id of a well-known predicate by its label (e.g.
// "is-a"). Panics if label isn't one of the well-known predicates — callers
// should only pass literal constants from WellKnown*Predicates.
func (e *Engine) Predicate(label string) symbol.ID {
	id, ok := e.wellKnown[label]
	if !ok {
		panic("engine: " + label + " is not a well-known predicate")
	}
	return id
}

// ResolveOrCreateEntity resolves label to an Entity symbol, creating it on
// miss.
func (e *Engine) ResolveOrCreateEntity(label string) symbol.ID {
	return e.Allocator.ResolveOrCreateEntity(label)
}

// ResolveOrCreateRelation resolves label to a Relation symbol, creating it
// on miss.
func (e *Engine) ResolveOrCreateRelation(label string) symbol.ID {
	return e.Allocator.ResolveOrCreateRelation(label)
}

// LookupSymbol is a pure query against the label index.
func (e *Engine) LookupSymbol(label string) (symbol.ID, error) {
	id, ok := e.Allocator.LookupSymbol(label)
	if !ok {
		return 0, &SymbolNotFoundError{Label: label}
	}
	return id, nil
}

// AddTriple resolves s/p/o labels to symbols (creating entities/relations on
// miss) and inserts the triple into the graph.
func (e *Engine) AddTriple(subjectLabel, predicateLabel, objectLabel string, confidence float64, compartment string) (s, p, o symbol.ID) {
	s = e.ResolveOrCreateEntity(subjectLabel)
	p = e.ResolveOrCreateRelation(predicateLabel)
	o = e.ResolveOrCreateEntity(objectLabel)
	e.Graph.AddTriple(s, p, o, confidence, compartment)
	return s, p, o
}

// Vector returns the item-memory hypervector for id, computing it on first
// use.
func (e *Engine) Vector(id symbol.ID) vsa.HyperVec {
	return e.Items.GetOrCreate(id)
}
