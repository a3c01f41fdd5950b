package psyche

import "cortexd/internal/symbol"

// engineRelationResolver is the narrow slice of *engine.Engine that
// Predicates needs — avoiding a direct import of internal/engine keeps this
// leaf package importable from anywhere that already has a relation
// resolver without pulling in the whole engine facade.
type engineRelationResolver interface {
	ResolveOrCreateRelation(label string) symbol.ID
}

// Predicates are the well-known relation symbols used to represent psyche
// state inside the knowledge graph itself, so psyche evolution can be
// inspected and queried the same way any other derived fact is.
type Predicates struct {
	HasPersona          symbol.ID
	HasArchetypeWeight   symbol.ID
	HasShadowPattern     symbol.ID
	IndividuationLevel   symbol.ID
	ShadowEncounter      symbol.ID
}

// InitPredicates resolves or creates every psyche predicate in e.
func InitPredicates(e engineRelationResolver) Predicates {
	return Predicates{
		HasPersona:         e.ResolveOrCreateRelation("psyche:has_persona"),
		HasArchetypeWeight: e.ResolveOrCreateRelation("psyche:has_archetype_weight"),
		HasShadowPattern:   e.ResolveOrCreateRelation("psyche:has_shadow_pattern"),
		IndividuationLevel: e.ResolveOrCreateRelation("psyche:individuation_level"),
		ShadowEncounter:    e.ResolveOrCreateRelation("psyche:shadow_encounter"),
	}
}
