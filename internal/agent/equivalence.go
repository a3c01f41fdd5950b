package agent

import "cortexd/internal/symbol"

const equivalenceSimilarityThreshold = 0.92

func asSymbolID(raw uint64) symbol.ID { return symbol.ID(raw) }

// LearnEquivalences scans every entity symbol currently referenced by the
// graph and asserts a "similar-to" triple between any pair whose
// hypervectors' cosine similarity (vsa.Ops.CosineSimilarity) reaches
// equivalenceSimilarityThreshold. It returns the number of equivalence
// triples asserted.
func (a *Agent) LearnEquivalences() int {
	seen := make(map[uint64]struct{})
	var entities []uint64

	for _, t := range a.Engine.Graph.AllTriples() {
		for _, id := range []uint64{t.Subject.Raw(), t.Object.Raw()} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				entities = append(entities, id)
			}
		}
	}

	asserted := 0
	for i := 0; i < len(entities); i++ {
		for j := i + 1; j < len(entities); j++ {
			simID, simErr := a.entitySimilarity(entities[i], entities[j])
			if simErr != nil || simID < equivalenceSimilarityThreshold {
				continue
			}
			metaI, okI := a.Engine.Allocator.Meta(asSymbolID(entities[i]))
			metaJ, okJ := a.Engine.Allocator.Meta(asSymbolID(entities[j]))
			if !okI || !okJ || metaI.Label == metaJ.Label {
				continue
			}
			a.Engine.AddTriple(metaI.Label, "similar-to", metaJ.Label, float64(simID), "")
			asserted++
		}
	}
	return asserted
}

func (a *Agent) entitySimilarity(idA, idB uint64) (float32, error) {
	va := a.Engine.Vector(asSymbolID(idA))
	vb := a.Engine.Vector(asSymbolID(idB))
	return a.Engine.Ops.CosineSimilarity(va, vb)
}
