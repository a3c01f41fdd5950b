// Package fusion combines multiple inference paths supporting the same
// triple into a single confidence score, using Noisy-OR over path
// confidences cross-checked against a VSA interference signal.
package fusion

import (
	"math"
	"sort"

	"cortexd/internal/engine"
	"cortexd/internal/logging"
	"cortexd/internal/symbol"
)

var log = logging.Get(logging.CategoryFusion)

// Path is one inference path supporting a triple.
type Path struct {
	Subject        symbol.ID
	Predicate      symbol.ID
	Object         symbol.ID
	PathConfidence float32
	Chain          [][3]symbol.ID
	RuleName       string
}

// Fused is the result of combining every path supporting one triple.
type Fused struct {
	Subject             symbol.ID
	Predicate           symbol.ID
	Object              symbol.ID
	FusedConfidence     float32
	PathCount           int
	InterferenceSignal  float32
	QualityScore        float32
	IsConstructive      bool
}

// Config tunes the weighted combination of Noisy-OR confidence and VSA
// interference into a single quality score.
type Config struct {
	ConfidenceWeight      float32
	InterferenceWeight    float32
	ContradictionThreshold float32
}

// DefaultConfig weighs confidence 0.6 / interference 0.4 and sets
// ContradictionThreshold to -0.3. FusePaths does not read
// ContradictionThreshold and flags no result as contradictory.
func DefaultConfig() Config {
	return Config{
		ConfidenceWeight:       0.6,
		InterferenceWeight:     0.4,
		ContradictionThreshold: -0.3,
	}
}

type tripleKey struct {
	s, p, o symbol.ID
}

// FusePaths groups paths by (subject, predicate, object), fuses each
// group's confidences via Noisy-OR, cross-checks with a VSA interference
// signal, and returns one Fused per distinct triple, sorted by descending
// quality score.
func FusePaths(paths []Path, e *engine.Engine, config Config) []Fused {
	if len(paths) == 0 {
		return nil
	}

	groups := make(map[tripleKey][]Path)
	var order []tripleKey
	for _, p := range paths {
		k := tripleKey{p.Subject, p.Predicate, p.Object}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], p)
	}

	results := make([]Fused, 0, len(order))
	for _, k := range order {
		group := groups[k]

		confs := make([]float32, 0, len(group))
		for _, p := range group {
			confs = append(confs, p.PathConfidence)
		}
		fused := NoisyOr(confs)

		interference := computeInterference(k.s, k.p, k.o, e)
		normalizedInterference := (interference + 1.0) / 2.0
		quality := config.ConfidenceWeight*fused + config.InterferenceWeight*normalizedInterference
		quality = clamp32(quality, 0, 1)

		results = append(results, Fused{
			Subject:            k.s,
			Predicate:          k.p,
			Object:             k.o,
			FusedConfidence:    fused,
			PathCount:          len(group),
			InterferenceSignal: interference,
			QualityScore:       quality,
			IsConstructive:     interference > 0,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].QualityScore > results[j].QualityScore
	})

	log.Debug("fused %d paths into %d triples", len(paths), len(results))
	return results
}

// NoisyOr combines independent evidence sources: 1 - product(1 - ci).
func NoisyOr(confidences []float32) float32 {
	product := float32(1.0)
	for _, c := range confidences {
		product *= 1.0 - clamp32(c, 0, 1)
	}
	return 1.0 - product
}

// computeInterference binds the subject and predicate vectors and checks
// their similarity to the object vector, mapping the [0,1] similarity to a
// [-1,+1] interference signal.
func computeInterference(s, p, o symbol.ID, e *engine.Engine) float32 {
	sVec := e.Vector(s)
	pVec := e.Vector(p)
	oVec := e.Vector(o)

	bound, err := e.Ops.Bind(sVec, pVec)
	if err != nil {
		return 0
	}
	similarity, err := e.Ops.Similarity(bound, oVec)
	if err != nil {
		return 0
	}
	return (similarity - 0.5) * 2.0
}

func clamp32(v, lo, hi float32) float32 {
	return float32(math.Max(float64(lo), math.Min(float64(hi), float64(v))))
}
