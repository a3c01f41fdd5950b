// Package psyche maps a Jungian analytical-psychology model onto concrete
// Go types that bias the agent's tool selection, veto dangerous actions,
// and track the agent's own growth over time: Persona (outward style),
// Shadow (vetoes and biases), Archetypes (tool-selection tendencies), and
// Self-Integration (individuation tracking).
package psyche

import (
	"strings"

	"cortexd/internal/logging"
	"cortexd/internal/toolmanifest"
)

var log = logging.Get(logging.CategoryPsyche)

// Psyche is the complete psyche of the agent.
type Psyche struct {
	Persona         Persona
	Shadow          Shadow
	Archetypes      ArchetypeWeights
	SelfIntegration SelfIntegration
}

// Persona is the mask the agent presents outward: name, grammar preference,
// traits, and tone, all purely descriptive — consumed by whatever output
// formatter renders the agent's responses.
type Persona struct {
	Name               string
	GrammarPreference  string
	Traits             []string
	Tone               []string
}

// Shadow holds constrained anti-patterns: veto patterns hard-block an
// action, bias patterns only discourage it.
type Shadow struct {
	VetoPatterns []ShadowPattern
	BiasPatterns []ShadowPattern
}

// ShadowPattern matches a tool manifest + action description against one
// anti-pattern. Any of its three criteria matching triggers the pattern:
// capability intersection, danger-level threshold, or one of the pattern's
// own ActionTriggers appearing as a substring of the action description.
type ShadowPattern struct {
	Name                 string
	CapabilityTriggers    map[toolmanifest.Capability]struct{}
	DangerLevelThreshold  *toolmanifest.DangerLevel
	ActionTriggers        []string
	Severity              float64
	Explanation           string
}

// Matches reports whether this pattern fires for manifest + actionDesc.
func (p ShadowPattern) Matches(manifest toolmanifest.ToolManifest, actionDesc string) bool {
	if len(p.CapabilityTriggers) > 0 && manifest.Danger.Intersects(p.CapabilityTriggers) {
		return true
	}
	if p.DangerLevelThreshold != nil && manifest.Danger.Level >= *p.DangerLevelThreshold {
		return true
	}
	if len(p.ActionTriggers) > 0 {
		lower := strings.ToLower(actionDesc)
		for _, trigger := range p.ActionTriggers {
			if strings.Contains(lower, strings.ToLower(trigger)) {
				return true
			}
		}
	}
	return false
}

// ArchetypeWeights are behavioral tendencies, each in [0,1], that bias tool
// selection. Weights aren't constrained to sum to anything.
type ArchetypeWeights struct {
	// Healer prefers gap_analysis, user_interact. Seeks missing knowledge.
	Healer float64
	// Sage prefers kg_query, infer_rules, synthesize_triple, reason. Seeks understanding.
	Sage float64
	// Guardian prefers memory_recall, similarity_search. Seeks stability and safety.
	Guardian float64
	// Explorer prefers http_fetch, file_io, shell_exec. Seeks novelty.
	Explorer float64
}

// SelfIntegration tracks growth metrics and evolves the psyche over time.
type SelfIntegration struct {
	IndividuationLevel  float64
	LastEvolutionCycle  uint64
	ShadowEncounters    uint64
	RebalanceCount      uint64
	DominantArchetype   string
}

// Default returns the out-of-the-box psyche: a "Scholar" persona, a sage
// lean, and one built-in veto against destructive process-exec actions.
func Default() Psyche {
	critical := toolmanifest.Critical
	dangerous := toolmanifest.Dangerous
	return Psyche{
		Persona: Persona{
			Name:              "Scholar",
			GrammarPreference: "narrative",
			Traits:            []string{"precise", "curious", "thorough"},
			Tone:              []string{"clear", "methodical"},
		},
		Shadow: Shadow{
			VetoPatterns: []ShadowPattern{{
				Name:                 "destructive_action",
				CapabilityTriggers:   toolmanifest.CapabilitySet(toolmanifest.CapabilityProcessExec),
				DangerLevelThreshold: &critical,
				ActionTriggers:       []string{"delete all", "drop table", "rm -rf"},
				Severity:             1.0,
				Explanation:          "Destructive or arbitrary execution actions require explicit user confirmation.",
			}},
			BiasPatterns: []ShadowPattern{{
				Name:                 "filesystem_write",
				CapabilityTriggers:   toolmanifest.CapabilitySet(toolmanifest.CapabilityWriteFilesystem),
				DangerLevelThreshold: &dangerous,
				Severity:             0.3,
				Explanation:          "Filesystem writes carry moderate risk.",
			}},
		},
		Archetypes: ArchetypeWeights{
			Healer:   0.5,
			Sage:     0.7,
			Guardian: 0.4,
			Explorer: 0.5,
		},
		SelfIntegration: SelfIntegration{
			IndividuationLevel: 0.1,
			DominantArchetype:  "sage",
		},
	}
}

// DominantArchetype returns the name of the highest-weighted archetype,
// defaulting to "sage" on ties.
func (p Psyche) DominantArchetype() string {
	best := "sage"
	bestWeight := p.Archetypes.Sage
	if p.Archetypes.Healer > bestWeight {
		best, bestWeight = "healer", p.Archetypes.Healer
	}
	if p.Archetypes.Guardian > bestWeight {
		best, bestWeight = "guardian", p.Archetypes.Guardian
	}
	if p.Archetypes.Explorer > bestWeight {
		best, bestWeight = "explorer", p.Archetypes.Explorer
	}
	return best
}

// archetypeForTool maps a tool name to the archetype weight that governs
// it, or 0.5 (neutral) for unrecognized tools.
func (p Psyche) archetypeForTool(toolName string) float64 {
	switch toolName {
	case "kg_query", "infer_rules", "synthesize_triple", "reason":
		return p.Archetypes.Sage
	case "gap_analysis", "user_interact":
		return p.Archetypes.Healer
	case "file_io", "http_fetch", "shell_exec":
		return p.Archetypes.Explorer
	case "memory_recall", "similarity_search":
		return p.Archetypes.Guardian
	default:
		return 0.5
	}
}

// ArchetypeBias returns a scoring bonus/penalty for a tool based on
// archetype weights: (weight - 0.5) * 0.15, so a weight of 0.7 gives +0.03
// and 0.3 gives -0.03 — subtle but cumulative across a run.
func (p Psyche) ArchetypeBias(toolName string) float64 {
	return (p.archetypeForTool(toolName) - 0.5) * 0.15
}

// CheckVeto returns the first veto pattern that matches manifest+actionDesc,
// or nil if none applies.
func (p Psyche) CheckVeto(manifest toolmanifest.ToolManifest, actionDesc string) *ShadowPattern {
	for i := range p.Shadow.VetoPatterns {
		if p.Shadow.VetoPatterns[i].Matches(manifest, actionDesc) {
			return &p.Shadow.VetoPatterns[i]
		}
	}
	return nil
}

// CheckBias returns the cumulative bias penalty from every matching bias
// pattern's severity.
func (p Psyche) CheckBias(manifest toolmanifest.ToolManifest, actionDesc string) float64 {
	var total float64
	for _, pattern := range p.Shadow.BiasPatterns {
		if pattern.Matches(manifest, actionDesc) {
			total += pattern.Severity
		}
	}
	return total
}

// RecordShadowEncounter increments the shadow-encounter counter directly,
// e.g. when a veto fires during an OODA cycle.
func (p *Psyche) RecordShadowEncounter() {
	p.SelfIntegration.ShadowEncounters++
}

// ToolInsight summarizes one tool's recent effectiveness, as produced by
// reflection. It's the narrow slice of a reflection pass that Evolve needs —
// psyche doesn't need to know about the rest of the agent's reflection
// bookkeeping.
type ToolInsight struct {
	ToolName           string
	SuccessRate        float64
	Invocations        int
	FlaggedIneffective bool
}

// ReflectionSummary is what a reflection pass hands to Evolve: per-tool
// insights, how many adjustments suggested abandoning a goal (a shadow
// signal), and the cycle count the reflection ran at.
type ReflectionSummary struct {
	AtCycle       uint64
	ToolInsights  []ToolInsight
	AbandonCount  int
}

// Evolve adjusts archetype weights and individuation level from a
// reflection pass:
//  1. Archetype rebalancing: a consistently successful tool nudges its
//     archetype up by 0.02; one flagged ineffective nudges it down by 0.02,
//     both clamped to [0.1, 0.95].
//  2. Shadow acknowledgment: each abandon-suggestion counts as a shadow
//     encounter.
//  3. Individuation growth: 0.01 per shadow encounter (capped at 5 per
//     cycle), added to individuation_level and capped at 1.0.
//  4. Dominant archetype is recomputed from the (possibly rebalanced)
//     weights.
func (p *Psyche) Evolve(reflection ReflectionSummary) {
	rebalanced := false

	for _, insight := range reflection.ToolInsights {
		var delta float64
		switch {
		case insight.FlaggedIneffective:
			delta = -0.02
		case insight.SuccessRate > 0.7 && insight.Invocations >= 2:
			delta = 0.02
		default:
			continue
		}

		switch insight.ToolName {
		case "kg_query", "infer_rules", "synthesize_triple", "reason":
			p.Archetypes.Sage = clamp(p.Archetypes.Sage+delta, 0.1, 0.95)
			rebalanced = true
		case "gap_analysis", "user_interact":
			p.Archetypes.Healer = clamp(p.Archetypes.Healer+delta, 0.1, 0.95)
			rebalanced = true
		case "file_io", "http_fetch", "shell_exec":
			p.Archetypes.Explorer = clamp(p.Archetypes.Explorer+delta, 0.1, 0.95)
			rebalanced = true
		case "memory_recall", "similarity_search":
			p.Archetypes.Guardian = clamp(p.Archetypes.Guardian+delta, 0.1, 0.95)
			rebalanced = true
		}
	}

	if rebalanced {
		p.SelfIntegration.RebalanceCount++
	}

	p.SelfIntegration.ShadowEncounters += uint64(reflection.AbandonCount)

	growth := 0.01 * float64(min64(p.SelfIntegration.ShadowEncounters, 5))
	p.SelfIntegration.IndividuationLevel = min(p.SelfIntegration.IndividuationLevel+growth, 1.0)

	p.SelfIntegration.DominantArchetype = p.DominantArchetype()
	p.SelfIntegration.LastEvolutionCycle = reflection.AtCycle

	log.Debug("psyche evolved at cycle %d: dominant=%s individuation=%.3f rebalance_count=%d",
		reflection.AtCycle, p.SelfIntegration.DominantArchetype, p.SelfIntegration.IndividuationLevel, p.SelfIntegration.RebalanceCount)
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

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func min64(a, b uint64) uint64 {
	if a < b {
		return a
	}
	return b
}
