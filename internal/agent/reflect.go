package agent

import (
	"cortexd/internal/psyche"
	"cortexd/internal/symbol"
)

// AdjustmentKind classifies a reflection-derived suggestion.
type AdjustmentKind int

const (
	AdjustPriorityChange AdjustmentKind = iota
	AdjustGoalAbandon
)

// Adjustment is one suggestion a reflection pass produces about the goal
// list: either re-prioritize a stalled-but-salvageable goal, or abandon one
// that's made no progress for too long.
type Adjustment struct {
	Kind        AdjustmentKind
	GoalSymbol  uint64
	NewPriority uint8
	Reason      string
}

// ReflectionResult is the durable record of one reflection pass: per-tool
// success-rate summaries and the adjustments they suggested.
type ReflectionResult struct {
	AtCycle     uint64
	ToolStats   map[string]ToolStat
	Adjustments []Adjustment
}

// ToolStat is one tool's invocation tally over the cycles folded into a
// reflection pass.
type ToolStat struct {
	Invocations int
	Successes   int
}

// SuccessRate returns Successes/Invocations, or 0 if the tool was never
// invoked.
func (s ToolStat) SuccessRate() float64 {
	if s.Invocations == 0 {
		return 0
	}
	return float64(s.Successes) / float64(s.Invocations)
}

// stalledThreshold is how many cycles without progress before reflection
// treats a goal as stalled: its priority is lowered by one, or it is
// abandoned if its priority is already 1 or less.
const stalledThreshold = 10

// ineffectiveInvocations is the minimum number of invocations a tool needs
// before a sub-30% success rate is trusted enough to flag it ineffective.
const ineffectiveInvocations = 3

// Reflect summarizes every cycle outcome in the agent's archive (the
// archive is not cleared between reflections) into a ReflectionResult,
// suggests adjustments for stalled
// goals, evolves the psyche from the summary, and appends the result to
// the reflection archive. It returns the result.
func (a *Agent) Reflect() ReflectionResult {
	stats := make(map[string]ToolStat)
	for _, outcome := range a.Archive {
		if outcome.Vetoed || outcome.ChosenTool == "" {
			continue
		}
		s := stats[outcome.ChosenTool]
		s.Invocations++
		if outcome.Result.Success {
			s.Successes++
		}
		stats[outcome.ChosenTool] = s
	}

	var adjustments []Adjustment
	abandonCount := 0
	for _, g := range ActiveGoals(a.Goals) {
		if !g.IsStalled(a.CycleCount, stalledThreshold) {
			continue
		}
		if g.Priority <= 1 {
			adjustments = append(adjustments, Adjustment{
				Kind:       AdjustGoalAbandon,
				GoalSymbol: g.Symbol.Raw(),
				Reason:     "no progress for longer than the stall threshold at minimum priority",
			})
			abandonCount++
			a.abandonGoal(g.Symbol)
		} else {
			newPriority := g.Priority - 1
			adjustments = append(adjustments, Adjustment{
				Kind:        AdjustPriorityChange,
				GoalSymbol:  g.Symbol.Raw(),
				NewPriority: newPriority,
				Reason:      "stalled; lowering priority in favor of more promising goals",
			})
			a.reprioritizeGoal(g.Symbol, newPriority)
		}
	}

	insights := make([]psyche.ToolInsight, 0, len(stats))
	for name, s := range stats {
		insights = append(insights, psyche.ToolInsight{
			ToolName:           name,
			SuccessRate:        s.SuccessRate(),
			Invocations:        s.Invocations,
			FlaggedIneffective: s.Invocations >= ineffectiveInvocations && s.SuccessRate() < 0.3,
		})
	}

	a.Psyche.Evolve(psyche.ReflectionSummary{
		AtCycle:      a.CycleCount,
		ToolInsights: insights,
		AbandonCount: abandonCount,
	})

	result := ReflectionResult{AtCycle: a.CycleCount, ToolStats: stats, Adjustments: adjustments}
	a.ReflectionArchive = append(a.ReflectionArchive, result)
	return result
}

func (a *Agent) abandonGoal(symbolID symbol.ID) {
	for i := range a.Goals {
		if a.Goals[i].Symbol == symbolID {
			a.Goals[i].Status = GoalAbandoned
		}
	}
}

func (a *Agent) reprioritizeGoal(symbolID symbol.ID, newPriority uint8) {
	for i := range a.Goals {
		if a.Goals[i].Symbol == symbolID {
			a.Goals[i].Priority = newPriority
		}
	}
}
