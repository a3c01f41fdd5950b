package agent

import (
	"sort"

	"cortexd/internal/engine"
	"cortexd/internal/logging"
	"cortexd/internal/psyche"
	"cortexd/internal/symbol"
)

var log = logging.Get(logging.CategoryAgent)

// CycleOutcome summarizes one completed Observe-Orient-Decide-Act pass.
type CycleOutcome struct {
	CycleNumber  uint64
	Goal         Goal
	ChosenTool   string
	Vetoed       bool
	VetoPattern  string
	Result       ToolOutput
	ScoreByTool  map[string]float64
}

// Agent is the OODA control loop: it holds the engine handle, the active
// goal set, working memory, the tool registry, and the psyche that biases
// and vetoes tool selection.
type Agent struct {
	Engine     *engine.Engine
	Goals      []Goal
	Memory     *WorkingMemory
	Tools      *ToolRegistry
	Psyche     psyche.Psyche
	CycleCount uint64

	Archive           []CycleOutcome
	ReflectionArchive []ReflectionResult
}

// NewAgent returns an Agent with an empty goal list, a working memory of
// the given capacity, and the default psyche.
func NewAgent(e *engine.Engine, memoryCapacity int, tools *ToolRegistry) *Agent {
	return &Agent{
		Engine: e,
		Memory: NewWorkingMemory(memoryCapacity),
		Tools:  tools,
		Psyche: psyche.Default(),
	}
}

// AddGoal appends a new active goal anchored to symbol, returning it.
func (a *Agent) AddGoal(symbolID symbol.ID, description string, priority uint8, criteria string) Goal {
	g := Goal{
		Symbol:            symbolID,
		Description:       description,
		Priority:          priority,
		Criteria:          criteria,
		Status:            GoalActive,
		CreationCycle:     a.CycleCount,
		LastProgressCycle: a.CycleCount,
	}
	a.Goals = append(a.Goals, g)
	return g
}

// candidateScore is the Decide-phase ranking for one registered tool:
// base score plus archetype bias, minus an accumulated shadow-bias
// penalty, per the scoring rule of base + archetype_bias - shadow_bias.
func (a *Agent) candidateScore(toolName string) (float64, bool, string) {
	manifest, ok := a.Tools.ManifestOf(toolName)
	if !ok {
		return 0, false, ""
	}

	if pattern := a.Psyche.CheckVeto(manifest, toolName); pattern != nil {
		return 0, false, pattern.Name
	}

	const base = 0.5
	score := base + a.Psyche.ArchetypeBias(toolName)
	score -= a.Psyche.CheckBias(manifest, toolName)
	return score, true, ""
}

// RunCycle executes one full Observe-Orient-Decide-Act pass: it selects
// the active goal with the best (priority, freshness) ranking (Orient),
// scores every registered tool against the psyche's archetype bias and
// shadow patterns (Decide), and executes the winning tool unless the
// shadow vetoes it (Act). It returns the outcome or a *NoActiveGoalError
// if there is nothing to orient around.
func (a *Agent) RunCycle() (CycleOutcome, error) {
	a.CycleCount++

	goal, ok := SelectGoal(a.Goals)
	if !ok {
		return CycleOutcome{}, &NoActiveGoalError{}
	}

	names := make([]string, 0)
	for _, m := range a.Tools.ListManifests() {
		names = append(names, m.Name)
	}
	sort.Strings(names)

	scores := make(map[string]float64, len(names))
	var bestTool string
	var bestScore float64
	haveCandidate := false
	vetoedTool := ""
	vetoPattern := ""

	for _, name := range names {
		score, ok, pattern := a.candidateScore(name)
		if !ok {
			if vetoedTool == "" {
				vetoedTool = name
				vetoPattern = pattern
			}
			a.Psyche.RecordShadowEncounter()
			continue
		}
		scores[name] = score
		if !haveCandidate || score > bestScore {
			bestTool = name
			bestScore = score
			haveCandidate = true
		}
	}

	outcome := CycleOutcome{CycleNumber: a.CycleCount, Goal: goal, ScoreByTool: scores}

	if !haveCandidate {
		outcome.Vetoed = true
		outcome.VetoPattern = vetoPattern
		outcome.ChosenTool = vetoedTool
		a.Archive = append(a.Archive, outcome)
		return outcome, nil
	}

	result, err := a.Tools.Execute(bestTool, NewToolInput(), a.Engine)
	if err != nil {
		return outcome, &ToolExecutionError{ToolName: bestTool, Message: err.Error()}
	}

	outcome.ChosenTool = bestTool
	outcome.Result = result
	a.updateGoalProgress(goal, result)
	a.Archive = append(a.Archive, outcome)
	return outcome, nil
}

func (a *Agent) updateGoalProgress(goal Goal, result ToolOutput) {
	if !result.Success {
		return
	}
	for i := range a.Goals {
		if a.Goals[i].Symbol == goal.Symbol {
			a.Goals[i].LastProgressCycle = a.CycleCount
		}
	}
}
