package agent

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"cortexd/internal/engine"
	"cortexd/internal/gap"
	"cortexd/internal/graph"
	"cortexd/internal/rules"
	"cortexd/internal/store"
	"cortexd/internal/symbol"
)

// ConditionKind discriminates TriggerCondition's variant.
type ConditionKind int

const (
	CondInterval ConditionKind = iota
	CondGoalStalled
	CondMemoryPressure
	CondNewTriples
	CondTriplePattern
	CondConfidenceThreshold
)

// TriggerCondition is the condition half of a (condition, action) trigger
// rule. Only the fields relevant to Kind are populated; the rest are zero.
type TriggerCondition struct {
	Kind ConditionKind

	Seconds   uint64 // Interval
	Threshold uint64 // GoalStalled / MemoryPressure
	MinCount  uint64 // NewTriples

	SubjectPattern string // TriplePattern, "" = any
	Predicate      string // TriplePattern, "" = any
	ObjectPattern  string // TriplePattern, "" = any

	SymbolLabel string  // ConfidenceThreshold
	Below       float64 // ConfidenceThreshold
}

func IntervalCondition(seconds uint64) TriggerCondition {
	return TriggerCondition{Kind: CondInterval, Seconds: seconds}
}

func GoalStalledCondition(threshold uint64) TriggerCondition {
	return TriggerCondition{Kind: CondGoalStalled, Threshold: threshold}
}

func MemoryPressureCondition(threshold uint64) TriggerCondition {
	return TriggerCondition{Kind: CondMemoryPressure, Threshold: threshold}
}

func NewTriplesCondition(minCount uint64) TriggerCondition {
	return TriggerCondition{Kind: CondNewTriples, MinCount: minCount}
}

func TriplePatternCondition(subjectPattern, predicate, objectPattern string) TriggerCondition {
	return TriggerCondition{Kind: CondTriplePattern, SubjectPattern: subjectPattern, Predicate: predicate, ObjectPattern: objectPattern}
}

func ConfidenceThresholdCondition(symbolLabel string, below float64) TriggerCondition {
	return TriggerCondition{Kind: CondConfidenceThreshold, SymbolLabel: symbolLabel, Below: below}
}

// ActionKind discriminates TriggerAction's variant.
type ActionKind int

const (
	ActRunCycles ActionKind = iota
	ActReflect
	ActLearnEquivalences
	ActRunRules
	ActAnalyzeGaps
	ActAddGoal
	ActExecuteTool
)

// TriggerAction is the action half of a (condition, action) trigger rule.
type TriggerAction struct {
	Kind ActionKind

	Count int // RunCycles

	Description string // AddGoal
	Priority    uint8   // AddGoal
	Criteria    string  // AddGoal

	ToolName string            // ExecuteTool
	Params   map[string]string // ExecuteTool
}

func RunCyclesAction(count int) TriggerAction { return TriggerAction{Kind: ActRunCycles, Count: count} }

func ReflectAction() TriggerAction { return TriggerAction{Kind: ActReflect} }

func LearnEquivalencesAction() TriggerAction { return TriggerAction{Kind: ActLearnEquivalences} }

func RunRulesAction() TriggerAction { return TriggerAction{Kind: ActRunRules} }

func AnalyzeGapsAction() TriggerAction { return TriggerAction{Kind: ActAnalyzeGaps} }

func AddGoalAction(description string, priority uint8, criteria string) TriggerAction {
	return TriggerAction{Kind: ActAddGoal, Description: description, Priority: priority, Criteria: criteria}
}

func ExecuteToolAction(name string, params map[string]string) TriggerAction {
	return TriggerAction{Kind: ActExecuteTool, ToolName: name, Params: params}
}

// Trigger is a registered (condition, action) autonomy rule.
type Trigger struct {
	ID        string
	Name      string
	Condition TriggerCondition
	Action    TriggerAction
	Enabled   bool
	LastFired uint64
}

// NewTrigger returns an enabled trigger with a fresh id.
func NewTrigger(name string, condition TriggerCondition, action TriggerAction) Trigger {
	return Trigger{ID: uuid.NewString(), Name: name, Condition: condition, Action: action, Enabled: true}
}

// ShouldFire reports whether trigger should fire given the agent's current
// state at time now (a Unix timestamp in seconds).
func ShouldFire(trigger Trigger, a *Agent, now uint64) bool {
	if !trigger.Enabled {
		return false
	}

	switch trigger.Condition.Kind {
	case CondInterval:
		return saturatingSub(now, trigger.LastFired) >= trigger.Condition.Seconds
	case CondGoalStalled:
		for _, g := range ActiveGoals(a.Goals) {
			if g.IsStalled(a.CycleCount, trigger.Condition.Threshold) {
				return true
			}
		}
		return false
	case CondMemoryPressure:
		return uint64(a.Memory.Len()) >= trigger.Condition.Threshold
	case CondNewTriples:
		return uint64(len(a.Engine.Graph.AllTriples())) >= trigger.Condition.MinCount
	case CondTriplePattern:
		for _, t := range a.Engine.Graph.AllTriples() {
			if triplePatternMatches(trigger.Condition, t, a.Engine) {
				return true
			}
		}
		return false
	case CondConfidenceThreshold:
		sym, err := a.Engine.LookupSymbol(trigger.Condition.SymbolLabel)
		if err != nil {
			return false
		}
		for _, edge := range a.Engine.Graph.TriplesFrom(sym) {
			if edge.Confidence < trigger.Condition.Below {
				return true
			}
		}
		return false
	default:
		return false
	}
}

func saturatingSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}

// triplePatternMatches checks t against a glob-style TriplePattern
// condition: each of subject/predicate/object pattern may end in "*" to
// match any label with that prefix, or be empty to match anything.
func triplePatternMatches(cond TriggerCondition, t graph.Triple, e *engine.Engine) bool {
	if !globMatchesSymbol(cond.SubjectPattern, t.Subject, e) {
		return false
	}
	if !globMatchesSymbol(cond.Predicate, t.Predicate, e) {
		return false
	}
	if !globMatchesSymbol(cond.ObjectPattern, t.Object, e) {
		return false
	}
	return true
}

func globMatchesSymbol(pattern string, id symbol.ID, e *engine.Engine) bool {
	if pattern == "" {
		return true
	}
	meta, ok := e.Allocator.Meta(id)
	if !ok {
		return false
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.HasPrefix(meta.Label, strings.TrimSuffix(pattern, "*"))
	}
	return meta.Label == pattern
}

// TriggerStore persists triggers via the durable store's meta range,
// YAML-serialized under a "trigger:" key prefix.
type TriggerStore struct {
	st *store.Store
}

func NewTriggerStore(st *store.Store) *TriggerStore {
	return &TriggerStore{st: st}
}

const triggerPrefix = "trigger:"

// List returns every stored trigger. Entries that fail to decode are
// skipped — a corrupt record shouldn't take down the whole trigger set.
func (s *TriggerStore) List() []Trigger {
	entries, err := s.st.ScanPrefix(triggerPrefix)
	if err != nil {
		return nil
	}
	out := make([]Trigger, 0, len(entries))
	for _, data := range entries {
		var t Trigger
		if err := yaml.Unmarshal(data, &t); err == nil {
			out = append(out, t)
		}
	}
	return out
}

// Add stores (or updates) trigger.
func (s *TriggerStore) Add(t Trigger) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	data, err := yaml.Marshal(t)
	if err != nil {
		return &ToolExecutionError{ToolName: "trigger_store", Message: "serialize trigger: " + err.Error()}
	}
	return s.st.PutMeta(triggerPrefix+t.ID, data)
}

// Get returns the trigger stored under id, if any.
func (s *TriggerStore) Get(id string) (Trigger, bool) {
	data, err := s.st.GetMeta(triggerPrefix + id)
	if err != nil {
		return Trigger{}, false
	}
	var t Trigger
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Trigger{}, false
	}
	return t, true
}

// UpdateLastFired rewrites the stored last-fired timestamp for id.
func (s *TriggerStore) UpdateLastFired(id string, ts uint64) {
	t, ok := s.Get(id)
	if !ok {
		return
	}
	t.LastFired = ts
	_ = s.Add(t)
}

// ExecuteTrigger runs trigger's action against a, returning a short
// human-readable summary of what happened.
func ExecuteTrigger(trigger Trigger, a *Agent) (string, error) {
	switch trigger.Action.Kind {
	case ActRunCycles:
		n := trigger.Action.Count
		if n <= 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			if _, err := a.RunCycle(); err != nil {
				if _, ok := err.(*NoActiveGoalError); ok {
					break
				}
				return "", err
			}
		}
		return "ran cycles", nil

	case ActReflect:
		a.Reflect()
		return "reflected", nil

	case ActLearnEquivalences:
		n := a.LearnEquivalences()
		return fmt.Sprintf("learned %d equivalences", n), nil

	case ActRunRules:
		config := rules.DefaultConfig()
		result, err := rules.New(config).Run(a.Engine)
		if err != nil {
			return "", &EngineError{Err: err}
		}
		return fmt.Sprintf("derived %d triples", len(result.Derived)), nil

	case ActAnalyzeGaps:
		anchors := make([]symbol.ID, 0, len(a.Goals))
		for _, g := range ActiveGoals(a.Goals) {
			anchors = append(anchors, g.Symbol)
		}
		result, err := gap.Analyze(a.Engine, anchors, gap.DefaultConfig())
		if err != nil {
			return "", &EngineError{Err: err}
		}
		return fmt.Sprintf("found %d gaps", len(result.Gaps)), nil

	case ActAddGoal:
		sym := a.Engine.ResolveOrCreateEntity("goal:" + trigger.Action.Description)
		a.AddGoal(sym, trigger.Action.Description, trigger.Action.Priority, trigger.Action.Criteria)
		return "added goal", nil

	case ActExecuteTool:
		input := NewToolInput()
		for k, v := range trigger.Action.Params {
			input = input.WithParam(k, v)
		}
		out, err := a.Tools.Execute(trigger.Action.ToolName, input, a.Engine)
		if err != nil {
			return "", err
		}
		return out.Result, nil

	default:
		return "", fmt.Errorf("agent: unknown trigger action kind %d", trigger.Action.Kind)
	}
}
