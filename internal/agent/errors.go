package agent

import "fmt"

// ToolNotFoundError reports that a registry lookup found no tool under the
// given name.
type ToolNotFoundError struct {
	Name string
}

func (e *ToolNotFoundError) Error() string { return fmt.Sprintf("agent: no tool named %q", e.Name) }

func (e *ToolNotFoundError) Code() string { return "agent::tool_not_found" }

func (e *ToolNotFoundError) Help() string { return "register the tool before executing it, or check for a typo in the name" }

// ToolExecutionError wraps a tool's own failure to execute.
type ToolExecutionError struct {
	ToolName string
	Message  string
}

func (e *ToolExecutionError) Error() string {
	return fmt.Sprintf("agent: tool %q failed: %s", e.ToolName, e.Message)
}

func (e *ToolExecutionError) Code() string { return "agent::tool_execution" }

func (e *ToolExecutionError) Help() string { return "inspect the tool's own error message for the underlying cause" }

// EngineError wraps an error surfaced from the engine facade or one of its
// subordinate components (graph, rules, fusion, gap, schema).
type EngineError struct {
	Err error
}

func (e *EngineError) Error() string { return fmt.Sprintf("agent: engine error: %v", e.Err) }

func (e *EngineError) Unwrap() error { return e.Err }

func (e *EngineError) Code() string { return "agent::engine" }

func (e *EngineError) Help() string { return "see the wrapped error for the originating component" }

// NoActiveGoalError reports that the agent has no goal available to orient
// an OODA cycle around.
type NoActiveGoalError struct{}

func (e *NoActiveGoalError) Error() string { return "agent: no active goal to orient around" }

func (e *NoActiveGoalError) Code() string { return "agent::no_active_goal" }

func (e *NoActiveGoalError) Help() string { return "add a goal before running a cycle" }

// GoalNotFoundError reports a lookup against a goal symbol that isn't in
// the agent's goal list.
type GoalNotFoundError struct {
	Symbol uint64
}

func (e *GoalNotFoundError) Error() string {
	return fmt.Sprintf("agent: no goal for symbol %d", e.Symbol)
}

func (e *GoalNotFoundError) Code() string { return "agent::goal_not_found" }

func (e *GoalNotFoundError) Help() string { return "add the goal before referencing it, or check the symbol id" }

// ActionVetoedError reports that the psyche's shadow vetoed a tool
// selection before it could execute.
type ActionVetoedError struct {
	ToolName    string
	PatternName string
	Explanation string
}

func (e *ActionVetoedError) Error() string {
	return fmt.Sprintf("agent: action vetoed: tool %q matched shadow pattern %q: %s", e.ToolName, e.PatternName, e.Explanation)
}

func (e *ActionVetoedError) Code() string { return "agent::action_vetoed" }

func (e *ActionVetoedError) Help() string { return "this action requires explicit user confirmation; it will not run automatically" }
