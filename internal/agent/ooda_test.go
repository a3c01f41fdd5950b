package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cortexd/internal/engine"
	"cortexd/internal/toolmanifest"
	"cortexd/internal/vsa"
)

type scriptedTool struct {
	name     string
	manifest toolmanifest.ToolManifest
	output   ToolOutput
}

func (t scriptedTool) Signature() ToolSignature {
	return ToolSignature{Name: t.name, Description: "scripted", Parameters: nil}
}

func (t scriptedTool) Execute(e *engine.Engine, input ToolInput) (ToolOutput, error) {
	return t.output, nil
}

func (t scriptedTool) Manifest() toolmanifest.ToolManifest { return t.manifest }

func safeKGQueryTool() scriptedTool {
	return scriptedTool{
		name: "kg_query",
		manifest: toolmanifest.ToolManifest{
			Name:   "kg_query",
			Danger: toolmanifest.DangerInfo{Level: toolmanifest.Safe, Capabilities: toolmanifest.CapabilitySet(toolmanifest.CapabilityReadKG)},
			Source: toolmanifest.SourceNative,
		},
		output: OkOutput("queried"),
	}
}

func criticalShellExecTool() scriptedTool {
	return scriptedTool{
		name: "shell_exec",
		manifest: toolmanifest.ToolManifest{
			Name:   "shell_exec",
			Danger: toolmanifest.DangerInfo{Level: toolmanifest.Critical, Capabilities: toolmanifest.CapabilitySet(toolmanifest.CapabilityProcessExec)},
			Source: toolmanifest.SourceNative,
		},
		output: OkOutput("executed"),
	}
}

func newTestAgent(t *testing.T, tools ...Tool) *Agent {
	t.Helper()
	e := engine.New(vsa.NewDefault(vsa.TestDimension, vsa.Bipolar), nil)
	registry := NewToolRegistry()
	for _, tool := range tools {
		registry.Register(tool)
	}
	a := NewAgent(e, 16, registry)
	sym := e.ResolveOrCreateEntity("goal:anchor")
	a.AddGoal(sym, "anchor goal", 5, "some criteria")
	return a
}

func TestRunCycleNoActiveGoalErrors(t *testing.T) {
	e := engine.New(vsa.NewDefault(vsa.TestDimension, vsa.Bipolar), nil)
	a := NewAgent(e, 16, NewToolRegistry())
	_, err := a.RunCycle()
	require.Error(t, err)
	var nf *NoActiveGoalError
	assert.ErrorAs(t, err, &nf)
}

// Scenario: a Critical-danger ProcessExec tool is registered alongside a
// safe one. The default psyche's veto pattern must block the dangerous
// tool and record a shadow encounter, without ever invoking it.
func TestRunCycleVetoesCriticalProcessExecTool(t *testing.T) {
	a := newTestAgent(t, criticalShellExecTool())

	outcome, err := a.RunCycle()
	if err != nil {
		t.Fatalf("RunCycle() err = %v, want nil", err)
	}
	if !outcome.Vetoed {
		t.Error("outcome.Vetoed = false, want true")
	}
	if outcome.VetoPattern != "destructive_action" {
		t.Errorf("outcome.VetoPattern = %q, want destructive_action", outcome.VetoPattern)
	}
	if a.Psyche.SelfIntegration.ShadowEncounters != 1 {
		t.Errorf("ShadowEncounters = %d, want 1", a.Psyche.SelfIntegration.ShadowEncounters)
	}
}

// A sage-favored tool (kg_query) should pick up a positive archetype bias
// under the default psyche (Sage weight 0.7 > 0.5), so a lone safe
// candidate still executes normally.
func TestRunCycleExecutesSafeSageTool(t *testing.T) {
	a := newTestAgent(t, safeKGQueryTool())

	outcome, err := a.RunCycle()
	if err != nil {
		t.Fatalf("RunCycle() err = %v, want nil", err)
	}
	if outcome.Vetoed {
		t.Error("outcome.Vetoed = true, want false")
	}
	if outcome.ChosenTool != "kg_query" {
		t.Errorf("ChosenTool = %q, want kg_query", outcome.ChosenTool)
	}
	if !outcome.Result.Success {
		t.Error("Result.Success = false, want true")
	}
	score := outcome.ScoreByTool["kg_query"]
	if score <= 0.5 {
		t.Errorf("score for sage-favored tool = %f, want > 0.5 (positive archetype bias)", score)
	}
}

func TestRunCycleBetweenVetoedAndSafeToolPicksSafeOne(t *testing.T) {
	a := newTestAgent(t, criticalShellExecTool(), safeKGQueryTool())

	outcome, err := a.RunCycle()
	if err != nil {
		t.Fatalf("RunCycle() err = %v, want nil", err)
	}
	if outcome.Vetoed {
		t.Error("outcome.Vetoed = true, want false — a safe alternative exists")
	}
	if outcome.ChosenTool != "kg_query" {
		t.Errorf("ChosenTool = %q, want kg_query", outcome.ChosenTool)
	}
	if a.Psyche.SelfIntegration.ShadowEncounters != 1 {
		t.Errorf("ShadowEncounters = %d, want 1 (from the vetoed shell_exec candidate)", a.Psyche.SelfIntegration.ShadowEncounters)
	}
}

func TestRunCycleAdvancesGoalProgressOnSuccess(t *testing.T) {
	a := newTestAgent(t, safeKGQueryTool())
	before := a.Goals[0].LastProgressCycle

	if _, err := a.RunCycle(); err != nil {
		t.Fatalf("RunCycle() err = %v", err)
	}
	if a.Goals[0].LastProgressCycle == before {
		t.Error("LastProgressCycle unchanged after a successful cycle")
	}
}
