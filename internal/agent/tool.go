// Package agent implements the OODA (Observe-Orient-Decide-Act) control
// loop: a tool registry, goal list, bounded working memory, trigger system,
// and periodic reflection, all wired to an engine.Engine and biased by a
// psyche.Psyche.
package agent

import (
	"sort"

	"cortexd/internal/engine"
	"cortexd/internal/symbol"
	"cortexd/internal/toolmanifest"
)

// ToolInput carries the named parameters passed to a tool invocation.
type ToolInput struct {
	params map[string]string
}

// NewToolInput returns an empty ToolInput.
func NewToolInput() ToolInput {
	return ToolInput{params: make(map[string]string)}
}

// WithParam sets name to value and returns the receiver, for chained
// construction.
func (in ToolInput) WithParam(name, value string) ToolInput {
	in.params[name] = value
	return in
}

// Get returns the value of name and whether it was present.
func (in ToolInput) Get(name string) (string, bool) {
	v, ok := in.params[name]
	return v, ok
}

// Require returns the value of name, or a ToolExecutionError naming
// toolName if name is missing.
func (in ToolInput) Require(name, toolName string) (string, error) {
	v, ok := in.params[name]
	if !ok {
		return "", &ToolExecutionError{ToolName: toolName, Message: "missing required parameter " + name}
	}
	return v, nil
}

// ToolOutput is what a tool execution produces: a success flag, a textual
// result plus every symbol it touched, so the caller can fold them into working
// memory without re-parsing the result text.
type ToolOutput struct {
	Success         bool
	Result          string
	SymbolsInvolved []symbol.ID
}

// OkOutput builds a successful ToolOutput with no symbols attached.
func OkOutput(result string) ToolOutput {
	return ToolOutput{Success: true, Result: result}
}

// OkOutputWithSymbols builds a successful ToolOutput naming the symbols it
// touched.
func OkOutputWithSymbols(result string, symbols []symbol.ID) ToolOutput {
	return ToolOutput{Success: true, Result: result, SymbolsInvolved: symbols}
}

// ErrOutput builds a failed-but-not-erroring ToolOutput: the tool ran and
// produced a result, but that result represents a failure (as opposed to
// returning a Go error, which means the tool itself couldn't run).
func ErrOutput(result string) ToolOutput {
	return ToolOutput{Success: false, Result: result}
}

// ToolParam describes one named parameter a tool accepts.
type ToolParam struct {
	Name        string
	Description string
	Required    bool
}

// RequiredParam is a convenience constructor for a required ToolParam.
func RequiredParam(name, description string) ToolParam {
	return ToolParam{Name: name, Description: description, Required: true}
}

// OptionalParam is a convenience constructor for an optional ToolParam.
func OptionalParam(name, description string) ToolParam {
	return ToolParam{Name: name, Description: description}
}

// ToolSignature is a tool's externally visible interface: its name,
// description, and parameter list.
type ToolSignature struct {
	Name        string
	Description string
	Parameters  []ToolParam
}

// Tool is anything the agent can invoke during the Act phase of an OODA
// cycle.
type Tool interface {
	Signature() ToolSignature
	Execute(e *engine.Engine, input ToolInput) (ToolOutput, error)
	Manifest() toolmanifest.ToolManifest
}

// ToolRegistry holds every tool the agent can invoke, keyed by name. Name
// collisions are last-registration-wins, matching the ordinary expectation
// that a later registration supersedes an earlier one (e.g. a reloaded tool
// definition).
type ToolRegistry struct {
	tools     map[string]Tool
	manifests map[string]toolmanifest.ToolManifest
}

// NewToolRegistry returns an empty registry.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{
		tools:     make(map[string]Tool),
		manifests: make(map[string]toolmanifest.ToolManifest),
	}
}

// Register adds tool under its signature's name, caching its manifest.
func (r *ToolRegistry) Register(tool Tool) {
	name := tool.Signature().Name
	r.tools[name] = tool
	r.manifests[name] = tool.Manifest()
}

// Get returns the tool registered under name, if any.
func (r *ToolRegistry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// ManifestOf returns the cached manifest for name, if any.
func (r *ToolRegistry) ManifestOf(name string) (toolmanifest.ToolManifest, bool) {
	m, ok := r.manifests[name]
	return m, ok
}

// ListManifests returns every registered tool's manifest, sorted by name for
// deterministic iteration.
func (r *ToolRegistry) ListManifests() []toolmanifest.ToolManifest {
	out := make([]toolmanifest.ToolManifest, 0, len(r.manifests))
	for _, m := range r.manifests {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// List returns every registered tool's signature, sorted by name.
func (r *ToolRegistry) List() []ToolSignature {
	out := make([]ToolSignature, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t.Signature())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Execute runs the named tool against e with input, or a ToolNotFoundError
// if no such tool is registered.
func (r *ToolRegistry) Execute(name string, input ToolInput, e *engine.Engine) (ToolOutput, error) {
	tool, ok := r.tools[name]
	if !ok {
		return ToolOutput{}, &ToolNotFoundError{Name: name}
	}
	return tool.Execute(e, input)
}

// Len reports how many tools are registered.
func (r *ToolRegistry) Len() int { return len(r.tools) }

// IsEmpty reports whether the registry holds no tools.
func (r *ToolRegistry) IsEmpty() bool { return len(r.tools) == 0 }
