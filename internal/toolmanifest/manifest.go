// Package toolmanifest defines the tool-manifest vocabulary shared by the
// agent's tool registry and the psyche's shadow-matching logic: danger
// levels, capabilities, and the manifest shape tools declare themselves
// with. It is split out from both internal/agent and internal/psyche so
// neither has to import the other just to describe or match a tool's risk
// profile.
package toolmanifest

// DangerLevel ranks how much latitude a tool has to affect the world,
// lowest to highest. Comparisons use plain integer ordering (Critical >=
// Dangerous is true), matching the shadow-match threshold check.
type DangerLevel int

const (
	Safe DangerLevel = iota
	Cautious
	Dangerous
	Critical
)

func (d DangerLevel) String() string {
	switch d {
	case Safe:
		return "safe"
	case Cautious:
		return "cautious"
	case Dangerous:
		return "dangerous"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// Capability names one fixed category of effect a tool can have on the
// world or the knowledge graph. The enumeration is closed: new tools pick
// from this set rather than inventing new capability strings.
type Capability string

const (
	CapabilityReadKG          Capability = "read_kg"
	CapabilityWriteKG         Capability = "write_kg"
	CapabilityReadFilesystem  Capability = "read_filesystem"
	CapabilityWriteFilesystem Capability = "write_filesystem"
	CapabilityNetwork         Capability = "network"
	CapabilityProcessExec     Capability = "process_exec"
	CapabilityReason          Capability = "reason"
	CapabilityVSAAccess       Capability = "vsa_access"
)

// ToolSource tags where a tool's implementation comes from. Only natively
// registered tools are in scope here — WASM-loaded and other external tool
// sources are out of scope (see spec's Non-goals).
type ToolSource string

const (
	SourceNative ToolSource = "native"
)

// DangerInfo is the risk-facing part of a manifest: how dangerous the tool
// is, what it can touch, and which phrases in an action description should
// make the shadow suspicious of it.
type DangerInfo struct {
	Level           DangerLevel
	Capabilities    map[Capability]struct{}
	Description     string
	ShadowTriggers  []string
}

// HasCapability reports whether cap is in this danger profile's capability
// set.
func (d DangerInfo) HasCapability(cap Capability) bool {
	_, ok := d.Capabilities[cap]
	return ok
}

// Intersects reports whether d's capabilities and other share any member.
func (d DangerInfo) Intersects(other map[Capability]struct{}) bool {
	for c := range other {
		if _, ok := d.Capabilities[c]; ok {
			return true
		}
	}
	return false
}

// CapabilitySet builds a capability set from a variadic list, the usual
// way manifests are constructed in tool registrations and tests.
func CapabilitySet(caps ...Capability) map[Capability]struct{} {
	out := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		out[c] = struct{}{}
	}
	return out
}

// ToolManifest is a tool's self-declared risk profile, registered alongside
// its Signature in the tool registry.
type ToolManifest struct {
	Name        string
	Description string
	Danger      DangerInfo
	Source      ToolSource
}
