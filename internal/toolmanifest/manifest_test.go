package toolmanifest

import "testing"

func TestHasCapability(t *testing.T) {
	d := DangerInfo{Capabilities: CapabilitySet(CapabilityReadKG, CapabilityReason)}
	if !d.HasCapability(CapabilityReadKG) {
		t.Error("HasCapability(ReadKG) = false, want true")
	}
	if d.HasCapability(CapabilityNetwork) {
		t.Error("HasCapability(Network) = true, want false")
	}
}

func TestIntersects(t *testing.T) {
	d := DangerInfo{Capabilities: CapabilitySet(CapabilityProcessExec)}
	if !d.Intersects(CapabilitySet(CapabilityProcessExec, CapabilityNetwork)) {
		t.Error("Intersects = false, want true (ProcessExec shared)")
	}
	if d.Intersects(CapabilitySet(CapabilityNetwork)) {
		t.Error("Intersects = true, want false (disjoint sets)")
	}
	if d.Intersects(CapabilitySet()) {
		t.Error("Intersects(empty) = true, want false")
	}
}

func TestDangerLevelOrdering(t *testing.T) {
	if !(Critical >= Dangerous) {
		t.Error("Critical >= Dangerous should hold under plain integer ordering")
	}
	if !(Safe < Cautious) {
		t.Error("Safe < Cautious should hold")
	}
}

func TestDangerLevelString(t *testing.T) {
	cases := map[DangerLevel]string{
		Safe:      "safe",
		Cautious:  "cautious",
		Dangerous: "dangerous",
		Critical:  "critical",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", level, got, want)
		}
	}
}
