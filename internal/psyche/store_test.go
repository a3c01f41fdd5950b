package psyche

import (
	"path/filepath"
	"testing"

	"cortexd/internal/store"
)

func TestLoadMissingReturnsDefaultFlag(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "cortex.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer st.Close()

	_, found, err := Load(st)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if found {
		t.Error("Load() found = true on empty store, want false")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "cortex.db"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer st.Close()

	p := Default()
	p.SelfIntegration.ShadowEncounters = 4
	if err := Save(st, p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, found, err := Load(st)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !found {
		t.Fatal("Load() found = false, want true")
	}
	if loaded.Persona.Name != "Scholar" {
		t.Errorf("loaded persona name = %q, want Scholar", loaded.Persona.Name)
	}
	if loaded.SelfIntegration.ShadowEncounters != 4 {
		t.Errorf("loaded shadow encounters = %d, want 4", loaded.SelfIntegration.ShadowEncounters)
	}
}
