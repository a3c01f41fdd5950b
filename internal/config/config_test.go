package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() err = %v, want nil for a missing file", err)
	}
	want := Default()
	if cfg != want {
		t.Errorf("Load(missing) = %+v, want Default() = %+v", cfg, want)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
vsa:
  dimension: 2048
  encoding: bipolar
agent:
  cycle_interval_seconds: 30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() err = %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() err = %v", err)
	}
	if cfg.VSA.Dimension != 2048 {
		t.Errorf("VSA.Dimension = %d, want 2048", cfg.VSA.Dimension)
	}
	if cfg.Agent.CycleIntervalSeconds != 30 {
		t.Errorf("Agent.CycleIntervalSeconds = %d, want 30", cfg.Agent.CycleIntervalSeconds)
	}
	// Fields the override omits keep their defaults.
	if cfg.Agent.TriggerIntervalSeconds != 1 {
		t.Errorf("Agent.TriggerIntervalSeconds = %d, want default 1", cfg.Agent.TriggerIntervalSeconds)
	}
}

func TestLoadRejectsUnsupportedEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "vsa:\n  encoding: unipolar\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() err = %v", err)
	}

	_, err := Load(path)
	require.Error(t, err)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "vsa.encoding", cfgErr.Field)
}

func TestAgentDaemonConfigTranslatesSeconds(t *testing.T) {
	cfg := Default()
	cfg.Agent.CycleIntervalSeconds = 7
	cfg.Agent.TriggerIntervalSeconds = 2

	dc := cfg.AgentDaemonConfig()
	if dc.CycleInterval.Seconds() != 7 {
		t.Errorf("CycleInterval = %v, want 7s", dc.CycleInterval)
	}
	if dc.TriggerInterval.Seconds() != 2 {
		t.Errorf("TriggerInterval = %v, want 2s", dc.TriggerInterval)
	}
}
