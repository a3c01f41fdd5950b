// Package config loads cortexd's on-disk configuration: VSA dimension and
// encoding, the durable store path, and the default tuning knobs for the
// rule engine, fusion, gap analysis, schema discovery, and the agent's
// OODA/trigger daemon. It shares the same .cortex/config.yaml file the
// logging package reads its own block from, but owns the rest of the
// document.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"cortexd/internal/agent"
	"cortexd/internal/fusion"
	"cortexd/internal/gap"
	"cortexd/internal/rules"
	"cortexd/internal/schema"
	"cortexd/internal/vsa"
)

// VSAConfig selects the hypervector dimension and encoding.
type VSAConfig struct {
	Dimension int    `yaml:"dimension"`
	Encoding  string `yaml:"encoding"`
}

// StoreConfig points at the durable store's backing file.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// AgentConfig tunes the Daemon's two worker loop intervals and the
// working-memory capacity new Agents are constructed with.
type AgentConfig struct {
	CycleIntervalSeconds   int `yaml:"cycle_interval_seconds"`
	TriggerIntervalSeconds int `yaml:"trigger_interval_seconds"`
	WorkingMemoryCapacity  int `yaml:"working_memory_capacity"`
}

// Config is the full on-disk configuration document.
type Config struct {
	VSA    VSAConfig        `yaml:"vsa"`
	Store  StoreConfig      `yaml:"store"`
	Rules  rules.Config     `yaml:"rules"`
	Fusion fusion.Config    `yaml:"fusion"`
	Gap    gap.Config       `yaml:"gap"`
	Schema schema.Config    `yaml:"schema"`
	Agent  AgentConfig      `yaml:"agent"`
}

// Default returns a Config seeded from every component's own DefaultConfig,
// plus cortexd's own defaults for the fields components don't own.
func Default() Config {
	return Config{
		VSA:    VSAConfig{Dimension: int(vsa.DefaultDimension), Encoding: "bipolar"},
		Store:  StoreConfig{Path: ".cortex/store.db"},
		Rules:  rules.DefaultConfig(),
		Fusion: fusion.DefaultConfig(),
		Gap:    gap.DefaultConfig(),
		Schema: schema.DefaultConfig(),
		Agent: AgentConfig{
			CycleIntervalSeconds:   5,
			TriggerIntervalSeconds: 1,
			WorkingMemoryCapacity:  256,
		},
	}
}

// Load reads path as YAML into a Config seeded with Default(), so any
// field the file omits keeps its default value. A missing file is not an
// error: Default() is returned as-is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// validate rejects configured values this build can't honor, rather than
// silently falling back to a default.
func (c Config) validate() error {
	if !strings.EqualFold(c.VSA.Encoding, "bipolar") {
		return &ConfigError{Field: "vsa.encoding", Value: c.VSA.Encoding, Message: `only "bipolar" is supported`}
	}
	return nil
}

// Encoding translates the config's encoding name into a vsa.Encoding.
// Load validates VSA.Encoding before a Config is ever handed out, so
// "bipolar" is the only value that reaches here.
func (c Config) Encoding() vsa.Encoding {
	return vsa.Bipolar
}

// AgentDaemonConfig translates the config's second-granularity intervals
// into an agent.DaemonConfig.
func (c Config) AgentDaemonConfig() agent.DaemonConfig {
	return agent.DaemonConfig{
		CycleInterval:   secondsToDuration(c.Agent.CycleIntervalSeconds),
		TriggerInterval: secondsToDuration(c.Agent.TriggerIntervalSeconds),
	}
}

// WorkspaceConfigPath joins workspace with the conventional config file
// location, ".cortex/config.yaml".
func WorkspaceConfigPath(workspace string) string {
	return filepath.Join(workspace, ".cortex", "config.yaml")
}

func secondsToDuration(seconds int) time.Duration {
	if seconds <= 0 {
		seconds = 1
	}
	return time.Duration(seconds) * time.Second
}
