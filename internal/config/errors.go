package config

import "fmt"

// ConfigError reports a configured value this build cannot honor.
type ConfigError struct {
	Field   string
	Value   string
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s=%q: %s", e.Field, e.Value, e.Message)
}

func (e *ConfigError) Code() string { return "config::invalid_field" }

func (e *ConfigError) Help() string {
	return "check .cortex/config.yaml for a typo or an unsupported value"
}
