package config

import (
	"fmt"

	"spawnc/internal/container"

	"github.com/spf13/viper"
)

// Config is the operator-facing configuration: the container definition
// set plus compiler settings.
type Config struct {
	Logging    LoggingConfig
	Output     OutputConfig
	Eval       EvalConfig
	Containers map[string]container.Definition
}

// LoggingConfig controls the compiler's own log output.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// OutputConfig controls where generated artifacts are written.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// EvalConfig controls the external inline-configuration evaluator.
type EvalConfig struct {
	NixBinary string   `mapstructure:"nix_binary"`
	Overlays  []string `mapstructure:"overlays"`
}

// Load reads the configuration from the file viper was pointed at.
func Load() (*Config, error) {
	var cfg Config

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("output.dir", "./out")
	viper.SetDefault("eval.nix_binary", "nix")

	if err := viper.UnmarshalKey("logging", &cfg.Logging); err != nil {
		return nil, fmt.Errorf("unable to decode logging config: %w", err)
	}
	if err := viper.UnmarshalKey("output", &cfg.Output); err != nil {
		return nil, fmt.Errorf("unable to decode output config: %w", err)
	}
	if err := viper.UnmarshalKey("eval", &cfg.Eval); err != nil {
		return nil, fmt.Errorf("unable to decode eval config: %w", err)
	}
	if err := viper.UnmarshalKey("containers", &cfg.Containers); err != nil {
		return nil, fmt.Errorf("unable to decode container definitions: %w", err)
	}

	for name, def := range cfg.Containers {
		def.Name = name
		if def.Network.Mode == "" {
			def.Network.Mode = container.ModeVeth
		}
		cfg.Containers[name] = def
	}

	return &cfg, nil
}

// Definitions returns the container set as a slice ordered by name.
func (c *Config) Definitions() []container.Definition {
	defs := make([]container.Definition, 0, len(c.Containers))
	for _, def := range c.Containers {
		defs = append(defs, def)
	}
	container.SortByName(defs)
	return defs
}
