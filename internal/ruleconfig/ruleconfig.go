// Package ruleconfig defines the run configuration for the rule
// classification engine: logging, metrics, and result-cache settings
// loaded from an optional YAML file alongside the CLI flags.
package ruleconfig

import (
	"os"

	"github.com/ruleclassify/engine/internal/common/yamlutil"
)

const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"

	LogFormatJSON    = "json"
	LogFormatConsole = "console"
	LogFormatText    = "text"
)

// LogConfig configures the zap-backed logger: one console sink and one
// optional rotating file sink.
type LogConfig struct {
	Level   string           `yaml:"level"`
	Console ConsoleLogConfig `yaml:"console"`
	File    FileLogConfig    `yaml:"file"`
}

type ConsoleLogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"`
	Level   string `yaml:"level,omitempty"`
}

type FileLogConfig struct {
	Enabled  bool           `yaml:"enabled"`
	Path     string         `yaml:"path"`
	Format   string         `yaml:"format"`
	Level    string         `yaml:"level,omitempty"`
	Rotation RotationConfig `yaml:"rotation"`
}

type RotationConfig struct {
	MaxSize    int  `yaml:"max_size"`
	MaxAge     int  `yaml:"max_age"`
	MaxBackups int  `yaml:"max_backups"`
	Compress   bool `yaml:"compress"`
}

// MetricsConfig configures the optional Prometheus metrics listener.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
	Path    string `yaml:"path"`
}

// RedisConfig configures the optional evaluate-result cache backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// RunConfig is the complete set of settings a ruleclassify run can load
// from YAML, layered under CLI flag overrides.
type RunConfig struct {
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
	Redis   RedisConfig   `yaml:"redis"`
	Workers int           `yaml:"workers"`
}

// Default returns the configuration used when no YAML file is supplied:
// console logging only, metrics and caching disabled.
func Default() RunConfig {
	return RunConfig{
		Log: LogConfig{
			Level: LogLevelInfo,
			Console: ConsoleLogConfig{
				Enabled: true,
				Format:  LogFormatConsole,
			},
		},
	}
}

// Load reads and strictly parses a YAML run configuration from path,
// starting from Default() so an omitted section keeps its default value.
func Load(path string) (RunConfig, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, err
	}
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return RunConfig{}, err
	}
	return cfg, nil
}
