// Package config defines the chisel server configuration: workspace
// root, transport selection, tool policy, resource limits, and deny
// lists. Configurations load from YAML or JSON files and are validated
// before use.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
	"github.com/goccy/go-yaml"
)

// Transport types accepted in TransportConfig.Type.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// DefaultHTTPAddress is the listen address used when the HTTP transport
// is selected without an explicit address.
const DefaultHTTPAddress = ":8420"

// Config represents the chisel server configuration.
type Config struct {
	Workspace string          `yaml:"Workspace,omitempty" json:"Workspace,omitempty"`
	LogLevel  string          `yaml:"LogLevel,omitempty" json:"LogLevel,omitempty"`
	Transport TransportConfig `yaml:"Transport,omitempty" json:"Transport,omitempty"`
	Tools     ToolsConfig     `yaml:"Tools,omitempty" json:"Tools,omitempty"`
	Limits    LimitsConfig    `yaml:"Limits,omitempty" json:"Limits,omitempty"`
	Deny      DenyConfig      `yaml:"Deny,omitempty" json:"Deny,omitempty"`
}

// TransportConfig selects how the server is exposed.
type TransportConfig struct {
	Type    string `yaml:"Type,omitempty" json:"Type,omitempty"`
	Address string `yaml:"Address,omitempty" json:"Address,omitempty"`
}

// ToolsConfig controls which tools the server registers. An empty
// Enabled list selects all known tools. Disabled wins over Enabled.
type ToolsConfig struct {
	Enabled  []string `yaml:"Enabled,omitempty" json:"Enabled,omitempty"`
	Disabled []string `yaml:"Disabled,omitempty" json:"Disabled,omitempty"`
}

// LimitsConfig bounds resource usage per tool call. Zero values fall
// back to the tool defaults.
type LimitsConfig struct {
	// MaxFileSize caps the size of files tools will open, in bytes.
	MaxFileSize int `yaml:"MaxFileSize,omitempty" json:"MaxFileSize,omitempty"`

	// MaxOutputLength caps captured command output, in characters.
	MaxOutputLength int `yaml:"MaxOutputLength,omitempty" json:"MaxOutputLength,omitempty"`

	// MaxMatches caps reported search matches per call.
	MaxMatches int `yaml:"MaxMatches,omitempty" json:"MaxMatches,omitempty"`

	// CommandTimeout is the default command timeout, in seconds.
	CommandTimeout int `yaml:"CommandTimeout,omitempty" json:"CommandTimeout,omitempty"`
}

// DenyConfig rejects paths and commands even when otherwise reachable.
type DenyConfig struct {
	// Paths are doublestar patterns matched against workspace-relative
	// file paths.
	Paths []string `yaml:"Paths,omitempty" json:"Paths,omitempty"`

	// Commands are glob patterns matched against command names.
	Commands []string `yaml:"Commands,omitempty" json:"Commands,omitempty"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Transport: TransportConfig{
			Type:    TransportStdio,
			Address: DefaultHTTPAddress,
		},
	}
}

// Validate checks the configuration for errors. It does not touch the
// filesystem, so a config that names a missing workspace still passes;
// that surfaces when the tools are built.
func (config *Config) Validate() error {
	if config.LogLevel != "" && !isValidLogLevel(config.LogLevel) {
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}
	switch config.Transport.Type {
	case "", TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid transport type: %s", config.Transport.Type)
	}
	for _, name := range config.Tools.Enabled {
		if !IsKnownTool(name) {
			return fmt.Errorf("unknown tool: %s", name)
		}
	}
	for _, name := range config.Tools.Disabled {
		if !IsKnownTool(name) {
			return fmt.Errorf("unknown tool: %s", name)
		}
	}
	if config.Limits.MaxFileSize < 0 {
		return fmt.Errorf("invalid MaxFileSize: must not be negative")
	}
	if config.Limits.MaxOutputLength < 0 {
		return fmt.Errorf("invalid MaxOutputLength: must not be negative")
	}
	if config.Limits.MaxMatches < 0 {
		return fmt.Errorf("invalid MaxMatches: must not be negative")
	}
	if config.Limits.CommandTimeout < 0 {
		return fmt.Errorf("invalid CommandTimeout: must not be negative")
	}
	for _, pattern := range config.Deny.Paths {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid deny path pattern: %s", pattern)
		}
	}
	for _, pattern := range config.Deny.Commands {
		if _, err := glob.Compile(pattern); err != nil {
			return fmt.Errorf("invalid deny command pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// Save writes a Config to a file. The file extension is used to
// determine the configuration format:
// - .json -> JSON
// - .yml or .yaml -> YAML
func (config *Config) Save(path string) error {
	// Determine format from extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return config.SaveJSON(path)
	case ".yml", ".yaml":
		return config.SaveYAML(path)
	default:
		return fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// SaveYAML writes a Config to a YAML file
func (config *Config) SaveYAML(path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SaveJSON writes a Config to a JSON file
func (config *Config) SaveJSON(path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Write a Config to a writer in YAML format
func (config *Config) Write(w io.Writer) error {
	return yaml.NewEncoder(w).Encode(config)
}

func isValidLogLevel(level string) bool {
	return level == "debug" || level == "info" || level == "warn" || level == "error"
}
