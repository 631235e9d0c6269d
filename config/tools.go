package config

import (
	"fmt"
	"time"

	"github.com/deepnoodle-ai/chisel"
	"github.com/deepnoodle-ai/chisel/toolkit"
)

// ToolInitializer creates a tool from the server configuration.
type ToolInitializer func(config *Config) (chisel.Tool, error)

// InitializeShowFileTool initializes the show_file tool with the given configuration
func InitializeShowFileTool(config *Config) (chisel.Tool, error) {
	return toolkit.NewShowFileTool(toolkit.ShowFileToolOptions{
		WorkspaceDir: config.Workspace,
		DenyPaths:    config.Deny.Paths,
		MaxFileSize:  config.Limits.MaxFileSize,
	}), nil
}

// InitializeSearchInFileTool initializes the search_in_file tool with the given configuration
func InitializeSearchInFileTool(config *Config) (chisel.Tool, error) {
	return toolkit.NewSearchInFileTool(toolkit.SearchInFileToolOptions{
		WorkspaceDir: config.Workspace,
		DenyPaths:    config.Deny.Paths,
		MaxFileSize:  config.Limits.MaxFileSize,
		MaxMatches:   config.Limits.MaxMatches,
	}), nil
}

// InitializeEditFileTool initializes the edit_file tool with the given configuration
func InitializeEditFileTool(config *Config) (chisel.Tool, error) {
	return toolkit.NewEditFileTool(toolkit.EditFileToolOptions{
		WorkspaceDir: config.Workspace,
		DenyPaths:    config.Deny.Paths,
		MaxFileSize:  config.Limits.MaxFileSize,
	}), nil
}

// InitializeWriteFileTool initializes the write_file tool with the given configuration
func InitializeWriteFileTool(config *Config) (chisel.Tool, error) {
	return toolkit.NewWriteFileTool(toolkit.WriteFileToolOptions{
		WorkspaceDir: config.Workspace,
		DenyPaths:    config.Deny.Paths,
	}), nil
}

// InitializeCommandTool initializes the execute_shell_command tool with the given configuration
func InitializeCommandTool(config *Config) (chisel.Tool, error) {
	return toolkit.NewCommandTool(toolkit.CommandToolOptions{
		WorkspaceDir:    config.Workspace,
		DenyCommands:    config.Deny.Commands,
		MaxOutputLength: config.Limits.MaxOutputLength,
		DefaultTimeout:  time.Duration(config.Limits.CommandTimeout) * time.Second,
	}), nil
}

// InitializeFetchTool initializes the fetch_page tool with the given configuration
func InitializeFetchTool(config *Config) (chisel.Tool, error) {
	return toolkit.NewFetchTool(), nil
}

// ToolInitializers maps tool names to their initialization functions
var ToolInitializers = map[string]ToolInitializer{
	"show_file":             InitializeShowFileTool,
	"search_in_file":        InitializeSearchInFileTool,
	"edit_file":             InitializeEditFileTool,
	"write_file":            InitializeWriteFileTool,
	"execute_shell_command": InitializeCommandTool,
	"fetch_page":            InitializeFetchTool,
}

// DefaultToolOrder lists all known tools in catalog order.
var DefaultToolOrder = []string{
	"show_file",
	"search_in_file",
	"edit_file",
	"write_file",
	"execute_shell_command",
	"fetch_page",
}

// InitializeToolByName initializes a tool by its name with the given configuration
func InitializeToolByName(toolName string, config *Config) (chisel.Tool, error) {
	initializer, exists := ToolInitializers[toolName]
	if !exists {
		return nil, fmt.Errorf("unknown tool: %s", toolName)
	}
	return initializer(config)
}

// GetAvailableToolNames returns a list of all available tool names
func GetAvailableToolNames() []string {
	names := make([]string, len(DefaultToolOrder))
	copy(names, DefaultToolOrder)
	return names
}

// IsKnownTool reports whether name refers to a registered tool.
func IsKnownTool(name string) bool {
	_, exists := ToolInitializers[name]
	return exists
}

// BuildTools initializes the tools selected by the configuration. An
// empty Enabled list selects all known tools in catalog order; otherwise
// the Enabled order is kept. Disabled entries are then removed.
func (config *Config) BuildTools() ([]chisel.Tool, error) {
	selected := config.Tools.Enabled
	if len(selected) == 0 {
		selected = DefaultToolOrder
	}
	disabled := make(map[string]bool, len(config.Tools.Disabled))
	for _, name := range config.Tools.Disabled {
		disabled[name] = true
	}
	tools := make([]chisel.Tool, 0, len(selected))
	for _, name := range selected {
		if disabled[name] {
			continue
		}
		tool, err := InitializeToolByName(name, config)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize tool %s: %w", name, err)
		}
		tools = append(tools, tool)
	}
	return tools, nil
}
