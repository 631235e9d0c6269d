package config

import (
	"testing"

	"github.com/deepnoodle-ai/chisel"
	"github.com/stretchr/testify/require"
)

func toolNames(tools []chisel.Tool) []string {
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.Name())
	}
	return names
}

func TestBuildToolsAll(t *testing.T) {
	config := Default()
	config.Workspace = t.TempDir()

	tools, err := config.BuildTools()
	require.NoError(t, err)
	require.Equal(t, DefaultToolOrder, toolNames(tools))
}

func TestBuildToolsEnabled(t *testing.T) {
	config := Default()
	config.Workspace = t.TempDir()
	config.Tools.Enabled = []string{"execute_shell_command", "show_file"}

	tools, err := config.BuildTools()
	require.NoError(t, err)
	require.Equal(t, []string{"execute_shell_command", "show_file"}, toolNames(tools))
}

func TestBuildToolsDisabled(t *testing.T) {
	config := Default()
	config.Workspace = t.TempDir()
	config.Tools.Disabled = []string{"execute_shell_command", "fetch_page"}

	tools, err := config.BuildTools()
	require.NoError(t, err)
	require.Equal(t, []string{"show_file", "search_in_file", "edit_file", "write_file"}, toolNames(tools))
}

func TestBuildToolsUnknown(t *testing.T) {
	config := Default()
	config.Tools.Enabled = []string{"teleport"}

	_, err := config.BuildTools()
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown tool: teleport")
}

func TestInitializeToolByName(t *testing.T) {
	config := Default()
	config.Workspace = t.TempDir()

	tool, err := InitializeToolByName("show_file", config)
	require.NoError(t, err)
	require.Equal(t, "show_file", tool.Name())

	_, err = InitializeToolByName("teleport", config)
	require.Error(t, err)
	require.Equal(t, "unknown tool: teleport", err.Error())
}

func TestGetAvailableToolNames(t *testing.T) {
	names := GetAvailableToolNames()
	require.Equal(t, DefaultToolOrder, names)
	require.Len(t, ToolInitializers, len(names))

	// The returned slice is a copy
	names[0] = "mutated"
	require.Equal(t, "show_file", DefaultToolOrder[0])
}

func TestIsKnownTool(t *testing.T) {
	require.True(t, IsKnownTool("edit_file"))
	require.False(t, IsKnownTool("teleport"))
}
