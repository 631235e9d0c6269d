package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/deepnoodle-ai/chisel/config"
	"github.com/stretchr/testify/require"
)

func TestRenderToolCatalog(t *testing.T) {
	cfg := config.Default()
	cfg.Workspace = t.TempDir()

	tools, err := cfg.BuildTools()
	require.NoError(t, err)
	require.Len(t, tools, len(config.DefaultToolOrder))

	var buf bytes.Buffer
	renderToolCatalog(&buf, tools)
	output := buf.String()

	require.Contains(t, output, "show_file")
	require.Contains(t, output, "Show File")
	require.Contains(t, output, "read-only")
	require.Contains(t, output, "edit_file")
	require.Contains(t, output, "read-write")

	// Top border, header, separator, six tool rows, bottom border
	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.Len(t, lines, 10)
}

func TestFirstLine(t *testing.T) {
	require.Equal(t, "one", firstLine("one"))
	require.Equal(t, "one", firstLine("one\ntwo\nthree"))
	require.Equal(t, "", firstLine(""))
	require.Equal(t, "", firstLine("\ntrailing"))
}
