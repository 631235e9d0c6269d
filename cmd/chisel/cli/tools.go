package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/deepnoodle-ai/chisel"
	"github.com/deepnoodle-ai/chisel/config"
	"github.com/deepnoodle-ai/chisel/internal/tablewriter"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

// catalogDescriptionWidth caps the description column so the table stays
// readable in a standard terminal.
const catalogDescriptionWidth = 60

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the available tools",
	Long: `List the tools the server would expose, honoring the Enabled and
Disabled lists from the configuration file when one is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}
		cfg := config.Default()
		if configPath != "" {
			cfg, err = config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		tools, err := cfg.BuildTools()
		if err != nil {
			return err
		}
		renderToolCatalog(os.Stdout, tools)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)

	toolsCmd.Flags().String("config", "", "Path to a configuration file (YAML or JSON)")
}

func renderToolCatalog(w io.Writer, tools []chisel.Tool) {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Name", "Title", "Access", "Description"})
	for _, tool := range tools {
		title := ""
		access := "read-write"
		if annotations := tool.Annotations(); annotations != nil {
			title = annotations.Title
			if annotations.ReadOnlyHint {
				access = "read-only"
			}
		}
		description := firstLine(tool.Description())
		description = runewidth.Truncate(description, catalogDescriptionWidth, "...")
		table.Append([]string{tool.Name(), title, access, description})
	}
	table.Render()
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}
