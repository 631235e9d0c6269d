package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	headerStyle = color.New(color.FgCyan, color.Bold)
	errorStyle  = color.New(color.FgRed, color.Bold)
	mutedStyle  = color.New(color.FgWhite, color.Faint)
)

var rootCmd = &cobra.Command{
	Use:   "chisel",
	Short: "Workspace-scoped file inspection and editing tools over MCP",
	Long: `Chisel serves a small set of precise file tools over the Model Context
Protocol: viewing files by line range, searching within a file, applying
transactional edits, writing files atomically, and running commands.

All file operations are confined to a workspace directory.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command. Errors are reported on stderr and set a
// nonzero exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Sprintf("Error: %v", err))
		os.Exit(1)
	}
}
