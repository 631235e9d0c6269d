package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the chisel release version. Release builds override it with
// -ldflags "-X github.com/deepnoodle-ai/chisel/cmd/chisel/cli.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the chisel version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("chisel", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
