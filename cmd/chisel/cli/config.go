package cli

import (
	"fmt"
	"os"

	"github.com/deepnoodle-ai/chisel/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration helpers",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter configuration file",
	Long: `Write a starter configuration file with the default settings. The file
format follows the extension (.yaml, .yml or .json); the default path is
chisel.yaml in the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "chisel.yaml"
		if len(args) > 0 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("refusing to overwrite existing file: %s", path)
		}
		if err := config.Default().Save(path); err != nil {
			return err
		}
		fmt.Println("wrote", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
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
		return cfg.Write(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().String("config", "", "Path to a configuration file (YAML or JSON)")
}
