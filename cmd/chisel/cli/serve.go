package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/deepnoodle-ai/chisel/config"
	"github.com/deepnoodle-ai/chisel/mcpserver"
	"github.com/deepnoodle-ai/chisel/slogger"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chisel tools over MCP",
	Long: `Serve the chisel tools over the Model Context Protocol.

The default transport is stdio: the protocol runs on stdin and stdout and
logs go to stderr. The http transport serves the same tools on a
streamable HTTP endpoint instead.

Flags override values from the configuration file.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	registerServeFlags(serveCmd)
}

func registerServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to a configuration file (YAML or JSON)")
	cmd.Flags().String("transport", "", "Transport to serve on: stdio or http")
	cmd.Flags().String("addr", "", "Listen address for the http transport")
	cmd.Flags().String("workspace", "", "Workspace directory that bounds all file operations")
	cmd.Flags().String("log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().Bool("watch-config", false, "Reload the configuration file when it changes")
}

// buildServeConfig resolves the effective configuration: values from the
// config file first, then flag overrides. It returns the config path so
// the caller can watch it.
func buildServeConfig(cmd *cobra.Command) (*config.Config, string, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, "", err
	}
	cfg := config.Default()
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
	}
	if value, _ := cmd.Flags().GetString("transport"); value != "" {
		cfg.Transport.Type = value
	}
	if value, _ := cmd.Flags().GetString("addr"); value != "" {
		cfg.Transport.Address = value
	}
	if value, _ := cmd.Flags().GetString("workspace"); value != "" {
		cfg.Workspace = value
	}
	if value, _ := cmd.Flags().GetString("log-level"); value != "" {
		cfg.LogLevel = value
	}
	if cfg.Transport.Type == "" {
		cfg.Transport.Type = config.TransportStdio
	}
	if cfg.Transport.Address == "" {
		cfg.Transport.Address = config.DefaultHTTPAddress
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, configPath, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, configPath, err := buildServeConfig(cmd)
	if err != nil {
		return err
	}
	watchConfig, err := cmd.Flags().GetBool("watch-config")
	if err != nil {
		return err
	}
	if watchConfig && configPath == "" {
		return fmt.Errorf("--watch-config requires --config")
	}

	logger := slogger.New(slogger.LevelFromString(cfg.LogLevel))

	tools, err := cfg.BuildTools()
	if err != nil {
		return err
	}

	srv, err := mcpserver.New(mcpserver.Options{
		Name:    "chisel",
		Version: Version,
		Tools:   tools,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchConfig {
		go func() {
			err := config.Watch(ctx, configPath, logger, func(updated *config.Config) {
				applyConfigChange(srv, logger, updated)
			})
			if err != nil {
				logger.Error("config watch failed", "error", err)
			}
		}()
	}

	printBanner(cfg, len(tools))

	switch cfg.Transport.Type {
	case config.TransportHTTP:
		return srv.ServeHTTP(ctx, cfg.Transport.Address)
	default:
		return srv.ServeStdio(ctx)
	}
}

// applyConfigChange hot-applies the reloadable parts of a config revision:
// the log level and the tool set, which carries the deny lists and limits.
// Transport and address changes require a restart and are ignored here.
func applyConfigChange(srv *mcpserver.Server, logger *slogger.Slogger, updated *config.Config) {
	if updated.LogLevel != "" {
		logger.SetLevel(slogger.LevelFromString(updated.LogLevel))
	}
	tools, err := updated.BuildTools()
	if err != nil {
		logger.Warn("config change not applied", "error", err)
		return
	}
	if err := srv.ReplaceTools(tools); err != nil {
		logger.Warn("config change not applied", "error", err)
	}
}

// printBanner writes a short startup summary to stderr. Stdout stays
// untouched since the stdio transport serves the protocol on it.
func printBanner(cfg *config.Config, toolCount int) {
	fmt.Fprintln(os.Stderr, headerStyle.Sprintf("chisel %s", Version))
	if cfg.Transport.Type == config.TransportHTTP {
		fmt.Fprintln(os.Stderr, mutedStyle.Sprintf("transport: http (%s)", cfg.Transport.Address))
	} else {
		fmt.Fprintln(os.Stderr, mutedStyle.Sprint("transport: stdio"))
	}
	workspace := cfg.Workspace
	if workspace == "" {
		if wd, err := os.Getwd(); err == nil {
			workspace = wd
		}
	}
	fmt.Fprintln(os.Stderr, mutedStyle.Sprintf("workspace: %s", workspace))
	fmt.Fprintln(os.Stderr, mutedStyle.Sprintf("tools: %d", toolCount))
}
