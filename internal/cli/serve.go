package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harun/mcpbridge/internal/config"
	"github.com/harun/mcpbridge/internal/logger"
	"github.com/harun/mcpbridge/pkg/bridge"
	"github.com/harun/mcpbridge/pkg/completion"
	"github.com/harun/mcpbridge/pkg/tool"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP bridge server",
	Long: `Start the MCP bridge HTTP server. The server exposes the tool listing,
the legacy query endpoint, the execute-by-name endpoint, and the MCP-compliant
execute endpoint, backed by the configured completion provider.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoader(cfgFile).Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	lg, err := logger.New(logger.Config{
		Level:   cfg.Logging.Level,
		File:    cfg.Logging.File,
		Console: cfg.Logging.Console,
		Pretty:  cfg.Logging.Pretty,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer lg.Close()
	zl := lg.GetZerolog()

	backend, err := completion.NewProvider(cfg.Backend)
	if err != nil {
		return fmt.Errorf("failed to initialize completion backend: %w", err)
	}

	registry, err := tool.DefaultRegistry()
	if err != nil {
		return fmt.Errorf("failed to build tool registry: %w", err)
	}

	executor := tool.NewExecutor(backend, cfg.Backend.Timeout, zl)

	server, err := bridge.NewServer(bridge.ServerOptions{
		Host:               cfg.Server.Host,
		Port:               cfg.Server.Port,
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
	}, registry, executor, zl)
	if err != nil {
		return fmt.Errorf("failed to create bridge server: %w", err)
	}

	zl.Info().
		Str("provider", backend.Name()).
		Strs("tools", registry.Names()).
		Msg("MCP bridge configured")

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		zl.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		return server.Stop()
	case err := <-errCh:
		return err
	}
}
