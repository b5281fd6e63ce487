package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/flowc"
	"github.com/aretw0/flowc/pkg/adapters/mcp"
	"github.com/aretw0/flowc/pkg/observability"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts flowc as an MCP Server.
This allows AI agents to list programs, edit their flowcharts and read the generated C source.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		manager, closeStore := newManager(cmd, logger)
		defer closeStore()

		compiler := flowc.New(
			flowc.WithLogger(logger),
			flowc.WithLifecycleHooks(observability.LogHooks(logger)),
		)
		srv := mcp.NewServer(manager, mcp.WithCompiler(compiler), mcp.WithLogger(logger))

		switch transport {
		case "stdio":
			// logs go to Stderr; Stdout carries JSON-RPC
			slog.SetDefault(logger)
			logger.Info("Starting flowc MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			// Create a context that cancels on interrupt signal
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				return err
			}
			logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	addStoreFlags(mcpCmd)
}
