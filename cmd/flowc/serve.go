package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/flowc"
	"github.com/aretw0/flowc/internal/presentation/tui"
	"github.com/aretw0/flowc/pkg/adapters/file"
	httpAdapter "github.com/aretw0/flowc/pkg/adapters/http"
	"github.com/aretw0/flowc/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP editing server",
	Long: `Starts the flowc HTTP API: programs can be edited node by node, their source,
breakpoints and graphs fetched, and changes followed over server-sent events.
Prometheus metrics are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		port, _ := cmd.Flags().GetString("port")
		emit, _ := cmd.Flags().GetBool("emit")

		manager, closeStore := newManager(cmd, logger)
		defer closeStore()

		metrics := observability.NewMetrics()
		opts := []flowc.Option{
			flowc.WithLogger(logger),
			flowc.WithLifecycleHooks(observability.Combine(metrics.Hooks(), observability.LogHooks(logger))),
		}
		if emit {
			opts = append(opts, flowc.WithArtifactSink(file.NewArtifactWriter(workDir(cmd), file.WithLogger(logger))))
		}

		handler := httpAdapter.NewHandler(manager,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithCompiler(flowc.New(opts...)),
			httpAdapter.WithMetrics(metrics.Handler()),
		)

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			tui.PrintBanner(os.Stderr)
			fmt.Fprintf(os.Stderr, "Starting flowc server on %s\n", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("start shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "timeout", 5*time.Second, "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			fmt.Fprintln(os.Stderr, "flowc server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Bool("emit", false, "Write generated artifacts into --dir whenever source is requested")
	addStoreFlags(serveCmd)
}
