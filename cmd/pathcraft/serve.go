package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/pathcraft/internal/api"
	"github.com/kalambet/pathcraft/internal/config"
	"github.com/kalambet/pathcraft/internal/dashboard"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the career dashboard on localhost",
	Long: `Run the career dashboard on localhost.

The dashboard serves the profile form and recommendations at
http://127.0.0.1:<server.port>/ together with a JSON API under /api and
Prometheus metrics at /metrics. With --mcp the same form is also exposed
as an MCP server over stdio.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		withMCP, _ := cmd.Flags().GetBool("mcp")
		mock, _ := cmd.Flags().GetBool("mock")
		return runServer(withMCP, mock)
	},
}

func init() {
	serveCmd.Flags().Bool("mcp", false, "also serve MCP over stdin/stdout")
	serveCmd.Flags().Bool("mock", false, "use canned recommendations instead of the advisor service")
}

func runServer(withMCP, mock bool) error {
	fmt.Fprintf(os.Stderr, "pathcraft version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newAdvisor(cfg, mock)
	if err != nil {
		return err
	}

	metrics := api.NewMetrics()
	alerts := api.NewAlerts()
	ctrl := dashboard.New(metrics.InstrumentAdvisor(a), dashboard.WithNotifier(alerts))

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr: addr,
		Handler: api.NewWebHandler(api.WebDeps{
			Controller: ctrl,
			Alerts:     alerts,
			Metrics:    metrics,
		}),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		printSuccess("pathcraft listening on http://%s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	if withMCP {
		mcpSrv := api.NewMCPServer(api.MCPDeps{Controller: ctrl, Metrics: metrics})
		stdioSrv := server.NewStdioServer(mcpSrv)
		g.Go(func() error {
			if err := stdioSrv.Listen(gCtx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("MCP stdio server error", "error", err)
			}
			return nil
		})
		slog.Info("MCP server started (stdio transport)")
	}

	g.Go(func() error {
		<-gCtx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
