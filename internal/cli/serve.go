package cli

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/canvaskit/internal/api"
	"github.com/matzehuels/canvaskit/internal/mcpserver"
	"github.com/matzehuels/canvaskit/pkg/tools"
)

// shutdownTimeout bounds how long serve waits for in-flight requests.
const shutdownTimeout = 10 * time.Second

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API",
		Long: `Serve the canvas REST API.

Routes live under /api: canvases, nodes, connections, layout, exports,
mindmaps, workflows and POST /api/tools/{name} for direct tool calls.
GET /health reports liveness.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, cfg, closeFn, err := c.openService(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			if addr == "" {
				addr = cfg.Server.Addr
			}
			handler := api.New(svc, tools.NewRegistry(svc), c.Logger,
				api.WithAllowedOrigins(cfg.Server.AllowedOrigins...)).Handler()
			srv := api.NewHTTPServer(addr, handler)

			errCh := make(chan error, 1)
			go func() {
				c.Logger.Info("listening", "addr", addr, "store", cfg.Store.Backend, "cache", cfg.Cache.Backend)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			c.Logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return err
			}
			return ctx.Err()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}

func (c *CLI) mcpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the canvas tools over MCP on stdin/stdout",
		Long: `Serve the canvas tools to an MCP client over stdin/stdout.

Logs go to stderr so they never mix with the protocol stream. Register the
server with a client as:

  {"command": "canvaskit", "args": ["mcp"]}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, _, closeFn, err := c.openService(ctx)
			if err != nil {
				return err
			}
			defer closeFn()

			srv := mcpserver.New(tools.NewRegistry(svc), c.Logger)
			err = srv.ServeStdio(ctx, os.Stdin, os.Stdout)
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		},
	}
}
