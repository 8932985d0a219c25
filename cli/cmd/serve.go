package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/sflowg/voltage/runtime"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve node presets over HTTP",
		Long: `Serve loads every node preset from the nodes directory and exposes:

  POST /nodes/:id/execute            run a preset over a batch of items
  GET  /plugins/voltage/description  node description`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			container, cfg, err := newContainer(root.projectDir, root.newClient)
			if err != nil {
				return err
			}

			app, err := runtime.NewApp(cfg.Server.NodesDir, container)
			if err != nil {
				return err
			}
			if port == "" {
				port = cfg.Server.Port
			}

			g := gin.New()
			g.Use(gin.Recovery())
			runtime.NewHttpHandler(app, g)

			srv := &http.Server{Addr: ":" + port, Handler: g}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					slog.Error("Server shutdown failed", "error", err)
				}
			}()

			slog.Info("Voltage node server listening",
				"port", port,
				"nodes_dir", cfg.Server.NodesDir,
				"presets", len(app.Nodes))

			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return container.Shutdown()
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "HTTP port (defaults to server.port from voltage.yaml)")
	return cmd
}
