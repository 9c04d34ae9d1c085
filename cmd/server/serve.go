package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/phoenix4012/souchier/pkg/config"
	"github.com/phoenix4012/souchier/pkg/server"
	"github.com/phoenix4012/souchier/pkg/storage"
	"github.com/phoenix4012/souchier/pkg/telemetry"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load the registry and serve the viewer",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := flags.load()
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck
			if port != "" {
				cfg.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", ":"+cfg.Port)
			if err != nil {
				return fmt.Errorf("failed to listen on port %s: %w", cfg.Port, err)
			}
			return serve(ctx, cfg, ln, logger)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP port (overrides config)")
	return cmd
}

// serve runs the viewer on ln until ctx is cancelled. A failed catalog load
// does not stop the server: every data route then answers 503.
func serve(ctx context.Context, cfg config.Config, ln net.Listener, logger *zap.Logger) error {
	metrics := telemetry.New()

	var store storage.Storage
	if server.NeedsStore(cfg.Source) {
		s, err := server.InitializeStorage(cfg, logger)
		if err != nil {
			ln.Close()
			return err
		}
		defer s.Close()
		store = s
	}

	loader, err := server.InitializeLoader(cfg, store, metrics, logger)
	if err != nil {
		ln.Close()
		return err
	}
	if err := server.Preload(ctx, loader); err != nil {
		logger.Warn("Serving without a catalog", zap.Error(err))
	}

	api, exportHandler, sessionHandler, hub := server.InitializeHandlers(loader, metrics, logger)
	router := mux.NewRouter()
	server.SetupRoutes(router, api, exportHandler, sessionHandler, metrics, cfg.Port)

	srv := &http.Server{
		Handler:      router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	if store != nil {
		g.Go(func() error {
			server.RunBadgerGC(gctx, store, logger.Named("gc"))
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Server listening",
			zap.String("addr", ln.Addr().String()),
			zap.String("dashboard", "http://localhost:"+cfg.Port+"/"))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server exited cleanly")
	return nil
}
