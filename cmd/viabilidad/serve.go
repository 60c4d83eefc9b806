package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"viabilidad/internal/cache"
	"viabilidad/internal/clients"
	"viabilidad/internal/config"
	"viabilidad/internal/logging"
	"viabilidad/internal/server"
	"viabilidad/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var (
		serverConfigPath string
		address          string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the study and pipeline HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadServerConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Address = address
			}

			logger, err := logging.NewLogger(cfg.Logging, logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			store, err := clients.NewStore(cfg.DatabasePath, logger)
			if err != nil {
				return fmt.Errorf("failed to open client database: %w", err)
			}
			defer func() { _ = store.Close() }()

			var cacheStore cache.Store = cache.NewMemory()
			if cfg.RedisAddress != "" {
				redisCache := cache.NewRedis(cfg.RedisAddress)
				defer func() { _ = redisCache.Close() }()
				cacheStore = redisCache
			}

			table, err := cfg.Table()
			if err != nil {
				return err
			}
			handler := server.NewHandler(logger, store, cacheStore, table, cfg.InterestRate, version)

			srv := &http.Server{
				Addr:              cfg.Address,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errChan := make(chan error, 1)
			go func() {
				logger.Info("server listening",
					zap.String("op", "main.serve"),
					zap.String("address", cfg.Address),
				)
				errChan <- srv.ListenAndServe()
			}()

			select {
			case err := <-errChan:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			case <-cmd.Context().Done():
				logger.Info("shutting down", zap.String("op", "main.serve"))
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}
