package cli

import (
	"context"
	"time"

	"github.com/TristoneFM/material-request-mes/internal/config"
	"github.com/TristoneFM/material-request-mes/internal/mes"
	"github.com/TristoneFM/material-request-mes/internal/server"
	"github.com/TristoneFM/material-request-mes/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API backing the board",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			log, err := newLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			conns := store.NewConns(cfg)
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				conns.Close(ctx)
			}()

			h := server.NewHandler(
				log,
				store.NewMongoRequestRepository(conns, cfg.PlantCode),
				store.NewMySQLCustomerPartRepository(conns),
				mes.NewClient(cfg.MES.Endpoint(), cfg.PlantCode, cfg.MES.Timeout),
			)

			log.Info("starting API",
				zap.String("addr", cfg.Server.ListenAddr),
				zap.String("plant", cfg.PlantCode),
			)
			return server.Run(cfg.Server, log, server.New(log, h))
		},
	}
}
