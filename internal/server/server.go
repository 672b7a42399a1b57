package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/TristoneFM/material-request-mes/internal/config"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// New builds the gin engine with the standard middleware chain and all API
// routes registered.
func New(log *zap.Logger, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(CORS())

	h.RegisterRoutes(r)
	return r
}

// Run serves the engine until SIGINT/SIGTERM, then shuts down gracefully
// within the configured timeout.
func Run(cfg config.ServerConfig, log *zap.Logger, engine *gin.Engine) error {
	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("Shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	log.Info("Server exited")
	return nil
}
