package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/you/accountsvc/internal/config"
	httpx "github.com/you/accountsvc/internal/http"
	"github.com/you/accountsvc/internal/http/handlers"
	"github.com/you/accountsvc/internal/http/middleware"
	"github.com/you/accountsvc/internal/metrics"
)

const shutdownTimeout = 10 * time.Second

// Router builds the HTTP engine for an initialized container
func (c *Container) Router() *gin.Engine {
	return httpx.BuildRouter(httpx.RouterDeps{
		Accounts:       handlers.NewAccountHandlers(c.AccountSvc, c.SessionSvc, c.Logger.Named("http")),
		Sessions:       middleware.NewSessionMW(c.SessionSvc),
		Casbin:         middleware.NewCasbinMW(c.Casbin.E, c.Logger.Named("casbin")),
		LoginLimiter:   c.LoginLimiter,
		HTTPMetrics:    c.HTTPMetrics,
		MetricsHandler: metrics.Handler(c.Registry),
		Logger:         c.Logger.Named("http"),
	})
}

// Run wires the service, seeds the bootstrap admin and serves HTTP until
// the process receives SIGINT or SIGTERM.
func Run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(cfg.GinMode)

	c, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Warn("failed to close container", zap.Error(err))
		}
	}()

	if err := c.AccountSvc.EnsureAdminSeeded(ctx); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           c.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
