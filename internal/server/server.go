// Package server boots the HTTP API: config, database, cache, router.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danuartha/kopistore/app/routes"
	"github.com/danuartha/kopistore/config"
	"github.com/danuartha/kopistore/pkg/cache"
	"github.com/danuartha/kopistore/pkg/database"
	"github.com/danuartha/kopistore/pkg/logger"
)

// Run starts the API server and blocks until SIGINT/SIGTERM, then drains
// in-flight requests before returning.
func Run() error {
	if err := config.Load(); err != nil {
		return err
	}
	if err := database.Connect(); err != nil {
		return err
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("cache unavailable, continuing without it", "error", err)
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           routes.New(database.DB),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
