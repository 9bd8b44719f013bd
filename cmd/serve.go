package main

import (
	"MediIntake/routes"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func serve() error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	if !a.cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	deps, err := a.dependencies(context.Background())
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Publisher.Close(); err != nil {
			a.logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	srv := &http.Server{
		Addr:           a.cfg.Addr(),
		Handler:        routes.SetupRoutes(deps),
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   a.cfg.GeneratorTimeout + 30*time.Second,
		MaxHeaderBytes: 1 << 20,
		IdleTimeout:    30 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)

	serverErr := make(chan error, 1)
	go func() {
		defer wg.Done()
		a.logger.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown handling
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	select {
	case <-c:
	case err := <-serverErr:
		return err
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	a.logger.Info().Msg("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	wg.Wait()
	a.logger.Info().Msg("server exited gracefully")
	return nil
}
