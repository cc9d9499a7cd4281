package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/congo-pay/arithguard/internal/config"
	"github.com/congo-pay/arithguard/internal/infra"
	"github.com/congo-pay/arithguard/internal/logging"
	"github.com/congo-pay/arithguard/internal/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// run owns every deferred cleanup; main exits only after it returns.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(cfg.LogLevel)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backends, err := infra.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("open backends")
		return fmt.Errorf("open backends: %w", err)
	}
	defer backends.Close(logger)

	srv, err := server.New(cfg, backends, logger)
	if err != nil {
		logger.Error().Err(err).Msg("build server")
		return fmt.Errorf("build server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", cfg.Address()).Str("backend", cfg.Backend).Strs("variants", cfg.Variants).Msg("listening")
		return srv.Listen()
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownPeriod)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("server exited with error")
		return fmt.Errorf("serve: %w", err)
	}
	logger.Info().Msg("server exited cleanly")
	return nil
}
