package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/katalvlaran/warepath/internal/cli"
	"github.com/katalvlaran/warepath/internal/config"
	"github.com/katalvlaran/warepath/internal/ctxlog"
	"github.com/katalvlaran/warepath/server"
	"github.com/katalvlaran/warepath/warehouse"
)

const shutdownTimeout = 10 * time.Second

// main is the entrypoint for the warehoused service.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run parses flags, builds the service and serves until ctx is cancelled.
func run(ctx context.Context, outW io.Writer, args []string) error {
	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := ctxlog.New(cfg.LogLevel, cfg.LogFormat, outW)
	slog.SetDefault(logger)
	ctx = ctxlog.WithLogger(ctx, logger)

	store, err := warehouse.NewStore(warehouseConfig(cfg), cfg.Sessions.Max)
	if err != nil {
		return fmt.Errorf("creating warehouse: %w", err)
	}

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Listen, err)
	}
	srv := &http.Server{
		Handler:           server.NewServer(store, logger, cfg.CORSOrigins).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Warehouse service listening.", "address", ln.Addr().String(),
			"grid_size", cfg.Grid.Size, "termination", cfg.Search.Termination, "traversal", cfg.Search.Traversal)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// warehouseConfig translates the validated service config.
func warehouseConfig(cfg *config.Config) warehouse.Config {
	return warehouse.Config{
		Size:               cfg.Grid.Size,
		BlockedProbability: cfg.Grid.BlockedProbability,
		Layout:             cfg.Layout(),
		Seed:               cfg.Grid.Seed,
		Termination:        cfg.Termination(),
		Traversal:          cfg.Traversal(),
		CacheSize:          cfg.Search.CacheSize,
		MaxExpansions:      cfg.Search.MaxExpansions,
		Anchor:             cfg.Placement.Anchor,
		Docks:              cfg.Docks,
	}
}
