package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ShroXd/chimpmock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:])
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "chimpmock:", err)
		os.Exit(1)
	}
}

// run serves until ctx is done. A missing or malformed fixture is returned
// before anything listens.
func run(ctx context.Context, args []string) error {
	fset := flag.NewFlagSet("chimpmock", flag.ContinueOnError)
	addr := fset.String("addr", envOr("CHIMPMOCK_ADDR", chimpmock.DefaultAddr), "address to listen on")
	fixturePath := fset.String("fixture", envOr("CHIMPMOCK_FIXTURE", defaultFixturePath()), "path to the members fixture")
	logDir := fset.String("log-dir", os.Getenv("CHIMPMOCK_LOG_DIR"), "also write logs to this directory")
	logLevel := fset.String("log-level", envOr("CHIMPMOCK_LOG_LEVEL", "info"), "debug, info, warn or error")
	maxConns := fset.Int("max-conns", 0, "maximum simultaneous connections, 0 for no limit")
	if err := fset.Parse(args); err != nil {
		return err
	}

	level, err := chimpmock.ParseLogLevel(*logLevel)
	if err != nil {
		return err
	}

	fs := chimpmock.FileSystem{}
	logger, err := chimpmock.NewLogger(&chimpmock.LoggerConfig{
		ID:           uuid.NewString(),
		Name:         "chimpmock",
		ConsoleLevel: level,
		FileLevel:    level,
		LogDir:       *logDir,
	}, fs)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	fixture, err := chimpmock.LoadFixture(fs, *fixturePath)
	if err != nil {
		logger.Error("Failed to load fixture", chimpmock.LogContext{"path": *fixturePath, "err": err})
		return err
	}

	srv, err := chimpmock.NewServer(fixture,
		chimpmock.WithAddr(*addr),
		chimpmock.WithMaxConns(*maxConns),
		chimpmock.WithServerLogger(logger),
	)
	if err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(srv.ListenAndServe)
	eg.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

// defaultFixturePath looks for members.json next to the executable.
func defaultFixturePath() string {
	exe, err := os.Executable()
	if err != nil {
		return "members.json"
	}

	return filepath.Join(filepath.Dir(exe), "members.json")
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}

	return def
}
