package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Pratham-Dabhane/Smart-Coupons/internal/infrastructure/config"
	"github.com/Pratham-Dabhane/Smart-Coupons/internal/infrastructure/logging"
)

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	ConfigPath string
	Port       int
	DBPath     string
	Verbose    bool
}

// ParseServeFlags parses command line flags for the serve command.
func ParseServeFlags(args []string) (*ServeFlags, error) {
	flags := &ServeFlags{}
	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.StringVar(&flags.ConfigPath, "config", "config.yaml", "Configuration file path")
	fs.IntVar(&flags.Port, "port", 0, "Port to listen on (overrides config)")
	fs.StringVar(&flags.DBPath, "db", "", "SQLite call log path (overrides config)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// LoadConfig loads the config file, or the environment when the file does
// not exist, and applies flag overrides.
func LoadConfig(flags *ServeFlags) (*config.Config, error) {
	cfg, err := config.LoadOrEnv_WithPath(flags.ConfigPath)
	if err != nil {
		return nil, err
	}
	if flags.Port > 0 {
		cfg.Server.Port = flags.Port
	}
	if flags.DBPath != "" {
		cfg.Storage.DatabasePath = flags.DBPath
	}
	if flags.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// RunServe runs the storefront until SIGINT or SIGTERM.
func RunServe(cfg *config.Config, out io.Writer) error {
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "storefront")

	app, err := NewApp(cfg, logger)
	if err != nil {
		return err
	}
	PrintBanner(out, cfg, app.SessionID)
	app.Start()

	// Handle graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.Server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", slog.Any("error", err))
		}
		if err := app.Close(ctx); err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
		close(done)
	}()

	// Start server (blocks until shutdown)
	if err := app.Server.Start(); err != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.Close(shutdownCtx)
		return err
	}

	<-done
	logger.Info("server stopped")
	return nil
}
