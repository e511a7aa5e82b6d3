package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hellod/internal/api"
	"hellod/internal/config"
	"hellod/internal/logging"
)

var (
	servePort int
	serveHost string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the hellod HTTP server. The server binds HOST:PORT (default
localhost:3000) and blocks serving requests until SIGINT or SIGTERM,
then shuts down gracefully.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	rootCmd.PersistentFlags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.PersistentFlags().StringVar(&serveHost, "host", "", "Host to bind to (overrides HOST)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logLevel, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := logging.New(logging.Config{
		Format: cfg.LogFormat(),
		Level:  logLevel,
	})

	server := api.NewServer(cfg, logger)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting hellod HTTP server", map[string]interface{}{
			"addr": cfg.Addr(),
			"env":  cfg.Env,
		})
		fmt.Printf("hellod listening on http://%s\n", cfg.Addr())
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server error", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}
	case sig := <-shutdown:
		logger.Info("Received shutdown signal", map[string]interface{}{
			"signal": sig.String(),
		})

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during shutdown", map[string]interface{}{
				"error": err.Error(),
			})
			return err
		}

		logger.Info("Server stopped gracefully", nil)
	}

	return nil
}

// resolveConfig loads configuration and applies CLI flag overrides.
// Precedence: flag > environment variable > hellod.json > default.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, err
	}

	flags := cmd.Root().PersistentFlags()
	if flags.Changed("port") {
		cfg.Port = servePort
	}
	if flags.Changed("host") {
		cfg.Host = serveHost
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
