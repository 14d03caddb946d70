package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/garyjia/claim-forms/internal/config"
	"github.com/garyjia/claim-forms/internal/container"
	httpserver "github.com/garyjia/claim-forms/internal/interfaces/http"
	"github.com/garyjia/claim-forms/pkg/utils"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs before exit
func run() int {
	configPath := defaultConfigPath
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	// Initialize logger
	logger, err := utils.NewLogger(cfg.Logger.Logging())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Info("Starting claim forms service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port),
		zap.Bool("mongo_enabled", cfg.Mongo.Enabled),
		zap.String("drafts_driver", cfg.Drafts.Driver))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := container.NewContainer(cfg.ToContainerConfig(), logger)
	if err != nil {
		logger.Error("Failed to create container", zap.Error(err))
		return 1
	}
	if err := c.Start(ctx); err != nil {
		logger.Error("Failed to start container", zap.Error(err))
		return 1
	}
	defer func() {
		if err := c.Close(); err != nil {
			logger.Error("Container shutdown error", zap.Error(err))
		}
	}()

	services := c.Services()
	server := httpserver.NewServer(httpserver.ServerConfig{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Mode:            cfg.Server.Mode,
		Auth: httpserver.AuthConfig{
			TokenPrefix:        cfg.Auth.TokenPrefix,
			AdminUserID:        cfg.Auth.AdminUserID,
			AnonymousSubmitter: cfg.Auth.AnonymousSubmitter,
		},
	}, httpserver.Services{
		Forms:       services.Forms,
		Submissions: services.Submissions,
		Signatures:  services.Signatures,
		Export:      services.Export,
		Sessions:    services.Sessions,
	}, c, c.KeyValueLogger())

	// Blocks until SIGINT/SIGTERM or a listener failure
	if err := server.Start(ctx); err != nil {
		logger.Error("HTTP server exited with error", zap.Error(err))
		return 1
	}

	logger.Info("Server exited successfully")
	return 0
}
