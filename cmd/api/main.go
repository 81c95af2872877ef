package main

import (
	"context"
	"os"

	"github.com/yigit/degreeaudit/internal/bootstrap"
	"github.com/yigit/degreeaudit/internal/config"
	"github.com/yigit/degreeaudit/internal/pkg/logger"
	"github.com/yigit/degreeaudit/internal/server"
)

func main() {
	configPath := config.GetEnv("CONFIG_PATH", bootstrap.DefaultConfigPath)

	srv, err := server.NewServer(context.Background(), configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	// Blocks until shutdown signal
	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
