package main

import (
	"fmt"
	"log/slog"

	"github.com/phrazzld/stock-report-api/internal/config"
)

// loadAppConfig loads the application configuration from environment variables or config file.
// Returns the loaded config and any loading error.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	slog.Info("Server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"output_dir", cfg.Storage.OutputDir,
		"retention_minutes", cfg.Task.RetentionMinutes)

	if cfg.LLM.GeminiAPIKey != "" {
		slog.Debug("LLM configuration", "model", cfg.LLM.ModelName, "api_key_present", true)
	}

	return cfg, nil
}
