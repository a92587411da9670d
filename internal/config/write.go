package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

func DefaultConfigPath() (string, error) {
	dir, err := appConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config dir: %w", err)
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func WriteFile(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("cfg must not be nil")
	}
	if path == "" {
		return fmt.Errorf("path must not be empty")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	payload := map[string]any{
		"app": map[string]any{
			"name":      cfg.App.Name,
			"log_level": cfg.App.LogLevel,
			"log_path":  cfg.App.LogPath,
		},
		"portal": map[string]any{
			"base_url":    cfg.Portal.BaseURL,
			"timeout_sec": cfg.Portal.TimeoutSec,
			"user_agent":  cfg.Portal.UserAgent,
		},
		"report": map[string]any{
			"window_days": cfg.Report.WindowDays,
			"exam_months": cfg.Report.ExamMonths,
		},
		"print": map[string]any{
			"output_dir": cfg.Print.OutputDir,
			"format":     cfg.Print.Format,
		},
	}

	b, err := yaml.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, b, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
