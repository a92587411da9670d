package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Success: file overrides defaults", func(t *testing.T) {
		path := writeConfig(t, `
portal:
  base_url: http://localhost:5000/
  timeout_sec: 5
report:
  window_days: 30
print:
  format: HTML
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "http://localhost:5000", cfg.Portal.BaseURL)
		assert.Equal(t, 5, cfg.Portal.TimeoutSec)
		assert.Equal(t, 30, cfg.Report.WindowDays)
		assert.Equal(t, 3, cfg.Report.ExamMonths)
		assert.Equal(t, "html", cfg.Print.Format)
		assert.Equal(t, "info", cfg.App.LogLevel)
	})

	t.Run("Success: environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "portal:\n  base_url: http://localhost:5000\n")
		t.Setenv("STUDENT_PORTAL_PORTAL_BASE_URL", "https://portal.example.com")
		t.Setenv("STUDENT_PORTAL_REPORT_EXAM_MONTHS", "6")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "https://portal.example.com", cfg.Portal.BaseURL)
		assert.Equal(t, 6, cfg.Report.ExamMonths)
	})

	t.Run("Error: invalid values", func(t *testing.T) {
		path := writeConfig(t, `
portal:
  base_url: not a url
report:
  window_days: 0
print:
  format: docx
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "BaseURL")
		assert.Contains(t, err.Error(), "WindowDays")
		assert.Contains(t, err.Error(), "Format")
	})

	t.Run("Error: unreadable file", func(t *testing.T) {
		path := writeConfig(t, "portal: [unclosed")
		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestWriteFile(t *testing.T) {
	t.Run("Success: written file loads back", func(t *testing.T) {
		cfg := Default()
		cfg.Portal.BaseURL = "http://127.0.0.1:5000"
		cfg.Print.Format = "html"

		path := filepath.Join(t.TempDir(), "nested", "config.yaml")
		require.NoError(t, WriteFile(path, cfg))

		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, cfg.Portal.BaseURL, loaded.Portal.BaseURL)
		assert.Equal(t, "html", loaded.Print.Format)
	})

	t.Run("Error: bad arguments", func(t *testing.T) {
		assert.Error(t, WriteFile("", Default()))
		assert.Error(t, WriteFile(filepath.Join(t.TempDir(), "c.yaml"), nil))
	})
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "portal.log")
	closer, err := SetupLogger(LoggerOptions{Level: "debug", Path: path, Component: "test"})
	require.NoError(t, err)
	require.NotNil(t, closer)

	slog.Debug("hello", "k", "v")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "msg=hello")
	assert.Contains(t, string(b), "component=test")

	assert.Equal(t, slog.LevelWarn, ParseLevel("WARN"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}
