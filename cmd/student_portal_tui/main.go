package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/feelsunbreeze/student_portal_tui/internal/config"
	"github.com/feelsunbreeze/student_portal_tui/internal/portal"
	"github.com/feelsunbreeze/student_portal_tui/internal/printview"
	"github.com/feelsunbreeze/student_portal_tui/internal/report"
	"github.com/feelsunbreeze/student_portal_tui/internal/ui"
)

func StartTUI(cfg *config.Config, initial string) error {
	logger := slog.Default()
	client := portal.NewClient(portal.Options{
		BaseURL:   cfg.Portal.BaseURL,
		Timeout:   time.Duration(cfg.Portal.TimeoutSec) * time.Second,
		UserAgent: cfg.Portal.UserAgent,
		Logger:    logger,
	})
	session := portal.NewSession(client, portal.SessionOptions{
		WindowDays: cfg.Report.WindowDays,
		ExamMonths: cfg.Report.ExamMonths,
		Logger:     logger,
	})

	model := ui.NewModel(ui.Options{
		Looker:  session,
		AppName: cfg.App.Name,
		Initial: initial,
		Export: func(r *report.Report) (string, error) {
			path, err := printview.Export(r, cfg.Print.OutputDir, cfg.Print.Format)
			if err != nil {
				slog.Warn("export failed", "enrollment", r.Enrollment.ID, "error", err)
				return "", err
			}
			slog.Info("report exported", "enrollment", r.Enrollment.ID, "path", path)
			return path, nil
		},
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func main() {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "student_portal_tui [identifier]",
		Short: "Look up a student's enrollment, attendance and exam results",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}

			closer, err := config.SetupLogger(config.LoggerOptions{
				Level:     cfg.App.LogLevel,
				Path:      cfg.App.LogPath,
				Component: "tui",
			})
			if err != nil {
				return err
			}
			if closer != nil {
				defer closer.Close()
			}

			var initial string
			if len(args) == 1 {
				initial = strings.TrimSpace(args[0])
			}
			slog.Info("starting tui", "base_url", cfg.Portal.BaseURL)
			return StartTUI(cfg, initial)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
