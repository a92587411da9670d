package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/feelsunbreeze/student_portal_tui/internal/config"
	"github.com/feelsunbreeze/student_portal_tui/internal/portal"
	"github.com/feelsunbreeze/student_portal_tui/internal/printview"
	"github.com/feelsunbreeze/student_portal_tui/internal/report"
	"github.com/feelsunbreeze/student_portal_tui/internal/ui"
)

var (
	cfgFile   string
	verbose   bool
	cfg       *config.Config
	logCloser io.Closer
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "student_portal_cli",
		Short: "Student portal lookups from the command line",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "init" {
				return nil
			}
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}

			level := "warn"
			if verbose {
				level = "debug"
			}
			logCloser, err = config.SetupLogger(config.LoggerOptions{
				Level:     level,
				Component: "cli",
				Stderr:    true,
			})
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				logCloser.Close()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every portal request to stderr")

	rootCmd.AddCommand(lookupCmd())
	rootCmd.AddCommand(printCmd())
	rootCmd.AddCommand(configCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %s\n", describe(err))
		os.Exit(1)
	}
}

// describe prefers the user-facing message for lookup failures.
func describe(err error) string {
	var le *portal.LookupError
	if errors.As(err, &le) {
		return portal.Message(err)
	}
	return err.Error()
}

func newSession() *portal.Session {
	logger := slog.Default()
	client := portal.NewClient(portal.Options{
		BaseURL:   cfg.Portal.BaseURL,
		Timeout:   time.Duration(cfg.Portal.TimeoutSec) * time.Second,
		UserAgent: cfg.Portal.UserAgent,
		Logger:    logger,
	})
	return portal.NewSession(client, portal.SessionOptions{
		WindowDays: cfg.Report.WindowDays,
		ExamMonths: cfg.Report.ExamMonths,
		Logger:     logger,
	})
}

// resolve runs a lookup and, when the identifier matches several
// enrollments, opens the one named by pick.
func resolve(ctx context.Context, session *portal.Session, identifier, pick string) (*report.Report, error) {
	if pick != "" {
		return session.Open(ctx, pick)
	}

	outcome, err := session.Lookup(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if outcome.NeedsChoice() {
		fmt.Printf("📋 %d enrollments found for %s %s\n\n", len(outcome.Candidates), outcome.Identifier.Kind, outcome.Identifier.Value)
		fmt.Println(ui.RenderCandidates(outcome.Candidates, -1))
		fmt.Println()
		return nil, fmt.Errorf("several enrollments match, rerun with --enrollment <ID>")
	}
	return outcome.Report, nil
}

func lookupCmd() *cobra.Command {
	var pick string

	cmd := &cobra.Command{
		Use:   "lookup <identifier>",
		Short: "Show the report for an enrollment id, student id or phone number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := resolve(cmd.Context(), newSession(), args[0], pick)
			if err != nil {
				return err
			}
			fmt.Println(ui.RenderReport(rep))
			return nil
		},
	}

	cmd.Flags().StringVarP(&pick, "enrollment", "e", "", "enrollment id to open when several match")
	return cmd
}

func printCmd() *cobra.Command {
	var (
		pick   string
		format string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "print <identifier>",
		Short: "Write the printable report as PDF or HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = cfg.Print.Format
			}
			if outDir == "" {
				outDir = cfg.Print.OutputDir
			}

			rep, err := resolve(cmd.Context(), newSession(), args[0], pick)
			if err != nil {
				return err
			}

			fmt.Printf("🖨  Writing %s report for %s...\n", format, rep.Enrollment.ID)
			path, err := printview.Export(rep, outDir, format)
			if err != nil {
				return err
			}
			fmt.Printf("✅ Saved %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&pick, "enrollment", "e", "", "enrollment id to open when several match")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: pdf or html (default from config)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default from config)")
	return cmd
}

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with the default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				var err error
				if path, err = config.DefaultConfigPath(); err != nil {
					return err
				}
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}
			if err := config.WriteFile(path, config.Default()); err != nil {
				return err
			}
			fmt.Printf("✅ Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
