package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	appDirName = "student_portal_tui"
	envPrefix  = "STUDENT_PORTAL"
)

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Portal PortalConfig `mapstructure:"portal"`
	Report ReportConfig `mapstructure:"report"`
	Print  PrintConfig  `mapstructure:"print"`
}

type AppConfig struct {
	Name     string `mapstructure:"name" validate:"required"`
	LogLevel string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogPath  string `mapstructure:"log_path"`
}

// PortalConfig points at the student portal API.
type PortalConfig struct {
	BaseURL    string `mapstructure:"base_url" validate:"required,url"`
	TimeoutSec int    `mapstructure:"timeout_sec" validate:"gte=1,lte=300"`
	UserAgent  string `mapstructure:"user_agent"`
}

type ReportConfig struct {
	WindowDays int `mapstructure:"window_days" validate:"gte=1,lte=366"`
	ExamMonths int `mapstructure:"exam_months" validate:"gte=1,lte=24"`
}

type PrintConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	Format    string `mapstructure:"format" validate:"oneof=pdf html"`
}

var validate = validator.New()

// Load reads .env, the optional config file and STUDENT_PORTAL_* variables,
// in increasing order of precedence over the defaults.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		if dir, err := appConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Debug("config file not found, using defaults")
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.Portal.BaseURL = strings.TrimRight(cfg.Portal.BaseURL, "/")
	cfg.Print.Format = strings.ToLower(cfg.Print.Format)
	cfg.App.LogLevel = strings.ToLower(cfg.App.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			fields := make([]string, 0, len(ve))
			for _, fe := range ve {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("app.name", d.App.Name)
	v.SetDefault("app.log_level", d.App.LogLevel)
	v.SetDefault("app.log_path", d.App.LogPath)

	v.SetDefault("portal.base_url", d.Portal.BaseURL)
	v.SetDefault("portal.timeout_sec", d.Portal.TimeoutSec)
	v.SetDefault("portal.user_agent", d.Portal.UserAgent)

	v.SetDefault("report.window_days", d.Report.WindowDays)
	v.SetDefault("report.exam_months", d.Report.ExamMonths)

	v.SetDefault("print.output_dir", d.Print.OutputDir)
	v.SetDefault("print.format", d.Print.Format)
}

func Default() *Config {
	return &Config{
		App: AppConfig{
			Name:     "student-portal",
			LogLevel: "info",
			LogPath:  defaultLogPath(),
		},
		Portal: PortalConfig{
			BaseURL:    "https://studentportal-cwrg.onrender.com",
			TimeoutSec: 30,
			UserAgent:  "student-portal-tui",
		},
		Report: ReportConfig{
			WindowDays: 90,
			ExamMonths: 3,
		},
		Print: PrintConfig{
			OutputDir: ".",
			Format:    "pdf",
		},
	}
}

func appConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

func defaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appDirName, "portal.log")
	}
	return filepath.Join(dir, appDirName, "portal.log")
}
