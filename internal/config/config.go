package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Reporting ReportingConfig
	Alerts    AlertsConfig
	Notify    NotifyConfig
	Sheets    SheetsConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// StorageConfig selects and parameterizes the backing data source.
type StorageConfig struct {
	// Backend is "memory" or "mongodb".
	Backend       string
	MongoURI      string
	MongoDBName   string
	SeedDemoData  bool
	CascadePolicy string
}

// ReportingConfig holds scheduler-related settings for the daily report.
type ReportingConfig struct {
	CronSchedule string
	Timezone     string
}

// AlertsConfig holds the alert sweep settings.
type AlertsConfig struct {
	SweepSchedule      string
	MortalityThreshold float64
}

// NotifyConfig holds the outbound webhook settings. An empty URL disables
// notifications.
type NotifyConfig struct {
	WebhookURL     string
	TimeoutSeconds int
}

// SheetsConfig contains configuration required to mirror daily reports to
// Google Sheets. Both fields empty disables the sink.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the sheets sink is configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	threshold, err := getenvFloat("MORTALITY_ALERT_THRESHOLD", 8)
	if err != nil {
		return nil, err
	}
	notifyTimeout, err := getenvInt("NOTIFY_TIMEOUT_SECONDS", 10)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Storage: StorageConfig{
			Backend:       getenvWithDefault("STORAGE_BACKEND", "memory"),
			MongoURI:      os.Getenv("MONGODB_URI"),
			MongoDBName:   getenvWithDefault("MONGODB_DB_NAME", "avicontrol"),
			SeedDemoData:  getenvWithDefault("SEED_DEMO_DATA", "true") == "true",
			CascadePolicy: getenvWithDefault("CASCADE_POLICY", "orphan"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:     getenvWithDefault("TIMEZONE", "America/Bogota"),
		},
		Alerts: AlertsConfig{
			SweepSchedule:      getenvWithDefault("ALERT_SWEEP_SCHEDULE", "*/30 * * * *"),
			MortalityThreshold: threshold,
		},
		Notify: NotifyConfig{
			WebhookURL:     os.Getenv("NOTIFY_WEBHOOK_URL"),
			TimeoutSeconds: notifyTimeout,
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and
// consistent.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	switch c.Storage.Backend {
	case "memory":
	case "mongodb":
		if c.Storage.MongoURI == "" {
			return errors.New("MONGODB_URI must be provided when STORAGE_BACKEND=mongodb")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be memory or mongodb, got %q", c.Storage.Backend)
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}
	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}
	if c.Alerts.SweepSchedule == "" {
		return errors.New("ALERT_SWEEP_SCHEDULE must be provided")
	}
	if c.Alerts.MortalityThreshold < 0 || c.Alerts.MortalityThreshold > 100 {
		return errors.New("MORTALITY_ALERT_THRESHOLD must be between 0 and 100")
	}

	if c.Sheets.CredentialsPath != "" && c.Sheets.SpreadsheetID == "" {
		return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided when sheets credentials are set")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvFloat(key string, fallback float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be numeric: %w", key, err)
	}
	return parsed, nil
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return parsed, nil
}
