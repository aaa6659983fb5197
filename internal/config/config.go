// Package config loads server settings from an optional file, a .env file
// and DILUTIONWISE_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"github.com/mmynk/dilutionwise/internal/format"
	"github.com/mmynk/dilutionwise/pkg/logging"
)

// EnvPrefix prefixes every environment override: report.token_ttl is
// read from DILUTIONWISE_REPORT_TOKEN_TTL.
const EnvPrefix = "DILUTIONWISE"

const (
	NotifierLog  = "log"
	NotifierSMTP = "smtp"

	minTokenSecretLength = 32
)

type Config struct {
	Addr      string `mapstructure:"addr"`
	PublicURL string `mapstructure:"public_url"`
	DBPath    string `mapstructure:"db_path"`
	LogLevel  string `mapstructure:"log_level"`
	Currency  string `mapstructure:"currency"`
	Notifier  string `mapstructure:"notifier"`

	Report     ReportConfig     `mapstructure:"report"`
	Admin      AdminConfig      `mapstructure:"admin"`
	SMTP       SMTPConfig       `mapstructure:"smtp"`
	Deliveries DeliveriesConfig `mapstructure:"deliveries"`
}

type ReportConfig struct {
	TokenSecret string        `mapstructure:"token_secret"`
	TokenTTL    time.Duration `mapstructure:"token_ttl"`
}

type AdminConfig struct {
	Username string `mapstructure:"username"`
	// PasswordHash is a bcrypt hash. Empty disables the delivery log API.
	PasswordHash string `mapstructure:"password_hash"`
}

type SMTPConfig struct {
	Host       string        `mapstructure:"host"`
	Port       int           `mapstructure:"port"`
	Username   string        `mapstructure:"username"`
	Password   string        `mapstructure:"password"`
	From       string        `mapstructure:"from"`
	MaxElapsed time.Duration `mapstructure:"max_elapsed"`
}

type DeliveriesConfig struct {
	Retention     time.Duration `mapstructure:"retention"`
	PruneSchedule string        `mapstructure:"prune_schedule"`
}

// defaults lists every key so environment variables can override keys
// that appear in no config file.
var defaults = map[string]interface{}{
	"addr":                      ":8080",
	"public_url":                "http://localhost:8080",
	"db_path":                   "./data/dilutionwise.db",
	"log_level":                 "info",
	"currency":                  "INR",
	"notifier":                  NotifierLog,
	"report.token_secret":       "",
	"report.token_ttl":          15 * time.Minute,
	"admin.username":            "admin",
	"admin.password_hash":       "",
	"smtp.host":                 "",
	"smtp.port":                 587,
	"smtp.username":             "",
	"smtp.password":             "",
	"smtp.from":                 "",
	"smtp.max_elapsed":          30 * time.Second,
	"deliveries.retention":      30 * 24 * time.Hour,
	"deliveries.prune_schedule": "@daily",
}

// Load reads configuration. path may be empty, in which case
// DILUTIONWISE_CONFIG is consulted, and if that is unset too only
// defaults and environment variables apply. A .env file in the working
// directory is loaded first when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	u, err := url.Parse(c.PublicURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("public_url must be an absolute http(s) URL, got %q", c.PublicURL)
	}
	if c.DBPath == "" {
		return errors.New("db_path must not be empty")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if _, err := format.LookupCurrency(c.Currency); err != nil {
		return fmt.Errorf("currency: %w", err)
	}

	if len(c.Report.TokenSecret) < minTokenSecretLength {
		return fmt.Errorf("report.token_secret must be at least %d bytes", minTokenSecretLength)
	}
	if c.Report.TokenTTL <= 0 {
		return errors.New("report.token_ttl must be positive")
	}

	if c.Admin.PasswordHash != "" && c.Admin.Username == "" {
		return errors.New("admin.username must be set with admin.password_hash")
	}

	switch c.Notifier {
	case NotifierLog:
	case NotifierSMTP:
		if c.SMTP.Host == "" || c.SMTP.From == "" {
			return errors.New("smtp.host and smtp.from are required for the smtp notifier")
		}
		if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
			return fmt.Errorf("smtp.port out of range: %d", c.SMTP.Port)
		}
		if c.SMTP.MaxElapsed <= 0 {
			return errors.New("smtp.max_elapsed must be positive")
		}
	default:
		return fmt.Errorf("notifier must be %q or %q, got %q", NotifierLog, NotifierSMTP, c.Notifier)
	}

	if c.Deliveries.Retention <= 0 {
		return errors.New("deliveries.retention must be positive")
	}
	if _, err := cron.ParseStandard(c.Deliveries.PruneSchedule); err != nil {
		return fmt.Errorf("deliveries.prune_schedule: %w", err)
	}

	return nil
}

// AdminEnabled reports whether the delivery log API should be served.
func (c *Config) AdminEnabled() bool {
	return c.Admin.PasswordHash != ""
}
