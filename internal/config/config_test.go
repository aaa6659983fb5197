package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func validConfig() Config {
	return Config{
		Addr:      ":8080",
		PublicURL: "http://localhost:8080",
		DBPath:    "./data/test.db",
		LogLevel:  "info",
		Currency:  "INR",
		Notifier:  NotifierLog,
		Report:    ReportConfig{TokenSecret: testSecret, TokenTTL: time.Minute},
		Admin:     AdminConfig{Username: "admin"},
		SMTP:      SMTPConfig{Port: 587, MaxElapsed: time.Second},
		Deliveries: DeliveriesConfig{
			Retention:     time.Hour,
			PruneSchedule: "@daily",
		},
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DILUTIONWISE_CONFIG", "")
	t.Setenv("DILUTIONWISE_REPORT_TOKEN_SECRET", testSecret)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "http://localhost:8080", cfg.PublicURL)
	assert.Equal(t, "./data/dilutionwise.db", cfg.DBPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "INR", cfg.Currency)
	assert.Equal(t, NotifierLog, cfg.Notifier)
	assert.Equal(t, 15*time.Minute, cfg.Report.TokenTTL)
	assert.Equal(t, "admin", cfg.Admin.Username)
	assert.False(t, cfg.AdminEnabled())
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, 30*time.Second, cfg.SMTP.MaxElapsed)
	assert.Equal(t, 720*time.Hour, cfg.Deliveries.Retention)
	assert.Equal(t, "@daily", cfg.Deliveries.PruneSchedule)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dilutionwise.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9090"
currency: USD
report:
  token_secret: "`+testSecret+`"
  token_ttl: 1h
deliveries:
  prune_schedule: "0 3 * * *"
`), 0o600))

	t.Setenv("DILUTIONWISE_CONFIG", path)
	t.Setenv("DILUTIONWISE_ADDR", ":7070")
	t.Setenv("DILUTIONWISE_DELIVERIES_RETENTION", "48h")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Addr, "environment overrides file")
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, time.Hour, cfg.Report.TokenTTL)
	assert.Equal(t, 48*time.Hour, cfg.Deliveries.Retention)
	assert.Equal(t, "0 3 * * *", cfg.Deliveries.PruneSchedule)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("DILUTIONWISE_CONFIG", "")
		t.Setenv("DILUTIONWISE_REPORT_TOKEN_SECRET", "")
		_, err := Load("")
		assert.ErrorContains(t, err, "report.token_secret")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read config")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"empty addr", func(c *Config) { c.Addr = "" }, "addr"},
		{"relative public url", func(c *Config) { c.PublicURL = "/reports" }, "public_url"},
		{"ftp public url", func(c *Config) { c.PublicURL = "ftp://example.com" }, "public_url"},
		{"empty db path", func(c *Config) { c.DBPath = "" }, "db_path"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"unknown currency", func(c *Config) { c.Currency = "XYZ" }, "currency"},
		{"short secret", func(c *Config) { c.Report.TokenSecret = "short" }, "token_secret"},
		{"zero ttl", func(c *Config) { c.Report.TokenTTL = 0 }, "token_ttl"},
		{"hash without user", func(c *Config) { c.Admin = AdminConfig{PasswordHash: "$2a$10$x"} }, "admin.username"},
		{"unknown notifier", func(c *Config) { c.Notifier = "pigeon" }, "notifier"},
		{"smtp without host", func(c *Config) { c.Notifier = NotifierSMTP; c.SMTP.From = "a@b.c" }, "smtp.host"},
		{"smtp bad port", func(c *Config) {
			c.Notifier = NotifierSMTP
			c.SMTP.Host, c.SMTP.From, c.SMTP.Port = "mail", "a@b.c", 70000
		}, "smtp.port"},
		{"smtp ok", func(c *Config) {
			c.Notifier = NotifierSMTP
			c.SMTP.Host, c.SMTP.From = "mail", "a@b.c"
		}, ""},
		{"zero retention", func(c *Config) { c.Deliveries.Retention = 0 }, "retention"},
		{"bad schedule", func(c *Config) { c.Deliveries.PruneSchedule = "every tuesday" }, "prune_schedule"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
