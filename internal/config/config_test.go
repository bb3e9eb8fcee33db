package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"HEDGER_BASE_URL", "HEDGER_API_KEY", "TELEGRAM_BOT_TOKEN",
		"TELEGRAM_CHAT_ID", "HTTPS_PROXY", "HEDGER_CURRENCY"} {
		t.Setenv(k, "")
	}
	// SQLITE_PATH is honoured even when empty, so make sure it is unset.
	if v, ok := os.LookupEnv("SQLITE_PATH"); ok {
		os.Unsetenv("SQLITE_PATH")
		t.Cleanup(func() { os.Setenv("SQLITE_PATH", v) })
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 2.0, cfg.DataSource.RequestsPerSecond)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, 2, cfg.Telegram.MaxRetries)
	assert.Empty(t, cfg.Database.SQLitePath)
	assert.False(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
data_source:
  base_url: http://bars.local
  requests_per_second: 5
yahoo:
  aliases:
    oil: CL=F
telegram:
  bot_token: file-token
  chat_id: "100"
database:
  sqlite_path: data/runs.db
currency: eur
`), 0o644))

	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("SQLITE_PATH", "/tmp/other.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://bars.local", cfg.DataSource.BaseURL)
	assert.Equal(t, 5.0, cfg.DataSource.RequestsPerSecond)
	assert.Equal(t, "CL=F", cfg.Yahoo.Aliases["oil"])
	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.Equal(t, "/tmp/other.db", cfg.Database.SQLitePath)
	assert.Equal(t, "EUR", cfg.Currency)
	assert.True(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("data_source: [oops"), 0o644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{Currency: "USD"}
		c.DataSource.RequestsPerSecond = 1
		return c
	}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative rps", func(c *Config) { c.DataSource.RequestsPerSecond = -1 }},
		{"api key without url", func(c *Config) { c.DataSource.APIKey = "k" }},
		{"token without chat", func(c *Config) { c.Telegram.BotToken = "t" }},
		{"negative retries", func(c *Config) { c.Telegram.MaxRetries = -1 }},
		{"bad currency", func(c *Config) { c.Currency = "DOLLAR" }},
	}
	require.NoError(t, valid().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoad_CurrencyFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("HEDGER_CURRENCY", "chf")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "CHF", cfg.Currency)
}
