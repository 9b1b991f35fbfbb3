package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack-advisor/internal/session"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "advisor.hcl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadPartialFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
shoe {
  decks = 6
}

session {
  bet               = 5
  use_suggested_bet = true
  state_dir         = "/var/lib/advisor"
}

server {
  port = 9090
}
`))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 6, cfg.Shoe.Decks)
	assert.Equal(t, 5, cfg.Session.Bet)
	assert.Equal(t, float64(session.DefaultBankroll), cfg.Session.Bankroll)
	assert.True(t, cfg.Session.UseSuggestedBet)
	assert.Equal(t, "localhost:9090", cfg.ListenAddr())
	assert.Equal(t, 30*time.Minute, cfg.IdleTimeout())
	assert.Equal(t, "sqlite", cfg.History.Driver)
	assert.Equal(t, "/var/lib/advisor/history.db", cfg.HistoryDSN())
	assert.Equal(t, "/var/lib/advisor/sessions", cfg.SessionDir())
	assert.Equal(t, "/var/lib/advisor/advisor.log", cfg.LogPath())
	assert.Equal(t, log.InfoLevel, cfg.LogLevel())

	assert.Equal(t, session.Options{Decks: 6, Bankroll: 1000, Bet: 5, UseSuggestedBet: true}, cfg.SessionOptions())
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load(writeConfig(t, `shoe { decks = `))
	assert.ErrorContains(t, err, "failed to parse HCL file")

	_, err = Load(writeConfig(t, `shoe { decks = "many" }`))
	assert.ErrorContains(t, err, "failed to decode HCL")

	_, err = Load(writeConfig(t, `table { seats = 6 }`))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{
		"ADVISOR_DECKS":          "2",
		"ADVISOR_STATE_DIR":      "/tmp/advisor",
		"ADVISOR_HISTORY_DRIVER": "postgres",
		"ADVISOR_HISTORY_DSN":    "postgres://localhost/advisor",
		"ADVISOR_LOG_LEVEL":      "debug",
		"ADVISOR_ADDRESS":        "0.0.0.0:7000",
	})))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2, cfg.Shoe.Decks)
	assert.Equal(t, "/tmp/advisor", cfg.Session.StateDir)
	assert.Equal(t, "postgres://localhost/advisor", cfg.HistoryDSN())
	assert.Equal(t, log.DebugLevel, cfg.LogLevel())
	assert.Equal(t, "0.0.0.0:7000", cfg.ListenAddr())

	cfg = DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(envMap(map[string]string{"ADVISOR_ADDRESS": "example.test"})))
	assert.Equal(t, "example.test:8080", cfg.ListenAddr())

	assert.Error(t, DefaultConfig().ApplyEnv(envMap(map[string]string{"ADVISOR_DECKS": "eight"})))
	assert.Error(t, DefaultConfig().ApplyEnv(envMap(map[string]string{"ADVISOR_ADDRESS": "host:http"})))
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADVISOR_TEST_DOTENV=from-file\n"), 0o644))
	t.Setenv("ADVISOR_TEST_DOTENV", "")
	os.Unsetenv("ADVISOR_TEST_DOTENV")

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path))
	assert.Equal(t, "from-file", os.Getenv("ADVISOR_TEST_DOTENV"))

	t.Setenv("ADVISOR_TEST_DOTENV", "from-env")
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-env", os.Getenv("ADVISOR_TEST_DOTENV"), "existing variables win")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero decks", func(c *Config) { c.Shoe.Decks = 0 }, "decks"},
		{"negative bankroll", func(c *Config) { c.Session.Bankroll = -1 }, "bankroll"},
		{"zero bet", func(c *Config) { c.Session.Bet = 0 }, "bet"},
		{"postgres without dsn", func(c *Config) { c.History.Driver = "postgres" }, "dsn"},
		{"unknown driver", func(c *Config) { c.History.Driver = "redis" }, "driver"},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "port"},
		{"bad timeout", func(c *Config) { c.Server.IdleTimeoutSeconds = -5 }, "idle timeout"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "advisor.example.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8, cfg.Shoe.Decks)
	assert.Equal(t, "localhost:8080", cfg.ListenAddr())
	assert.Equal(t, "sqlite", cfg.History.Driver)
}
