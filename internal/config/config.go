// Package config loads advisor settings from an HCL file, a .env file and
// ADVISOR_* environment variables, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/joho/godotenv"

	"github.com/lox/blackjack-advisor/internal/counting"
	"github.com/lox/blackjack-advisor/internal/history"
	"github.com/lox/blackjack-advisor/internal/session"
)

// Config is the complete advisor configuration. Every block is optional.
type Config struct {
	Shoe    *ShoeSettings    `hcl:"shoe,block"`
	Session *SessionSettings `hcl:"session,block"`
	History *HistorySettings `hcl:"history,block"`
	Server  *ServerSettings  `hcl:"server,block"`
	Log     *LogSettings     `hcl:"log,block"`
}

type ShoeSettings struct {
	Decks int `hcl:"decks,optional"`
}

type SessionSettings struct {
	Bankroll        float64 `hcl:"bankroll,optional"`
	Bet             int     `hcl:"bet,optional"`
	UseSuggestedBet bool    `hcl:"use_suggested_bet,optional"`
	StateDir        string  `hcl:"state_dir,optional"`
}

// HistorySettings selects the snapshot store. An empty sqlite DSN means
// history.db inside the state directory.
type HistorySettings struct {
	Driver string `hcl:"driver,optional"`
	DSN    string `hcl:"dsn,optional"`
}

type ServerSettings struct {
	Address            string `hcl:"address,optional"`
	Port               int    `hcl:"port,optional"`
	IdleTimeoutSeconds int    `hcl:"idle_timeout_seconds,optional"`
}

type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// DefaultStateDir is where sessions and the SQLite history live by default.
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".blackjack-advisor"
	}
	return filepath.Join(home, ".blackjack-advisor")
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Shoe: &ShoeSettings{Decks: counting.DefaultDecks},
		Session: &SessionSettings{
			Bankroll: session.DefaultBankroll,
			Bet:      session.DefaultBet,
			StateDir: DefaultStateDir(),
		},
		History: &HistorySettings{Driver: history.DriverSQLite},
		Server: &ServerSettings{
			Address:            "localhost",
			Port:               8080,
			IdleTimeoutSeconds: 1800,
		},
		Log: &LogSettings{
			Level: "info",
			File:  "advisor.log",
		},
	}
}

// Load reads the HCL file at filename. A missing file yields DefaultConfig;
// missing blocks and zero fields take their defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	d := DefaultConfig()

	if c.Shoe == nil {
		c.Shoe = d.Shoe
	}
	if c.Shoe.Decks == 0 {
		c.Shoe.Decks = d.Shoe.Decks
	}

	if c.Session == nil {
		c.Session = d.Session
	}
	if c.Session.Bankroll == 0 {
		c.Session.Bankroll = d.Session.Bankroll
	}
	if c.Session.Bet == 0 {
		c.Session.Bet = d.Session.Bet
	}
	if c.Session.StateDir == "" {
		c.Session.StateDir = d.Session.StateDir
	}

	if c.History == nil {
		c.History = d.History
	}
	if c.History.Driver == "" {
		c.History.Driver = d.History.Driver
	}

	if c.Server == nil {
		c.Server = d.Server
	}
	if c.Server.Address == "" {
		c.Server.Address = d.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.IdleTimeoutSeconds == 0 {
		c.Server.IdleTimeoutSeconds = d.Server.IdleTimeoutSeconds
	}

	if c.Log == nil {
		c.Log = d.Log
	}
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.File == "" {
		c.Log.File = d.Log.File
	}
}

// LoadDotEnv loads KEY=value pairs from files into the process environment
// without overriding variables that are already set. Missing files are
// skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from ADVISOR_* variables found by lookup,
// usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("ADVISOR_DECKS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ADVISOR_DECKS: %w", err)
		}
		c.Shoe.Decks = n
	}
	if v, ok := lookup("ADVISOR_STATE_DIR"); ok && v != "" {
		c.Session.StateDir = v
	}
	if v, ok := lookup("ADVISOR_HISTORY_DRIVER"); ok && v != "" {
		c.History.Driver = v
	}
	if v, ok := lookup("ADVISOR_HISTORY_DSN"); ok {
		c.History.DSN = v
	}
	if v, ok := lookup("ADVISOR_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("ADVISOR_ADDRESS"); ok && v != "" {
		host, port, err := net.SplitHostPort(v)
		if err != nil {
			c.Server.Address = v
			return nil
		}
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("ADVISOR_ADDRESS: invalid port %q", port)
		}
		c.Server.Address = host
		c.Server.Port = p
	}
	return nil
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Shoe.Decks < 1 {
		return fmt.Errorf("shoe decks must be at least 1")
	}
	if c.Session.Bankroll < 0 {
		return fmt.Errorf("bankroll cannot be negative")
	}
	if c.Session.Bet < 1 {
		return fmt.Errorf("bet must be at least 1")
	}
	switch c.History.Driver {
	case history.DriverSQLite, history.DriverMemory:
	case history.DriverPostgres:
		if c.History.DSN == "" {
			return fmt.Errorf("postgres history requires a dsn")
		}
	default:
		return fmt.Errorf("unknown history driver %q", c.History.Driver)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535")
	}
	if c.Server.IdleTimeoutSeconds < 1 {
		return fmt.Errorf("idle timeout must be positive")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// SessionOptions returns the settings for a fresh session.
func (c *Config) SessionOptions() session.Options {
	return session.Options{
		Decks:           c.Shoe.Decks,
		Bankroll:        c.Session.Bankroll,
		Bet:             c.Session.Bet,
		UseSuggestedBet: c.Session.UseSuggestedBet,
	}
}

// HistoryDSN returns the history data source, defaulting SQLite to a file in
// the state directory.
func (c *Config) HistoryDSN() string {
	if c.History.DSN == "" && (c.History.Driver == history.DriverSQLite || c.History.Driver == "") {
		return filepath.Join(c.Session.StateDir, "history.db")
	}
	return c.History.DSN
}

// SessionDir is where session documents are stored.
func (c *Config) SessionDir() string {
	return filepath.Join(c.Session.StateDir, "sessions")
}

// LogPath is the interactive log file. Relative paths are resolved against
// the state directory.
func (c *Config) LogPath() string {
	if filepath.IsAbs(c.Log.File) {
		return c.Log.File
	}
	return filepath.Join(c.Session.StateDir, c.Log.File)
}

// ListenAddr returns the server's host:port.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}

// IdleTimeout is how long a server session may sit unused before eviction.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeoutSeconds) * time.Second
}

// LogLevel returns the parsed log level, info if unparseable.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
