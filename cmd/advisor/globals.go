package main

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"

	"github.com/lox/blackjack-advisor/internal/config"
	"github.com/lox/blackjack-advisor/internal/history"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config  string   `short:"c" default:"advisor.hcl" help:"Path to HCL configuration file"`
	EnvFile []string `name:"env-file" default:".env" help:"Dotenv files to load before reading ADVISOR_* variables"`
	Debug   bool     `help:"Enable debug logging"`
	NoColor bool     `name:"no-color" help:"Disable colored output"`

	out io.Writer `kong:"-"`
}

// Out is where commands print their results.
func (g *Globals) Out() io.Writer {
	if g.out == nil {
		return os.Stdout
	}
	return g.out
}

// load reads configuration from .env files, the HCL file and the
// environment, in that order.
func (g *Globals) load() (*config.Config, error) {
	if g.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	if err := config.LoadDotEnv(g.EnvFile...); err != nil {
		return nil, err
	}
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (g *Globals) level(cfg *config.Config) log.Level {
	if g.Debug {
		return log.DebugLevel
	}
	return cfg.LogLevel()
}

// openHistory connects to the configured history store.
func openHistory(ctx context.Context, cfg *config.Config, logger *log.Logger) (history.Store, error) {
	return history.Open(ctx, cfg.History.Driver, cfg.HistoryDSN(), logger)
}
