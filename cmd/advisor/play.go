package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lox/blackjack-advisor/internal/command"
	"github.com/lox/blackjack-advisor/internal/history"
	"github.com/lox/blackjack-advisor/internal/session"
	"github.com/lox/blackjack-advisor/internal/store"
	"github.com/lox/blackjack-advisor/internal/tui"
)

// PlayCmd runs the interactive advisor on a saved session.
type PlayCmd struct {
	Session string `short:"s" default:"default" help:"Name of the saved session to resume"`
}

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}

	logFile, err := openLogFile(cfg.LogPath())
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	logger := newLogger(logFile, g.level(cfg)).WithPrefix("advisor")
	logger.Info("Starting interactive advisor", "session", c.Session, "decks", cfg.Shoe.Decks)

	ctx, cancel := signalContext(logger)
	defer cancel()

	// Advice never depends on history; run without it if the store is down.
	var hist history.Store
	if hist, err = openHistory(ctx, cfg, logger); err != nil {
		logger.Warn("History unavailable, statistics will not be archived", "error", err)
	} else {
		defer func() { _ = hist.Close() }()
	}

	sessions := store.NewDirStore(cfg.SessionDir(), logger)
	state, found := sessions.Load(c.Session, cfg.SessionOptions())
	logger.Info("Loaded session", "session", c.Session, "resumed", found)

	save := func(s *session.State) error {
		return sessions.Save(c.Session, s)
	}
	model := tui.New(state, command.NewExecutor(hist, nil, logger), save, logger)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("advisor: %w", err)
	}

	if err := save(state); err != nil {
		logger.Error("Failed to save session on exit", "error", err)
		return err
	}
	logger.Info("Advisor closed", "session", c.Session)
	return nil
}
