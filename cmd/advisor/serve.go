package main

import (
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/lox/blackjack-advisor/internal/history"
	"github.com/lox/blackjack-advisor/internal/server"
	"github.com/lox/blackjack-advisor/internal/store"
)

// ServeCmd runs the multi-session advisory server.
type ServeCmd struct {
	Addr string `short:"a" help:"Server address to bind to (overrides config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	addr := cfg.ListenAddr()
	if c.Addr != "" {
		addr = c.Addr
	}

	logger := newLogger(os.Stderr, g.level(cfg))
	ctx, cancel := signalContext(logger)
	defer cancel()

	var hist history.Store
	if hist, err = openHistory(ctx, cfg, logger); err != nil {
		logger.Warn("History unavailable, history API disabled", "error", err)
	} else {
		defer func() { _ = hist.Close() }()
	}

	sessions := server.NewManager(
		store.NewDirStore(cfg.SessionDir(), logger),
		cfg.SessionOptions(),
		cfg.IdleTimeout(),
		nil,
		logger,
	)
	srv := server.NewServer(server.Config{
		Addr:     addr,
		Sessions: sessions,
		History:  hist,
	}, logger)

	logger.Info("Starting advisor server",
		"addr", addr,
		"decks", cfg.Shoe.Decks,
		"sessions", cfg.SessionDir(),
		"history", cfg.History.Driver,
		"idleTimeout", cfg.IdleTimeout())

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return srv.Run(ctx) })
	group.Go(func() error { return sessions.Run(ctx) })
	return group.Wait()
}
