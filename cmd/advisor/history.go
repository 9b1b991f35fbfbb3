package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lox/blackjack-advisor/internal/display"
	"github.com/lox/blackjack-advisor/internal/fileutil"
	"github.com/lox/blackjack-advisor/internal/history"
	"github.com/lox/blackjack-advisor/internal/statistics"
)

// HistoryCmd is the root command for archived statistics.
type HistoryCmd struct {
	List    HistoryListCmd    `cmd:"" default:"1" help:"List archived snapshots, newest first"`
	Summary HistorySummaryCmd `cmd:"" help:"Aggregate every archived snapshot"`
	Delete  HistoryDeleteCmd  `cmd:"" help:"Delete one snapshot"`
	Clear   HistoryClearCmd   `cmd:"" help:"Delete every snapshot"`
	Export  HistoryExportCmd  `cmd:"" help:"Export snapshots as a JSON array"`
	Import  HistoryImportCmd  `cmd:"" help:"Import snapshots from a JSON array"`
}

// withHistory loads configuration, opens the history store and runs fn.
func withHistory(g *Globals, fn func(ctx context.Context, st history.Store) error) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, g.level(cfg))

	ctx, cancel := signalContext(logger)
	defer cancel()

	st, err := openHistory(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Failed to close history", "error", err)
		}
	}()
	return fn(ctx, st)
}

type HistoryListCmd struct {
	Limit int `short:"n" help:"Show at most this many snapshots (0 = all)"`
}

func (c *HistoryListCmd) Run(g *Globals) error {
	return withHistory(g, func(ctx context.Context, st history.Store) error {
		snapshots, err := st.List(ctx)
		if err != nil {
			return err
		}
		if len(snapshots) == 0 {
			_, err := fmt.Fprintln(g.Out(), "No statistics archived yet")
			return err
		}
		if c.Limit > 0 && c.Limit < len(snapshots) {
			snapshots = snapshots[:c.Limit]
		}
		for _, s := range snapshots {
			if _, err := fmt.Fprintln(g.Out(), snapshotLine(s)); err != nil {
				return err
			}
		}
		return nil
	})
}

func snapshotLine(s statistics.Snapshot) string {
	return fmt.Sprintf("#%-4d %-24s %4d games  %d-%d-%d  %6s%%  %s",
		s.ID, s.Datetime, s.GamesPlayed, s.Wins, s.Losses, s.Pushes,
		s.WinRate, display.MoneyStyle(s.TotalProfit).Render(display.SignedMoney(s.TotalProfit)))
}

type HistorySummaryCmd struct{}

func (c *HistorySummaryCmd) Run(g *Globals) error {
	return withHistory(g, func(ctx context.Context, st history.Store) error {
		sum, err := history.Summary(ctx, st)
		if err != nil {
			return err
		}
		lines := []string{
			display.Field("Snapshots", fmt.Sprint(sum.TotalRecords)),
			display.Field("Games", fmt.Sprintf("%d (%d-%d)", sum.TotalGames, sum.TotalWins, sum.TotalLosses)),
			display.Field("Win rate", display.WinRate(sum.OverallWinRate)),
			display.Field("Profit", display.MoneyStyle(sum.TotalProfit).Render(display.SignedMoney(sum.TotalProfit))),
		}
		if sum.TotalRecords > 0 {
			lines = append(lines,
				display.Field("Oldest", sum.OldestRecord),
				display.Field("Newest", sum.NewestRecord))
		}
		_, err = fmt.Fprintln(g.Out(), strings.Join(lines, "\n"))
		return err
	})
}

type HistoryDeleteCmd struct {
	ID int64 `arg:"" help:"Snapshot id"`
}

func (c *HistoryDeleteCmd) Run(g *Globals) error {
	return withHistory(g, func(ctx context.Context, st history.Store) error {
		if err := st.Delete(ctx, c.ID); err != nil {
			if errors.Is(err, history.ErrNotFound) {
				return fmt.Errorf("snapshot #%d: %w", c.ID, err)
			}
			return err
		}
		_, err := fmt.Fprintf(g.Out(), "Deleted snapshot #%d\n", c.ID)
		return err
	})
}

type HistoryClearCmd struct {
	Yes bool `short:"y" help:"Confirm deleting every snapshot"`
}

func (c *HistoryClearCmd) Run(g *Globals) error {
	if !c.Yes {
		return errors.New("refusing to clear history without --yes")
	}
	return withHistory(g, func(ctx context.Context, st history.Store) error {
		if err := st.Clear(ctx); err != nil {
			return err
		}
		_, err := fmt.Fprintln(g.Out(), "History cleared")
		return err
	})
}

type HistoryExportCmd struct {
	File string `arg:"" optional:"" help:"Output file, \"-\" for stdout (default blackjack-stats-<date>.json)"`
}

func (c *HistoryExportCmd) Run(g *Globals) error {
	return withHistory(g, func(ctx context.Context, st history.Store) error {
		if c.File == "-" {
			_, err := history.Export(ctx, st, g.Out())
			return err
		}

		var buf bytes.Buffer
		n, err := history.Export(ctx, st, &buf)
		if err != nil {
			return err
		}
		path := c.File
		if path == "" {
			path = history.ExportFilename(time.Now())
		}
		if err := fileutil.WriteFileAtomic(filepath.Clean(path), buf.Bytes(), 0o644); err != nil {
			return err
		}
		_, err = fmt.Fprintf(g.Out(), "Exported %d snapshots to %s\n", n, path)
		return err
	})
}

type HistoryImportCmd struct {
	File string `arg:"" help:"JSON file to import, \"-\" for stdin"`
}

func (c *HistoryImportCmd) Run(g *Globals) error {
	return withHistory(g, func(ctx context.Context, st history.Store) error {
		var r io.Reader = os.Stdin
		if c.File != "-" {
			f, err := os.Open(filepath.Clean(c.File))
			if err != nil {
				return err
			}
			defer f.Close()
			r = f
		}

		n, err := history.Import(ctx, st, r)
		if err != nil {
			return fmt.Errorf("import %s: %w", c.File, err)
		}
		_, err = fmt.Fprintf(g.Out(), "Imported %d snapshots\n", n)
		return err
	})
}
