package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/lox/blackjack-advisor/internal/statistics"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS stats_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp INTEGER NOT NULL,
	date TEXT NOT NULL,
	time TEXT NOT NULL,
	datetime TEXT NOT NULL,
	games_played INTEGER NOT NULL DEFAULT 0,
	wins INTEGER NOT NULL DEFAULT 0,
	losses INTEGER NOT NULL DEFAULT 0,
	pushes INTEGER NOT NULL DEFAULT 0,
	total_profit REAL NOT NULL DEFAULT 0,
	win_rate TEXT NOT NULL DEFAULT '0.0'
);

CREATE INDEX IF NOT EXISTS idx_stats_history_timestamp ON stats_history(timestamp);
CREATE INDEX IF NOT EXISTS idx_stats_history_date ON stats_history(date);
`

const snapshotColumns = `timestamp, date, time, datetime, games_played, wins, losses, pushes, total_profit, win_rate`

// SQLiteStore keeps snapshots in a SQLite database file.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite history needs a database path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A single connection serialises writers and keeps :memory: databases
	// from splitting across connections.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, snap statistics.Snapshot) (int64, error) {
	return insertSnapshot(ctx, s.db, snap)
}

func (s *SQLiteStore) InsertBatch(ctx context.Context, snapshots []statistics.Snapshot) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	for _, snap := range snapshots {
		if _, err := insertSnapshot(ctx, tx, snap); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(snapshots), nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertSnapshot(ctx context.Context, db execer, snap statistics.Snapshot) (int64, error) {
	res, err := db.ExecContext(ctx,
		`INSERT INTO stats_history (`+snapshotColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.Timestamp, snap.Date, snap.Time, snap.Datetime,
		snap.GamesPlayed, snap.Wins, snap.Losses, snap.Pushes, snap.TotalProfit, string(snap.WinRate),
	)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLiteStore) List(ctx context.Context) ([]statistics.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, `+snapshotColumns+` FROM stats_history ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var out []statistics.Snapshot
	for rows.Next() {
		var snap statistics.Snapshot
		var winRate string
		if err := rows.Scan(&snap.ID, &snap.Timestamp, &snap.Date, &snap.Time, &snap.Datetime,
			&snap.GamesPlayed, &snap.Wins, &snap.Losses, &snap.Pushes, &snap.TotalProfit, &winRate); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.WinRate = statistics.Percent(winRate)
		out = append(out, snap)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM stats_history WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete snapshot %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM stats_history`); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
