package history

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lox/blackjack-advisor/internal/statistics"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS stats_history (
	id BIGSERIAL PRIMARY KEY,
	timestamp BIGINT NOT NULL,
	date TEXT NOT NULL,
	time TEXT NOT NULL,
	datetime TEXT NOT NULL,
	games_played INTEGER NOT NULL DEFAULT 0,
	wins INTEGER NOT NULL DEFAULT 0,
	losses INTEGER NOT NULL DEFAULT 0,
	pushes INTEGER NOT NULL DEFAULT 0,
	total_profit DOUBLE PRECISION NOT NULL DEFAULT 0,
	win_rate TEXT NOT NULL DEFAULT '0.0'
);

CREATE INDEX IF NOT EXISTS idx_stats_history_timestamp ON stats_history(timestamp);
`

const insertSQL = `INSERT INTO stats_history (` + snapshotColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`

// PostgresStore keeps snapshots in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects to the database at url and ensures the table exists.
func OpenPostgres(ctx context.Context, url string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	config.MaxConns = 4
	config.MaxConnIdleTime = 5 * time.Minute
	config.ConnConfig.RuntimeParams["application_name"] = "blackjack-advisor"

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func insertArgs(snap statistics.Snapshot) []any {
	return []any{
		snap.Timestamp, snap.Date, snap.Time, snap.Datetime,
		snap.GamesPlayed, snap.Wins, snap.Losses, snap.Pushes, snap.TotalProfit, string(snap.WinRate),
	}
}

func (p *PostgresStore) Insert(ctx context.Context, snap statistics.Snapshot) (int64, error) {
	var id int64
	if err := p.pool.QueryRow(ctx, insertSQL, insertArgs(snap)...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	return id, nil
}

func (p *PostgresStore) InsertBatch(ctx context.Context, snapshots []statistics.Snapshot) (int, error) {
	if len(snapshots) == 0 {
		return 0, nil
	}
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, snap := range snapshots {
			batch.Queue(insertSQL, insertArgs(snap)...)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return 0, fmt.Errorf("import snapshots: %w", err)
	}
	return len(snapshots), nil
}

func (p *PostgresStore) List(ctx context.Context) ([]statistics.Snapshot, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT id, `+snapshotColumns+` FROM stats_history ORDER BY timestamp DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (statistics.Snapshot, error) {
		var snap statistics.Snapshot
		var winRate string
		err := row.Scan(&snap.ID, &snap.Timestamp, &snap.Date, &snap.Time, &snap.Datetime,
			&snap.GamesPlayed, &snap.Wins, &snap.Losses, &snap.Pushes, &snap.TotalProfit, &winRate)
		snap.WinRate = statistics.Percent(winRate)
		return snap, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan snapshots: %w", err)
	}
	return out, nil
}

func (p *PostgresStore) Delete(ctx context.Context, id int64) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM stats_history WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *PostgresStore) Clear(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM stats_history`); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	return nil
}

func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
