// Package history archives statistics snapshots taken when a session's
// statistics are reset, and exports or imports them as JSON.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/blackjack-advisor/internal/statistics"
)

var (
	// ErrNotFound is returned when deleting a snapshot that does not exist.
	ErrNotFound = errors.New("snapshot not found")
	// ErrInvalidImport is returned by Import for documents that are not a
	// JSON array of snapshots.
	ErrInvalidImport = errors.New("invalid file format: expected a JSON array of snapshots")
)

// Store is a durable collection of snapshots. IDs are assigned by the store.
type Store interface {
	// Insert stores a snapshot, ignoring its ID, and returns the new ID.
	Insert(ctx context.Context, s statistics.Snapshot) (int64, error)
	// InsertBatch stores all snapshots or none.
	InsertBatch(ctx context.Context, snapshots []statistics.Snapshot) (int, error)
	// List returns every snapshot, newest first.
	List(ctx context.Context) ([]statistics.Snapshot, error)
	Delete(ctx context.Context, id int64) error
	Clear(ctx context.Context) error
	Close() error
}

// Drivers accepted by Open.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Open connects to the store named by driver.
func Open(ctx context.Context, driver, dsn string, logger *log.Logger) (Store, error) {
	logger = logger.WithPrefix("history")
	switch driver {
	case DriverSQLite, "":
		logger.Debug("Opening SQLite history", "path", dsn)
		st, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return st, nil
	case DriverPostgres:
		logger.Debug("Connecting to PostgreSQL history")
		st, err := OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return st, nil
	case DriverMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown history driver %q", driver)
}

// Archive snapshots stats at now and stores it.
func Archive(ctx context.Context, st Store, stats statistics.Stats, now time.Time) (statistics.Snapshot, error) {
	snap := statistics.NewSnapshot(stats, now)
	id, err := st.Insert(ctx, snap)
	if err != nil {
		return snap, fmt.Errorf("archive statistics: %w", err)
	}
	snap.ID = id
	return snap, nil
}

// Summary aggregates every stored snapshot.
func Summary(ctx context.Context, st Store) (statistics.Summary, error) {
	snapshots, err := st.List(ctx)
	if err != nil {
		return statistics.Summary{}, err
	}
	return statistics.Summarize(snapshots), nil
}

// Export writes every snapshot, newest first, as an indented JSON array.
func Export(ctx context.Context, st Store, w io.Writer) (int, error) {
	snapshots, err := st.List(ctx)
	if err != nil {
		return 0, err
	}
	if snapshots == nil {
		snapshots = []statistics.Snapshot{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshots); err != nil {
		return 0, fmt.Errorf("encode export: %w", err)
	}
	return len(snapshots), nil
}

// Import reads a JSON array of snapshots and stores them with fresh IDs.
// Nothing is stored if the document is not an array of snapshots.
func Import(ctx context.Context, st Store, r io.Reader) (int, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	var snapshots []statistics.Snapshot
	if err := json.Unmarshal(raw, &snapshots); err != nil || snapshots == nil {
		return 0, ErrInvalidImport
	}
	for i := range snapshots {
		snapshots[i].ID = 0
	}
	return st.InsertBatch(ctx, snapshots)
}

// ExportFilename is the default file name for an export taken at now.
func ExportFilename(now time.Time) string {
	return "blackjack-stats-" + now.UTC().Format(statistics.DateLayout) + ".json"
}
