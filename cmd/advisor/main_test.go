package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack-advisor/internal/deck"
	"github.com/lox/blackjack-advisor/internal/history"
)

// run executes the CLI with args against an empty state directory.
func run(t *testing.T, stateDir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ADVISOR_STATE_DIR", stateDir)
	t.Setenv("ADVISOR_HISTORY_DRIVER", "sqlite")

	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("advisor"),
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
		kong.Vars{"version": "test"},
	)
	require.NoError(t, err)

	base := []string{
		"--config", filepath.Join(stateDir, "missing.hcl"),
		"--env-file", filepath.Join(stateDir, "missing.env"),
		"--no-color",
	}
	ctx, err := parser.Parse(append(base, args...))
	require.NoError(t, err)

	var out bytes.Buffer
	cli.Globals.out = &out
	err = ctx.Run(&cli.Globals)
	return out.String(), err
}

func TestAdviseBlackjackWithInsurance(t *testing.T) {
	out, err := run(t, t.TempDir(), "advise", "--player", "A,K", "--dealer", "A", "--running", "20", "--dealt", "108")
	require.NoError(t, err)

	assert.Contains(t, out, "Player: A K (blackjack 21)")
	assert.Contains(t, out, "BLACKJACK! 🎉")
	assert.Contains(t, out, "BUY INSURANCE 🛡️")
	assert.Contains(t, out, "True count: 3.3")
}

func TestAdviseCountDeviation(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "advise", "-p", "10 6", "-u", "10", "-r", "6", "-n", "108")
	require.NoError(t, err)
	assert.Contains(t, out, "STAND")

	out, err = run(t, dir, "advise", "-p", "10 6", "-u", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "HIT")
}

func TestAdviseUsesDeckFlag(t *testing.T) {
	out, err := run(t, t.TempDir(), "advise", "-p", "9 7", "-u", "5", "--decks", "1", "-r", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "True count: 3.0")
	assert.Contains(t, out, "4 units (Positive count - bet 4x)")
}

func TestAdviseRejectsBadCards(t *testing.T) {
	_, err := run(t, t.TempDir(), "advise", "-p", "A,Z", "-u", "5")
	assert.ErrorIs(t, err, deck.ErrUnknownRank)

	_, err = run(t, t.TempDir(), "advise", "-p", "A,5", "-u", "11")
	assert.ErrorIs(t, err, deck.ErrUnknownRank)
}

func TestCount(t *testing.T) {
	out, err := run(t, t.TempDir(), "count", "--running", "10", "--dealt", "108")
	require.NoError(t, err)

	assert.Contains(t, out, "Running count: +10")
	assert.Contains(t, out, "Cards dealt: 108 of 432")
	assert.Contains(t, out, "Decks remaining: 6.0")
	assert.Contains(t, out, "True count: 1.7")
	assert.Contains(t, out, "2 units (Slightly positive - bet 2x)")
}

func TestCountRejectsNegativeDealt(t *testing.T) {
	_, err := run(t, t.TempDir(), "count", "--dealt=-1")
	assert.Error(t, err)
}

func TestHistoryCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No statistics archived yet")

	doc := `[
  {"id": 9, "timestamp": 1710000000000, "date": "2024-03-09", "time": "16:00:00",
   "datetime": "3/9/2024, 4:00:00 PM", "gamesPlayed": 4, "wins": 3, "losses": 1,
   "pushes": 0, "totalProfit": 25, "winRate": "75.0"}
]`
	importFile := filepath.Join(dir, "import.json")
	require.NoError(t, os.WriteFile(importFile, []byte(doc), 0o644))

	out, err = run(t, dir, "history", "import", importFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 snapshots")

	out, err = run(t, dir, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "#1 ")
	assert.Contains(t, out, "3/9/2024, 4:00:00 PM")
	assert.Contains(t, out, "+$25.00")

	out, err = run(t, dir, "history", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Win rate: 75.0%")

	exportFile := filepath.Join(dir, "export.json")
	out, err = run(t, dir, "history", "export", exportFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 1 snapshots")
	data, err := os.ReadFile(exportFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"winRate": "75.0"`)

	_, err = run(t, dir, "history", "clear")
	assert.Error(t, err)

	out, err = run(t, dir, "history", "delete", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted snapshot #1")

	_, err = run(t, dir, "history", "delete", "1")
	assert.ErrorIs(t, err, history.ErrNotFound)

	_, err = run(t, dir, "history", "import", exportFile)
	require.NoError(t, err)
	out, err = run(t, dir, "history", "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "History cleared")
}

func TestInvalidConfig(t *testing.T) {
	t.Setenv("ADVISOR_DECKS", "0")
	_, err := run(t, t.TempDir(), "count")
	assert.Error(t, err)
}
