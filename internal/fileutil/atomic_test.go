package fileutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")

	require.NoError(t, WriteFileAtomic(path, []byte("first"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("second"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "session.json", entries[0].Name())
}

func TestWriteFileAtomicMissingDir(t *testing.T) {
	t.Parallel()

	err := WriteFileAtomic(filepath.Join(t.TempDir(), "missing", "x.json"), []byte("x"), 0o644)
	assert.Error(t, err)
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	type doc struct {
		Bankroll float64 `json:"bankroll"`
		Bet      int     `json:"currentBet"`
	}

	path := filepath.Join(t.TempDir(), "nested", "state.json")
	require.NoError(t, WriteJSONAtomic(path, doc{Bankroll: 1015, Bet: 10}))

	var got doc
	require.NoError(t, ReadJSON(path, &got))
	assert.Equal(t, doc{Bankroll: 1015, Bet: 10}, got)
}

func TestReadJSONErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var v map[string]any

	err := ReadJSON(filepath.Join(dir, "absent.json"), &v)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	err = ReadJSON(bad, &v)
	require.Error(t, err)
	assert.NotErrorIs(t, err, fs.ErrNotExist)
}
