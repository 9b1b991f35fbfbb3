package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/blackjack-advisor/internal/history"
	"github.com/lox/blackjack-advisor/internal/session"
	"github.com/lox/blackjack-advisor/internal/statistics"
	"github.com/lox/blackjack-advisor/internal/store"
)

func seedHistory(t *testing.T, st history.Store, base time.Time, stats ...statistics.Stats) []int64 {
	t.Helper()
	ids := make([]int64, len(stats))
	for i, s := range stats {
		snap, err := history.Archive(context.Background(), st, s, base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
		ids[i] = snap.ID
	}
	return ids
}

func doRequest(t *testing.T, method, url, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}

func TestListHistory(t *testing.T) {
	ts := startTestServer(t)

	resp, body := doRequest(t, http.MethodGet, ts.http.URL+"/api/history", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, body)

	seedHistory(t, ts.history, ts.clock.Now(),
		statistics.Stats{GamesPlayed: 2, Wins: 1, Losses: 1},
		statistics.Stats{GamesPlayed: 4, Wins: 3, Losses: 1, TotalProfit: 2},
	)

	resp, body = doRequest(t, http.MethodGet, ts.http.URL+"/api/history", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var snapshots []statistics.Snapshot
	require.NoError(t, json.Unmarshal([]byte(body), &snapshots))
	require.Len(t, snapshots, 2)
	assert.Equal(t, 4, snapshots[0].GamesPlayed, "newest first")
	assert.Equal(t, statistics.Percent("75.0"), snapshots[0].WinRate)
}

func TestHistorySummary(t *testing.T) {
	ts := startTestServer(t)
	seedHistory(t, ts.history, ts.clock.Now(),
		statistics.Stats{GamesPlayed: 2, Wins: 1, Losses: 1, TotalProfit: -1},
		statistics.Stats{GamesPlayed: 2, Wins: 2, TotalProfit: 3},
	)

	resp, body := doRequest(t, http.MethodGet, ts.http.URL+"/api/history/summary", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var summary statistics.Summary
	require.NoError(t, json.Unmarshal([]byte(body), &summary))
	assert.Equal(t, 2, summary.TotalRecords)
	assert.Equal(t, 4, summary.TotalGames)
	assert.Equal(t, 3, summary.TotalWins)
	assert.InDelta(t, 2.0, summary.TotalProfit, 1e-9)
	assert.Equal(t, statistics.Percent("75.0"), summary.OverallWinRate)
}

func TestDeleteSnapshot(t *testing.T) {
	ts := startTestServer(t)
	ids := seedHistory(t, ts.history, ts.clock.Now(), statistics.Stats{GamesPlayed: 1, Wins: 1})

	resp, _ := doRequest(t, http.MethodDelete, fmt.Sprintf("%s/api/history/%d", ts.http.URL, ids[0]), "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodDelete, fmt.Sprintf("%s/api/history/%d", ts.http.URL, ids[0]), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, http.MethodDelete, ts.http.URL+"/api/history/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestClearHistory(t *testing.T) {
	ts := startTestServer(t)
	seedHistory(t, ts.history, ts.clock.Now(), statistics.Stats{GamesPlayed: 1}, statistics.Stats{GamesPlayed: 2})

	resp, _ := doRequest(t, http.MethodDelete, ts.http.URL+"/api/history", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	list, err := ts.history.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExportImportHistory(t *testing.T) {
	ts := startTestServer(t)
	seedHistory(t, ts.history, ts.clock.Now(),
		statistics.Stats{GamesPlayed: 3, Wins: 2, Losses: 1, TotalProfit: 1},
	)

	resp, exported := doRequest(t, http.MethodGet, ts.http.URL+"/api/history/export", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `attachment; filename="blackjack-stats-2024-03-09.json"`, resp.Header.Get("Content-Disposition"))

	other := startTestServer(t)
	resp, body := doRequest(t, http.MethodPost, other.http.URL+"/api/history/import", exported)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"imported": 1}`, body)

	list, err := other.history.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].GamesPlayed)
	assert.Equal(t, statistics.Percent("66.7"), list[0].WinRate)
}

func TestImportRejectsInvalidDocument(t *testing.T) {
	ts := startTestServer(t)

	resp, _ := doRequest(t, http.MethodPost, ts.http.URL+"/api/history/import", `{"records": []}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	list, err := ts.history.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestHistoryDisabled(t *testing.T) {
	st := store.NewDirStore(t.TempDir(), quietLogger())
	srv := NewServer(Config{
		Sessions: NewManager(st, session.Options{}, 0, nil, quietLogger()),
	}, quietLogger())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, _ := doRequest(t, http.MethodGet, ts.URL+"/api/history", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	ts := startTestServer(t)

	resp, _ := doRequest(t, http.MethodPost, ts.http.URL+"/api/history", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
