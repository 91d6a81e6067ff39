package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV_WritesHeadersAndRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	require.NoError(t, err)

	exitTime := time.Date(2024, 6, 5, 15, 15, 0, 0, time.UTC)
	require.NoError(t, j.RecordTrade(testTrade("T1", exitTime, 500)))
	require.NoError(t, j.RecordEquity(EquitySnapshot{
		Time:          exitTime,
		Capital:       100500,
		UnrealizedPnL: 0,
		DailyPnL:      500,
		OpenPositions: 0,
	}))
	require.NoError(t, j.Close())

	rows := readCSV(t, tradesPath)
	require.Len(t, rows, 2)
	assert.Equal(t, "trade_id", rows[0][0])
	assert.Equal(t, "T1", rows[1][0])
	assert.Equal(t, "RELIANCE", rows[1][1])
	assert.Equal(t, "BREAKOUT", rows[1][2])
	assert.Equal(t, "10", rows[1][3])
	assert.Equal(t, "500.00", rows[1][8])
	assert.Equal(t, "TARGET_ACHIEVED", rows[1][9])

	equity := readCSV(t, equityPath)
	require.Len(t, equity, 2)
	assert.Equal(t, "100500.00", equity[1][1])
	assert.Equal(t, "0", equity[1][4])
}

func TestCSV_FlushesPerRecord(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")

	j, err := NewCSV(tradesPath, filepath.Join(dir, "equity.csv"))
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.RecordTrade(testTrade("T1", time.Now().UTC(), 100)))

	// Visible on disk before Close.
	rows := readCSV(t, tradesPath)
	assert.Len(t, rows, 2)
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
